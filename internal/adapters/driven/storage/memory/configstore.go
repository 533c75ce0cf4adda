package memory

import (
	"maps"
	"sync"

	"github.com/custodia-labs/contentrag/internal/core/ports/driven"
)

var _ driven.ConfigStore = (*ConfigStore)(nil)

// ConfigStore holds settings in a map. Used by tests and by the CLI when no
// config directory is writable.
type ConfigStore struct {
	mu     sync.RWMutex
	values map[string]any
}

// NewConfigStore copies the seed maps in order; later seeds win.
func NewConfigStore(seeds ...map[string]any) *ConfigStore {
	s := &ConfigStore{values: map[string]any{}}
	for _, seed := range seeds {
		maps.Copy(s.values, seed)
	}
	return s
}

func (s *ConfigStore) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

func (s *ConfigStore) Set(key string, value any) error {
	s.mu.Lock()
	s.values[key] = value
	s.mu.Unlock()
	return nil
}

func (s *ConfigStore) Path() string { return ":memory:" }
