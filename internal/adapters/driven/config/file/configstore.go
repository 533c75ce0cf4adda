package file

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/contentrag/internal/core/ports/driven"
)

var _ driven.ConfigStore = (*ConfigStore)(nil)

// ConfigFile lives inside the config directory.
const ConfigFile = "config.toml"

// ConfigStore keeps settings in a TOML file. Dotted keys map onto tables:
// "embedding.provider" is written as provider under [embedding].
type ConfigStore struct {
	mu   sync.RWMutex
	path string
	flat map[string]any
}

// DefaultDir is ~/.contentrag.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".contentrag"), nil
}

// NewConfigStore reads dir/config.toml, creating dir (0700) as needed.
// An empty dir means DefaultDir. A missing file is an empty config.
func NewConfigStore(dir string) (*ConfigStore, error) {
	if dir == "" {
		var err error
		if dir, err = DefaultDir(); err != nil {
			return nil, err
		}
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("config dir: %w", err)
	}

	s := &ConfigStore{path: filepath.Join(dir, ConfigFile), flat: map[string]any{}}
	raw, err := os.ReadFile(s.path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return s, nil
	case err != nil:
		return nil, err
	}

	var tree map[string]any
	if err := toml.Unmarshal(raw, &tree); err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.path, err)
	}
	flatten(tree, "", s.flat)
	return s, nil
}

func (s *ConfigStore) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.flat[key]
	return v, ok
}

// Set rewrites the whole file. On a write error the in-memory value is
// rolled back.
func (s *ConfigStore) Set(key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, had := s.flat[key]
	s.flat[key] = value
	if err := s.write(); err != nil {
		if had {
			s.flat[key] = prev
		} else {
			delete(s.flat, key)
		}
		return err
	}
	return nil
}

func (s *ConfigStore) Path() string { return s.path }

// write replaces the file via a temp file and rename, mode 0600.
func (s *ConfigStore) write() error {
	raw, err := toml.Marshal(nest(s.flat))
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ConfigFile+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // gone after a successful rename

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close() //nolint:errcheck
		return err
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close() //nolint:errcheck
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}

func flatten(tree map[string]any, prefix string, into map[string]any) {
	for k, v := range tree {
		if prefix != "" {
			k = prefix + "." + k
		}
		if sub, ok := v.(map[string]any); ok {
			flatten(sub, k, into)
			continue
		}
		into[k] = v
	}
}

func nest(flat map[string]any) map[string]any {
	tree := map[string]any{}
	for key, v := range flat {
		parts := strings.Split(key, ".")
		node := tree
		for _, p := range parts[:len(parts)-1] {
			sub, ok := node[p].(map[string]any)
			if !ok {
				sub = map[string]any{}
				node[p] = sub
			}
			node = sub
		}
		node[parts[len(parts)-1]] = v
	}
	return tree
}
