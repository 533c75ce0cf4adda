package file

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/custodia-labs/contentrag/internal/core/domain"
	"github.com/custodia-labs/contentrag/internal/core/ports/driven"
	"github.com/custodia-labs/contentrag/internal/logger"
)

var _ driven.PromptStore = (*PromptStore)(nil)

var builtinPrompts = map[string]string{
	driven.PromptContentSystem:     domain.DefaultContentSystemPrompt,
	driven.PromptContentGeneration: domain.DefaultContentGenerationPrompt,
}

const promptsReadme = `# Prompts

Website content is synthesized from the templates in this directory.
Edits take effect on the next request. Delete a file to get the default back.

content_system.txt      system prompt (no placeholders)
content_generation.txt  user prompt: {{name}} {{industry}} {{audience}} {{context}}

If a reply is not a JSON object with hero, about, services, contact and pages
the fallback template is served instead.
`

// stamp identifies one version of a prompt file on disk.
type stamp struct {
	mod  int64
	size int64
}

type cachedPrompt struct {
	text string
	at   stamp
}

// PromptStore reads <dir>/<name>.txt. The directory is seeded with the
// built-in prompts on first use. A file whose mtime or size changed is
// re-read; anything unusable degrades to the built-in text.
type PromptStore struct {
	dir string

	seed    sync.Once
	seedErr error

	mu    sync.Mutex
	cache map[string]cachedPrompt
}

// NewPromptStore roots the store at dir, or ~/.contentrag/prompts when
// dir is empty. Nothing is created until the first Load.
func NewPromptStore(dir string) (*PromptStore, error) {
	if dir == "" {
		home, err := DefaultDir()
		if err != nil {
			return nil, fmt.Errorf("prompt dir: %w", err)
		}
		dir = filepath.Join(home, "prompts")
	}
	return &PromptStore{dir: dir, cache: map[string]cachedPrompt{}}, nil
}

func (s *PromptStore) Dir() string { return s.dir }

func (s *PromptStore) Load(name string) (string, error) {
	builtin, ok := builtinPrompts[name]
	if !ok {
		return "", fmt.Errorf("prompt %q: %w", name, domain.ErrNotFound)
	}

	s.seed.Do(func() { s.seedErr = s.writeDefaults() })
	if s.seedErr != nil {
		return builtin, nil
	}

	path := filepath.Join(s.dir, name+".txt")
	info, err := os.Stat(path)
	if err != nil {
		return builtin, nil
	}
	at := stamp{mod: info.ModTime().UnixNano(), size: info.Size()}

	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.cache[name]; ok && c.at == at {
		return c.text, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("Prompt %s unreadable, using built-in: %v", name, err)
		return builtin, nil
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		text = builtin
	}
	s.cache[name] = cachedPrompt{text: text, at: at}
	return text, nil
}

// Reload drops every cached prompt.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	clear(s.cache)
	s.mu.Unlock()
}

func (s *PromptStore) writeDefaults() error {
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		logger.Warn("Prompt directory unavailable, using built-ins: %v", err)
		return err
	}
	files := map[string]string{"README.md": promptsReadme}
	for name, text := range builtinPrompts {
		files[name+".txt"] = text
	}
	for name, text := range files {
		// O_EXCL leaves user edits alone.
		f, err := os.OpenFile(filepath.Join(s.dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return fmt.Errorf("seed %s: %w", name, err)
		}
		_, werr := f.WriteString(text)
		if cerr := f.Close(); werr == nil {
			werr = cerr
		}
		if werr != nil {
			return fmt.Errorf("seed %s: %w", name, werr)
		}
	}
	return nil
}
