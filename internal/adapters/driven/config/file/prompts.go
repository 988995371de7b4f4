package file

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/custodia-labs/docassist-cli/internal/core/ports/driven"
)

// Ensure PromptStore implements the interface.
var _ driven.PromptStore = (*PromptStore)(nil)

// PromptStore loads LLM prompts from user-editable files on disk, falling back
// to built-in defaults. Files are created lazily on the first Load.
type PromptStore struct {
	mu        sync.RWMutex
	promptDir string
	cache     map[string]string
	initOnce  sync.Once
	initErr   error
}

// defaultPrompts are written to disk on first use and used when a file is unreadable.
var defaultPrompts = map[string]string{
	driven.PromptChatSystem: `You are a document assistant. Answer the user's questions using the documents they have selected.

Selected documents:
%s

When answering:
1. Prefer information from the selected documents and name the document you used
2. If the documents do not contain the answer, say so and answer from general knowledge
3. Be concise`,
}

// NewPromptStore creates a new file-based prompt store.
// If promptDir is empty, defaults to ~/.docassist/prompts/.
func NewPromptStore(promptDir string) (*PromptStore, error) {
	if promptDir == "" {
		dir, err := DefaultDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		promptDir = filepath.Join(dir, "prompts")
	}

	return &PromptStore{
		promptDir: promptDir,
		cache:     make(map[string]string),
	}, nil
}

// Load returns the prompt template for the given name.
func (s *PromptStore) Load(name string) (string, error) {
	s.initOnce.Do(s.initialise)

	fallback, known := defaultPrompts[name]
	if s.initErr != nil {
		if known {
			return fallback, nil
		}
		return "", fmt.Errorf("prompt store init failed: %w", s.initErr)
	}

	s.mu.RLock()
	prompt, cached := s.cache[name]
	s.mu.RUnlock()
	if cached {
		return prompt, nil
	}

	prompt, err := s.readPrompt(name)
	if err != nil {
		if known {
			return fallback, nil
		}
		return "", fmt.Errorf("load prompt %q: %w", name, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.cache[name]; ok {
		return existing, nil
	}
	s.cache[name] = prompt
	return prompt, nil
}

// Reload clears the prompt cache, forcing fresh loads from disk.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	s.cache = make(map[string]string)
	s.mu.Unlock()
}

// Dir returns the prompt directory path.
func (s *PromptStore) Dir() string {
	return s.promptDir
}

func (s *PromptStore) initialise() {
	if err := os.MkdirAll(s.promptDir, 0700); err != nil {
		s.initErr = fmt.Errorf("create prompt directory: %w", err)
		return
	}

	for name, content := range defaultPrompts {
		if err := writeIfMissing(s.path(name), content); err != nil {
			s.initErr = fmt.Errorf("create default prompt %q: %w", name, err)
			return
		}
	}

	if err := writeIfMissing(filepath.Join(s.promptDir, "README.md"), promptReadme); err != nil {
		s.initErr = err
	}
}

func (s *PromptStore) path(name string) string {
	return filepath.Join(s.promptDir, name+".txt")
}

func (s *PromptStore) readPrompt(name string) (string, error) {
	data, err := os.ReadFile(s.path(name))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func writeIfMissing(path, content string) error {
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return nil
	}
	return os.WriteFile(path, []byte(content), 0600)
}

const promptReadme = `# docassist prompts

Prompts used when chat replies come from an LLM provider (ollama or openai).

## Files

- ` + "`chat_system.txt`" + ` - System prompt for document-assisted chat.
  The single ` + "`%s`" + ` placeholder receives the list of selected documents.

Edits take effect on the next command.
`
