package quest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FileBackend persists quest state as a JSON file.
type FileBackend struct {
	Path string
}

// NewFileBackend creates a file-backed store at path.
func NewFileBackend(path string) *FileBackend {
	return &FileBackend{Path: path}
}

// Load reads the state file. A missing file yields a nil state, not an
// error: first access starts fresh.
func (b *FileBackend) Load() (*State, error) {
	data, err := os.ReadFile(b.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", b.Path, err)
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", b.Path, err)
	}
	return &state, nil
}

// Save writes the state file, creating parent directories as needed.
func (b *FileBackend) Save(state *State) error {
	if dir := filepath.Dir(b.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal quest state: %w", err)
	}

	if err := os.WriteFile(b.Path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", b.Path, err)
	}
	return nil
}

// MemoryBackend keeps state in memory; used by tests and throwaway runs.
type MemoryBackend struct {
	state *State
}

// NewMemoryBackend creates an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{}
}

// Load returns the stored state, nil when nothing was saved yet.
func (b *MemoryBackend) Load() (*State, error) {
	return b.state, nil
}

// Save stores the state.
func (b *MemoryBackend) Save(state *State) error {
	b.state = state
	return nil
}
