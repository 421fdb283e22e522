package keys

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/doeshing/exa-go/internal/domain"
	"github.com/doeshing/exa-go/internal/ports"
)

// StateStore persists the rotation state as JSON under the config dir.
// Writes replace the whole file atomically (temp file + rename) so a
// concurrent invocation can never observe a partial record.
type StateStore struct {
	path string
	log  ports.Logger
}

// NewStateStore creates a store writing to <dir>/state.json.
func NewStateStore(dir string, log ports.Logger) *StateStore {
	return &StateStore{path: filepath.Join(dir, "state.json"), log: log}
}

// Path exposes the state file location.
func (s *StateStore) Path() string {
	return s.path
}

// Load returns the stored state. A missing or unparseable file yields the
// default state; corruption self-heals on the next Save.
func (s *StateStore) Load() *domain.KeyState {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return domain.NewKeyState()
	}
	state := domain.NewKeyState()
	if err := json.Unmarshal(data, state); err != nil {
		if s.log != nil {
			s.log.Warn("key state file unreadable, starting fresh", map[string]interface{}{
				"path":  s.path,
				"error": err.Error(),
			})
		}
		return domain.NewKeyState()
	}
	return state
}

// Save writes the state back to disk.
func (s *StateStore) Save(state *domain.KeyState) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, domain.DirectoryPermissions); err != nil {
		return err
	}
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "state-*.tmp")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Chmod(tmp.Name(), domain.SecureFilePermissions); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return nil
}
