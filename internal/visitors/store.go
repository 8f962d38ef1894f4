package visitors

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"

	"git.home.luguber.info/inful/stmartin/internal/foundation/errors"
)

// Store loads and saves the counter state.
type Store interface {
	Load() (State, bool, error)
	Save(State) error
}

// JSONStore keeps the state in a single indented JSON document.
type JSONStore struct {
	path string
}

// NewJSONStore returns a store backed by the file at path.
func NewJSONStore(path string) *JSONStore {
	return &JSONStore{path: path}
}

// Path returns the backing file path.
func (s *JSONStore) Path() string {
	return s.path
}

// Load reads the state. A missing file yields a zero State and found=false. A file that cannot
// be decoded is an error so that a later Save never overwrites data it did not understand.
func (s *JSONStore) Load() (State, bool, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return State{DailyHistory: map[string]int{}}, false, nil
		}
		return State{}, false, errors.WrapError(err, errors.CategoryFileSystem, "failed to read visitor state").
			WithContext("path", s.path).
			Build()
	}

	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return State{}, false, errors.StateError("visitor state file is malformed").
			WithCause(err).
			WithContext("path", s.path).
			WithContext("hint", "Fix or move the file aside; it will not be overwritten").
			Build()
	}
	if st.DailyHistory == nil {
		st.DailyHistory = map[string]int{}
	}
	return st, true, nil
}

// Save replaces the state file atomically, creating parent directories as needed.
func (s *JSONStore) Save(st State) error {
	if st.DailyHistory == nil {
		st.DailyHistory = map[string]int{}
	}
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return errors.InternalError("failed to encode visitor state").WithCause(err).Build()
	}
	data = append(data, '\n')

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return errors.FileSystemError("failed to create state directory").
			WithCause(err).
			WithContext("path", filepath.Dir(s.path)).
			Build()
	}
	if err := atomic.WriteFile(s.path, bytes.NewReader(data)); err != nil {
		return errors.FileSystemError("failed to write visitor state").
			WithCause(err).
			WithContext("path", s.path).
			Build()
	}
	return nil
}
