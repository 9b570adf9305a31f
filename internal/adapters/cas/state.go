package cas

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"go.trai.ch/zerr"

	"github.com/balebuild/bale/internal/adapters/codec"
	"github.com/balebuild/bale/internal/core/domain"
)

// StateFileName is the build-state record kept in the working directory.
const StateFileName = "state.dat"

// StateStore persists the previous build's derived manifests so the
// rebuild-need predicates can run across invocations.
type StateStore struct{}

// NewStateStore creates a new StateStore.
func NewStateStore() *StateStore {
	return &StateStore{}
}

// Get retrieves the build state recorded in the given working directory.
// Returns nil, nil if no state has been recorded yet.
func (s *StateStore) Get(workDir string) (*domain.BuildState, error) {
	path := filepath.Join(workDir, StateFileName)
	data, err := os.ReadFile(path) //nolint:gosec // Path is the configured work directory
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.With(zerr.Wrap(err, "failed to read build state"), "path", path)
	}

	var state domain.BuildState
	if err := codec.Unmarshal(data, &state); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to decode build state"), "path", path)
	}
	return &state, nil
}

// Put stores the build state in the given working directory.
func (s *StateStore) Put(workDir string, state domain.BuildState) error {
	data, err := codec.Marshal(state)
	if err != nil {
		return zerr.Wrap(err, "failed to encode build state")
	}

	if err := os.MkdirAll(workDir, domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create work directory"), "path", workDir)
	}

	path := filepath.Join(workDir, StateFileName)
	if err := os.WriteFile(path, data, domain.FilePerm); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to write build state"), "path", path)
	}
	return nil
}
