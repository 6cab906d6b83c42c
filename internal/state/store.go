package state

import (
	"fmt"
	"os"

	"ipwarden/internal/models"
	"ipwarden/pkg/jsonhelper"

	"go.uber.org/zap"
)

// Store persists the sweep state as a single JSON document.
type Store struct {
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load reads the state file. A missing, unreadable or malformed file yields
// a fresh default state: a first run or a corrupted file must never block a
// sweep.
func (s *Store) Load() *models.State {
	data, err := os.ReadFile(s.path)
	if err != nil {
		zap.S().Infof("no usable state at %s, starting fresh: %s", s.path, err)
		return models.NewState()
	}

	st, err := jsonhelper.Decode[*models.State](data)
	if err != nil || st == nil {
		zap.S().Warnf("state file %s is malformed, starting fresh", s.path)
		return models.NewState()
	}
	if st.Rules == nil {
		st.Rules = make(map[string]models.RuleRecord)
	}
	if st.Offset < 0 {
		st.Offset = 0
	}
	return st
}

// Save writes the full state to a temp file next to the target and renames
// it into place. The target is always either the old or the new complete
// document, never a truncated mix.
func (s *Store) Save(st *models.State) error {
	data := jsonhelper.EncodeIndent(st)

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp state: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace state file: %w", err)
	}

	zap.S().Debugf("state saved to %s (offset %d, %d rules)", s.path, st.Offset, len(st.Rules))
	return nil
}
