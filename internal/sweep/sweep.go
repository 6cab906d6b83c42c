// Package sweep runs one full invocation of the warden: prune expired
// rules, read the log lines appended since the last run, admit new IPs,
// and persist the updated state.
package sweep

import (
	"context"
	"errors"
	"time"

	"ipwarden/internal/extractor"
	"ipwarden/internal/rules"
	"ipwarden/internal/scanner"
	"ipwarden/internal/state"

	"go.uber.org/zap"
)

type Sweep struct {
	store   *state.Store
	scanner *scanner.Scanner
	extract *extractor.Extractor
	manager *rules.Manager
}

func New(store *state.Store, sc *scanner.Scanner, ex *extractor.Extractor, mgr *rules.Manager) *Sweep {
	return &Sweep{
		store:   store,
		scanner: sc,
		extract: ex,
		manager: mgr,
	}
}

// Run executes one sweep. It returns an error only for conditions the
// caller must treat as fatal: the log file being absent, or the state not
// being persistable. Remote-call failures and unparseable lines are logged
// and absorbed; whatever progress was made still gets saved.
func (s *Sweep) Run(ctx context.Context) error {
	st := s.store.Load()
	now := time.Now()

	// Resolve the start offset before any remote call, so a missing log
	// aborts the run with nothing mutated.
	offset, err := s.scanner.Snapshot(st.Offset)
	if err != nil {
		return err
	}
	st.Offset = offset

	s.manager.Prune(ctx, st, now)

	newOffset, scanErr := s.scanner.Scan(st.Offset, func(line string) {
		if ip, ok := s.extract.Extract(line); ok {
			s.manager.Observe(ctx, st, ip)
		}
	})
	if scanErr != nil {
		if errors.Is(scanErr, scanner.ErrLogMissing) {
			return scanErr
		}
		zap.S().Errorf("log read stopped early: %s", scanErr)
	}
	st.Offset = newOffset

	if err := s.store.Save(st); err != nil {
		return err
	}

	zap.S().Infof("sweep completed, rules active: %d", len(st.Rules))
	return nil
}
