package rules

import (
	"context"
	"time"

	"ipwarden/internal/models"

	"go.uber.org/zap"
)

// RuleAPI is the remote access-control surface the manager drives.
type RuleAPI interface {
	CreateRule(ctx context.Context, ip string) (string, error)
	DeleteRule(ctx context.Context, ruleID string) error
}

// Manager owns the rule lifecycle: admitting freshly seen IPs and pruning
// rules past their TTL. It holds no state of its own; everything lives in
// the persisted state it is handed.
type Manager struct {
	api RuleAPI
	ttl time.Duration
	now func() time.Time
}

func NewManager(api RuleAPI, ttl time.Duration) *Manager {
	return &Manager{api: api, ttl: ttl, now: time.Now}
}

// Prune deletes every rule expired as of now. A failed delete keeps the
// record untouched, expiry included, so the next sweep retries it.
func (m *Manager) Prune(ctx context.Context, st *models.State, now time.Time) {
	for ip, rec := range st.Rules {
		if now.Before(rec.ExpiresAt) {
			continue
		}
		if err := m.api.DeleteRule(ctx, rec.RuleID); err != nil {
			zap.S().Errorf("failed to delete rule %s for %s: %s", rec.RuleID, ip, err)
			continue
		}
		zap.S().Infof("deleted expired rule %s for %s", rec.RuleID, ip)
		delete(st.Rules, ip)
	}
}

// Observe admits an IP seen in the log. An IP already tracked is a no-op
// whatever its expiry state: one rule per IP, and no new create until a
// pending deletion has gone through.
func (m *Manager) Observe(ctx context.Context, st *models.State, ip string) bool {
	if _, ok := st.Rules[ip]; ok {
		return false
	}

	zap.S().Infof("detected login from IP %s", ip)
	ruleID, err := m.api.CreateRule(ctx, ip)
	if err != nil {
		zap.S().Errorf("failed to create rule for %s: %s", ip, err)
		return false
	}

	expiresAt := m.now().Add(m.ttl)
	st.Rules[ip] = models.RuleRecord{RuleID: ruleID, ExpiresAt: expiresAt}
	zap.S().Infof("created rule %s for %s, expires at %s", ruleID, ip, expiresAt.Format(time.RFC3339))
	return true
}
