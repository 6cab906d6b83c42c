package models

import (
	"time"
)

// RuleRecord tracks one allow rule created in the remote service. The rule
// id is owned by this record until the rule is deleted remotely.
type RuleRecord struct {
	RuleID    string    `json:"rule_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

// State is the whole persisted document: how far into the log previous
// sweeps have read, and the rules currently tracked, keyed by IP.
type State struct {
	Offset int64                 `json:"last_position"`
	Rules  map[string]RuleRecord `json:"rules"`
}

func NewState() *State {
	return &State{
		Offset: 0,
		Rules:  make(map[string]RuleRecord),
	}
}
