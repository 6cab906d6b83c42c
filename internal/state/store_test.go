package state

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"ipwarden/internal/models"
)

func TestLoadMissingFileReturnsDefault(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "state.json"))
	st := store.Load()
	if st.Offset != 0 {
		t.Errorf("offset = %d, want 0", st.Offset)
	}
	if st.Rules == nil || len(st.Rules) != 0 {
		t.Errorf("rules = %v, want empty map", st.Rules)
	}
}

func TestLoadCorruptFileReturnsDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	st := NewStore(path).Load()
	if st.Offset != 0 || len(st.Rules) != 0 {
		t.Errorf("corrupt file should load as default, got %+v", st)
	}
}

func TestLoadNullRulesGetsUsableMap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	if err := os.WriteFile(path, []byte(`{"last_position": 42, "rules": null}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	st := NewStore(path).Load()
	if st.Offset != 42 {
		t.Errorf("offset = %d, want 42", st.Offset)
	}
	// Must be able to insert without a nil map panic.
	st.Rules["203.0.113.5"] = models.RuleRecord{RuleID: "1"}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	store := NewStore(path)

	expires := time.Now().Add(6 * time.Hour).UTC()
	st := models.NewState()
	st.Offset = 1234
	st.Rules["203.0.113.5"] = models.RuleRecord{RuleID: "77", ExpiresAt: expires}

	if err := store.Save(st); err != nil {
		t.Fatalf("save: %v", err)
	}

	got := store.Load()
	if got.Offset != 1234 {
		t.Errorf("offset = %d, want 1234", got.Offset)
	}
	rec, ok := got.Rules["203.0.113.5"]
	if !ok {
		t.Fatalf("rule for 203.0.113.5 missing after reload")
	}
	if rec.RuleID != "77" {
		t.Errorf("ruleID = %q, want %q", rec.RuleID, "77")
	}
	if !rec.ExpiresAt.Equal(expires) {
		t.Errorf("expiresAt = %v, want %v", rec.ExpiresAt, expires)
	}
}

func TestSaveLeavesNoTempFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	store := NewStore(path)
	if err := store.Save(models.NewState()); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Errorf("temp file still present after save")
	}
}

func TestStaleTempFileDoesNotCorruptState(t *testing.T) {
	// A crash between temp write and rename leaves a stray .tmp; the saved
	// state must stay intact and the next save must still go through.
	path := filepath.Join(t.TempDir(), "state.json")
	store := NewStore(path)

	st := models.NewState()
	st.Offset = 10
	if err := store.Save(st); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := os.WriteFile(path+".tmp", []byte("garbage from a crashed run"), 0o644); err != nil {
		t.Fatalf("write stale tmp: %v", err)
	}

	got := store.Load()
	if got.Offset != 10 {
		t.Errorf("offset = %d, want 10", got.Offset)
	}

	st.Offset = 20
	if err := store.Save(st); err != nil {
		t.Fatalf("second save: %v", err)
	}
	if got := store.Load(); got.Offset != 20 {
		t.Errorf("offset after second save = %d, want 20", got.Offset)
	}
}
