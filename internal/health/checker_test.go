package health

import (
	"context"
	"testing"

	"github.com/focuai/focusd/internal/infra/sqlite"
)

func newTestDB(t *testing.T) (*sqlite.DB, string) {
	t.Helper()
	dir := t.TempDir()
	db, err := sqlite.Open(dir)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, dir
}

func TestCheckerAllHealthy(t *testing.T) {
	db, dir := newTestDB(t)

	c := NewChecker(db, dir)
	c.runAll(context.Background())

	statuses := c.Statuses()
	if len(statuses) != 2 {
		t.Fatalf("Statuses() = %d, want 2", len(statuses))
	}
	for _, s := range statuses {
		if !s.Healthy {
			t.Errorf("check %q should be healthy, got error: %s", s.Name, s.Error)
		}
	}
	if !c.IsHealthy() {
		t.Error("IsHealthy() = false, want true")
	}
}

func TestCheckerBadStorageDir(t *testing.T) {
	db, _ := newTestDB(t)

	c := NewChecker(db, "/nonexistent/focusd-health-test")
	c.runAll(context.Background())

	if c.IsHealthy() {
		t.Error("IsHealthy() = true with missing storage dir")
	}
	var found bool
	for _, s := range c.Statuses() {
		if s.Name == "storage_dir" && !s.Healthy {
			found = true
		}
	}
	if !found {
		t.Error("storage_dir check did not report unhealthy")
	}
}

func TestCheckerNoResultsYet(t *testing.T) {
	db, dir := newTestDB(t)
	c := NewChecker(db, dir)
	// Until the first run there are no statuses and nothing failing.
	if len(c.Statuses()) != 0 {
		t.Error("expected no statuses before first run")
	}
	if !c.IsHealthy() {
		t.Error("IsHealthy() = false before first run")
	}
}
