package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/focuai/focusd/internal/app/classify"
	"github.com/focuai/focusd/internal/app/gamification"
	"github.com/focuai/focusd/internal/app/leaderboard"
	"github.com/focuai/focusd/internal/app/usage"
	"github.com/focuai/focusd/internal/infra/sqlite"
)

// testClock pins noon so day boundaries and time-of-day badges are stable.
var testClock = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func testServer(t *testing.T) *httptest.Server {
	t.Helper()
	db, err := sqlite.Open(t.TempDir())
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	c := classify.New(classify.DefaultRules())
	u := usage.NewService(db, c)
	u.SetClock(func() time.Time { return testClock })
	e := gamification.NewEngine(db)
	e.SetClock(func() time.Time { return testClock })

	srv := NewServer(u, e, leaderboard.NewRanker(db))
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func doJSON(t *testing.T, method, url string, body interface{}, wantStatus int) map[string]interface{} {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != wantStatus {
		t.Fatalf("%s %s: status %d, want %d", method, url, resp.StatusCode, wantStatus)
	}

	var out map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return out
}

func ingestRecord(t *testing.T, ts *httptest.Server, subject, kind, name string, seconds int64) {
	t.Helper()
	doJSON(t, http.MethodPost, ts.URL+"/api/usage/records", map[string]interface{}{
		"subject_id":       subject,
		"kind":             kind,
		"name":             name,
		"duration_seconds": seconds,
		"occurred_at":      testClock.Add(-time.Hour).Format(time.RFC3339),
	}, http.StatusCreated)
}

func TestHealthAndVersion(t *testing.T) {
	ts := testServer(t)

	out := doJSON(t, http.MethodGet, ts.URL+"/health", nil, http.StatusOK)
	if out["status"] != "ok" {
		t.Errorf("health = %v", out)
	}
	out = doJSON(t, http.MethodGet, ts.URL+"/api/version", nil, http.StatusOK)
	if out["version"] != Version {
		t.Errorf("version = %v, want %s", out["version"], Version)
	}
}

func TestIngestAndSummary(t *testing.T) {
	ts := testServer(t)
	ingestRecord(t, ts, "alice", "app", "Visual Studio Code", 7200)
	ingestRecord(t, ts, "alice", "tab", "youtube.com", 1800)

	out := doJSON(t, http.MethodGet, ts.URL+"/api/usage/summary?subject=alice&window=daily", nil, http.StatusOK)
	if out["focus_score"] != float64(80) {
		t.Errorf("focus score = %v, want 80", out["focus_score"])
	}
	if out["total_active_seconds"] != float64(9000) {
		t.Errorf("total = %v, want 9000", out["total_active_seconds"])
	}
	if out["most_visited_domain"] != "youtube.com" {
		t.Errorf("most visited = %v", out["most_visited_domain"])
	}
}

func TestIngestValidationErrors(t *testing.T) {
	ts := testServer(t)

	doJSON(t, http.MethodPost, ts.URL+"/api/usage/records", map[string]interface{}{
		"subject_id": "alice", "kind": "window", "name": "x", "duration_seconds": 60,
	}, http.StatusBadRequest)
	doJSON(t, http.MethodPost, ts.URL+"/api/usage/records", map[string]interface{}{
		"subject_id": "alice", "kind": "app", "name": "x", "duration_seconds": -1,
	}, http.StatusBadRequest)
}

func TestSummaryErrors(t *testing.T) {
	ts := testServer(t)

	doJSON(t, http.MethodGet, ts.URL+"/api/usage/summary?subject=ghost", nil, http.StatusNotFound)
	doJSON(t, http.MethodGet, ts.URL+"/api/usage/summary?subject=ghost&window=hourly", nil, http.StatusBadRequest)
	doJSON(t, http.MethodGet, ts.URL+"/api/usage/summary?subject=ghost&date=March-1", nil, http.StatusBadRequest)

	// A missing subject is a caller error, not an unknown subject.
	doJSON(t, http.MethodGet, ts.URL+"/api/usage/summary", nil, http.StatusBadRequest)
	doJSON(t, http.MethodGet, ts.URL+"/api/usage/trend", nil, http.StatusBadRequest)
	doJSON(t, http.MethodGet, ts.URL+"/api/usage/app-vs-web", nil, http.StatusBadRequest)
}

func TestTrendWindows(t *testing.T) {
	ts := testServer(t)
	ingestRecord(t, ts, "alice", "app", "Code", 3600)

	out := doJSON(t, http.MethodGet, ts.URL+"/api/usage/trend?subject=alice&days=3", nil, http.StatusOK)
	if out["window"] != "daily" {
		t.Errorf("window = %v, want daily", out["window"])
	}
	periods, ok := out["periods"].([]interface{})
	if !ok || len(periods) != 3 {
		t.Fatalf("periods = %v, want 3 daily entries", out["periods"])
	}
	today := periods[2].(map[string]interface{})
	if today["productive_seconds"] != float64(3600) {
		t.Errorf("today productive = %v, want 3600", today["productive_seconds"])
	}

	out = doJSON(t, http.MethodGet, ts.URL+"/api/usage/trend?subject=alice&window=monthly&months=2", nil, http.StatusOK)
	periods, ok = out["periods"].([]interface{})
	if !ok || len(periods) != 2 {
		t.Fatalf("periods = %v, want 2 monthly entries", out["periods"])
	}
	month := periods[1].(map[string]interface{})
	if month["window"] != "monthly" || month["productive_seconds"] != float64(3600) {
		t.Errorf("current month = %v, want monthly window with 3600 productive", month)
	}
	doJSON(t, http.MethodGet, ts.URL+"/api/usage/trend?subject=alice&window=hourly", nil, http.StatusBadRequest)
}

func TestAppVsWeb(t *testing.T) {
	ts := testServer(t)
	ingestRecord(t, ts, "alice", "app", "Code", 2000)
	ingestRecord(t, ts, "alice", "tab", "github.com", 1000)

	out := doJSON(t, http.MethodGet, ts.URL+"/api/usage/app-vs-web?subject=alice", nil, http.StatusOK)
	if out["app_percentage"] != float64(67) || out["web_percentage"] != float64(33) {
		t.Errorf("split = %v/%v, want 67/33", out["app_percentage"], out["web_percentage"])
	}
}

func TestSessionAwardFlow(t *testing.T) {
	ts := testServer(t)
	ingestRecord(t, ts, "alice", "app", "Visual Studio Code", 7200)
	ingestRecord(t, ts, "alice", "tab", "youtube.com", 1500)

	out := doJSON(t, http.MethodPost, ts.URL+"/api/gamification/sessions", map[string]interface{}{
		"subject_id": "alice",
	}, http.StatusOK)
	if out["points_earned"] != float64(48) {
		t.Errorf("points earned = %v, want 48", out["points_earned"])
	}

	out = doJSON(t, http.MethodGet, ts.URL+"/api/gamification/state?subject=alice", nil, http.StatusOK)
	points := out["points"].(map[string]interface{})
	if points["total"] != float64(48) {
		t.Errorf("state total = %v, want 48", points["total"])
	}
	if out["level"] != float64(1) {
		t.Errorf("level = %v, want 1", out["level"])
	}
}

func TestChallengeLifecycleOverHTTP(t *testing.T) {
	ts := testServer(t)

	// First state touch seeds the daily challenges.
	doJSON(t, http.MethodGet, ts.URL+"/api/gamification/state?subject=alice", nil, http.StatusOK)

	base := ts.URL + "/api/gamification/challenges/daily-focus-goal"
	subject := map[string]interface{}{"subject_id": "alice"}

	out := doJSON(t, http.MethodPost, base+"/progress", map[string]interface{}{
		"subject_id": "alice", "progress": 80,
	}, http.StatusOK)
	if out["completed"] != true {
		t.Fatalf("challenge not completed: %v", out)
	}

	out = doJSON(t, http.MethodPost, base+"/claim", subject, http.StatusOK)
	if out["points_awarded"] != float64(50) {
		t.Errorf("claim = %v, want 50", out["points_awarded"])
	}
	// Exactly once.
	doJSON(t, http.MethodPost, base+"/claim", subject, http.StatusConflict)

	// Joining an unknown challenge is a 404; rejoining a held one a 409.
	doJSON(t, http.MethodPost, ts.URL+"/api/gamification/challenges/nope/join", subject, http.StatusNotFound)
	doJSON(t, http.MethodPost, ts.URL+"/api/gamification/challenges/weekly-consistency/join", subject, http.StatusCreated)
	doJSON(t, http.MethodPost, ts.URL+"/api/gamification/challenges/weekly-consistency/join", subject, http.StatusConflict)
}

func TestLeaderboardOverHTTP(t *testing.T) {
	ts := testServer(t)

	for i, subject := range []string{"alice", "bob"} {
		ingestRecord(t, ts, subject, "app", "Code", int64(3600*(i+1)))
		doJSON(t, http.MethodPost, ts.URL+"/api/gamification/sessions", map[string]interface{}{
			"subject_id": subject,
		}, http.StatusOK)
	}

	out := doJSON(t, http.MethodGet, ts.URL+"/api/leaderboard?metric=total", nil, http.StatusOK)
	entries := out["entries"].([]interface{})
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	first := entries[0].(map[string]interface{})
	if first["subject_id"] != "bob" {
		t.Errorf("leader = %v, want bob", first["subject_id"])
	}

	out = doJSON(t, http.MethodGet, ts.URL+"/api/leaderboard/rank?subject=alice", nil, http.StatusOK)
	if out["rank"] != float64(2) || out["total"] != float64(2) {
		t.Errorf("standing = %v", out)
	}
	doJSON(t, http.MethodGet, ts.URL+"/api/leaderboard/rank?subject=ghost", nil, http.StatusNotFound)
	doJSON(t, http.MethodGet, ts.URL+"/api/leaderboard?metric=lifetime", nil, http.StatusBadRequest)
}

func TestNotificationsOverHTTP(t *testing.T) {
	ts := testServer(t)
	// A perfect 8h day unlocks badges, which queue notifications.
	ingestRecord(t, ts, "alice", "app", "Visual Studio Code", 8*3600)
	doJSON(t, http.MethodPost, ts.URL+"/api/gamification/sessions", map[string]interface{}{
		"subject_id": "alice",
	}, http.StatusOK)

	url := fmt.Sprintf("%s/api/gamification/notifications?subject=alice&mark_shown=true", ts.URL)
	out := doJSON(t, http.MethodGet, url, nil, http.StatusOK)
	if len(out["notifications"].([]interface{})) == 0 {
		t.Fatal("expected pending notifications")
	}
	out = doJSON(t, http.MethodGet, url, nil, http.StatusOK)
	if len(out["notifications"].([]interface{})) != 0 {
		t.Error("notifications not marked shown")
	}
}
