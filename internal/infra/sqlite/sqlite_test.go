package sqlite

import (
	"errors"
	"testing"
	"time"

	"github.com/focuai/focusd/internal/domain"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestActivityRecordRoundTrip(t *testing.T) {
	db := testDB(t)

	at := time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)
	rec := domain.ActivityRecord{
		ID:              "rec-1",
		SubjectID:       "alice",
		Kind:            domain.KindApp,
		Name:            "Visual Studio Code",
		DurationSeconds: 1800,
		OccurredAt:      at,
		CalendarDate:    domain.CalendarDate(at),
	}
	if err := db.InsertActivityRecord(rec); err != nil {
		t.Fatalf("insert: %v", err)
	}

	got, err := db.ActivityRecords("alice", at.Add(-time.Hour), at.Add(time.Hour))
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d records, want 1", len(got))
	}
	if got[0].Name != rec.Name || got[0].DurationSeconds != 1800 {
		t.Errorf("got %+v, want %+v", got[0], rec)
	}
	if got[0].CalendarDate != "2026-03-10" {
		t.Errorf("calendar date = %q, want 2026-03-10", got[0].CalendarDate)
	}

	got, err = db.ActivityRecords("alice", at.Add(time.Minute), at.Add(time.Hour))
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("window excludes record, got %d rows", len(got))
	}
}

func TestStateSaveLoad(t *testing.T) {
	db := testDB(t)

	if st, err := db.LoadState("nobody"); err != nil || st != nil {
		t.Fatalf("missing subject: got (%v, %v), want (nil, nil)", st, err)
	}

	st := domain.NewGamificationState("alice")
	st.Points = domain.Points{Total: 420, Daily: 20, Weekly: 120, Monthly: 420}
	st.Level = domain.LevelForPoints(st.Points.Total)
	st.Streak = domain.Streak{Current: 3, Longest: 7, LastActiveDate: "2026-03-10"}
	st.Statistics.SessionsCompleted = 12
	st.Statistics.BestFocusScore = 93

	if err := db.SaveState(st); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := db.LoadState("alice")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Points != st.Points {
		t.Errorf("points = %+v, want %+v", got.Points, st.Points)
	}
	if got.Level != 3 {
		t.Errorf("level = %d, want 3", got.Level)
	}
	if got.Streak != st.Streak {
		t.Errorf("streak = %+v, want %+v", got.Streak, st.Streak)
	}
	if got.Statistics.BestFocusScore != 93 {
		t.Errorf("best focus = %v, want 93", got.Statistics.BestFocusScore)
	}

	// Upsert overwrites.
	st.Points.Total = 500
	if err := db.SaveState(st); err != nil {
		t.Fatalf("resave: %v", err)
	}
	got, _ = db.LoadState("alice")
	if got.Points.Total != 500 {
		t.Errorf("total after upsert = %d, want 500", got.Points.Total)
	}
}

func TestAwardBadgeIdempotent(t *testing.T) {
	db := testDB(t)
	now := time.Now()

	fresh, err := db.AwardBadge("alice", "early_bird", now)
	if err != nil {
		t.Fatalf("award: %v", err)
	}
	if !fresh {
		t.Error("first award should report newly earned")
	}

	fresh, err = db.AwardBadge("alice", "early_bird", now.Add(time.Hour))
	if err != nil {
		t.Fatalf("re-award: %v", err)
	}
	if fresh {
		t.Error("duplicate award should be ignored")
	}

	badges, err := db.Badges("alice")
	if err != nil {
		t.Fatalf("badges: %v", err)
	}
	if len(badges) != 1 {
		t.Fatalf("got %d badges, want 1", len(badges))
	}
	if badges[0].BadgeID != "early_bird" {
		t.Errorf("badge = %q, want early_bird", badges[0].BadgeID)
	}
}

func TestInsertChallengeConflict(t *testing.T) {
	db := testDB(t)

	c := domain.Challenge{
		ChallengeID: "daily_focus",
		Period:      "2026-03-10",
		Name:        "Deep Focus",
		Cadence:     domain.CadenceDaily,
		Target:      4,
		Reward:      50,
		CreatedAt:   time.Now(),
	}
	if err := db.InsertChallenge("alice", c); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := db.InsertChallenge("alice", c); !errors.Is(err, domain.ErrChallengeAlreadyJoined) {
		t.Errorf("duplicate insert err = %v, want ErrChallengeAlreadyJoined", err)
	}
	// Same instance for a different subject is fine.
	if err := db.InsertChallenge("bob", c); err != nil {
		t.Errorf("other subject insert: %v", err)
	}
	// A new period is a new instance, even when the old one survives.
	c.Period = "2026-03-11"
	if err := db.InsertChallenge("alice", c); err != nil {
		t.Errorf("next period insert: %v", err)
	}
}

func TestClaimChallengeExactlyOnce(t *testing.T) {
	db := testDB(t)
	now := time.Now()

	if err := db.SaveState(domain.NewGamificationState("alice")); err != nil {
		t.Fatalf("seed state: %v", err)
	}
	c := domain.Challenge{
		ChallengeID: "daily_focus",
		Period:      "2026-03-10",
		Name:        "Deep Focus",
		Cadence:     domain.CadenceDaily,
		Target:      4,
		Progress:    4,
		Reward:      120,
		CreatedAt:   now,
	}
	if err := db.InsertChallenge("alice", c); err != nil {
		t.Fatalf("insert: %v", err)
	}

	// Not completed yet.
	if _, _, err := db.ClaimChallenge("alice", "daily_focus", "2026-03-10", now); !errors.Is(err, domain.ErrChallengeNotCompleted) {
		t.Fatalf("claim before completion err = %v, want ErrChallengeNotCompleted", err)
	}

	if err := db.SetChallengeProgress("alice", "daily_focus", "2026-03-10", 4, true, now); err != nil {
		t.Fatalf("complete: %v", err)
	}

	reward, total, err := db.ClaimChallenge("alice", "daily_focus", "2026-03-10", now)
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if reward != 120 || total != 120 {
		t.Errorf("claim = (%d, %d), want (120, 120)", reward, total)
	}

	if _, _, err := db.ClaimChallenge("alice", "daily_focus", "2026-03-10", now); !errors.Is(err, domain.ErrChallengeClaimed) {
		t.Errorf("second claim err = %v, want ErrChallengeClaimed", err)
	}
	if _, _, err := db.ClaimChallenge("alice", "ghost", "2026-03-10", now); !errors.Is(err, domain.ErrChallengeNotFound) {
		t.Errorf("unknown challenge err = %v, want ErrChallengeNotFound", err)
	}

	st, err := db.LoadState("alice")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := domain.Points{Total: 120, Daily: 120, Weekly: 120, Monthly: 120}
	if st.Points != want {
		t.Errorf("points = %+v, want %+v", st.Points, want)
	}
	if st.Level != domain.LevelForPoints(120) {
		t.Errorf("level = %d, want %d", st.Level, domain.LevelForPoints(120))
	}
}

func TestClaimChallengeConcurrent(t *testing.T) {
	db := testDB(t)
	now := time.Now()

	if err := db.SaveState(domain.NewGamificationState("alice")); err != nil {
		t.Fatalf("seed state: %v", err)
	}
	c := domain.Challenge{
		ChallengeID: "weekly_grind",
		Period:      "2026-W11",
		Cadence:     domain.CadenceWeekly,
		Target:      10,
		Reward:      200,
		CreatedAt:   now,
	}
	if err := db.InsertChallenge("alice", c); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := db.SetChallengeProgress("alice", "weekly_grind", "2026-W11", 10, true, now); err != nil {
		t.Fatalf("complete: %v", err)
	}

	const claimers = 8
	errs := make(chan error, claimers)
	for i := 0; i < claimers; i++ {
		go func() {
			_, _, err := db.ClaimChallenge("alice", "weekly_grind", "2026-W11", now)
			errs <- err
		}()
	}

	var wins int
	for i := 0; i < claimers; i++ {
		if err := <-errs; err == nil {
			wins++
		} else if !errors.Is(err, domain.ErrChallengeClaimed) {
			t.Errorf("unexpected claim error: %v", err)
		}
	}
	if wins != 1 {
		t.Errorf("claim succeeded %d times, want exactly once", wins)
	}

	st, _ := db.LoadState("alice")
	if st.Points.Total != 200 {
		t.Errorf("total = %d, want 200 (reward applied once)", st.Points.Total)
	}
}

func TestDeleteExpiredChallenges(t *testing.T) {
	db := testDB(t)
	now := time.Now()

	expired := domain.Challenge{
		ChallengeID: "daily_focus",
		Period:      "2026-03-10",
		Cadence:     domain.CadenceDaily,
		Target:      4,
		Reward:      50,
		CreatedAt:   now.Add(-48 * time.Hour),
		ExpiresAt:   now.Add(-24 * time.Hour),
	}
	done := expired
	done.ChallengeID = "daily_hours"
	done.Progress = 4
	done.Completed = true
	done.CompletedAt = now.Add(-30 * time.Hour)
	live := expired
	live.ChallengeID = "weekly_grind"
	live.Period = "2026-W11"
	live.Cadence = domain.CadenceWeekly
	live.ExpiresAt = now.Add(24 * time.Hour)
	for _, c := range []domain.Challenge{expired, done, live} {
		if err := db.InsertChallenge("alice", c); err != nil {
			t.Fatalf("insert %s: %v", c.ChallengeID, err)
		}
	}

	n, err := db.DeleteExpiredChallenges("alice", now)
	if err != nil {
		t.Fatalf("delete expired: %v", err)
	}
	if n != 1 {
		t.Errorf("deleted %d rows, want 1", n)
	}

	left, err := db.Challenges("alice")
	if err != nil {
		t.Fatalf("challenges: %v", err)
	}
	ids := make(map[string]bool)
	for _, c := range left {
		ids[c.ChallengeID] = true
	}
	if ids["daily_focus"] {
		t.Error("expired uncompleted instance should be swept")
	}
	if !ids["daily_hours"] {
		t.Error("completed instance should survive as history")
	}
	if !ids["weekly_grind"] {
		t.Error("unexpired instance should survive")
	}
}

func TestNotificationFeed(t *testing.T) {
	db := testDB(t)
	now := time.Now()

	for i, title := range []string{"first", "second", "third"} {
		err := db.InsertNotification(domain.Notification{
			SubjectID: "alice",
			Type:      domain.NotifyBadge,
			Title:     title,
			CreatedAt: now.Add(time.Duration(i) * time.Second),
		})
		if err != nil {
			t.Fatalf("insert %q: %v", title, err)
		}
	}

	pending, err := db.PendingNotifications("alice", 2)
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	if len(pending) != 2 || pending[0].Title != "first" || pending[1].Title != "second" {
		t.Fatalf("pending = %+v, want oldest two", pending)
	}

	if err := db.MarkNotificationsShown([]int64{pending[0].ID, pending[1].ID}); err != nil {
		t.Fatalf("mark shown: %v", err)
	}
	pending, _ = db.PendingNotifications("alice", 0)
	if len(pending) != 1 || pending[0].Title != "third" {
		t.Errorf("after mark shown, pending = %+v, want only third", pending)
	}
}
