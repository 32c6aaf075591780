package usage

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/focuai/focusd/internal/app/classify"
	"github.com/focuai/focusd/internal/domain"
	"github.com/focuai/focusd/internal/infra/sqlite"
)

// DefaultTopN caps ranked breakdowns when the caller does not ask for a
// specific length.
const DefaultTopN = 5

// MaxRecordDuration rejects intervals longer than a full day; the
// tracker flushes far more often, so anything bigger is clock damage.
const MaxRecordDuration = 24 * 60 * 60

// Service ingests activity records and serves usage summaries.
type Service struct {
	db         *sqlite.DB
	classifier *classify.Classifier
	topN       int
	now        func() time.Time
}

func NewService(db *sqlite.DB, c *classify.Classifier) *Service {
	return &Service{db: db, classifier: c, topN: DefaultTopN, now: time.Now}
}

// SetClock overrides the service's time source (tests).
func (s *Service) SetClock(now func() time.Time) { s.now = now }

// SetTopN sets the ranked breakdown length.
func (s *Service) SetTopN(n int) {
	if n > 0 {
		s.topN = n
	}
}

// Ingest validates and persists one usage interval. Validation runs at
// this boundary so everything downstream can trust stored records.
func (s *Service) Ingest(subjectID string, kind domain.RecordKind, name string, durationSeconds int64, occurredAt time.Time) (domain.ActivityRecord, error) {
	switch {
	case strings.TrimSpace(subjectID) == "":
		return domain.ActivityRecord{}, fmt.Errorf("%w: empty subject id", domain.ErrInvalidRecord)
	case !kind.Valid():
		return domain.ActivityRecord{}, fmt.Errorf("%w: unknown kind %q", domain.ErrInvalidRecord, kind)
	case strings.TrimSpace(name) == "":
		return domain.ActivityRecord{}, fmt.Errorf("%w: empty name", domain.ErrInvalidRecord)
	case durationSeconds <= 0:
		return domain.ActivityRecord{}, fmt.Errorf("%w: non-positive duration %d", domain.ErrInvalidRecord, durationSeconds)
	case durationSeconds > MaxRecordDuration:
		return domain.ActivityRecord{}, fmt.Errorf("%w: duration %ds exceeds one day", domain.ErrInvalidRecord, durationSeconds)
	}

	if occurredAt.IsZero() {
		occurredAt = s.now()
	}
	rec := domain.ActivityRecord{
		ID:              uuid.NewString(),
		SubjectID:       subjectID,
		Kind:            kind,
		Name:            name,
		DurationSeconds: durationSeconds,
		OccurredAt:      occurredAt,
		CalendarDate:    domain.CalendarDate(occurredAt),
	}
	if err := s.db.InsertActivityRecord(rec); err != nil {
		return domain.ActivityRecord{}, fmt.Errorf("%w: %v", domain.ErrRecordStoreUnavailable, err)
	}
	return rec, nil
}

// Summary computes the productivity picture for one window ending at
// asOf. A subject with records but none inside the window gets a zeroed
// summary; a subject with no records at all is not found.
func (s *Service) Summary(subjectID string, window domain.Window, asOf time.Time) (domain.UsageSummary, error) {
	if asOf.IsZero() {
		asOf = s.now()
	}
	records, err := s.recordsInWindow(subjectID, window, asOf)
	if err != nil {
		return domain.UsageSummary{}, err
	}
	return summarize(subjectID, window, domain.CalendarDate(asOf), records, s.classifier, s.topN), nil
}

// Trend returns per-period summaries ending at asOf, oldest first. The
// window picks the granularity: daily and weekly give one summary per
// calendar day (`periods` days, the weekly default spanning the week),
// monthly gives one summary per calendar month (`periods` months).
func (s *Service) Trend(subjectID string, window domain.Window, periods int, asOf time.Time) ([]domain.UsageSummary, error) {
	if asOf.IsZero() {
		asOf = s.now()
	}
	if window == domain.WindowMonthly {
		return s.monthlyTrend(subjectID, periods, asOf)
	}
	return s.dailyTrend(subjectID, periods, asOf)
}

// dailyTrend is one summary per calendar day for the trailing `periods`
// days.
func (s *Service) dailyTrend(subjectID string, periods int, asOf time.Time) ([]domain.UsageSummary, error) {
	if periods <= 0 {
		periods = 7
	}

	out := make([]domain.UsageSummary, 0, periods)
	for i := periods - 1; i >= 0; i-- {
		day := asOf.AddDate(0, 0, -i)
		end := day
		if i > 0 {
			// Past days cover the full calendar day, not just up to asOf's clock time.
			y, m, d := day.Date()
			end = time.Date(y, m, d, 23, 59, 59, 0, day.Location())
		}
		records, err := s.recordsInWindow(subjectID, domain.WindowDaily, end)
		if err != nil {
			return nil, err
		}
		out = append(out, summarize(subjectID, domain.WindowDaily, domain.CalendarDate(day), records, s.classifier, s.topN))
	}
	return out, nil
}

// monthlyTrend is one summary per calendar month for the trailing
// `periods` months, each labelled by the first day of its month.
func (s *Service) monthlyTrend(subjectID string, periods int, asOf time.Time) ([]domain.UsageSummary, error) {
	if periods <= 0 {
		periods = 6
	}

	out := make([]domain.UsageSummary, 0, periods)
	y, m, _ := asOf.Date()
	for i := periods - 1; i >= 0; i-- {
		start := time.Date(y, m-time.Month(i), 1, 0, 0, 0, 0, asOf.Location())
		end := asOf
		if i > 0 {
			// Past months cover the full month; the current one stops at asOf.
			end = start.AddDate(0, 1, 0).Add(-time.Second)
		}
		records, err := s.recordsBetween(subjectID, start, end)
		if err != nil {
			return nil, err
		}
		out = append(out, summarize(subjectID, domain.WindowMonthly, domain.CalendarDate(start), records, s.classifier, s.topN))
	}
	return out, nil
}

// AppVsWeb compares application time against browser time for a window.
func (s *Service) AppVsWeb(subjectID string, window domain.Window, asOf time.Time) (domain.AppWebSplit, error) {
	if asOf.IsZero() {
		asOf = s.now()
	}
	records, err := s.recordsInWindow(subjectID, window, asOf)
	if err != nil {
		return domain.AppWebSplit{}, err
	}
	return split(subjectID, window, records), nil
}

func (s *Service) recordsInWindow(subjectID string, window domain.Window, asOf time.Time) ([]domain.ActivityRecord, error) {
	from, to := window.Range(asOf)
	return s.recordsBetween(subjectID, from, to)
}

func (s *Service) recordsBetween(subjectID string, from, to time.Time) ([]domain.ActivityRecord, error) {
	records, err := s.db.ActivityRecords(subjectID, from, to)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRecordStoreUnavailable, err)
	}
	if len(records) == 0 {
		known, err := s.db.SubjectHasRecords(subjectID)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrRecordStoreUnavailable, err)
		}
		if !known {
			return nil, domain.ErrSubjectNotFound
		}
	}
	return records, nil
}
