// Package usage turns raw activity records into productivity summaries.
// Summaries are recomputed from records on every query; nothing here
// caches derived numbers, so a given record set always yields the same
// answer no matter when it is asked.
package usage

import (
	"sort"

	"github.com/focuai/focusd/internal/app/classify"
	"github.com/focuai/focusd/internal/domain"
)

// nameTally accumulates per-name durations while remembering first-seen
// order. Ranking ties break toward the name seen earlier in the stream.
type nameTally struct {
	order  []string
	totals map[string]int64
}

func newNameTally() *nameTally {
	return &nameTally{totals: make(map[string]int64)}
}

func (t *nameTally) add(name string, seconds int64) {
	if _, seen := t.totals[name]; !seen {
		t.order = append(t.order, name)
	}
	t.totals[name] += seconds
}

// top returns the name with the largest total, or "" when empty.
func (t *nameTally) top() string {
	var best string
	var bestSeconds int64 = -1
	for _, name := range t.order {
		if t.totals[name] > bestSeconds {
			best, bestSeconds = name, t.totals[name]
		}
	}
	return best
}

// ranked returns up to n entries ordered by duration descending. The
// stable sort keeps first-seen order among equal durations.
func (t *nameTally) ranked(n int) []domain.NameTotal {
	entries := make([]domain.NameTotal, 0, len(t.order))
	for _, name := range t.order {
		entries = append(entries, domain.NameTotal{Name: name, Seconds: t.totals[name]})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Seconds > entries[j].Seconds
	})
	if n > 0 && len(entries) > n {
		entries = entries[:n]
	}
	return entries
}

// summarize folds records into a UsageSummary. Names group verbatim:
// "Chrome" and "chrome" are distinct entries, matching what the tracker
// actually reported.
func summarize(subjectID string, window domain.Window, asOf string, records []domain.ActivityRecord, c *classify.Classifier, topN int) domain.UsageSummary {
	s := domain.UsageSummary{
		SubjectID: subjectID,
		Window:    window,
		Date:      asOf,
		TopNames:  []domain.NameTotal{},
	}

	apps := newNameTally()
	sites := newNameTally()
	productive := newNameTally()
	all := newNameTally()

	for _, rec := range records {
		s.TotalActiveSeconds += rec.DurationSeconds
		all.add(rec.Name, rec.DurationSeconds)
		if rec.Kind == domain.KindTab {
			sites.add(rec.Name, rec.DurationSeconds)
		} else {
			apps.add(rec.Name, rec.DurationSeconds)
		}

		switch c.Record(rec) {
		case domain.CategoryProductive:
			s.ProductiveSeconds += rec.DurationSeconds
			productive.add(rec.Name, rec.DurationSeconds)
		case domain.CategoryDistracting:
			s.DistractingSeconds += rec.DurationSeconds
		default:
			s.NeutralSeconds += rec.DurationSeconds
		}
	}

	s.FocusScore = domain.PercentOf(s.ProductiveSeconds, s.TotalActiveSeconds)
	s.ProductiveHours = domain.RoundedHours(s.ProductiveSeconds)
	s.DistractionHours = domain.RoundedHours(s.DistractingSeconds)
	s.TopProductiveName = productive.top()
	s.MostUsedName = apps.top()
	s.MostVisitedDomain = sites.top()
	s.TopNames = all.ranked(topN)
	s.UniqueApps = len(apps.order)
	s.UniqueSites = len(sites.order)
	return s
}

// split folds records into the app-versus-browser comparison. Both
// percentages round independently against the combined total.
func split(subjectID string, window domain.Window, records []domain.ActivityRecord) domain.AppWebSplit {
	out := domain.AppWebSplit{SubjectID: subjectID, Window: window}
	for _, rec := range records {
		if rec.Kind == domain.KindTab {
			out.WebSeconds += rec.DurationSeconds
		} else {
			out.AppSeconds += rec.DurationSeconds
		}
	}
	total := out.AppSeconds + out.WebSeconds
	out.AppPercentage = domain.PercentOf(out.AppSeconds, total)
	out.WebPercentage = domain.PercentOf(out.WebSeconds, total)
	return out
}
