// Package leaderboard ranks subjects by their points buckets. Ranking
// is derived on demand from stored gamification state; it holds no
// state of its own.
package leaderboard

import (
	"sort"

	"github.com/focuai/focusd/internal/domain"
	"github.com/focuai/focusd/internal/infra/sqlite"
)

// DefaultLimit caps a leaderboard page when the caller does not say.
const DefaultLimit = 10

// Ranker computes leaderboards and individual standings.
type Ranker struct {
	db *sqlite.DB
}

func NewRanker(db *sqlite.DB) *Ranker {
	return &Ranker{db: db}
}

// Standing is one subject's rank among all subjects.
type Standing struct {
	Rank  int   `json:"rank"`
	Total int   `json:"total"` // number of ranked subjects
	Value int64 `json:"value"`
}

// Top returns the highest-ranked subjects for a metric. Ties on the
// bucket value order by less distracting time, then subject id, and
// share a rank number: two subjects at 100 points are both rank 1 and
// the next is rank 3.
func (r *Ranker) Top(metric domain.Metric, limit int) ([]domain.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	states, err := r.db.ListStates()
	if err != nil {
		return nil, err
	}

	sort.SliceStable(states, func(i, j int) bool {
		vi, vj := metric.Bucket(states[i].Points), metric.Bucket(states[j].Points)
		if vi != vj {
			return vi > vj
		}
		di, dj := states[i].Statistics.TotalDistractingSeconds, states[j].Statistics.TotalDistractingSeconds
		if di != dj {
			return di < dj
		}
		return states[i].SubjectID < states[j].SubjectID
	})

	if len(states) > limit {
		states = states[:limit]
	}
	entries := make([]domain.LeaderboardEntry, len(states))
	for i, st := range states {
		entries[i] = domain.LeaderboardEntry{
			Rank:      i + 1,
			SubjectID: st.SubjectID,
			Value:     metric.Bucket(st.Points),
			Level:     st.Level,
			Badges:    len(st.Badges),
		}
		if i > 0 && entries[i].Value == entries[i-1].Value {
			entries[i].Rank = entries[i-1].Rank
		}
	}
	return entries, nil
}

// RankOf returns one subject's standing: rank is one plus the number of
// subjects with a strictly greater bucket value, so equals share a rank.
func (r *Ranker) RankOf(subjectID string, metric domain.Metric) (Standing, error) {
	states, err := r.db.ListStates()
	if err != nil {
		return Standing{}, err
	}

	var mine *domain.GamificationState
	for i := range states {
		if states[i].SubjectID == subjectID {
			mine = &states[i]
			break
		}
	}
	if mine == nil {
		return Standing{}, domain.ErrSubjectNotFound
	}

	value := metric.Bucket(mine.Points)
	rank := 1
	for _, st := range states {
		if metric.Bucket(st.Points) > value {
			rank++
		}
	}
	return Standing{Rank: rank, Total: len(states), Value: value}, nil
}
