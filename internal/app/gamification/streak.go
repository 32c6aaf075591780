package gamification

import (
	"time"

	"github.com/focuai/focusd/internal/domain"
)

// advanceStreak folds one qualifying day into the streak. A repeat of
// the already-counted day changes nothing; the day right after the last
// active one extends the run; any other gap starts over at 1. Longest
// only ever grows. Non-qualifying days never reach this function, so a
// missed day shows up as the reset on the next qualifying one.
func advanceStreak(s *domain.Streak, at time.Time) {
	today := domain.CalendarDate(at)
	if s.LastActiveDate == today {
		return
	}

	yesterday := domain.CalendarDate(at.AddDate(0, 0, -1))
	if s.LastActiveDate == yesterday {
		s.Current++
	} else {
		s.Current = 1
	}
	if s.Current > s.Longest {
		s.Longest = s.Current
	}
	s.LastActiveDate = today
}
