package gamification

import (
	"time"

	"github.com/focuai/focusd/internal/domain"
)

// AllChallenges returns the challenge catalog. Daily entries are
// auto-instantiated for every subject on the day rollover; weekly ones
// are joined explicitly.
func AllChallenges() []domain.ChallengeDef {
	return []domain.ChallengeDef{
		{
			ID:          "daily-focus-goal",
			Name:        "Daily Focus Goal",
			Description: "Achieve a 75%+ focus score today",
			Cadence:     domain.CadenceDaily,
			Target:      75,
			Reward:      50,
		},
		{
			ID:          "daily-productive-hours",
			Name:        "Productive Hours",
			Description: "Complete 4 hours of productive work today",
			Cadence:     domain.CadenceDaily,
			Target:      240, // minutes
			Reward:      75,
		},
		{
			ID:          "daily-distraction-limit",
			Name:        "Minimize Distractions",
			Description: "Keep distraction time under 30 minutes today",
			Cadence:     domain.CadenceDaily,
			Target:      30,
			Reward:      60,
		},
		{
			ID:          "weekly-consistency",
			Name:        "Weekly Consistency",
			Description: "Be productive on 5 days this week",
			Cadence:     domain.CadenceWeekly,
			Target:      5,
			Reward:      200,
		},
		{
			ID:          "weekly-focus-improvement",
			Name:        "Focus Improvement",
			Description: "Improve your average focus score by 10 points this week",
			Cadence:     domain.CadenceWeekly,
			Target:      10,
			Reward:      150,
		},
	}
}

// instantiate builds a subject's joined instance of a definition for
// the period containing `at`. Each period gets its own instance, so a
// completed or claimed one stays behind as history and the next period
// starts fresh. Daily instances expire at the end of the joining day,
// weekly ones at the end of the ISO week.
func instantiate(def domain.ChallengeDef, at time.Time) domain.Challenge {
	c := domain.Challenge{
		ChallengeID: def.ID,
		Period:      periodKey(def.Cadence, at),
		Name:        def.Name,
		Description: def.Description,
		Cadence:     def.Cadence,
		Target:      def.Target,
		Reward:      def.Reward,
		CreatedAt:   at,
	}
	if def.Cadence == domain.CadenceDaily {
		c.ExpiresAt = endOfDay(at)
	} else {
		c.ExpiresAt = endOfISOWeek(at)
	}
	return c
}

// periodKey names the recurrence period containing t: the reporting day
// for dailies, the ISO week for weeklies.
func periodKey(cadence domain.ChallengeCadence, t time.Time) string {
	if cadence == domain.CadenceDaily {
		return domain.CalendarDate(t)
	}
	return isoWeek(t)
}

func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, 0, t.Location())
}

// endOfISOWeek returns the last second of t's ISO week (Sunday).
func endOfISOWeek(t time.Time) time.Time {
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday
	}
	return endOfDay(t.AddDate(0, 0, 7-weekday))
}
