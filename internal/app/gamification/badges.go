package gamification

import (
	"time"

	"github.com/focuai/focusd/internal/domain"
)

// AllBadges returns the badge catalog. IDs are stable — clients persist
// them — so entries may be added but never renamed or removed.
func AllBadges() []domain.BadgeDef {
	return []domain.BadgeDef{
		{
			ID:          "focus-master",
			Name:        "Focus Master",
			Description: "Hold an 85%+ average focus score",
			Rarity:      "epic",
			Points:      500,
			Predicate: func(st domain.GamificationState, _ domain.UsageSummary, _ time.Time) bool {
				return st.Statistics.SessionsCompleted >= 5 && st.Statistics.AverageFocusScore >= 85
			},
		},
		{
			ID:          "consistency-champion",
			Name:        "Consistency Champion",
			Description: "Maintain a 7-day productivity streak",
			Rarity:      "rare",
			Points:      300,
			Predicate: func(st domain.GamificationState, _ domain.UsageSummary, _ time.Time) bool {
				return st.Streak.Current >= 7
			},
		},
		{
			ID:          "productivity-wizard",
			Name:        "Productivity Wizard",
			Description: "Complete 40 hours of productive work",
			Rarity:      "legendary",
			Points:      1000,
			Predicate: func(st domain.GamificationState, _ domain.UsageSummary, _ time.Time) bool {
				return st.Statistics.TotalProductiveSeconds >= 40*3600
			},
		},
		{
			ID:          "early-bird",
			Name:        "Early Bird",
			Description: "Log a productive session before 8 AM",
			Rarity:      "common",
			Points:      150,
			Predicate: func(_ domain.GamificationState, s domain.UsageSummary, at time.Time) bool {
				return at.Hour() < 8 && s.ProductiveSeconds > 0
			},
		},
		{
			ID:          "night-owl",
			Name:        "Night Owl",
			Description: "Log a productive session after 10 PM",
			Rarity:      "common",
			Points:      150,
			Predicate: func(_ domain.GamificationState, s domain.UsageSummary, at time.Time) bool {
				return at.Hour() >= 22 && s.ProductiveSeconds > 0
			},
		},
		{
			ID:          "distraction-slayer",
			Name:        "Distraction Slayer",
			Description: "Work 3+ hours with zero distraction time",
			Rarity:      "rare",
			Points:      250,
			Predicate: func(_ domain.GamificationState, s domain.UsageSummary, _ time.Time) bool {
				return s.ProductiveSeconds >= 3*3600 && s.DistractingSeconds == 0
			},
		},
		{
			ID:          "marathon-runner",
			Name:        "Marathon Runner",
			Description: "Complete 8+ hours of productive work in a day",
			Rarity:      "epic",
			Points:      400,
			Predicate: func(_ domain.GamificationState, s domain.UsageSummary, _ time.Time) bool {
				return s.Window == domain.WindowDaily && s.ProductiveSeconds >= 8*3600
			},
		},
		{
			ID:          "perfectionist",
			Name:        "Perfectionist",
			Description: "Achieve a 100% focus score in a session",
			Rarity:      "legendary",
			Points:      750,
			Predicate: func(_ domain.GamificationState, s domain.UsageSummary, _ time.Time) bool {
				return s.FocusScore == 100 && s.TotalActiveSeconds > 0
			},
		},
	}
}
