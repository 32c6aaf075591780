package domain

import "math"

// NameTotal is one entry of a ranked usage breakdown.
type NameTotal struct {
	Name    string `json:"name"`
	Seconds int64  `json:"seconds"`
}

// UsageSummary is the derived productivity picture for one subject and
// window. Recomputed from ActivityRecords on every query — it carries no
// hidden state, so identical inputs always produce identical summaries.
type UsageSummary struct {
	SubjectID          string      `json:"subject_id"`
	Window             Window      `json:"window"`
	Date               string      `json:"date"` // reporting period label, YYYY-MM-DD
	FocusScore         int         `json:"focus_score"` // 0–100
	ProductiveSeconds  int64       `json:"productive_seconds"`
	DistractingSeconds int64       `json:"distracting_seconds"`
	NeutralSeconds     int64       `json:"neutral_seconds"`
	TotalActiveSeconds int64       `json:"total_active_seconds"`
	ProductiveHours    float64     `json:"productive_hours"`  // 1 decimal, display only
	DistractionHours   float64     `json:"distraction_hours"` // 1 decimal, display only
	TopProductiveName  string      `json:"top_productive_name"`
	MostUsedName       string      `json:"most_used_name"`
	MostVisitedDomain  string      `json:"most_visited_domain"`
	TopNames           []NameTotal `json:"top_names"`
	UniqueApps         int         `json:"unique_apps"`
	UniqueSites        int         `json:"unique_sites"`
}

// AppWebSplit compares application time against browser time.
// Percentages are rounded independently and may not sum to exactly 100.
type AppWebSplit struct {
	SubjectID     string `json:"subject_id"`
	Window        Window `json:"window"`
	AppSeconds    int64  `json:"app_seconds"`
	WebSeconds    int64  `json:"web_seconds"`
	AppPercentage int    `json:"app_percentage"`
	WebPercentage int    `json:"web_percentage"`
}

// RoundedHours converts seconds to hours at one-decimal display precision.
// Accumulation stays in integer seconds; only presentation rounds.
func RoundedHours(seconds int64) float64 {
	return math.Round(float64(seconds)/3600*10) / 10
}

// PercentOf returns round(part/total*100), or 0 when total is 0.
func PercentOf(part, total int64) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}
