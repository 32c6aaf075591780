// Package classify assigns activity records to productivity categories
// using ordered, case-insensitive substring rules. App and site names
// are matched against separate rule lists so "code.org" in a browser
// tab never matches the "code" editor rule.
package classify

import (
	"strings"

	"github.com/focuai/focusd/internal/domain"
)

// Rules holds the raw substring patterns for each category. Patterns
// are matched in list order; productive lists always win over
// distracting ones when both would match.
type Rules struct {
	ProductiveApps   []string
	DistractingApps  []string
	ProductiveSites  []string
	DistractingSites []string
}

// DefaultRules returns the built-in rule set. Callers layer their own
// patterns on top via Merge.
func DefaultRules() Rules {
	return Rules{
		ProductiveApps: []string{
			"code", "vscode", "visual studio", "intellij", "pycharm", "webstorm",
			"goland", "xcode", "terminal", "iterm", "vim", "emacs", "sublime",
			"figma", "postman", "docker", "slack", "notion", "obsidian", "excel",
			"word", "powerpoint", "keynote", "numbers", "pages",
		},
		DistractingApps: []string{
			"steam", "epic games", "discord", "spotify", "netflix", "twitch",
			"telegram", "whatsapp", "messages", "solitaire", "minecraft",
		},
		ProductiveSites: []string{
			"github.com", "gitlab.com", "stackoverflow.com", "docs.google.com",
			"notion.so", "linear.app", "jira", "confluence", "developer.mozilla.org",
			"go.dev", "pkg.go.dev", "wikipedia.org", "coursera.org", "udemy.com",
			"leetcode.com", "kaggle.com",
		},
		DistractingSites: []string{
			"youtube.com", "facebook.com", "instagram.com", "twitter.com", "x.com",
			"reddit.com", "tiktok.com", "netflix.com", "twitch.tv", "9gag.com",
			"buzzfeed.com", "pinterest.com",
		},
	}
}

// Merge appends extra patterns after the receiver's own, so built-in
// rules keep precedence and user additions act as a fallback tier.
func (r Rules) Merge(extra Rules) Rules {
	return Rules{
		ProductiveApps:   append(append([]string{}, r.ProductiveApps...), extra.ProductiveApps...),
		DistractingApps:  append(append([]string{}, r.DistractingApps...), extra.DistractingApps...),
		ProductiveSites:  append(append([]string{}, r.ProductiveSites...), extra.ProductiveSites...),
		DistractingSites: append(append([]string{}, r.DistractingSites...), extra.DistractingSites...),
	}
}

// Classifier answers category lookups for app and site names. Safe for
// concurrent use; all state is immutable after New.
type Classifier struct {
	productiveApps   []string
	distractingApps  []string
	productiveSites  []string
	distractingSites []string
}

func New(rules Rules) *Classifier {
	return &Classifier{
		productiveApps:   lowerAll(rules.ProductiveApps),
		distractingApps:  lowerAll(rules.DistractingApps),
		productiveSites:  lowerAll(rules.ProductiveSites),
		distractingSites: lowerAll(rules.DistractingSites),
	}
}

// App classifies a desktop application by name.
func (c *Classifier) App(name string) domain.Category {
	return match(name, c.productiveApps, c.distractingApps)
}

// Site classifies a browser tab by its domain or URL.
func (c *Classifier) Site(name string) domain.Category {
	return match(name, c.productiveSites, c.distractingSites)
}

// Record dispatches on the record kind.
func (c *Classifier) Record(rec domain.ActivityRecord) domain.Category {
	if rec.Kind == domain.KindTab {
		return c.Site(rec.Name)
	}
	return c.App(rec.Name)
}

// match checks productive patterns before distracting ones, so an
// entry appearing in both lists classifies as productive. Within a
// list the first substring hit wins.
func match(name string, productive, distracting []string) domain.Category {
	lowered := strings.ToLower(name)
	for _, p := range productive {
		if strings.Contains(lowered, p) {
			return domain.CategoryProductive
		}
	}
	for _, p := range distracting {
		if strings.Contains(lowered, p) {
			return domain.CategoryDistracting
		}
	}
	return domain.CategoryNeutral
}

func lowerAll(patterns []string) []string {
	out := make([]string, len(patterns))
	for i, p := range patterns {
		out[i] = strings.ToLower(strings.TrimSpace(p))
	}
	return out
}
