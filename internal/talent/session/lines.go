package session

import (
	"golang.org/x/text/language"

	"github.com/louisbranch/talentcalc/internal/platform/i18n"
)

// Lines are the summary counters rendered in one language.
type Lines struct {
	Spent     string   `json:"spent"`
	Remaining string   `json:"remaining"`
	Level     string   `json:"level"`
	Primary   string   `json:"primary"`
	Trees     []string `json:"trees"`
}

// Lines renders the state's summary in tag.
func (s State) Lines(tag language.Tag) Lines {
	p := i18n.Printer(tag)
	sum := s.Summary
	lines := Lines{
		Spent:     p.Sprintf("talents.summary.spent", sum.TotalPointsSpent, sum.Budget),
		Remaining: p.Sprintf("talents.summary.remaining", sum.PointsRemaining),
		Level:     p.Sprintf("talents.summary.level", sum.CurrentLevel),
		Primary:   p.Sprintf("talents.summary.no_primary"),
	}
	if sum.PrimaryTree != "" {
		lines.Primary = p.Sprintf("talents.summary.primary", sum.PrimaryTree)
	}
	for _, t := range s.Trees {
		lines.Trees = append(lines.Trees, p.Sprintf("talents.summary.tree", t.Name, t.PointsSpent))
	}
	return lines
}
