// Package theme holds the palette shared by every screen.
package theme

import (
	"image/color"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/learncricket/internal/scoring"
)

// Colors of a ground on match day.
var (
	Primary   = lipgloss.Color("#22C55E") // outfield
	Secondary = lipgloss.Color("#EAB308") // pitch
	Accent    = lipgloss.Color("#DC2626") // ball
	Success   = lipgloss.Color("#4ADE80")
	Error     = lipgloss.Color("#F43F5E")
	Boundary  = lipgloss.Color("#38BDF8") // rope
	Text      = lipgloss.Color("#F8FAFC") // whites
	TextDim   = lipgloss.Color("#94A3B8")
	BgDark    = lipgloss.Color("#0B1F14")
	BgCard    = lipgloss.Color("#14342A") // scoreboard
	Border    = lipgloss.Color("#2F5D4A") // sight screen
)

// Progress bar cells.
var (
	ProgressFilled = lipgloss.NewStyle().Background(Primary)
	ProgressEmpty  = lipgloss.NewStyle().Background(Border)
)

// OutcomeColor is the color a ball outcome is drawn in.
func OutcomeColor(o scoring.Outcome) color.Color {
	switch o {
	case scoring.Six:
		return Secondary
	case scoring.Four:
		return Boundary
	case scoring.Single:
		return Text
	case scoring.Wicket:
		return Accent
	}
	return TextDim
}

// Outcome styles a ball outcome. Boundaries and wickets are bold.
func Outcome(o scoring.Outcome) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(OutcomeColor(o)).
		Bold(o.IsBoundary() || o.IsWicket())
}
