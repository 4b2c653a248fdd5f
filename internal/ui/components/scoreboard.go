package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/learncricket/internal/innings"
	"github.com/abhisek/learncricket/internal/ui/theme"
)

// Scoreboard is the boxed live score shown above the question.
type Scoreboard struct {
	State  innings.State
	Config innings.Config

	// Pitch describes the current difficulty and level, e.g.
	// "medium · intermediate".
	Pitch string
}

// WicketsInHand is how many more wickets can fall before the innings
// ends.
func (s Scoreboard) WicketsInHand() int {
	return max(s.Config.AllOutAt()-s.State.WicketsLost, 0)
}

// View renders the scoreboard at content width cw.
func (s Scoreboard) View(cw int) string {
	st := s.State

	score := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render(st.ScoreLine())

	overs := fmt.Sprintf("Overs %s/%d   RR %.2f",
		innings.OversNotation(st.BallsBowled, s.Config.BallsPerOver),
		s.Config.TotalOvers, st.RunRate)

	detail := fmt.Sprintf("4s %d   6s %d   dots %d   wkts in hand %d",
		st.Fours, st.Sixes, st.DotBalls, s.WicketsInHand())

	lines := []string{
		score + "   " + lipgloss.NewStyle().Foreground(theme.Text).Render(overs),
		lipgloss.NewStyle().Foreground(theme.TextDim).Render(detail),
	}
	if s.Pitch != "" {
		lines = append(lines, lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).Render("pitch: "+s.Pitch))
	}
	return Card(strings.Join(lines, "\n"), cw)
}
