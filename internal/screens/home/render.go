package home

import (
	"fmt"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/learncricket/internal/ui/components"
	"github.com/abhisek/learncricket/internal/ui/theme"
)

// renderStatsCard shows the player's lifetime figures in a card.
func renderStatsCard(key string, s Stats, loaded bool, errMsg string, cw int, compact bool) string {
	nameStyle := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true)
	valueStyle := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(theme.TextDim)

	var body string
	switch {
	case errMsg != "":
		body = lipgloss.NewStyle().Foreground(theme.Error).Render("⚠ could not load progress")
	case !loaded:
		body = dimStyle.Render("checking the scorebook...")
	case s.Played == 0 && s.Balls == 0:
		body = dimStyle.Italic(true).Render("No innings yet. Take guard!")
	case compact:
		body = fmt.Sprintf("%s %s %s",
			valueStyle.Render(fmt.Sprintf("#%d", s.Played)),
			valueStyle.Render(fmt.Sprintf("★%d", s.BestRuns)),
			valueStyle.Render(fmt.Sprintf("%.0f%%", s.Accuracy*100)),
		)
	default:
		body = fmt.Sprintf("%s  %s  %s  %s",
			valueStyle.Render(fmt.Sprintf("%d INNINGS", s.Played)),
			valueStyle.Render(fmt.Sprintf("BEST %d", s.BestRuns)),
			valueStyle.Render(fmt.Sprintf("%.0f%% CORRECT", s.Accuracy*100)),
			dimStyle.Render(string(s.Level)),
		)
	}

	return components.Card(nameStyle.Render(key)+"\n"+body, cw)
}

// renderPlayerPrompt shows the player-name editor in place of the menu.
func renderPlayerPrompt(input components.NameInput, cw int) string {
	label := lipgloss.NewStyle().Foreground(theme.Text).Render("Who's batting?")
	hint := lipgloss.NewStyle().Foreground(theme.TextDim).Render("letters, digits, - and _")
	return components.Card(label+"\n"+input.View()+"\n"+hint, cw)
}
