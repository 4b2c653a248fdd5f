package welcome

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/learncricket/internal/ui/theme"
)

const (
	bannerArt = `
 ╦  ╔═╗╔═╗╦═╗╔╗╔  ╔═╗╦═╗╦╔═╗╦╔═╔═╗╔╦╗
 ║  ║╣ ╠═╣╠╦╝║║║  ║  ╠╦╝║║  ╠╩╗║╣  ║
 ╩═╝╚═╝╩ ╩╩╚═╝╚╝  ╚═╝╩╚═╩╚═╝╩ ╩╚═╝ ╩`

	bannerCompact = "L E A R N  C R I C K E T"

	tagline = "Answer fast. Score big."
)

// RenderBanner draws the title art, or the spaced-out name when the art
// would not fit in width.
func RenderBanner(width int) string {
	title := bannerArt
	if width < lipgloss.Width(bannerArt)+2 {
		title = bannerCompact
	}
	return lipgloss.JoinVertical(lipgloss.Center,
		lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(title),
		"",
		lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(tagline),
	)
}
