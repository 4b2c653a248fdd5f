package components

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/learncricket/internal/ui/theme"
)

// ContentWidth returns the uniform inner width used for boxed sections,
// so that stacked boxes line up.
func ContentWidth(frameWidth int) int {
	// Leave room for the frame border (2) and inner padding (4).
	w := frameWidth - 6
	if w > 64 {
		w = 64
	}
	if w < 20 {
		w = 20
	}
	return w
}

// BoundaryFrame wraps content in a double border, centered within the
// given dimensions.
func BoundaryFrame(content string, width, height int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Primary).
		Width(width - 2).
		Height(height - 2).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}

// Card wraps content in a rounded-border card at the given content width.
func Card(content string, cw int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Width(cw - 2).
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(content)
}

// buttonWidth is the fixed width for menu buttons.
const buttonWidth = 22

// MenuButton renders one menu entry as a fixed-width button.
func MenuButton(label string, selected bool) string {
	if selected {
		return lipgloss.NewStyle().
			Width(buttonWidth).
			Align(lipgloss.Center).
			Bold(true).
			Foreground(theme.BgDark).
			Background(theme.Primary).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Primary).
			Padding(0, 1).
			Render("▸ " + label)
	}
	return lipgloss.NewStyle().
		Width(buttonWidth).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(0, 1).
		Render(label)
}
