// Package layout draws the chrome around every screen: a scoreboard-style
// header, a footer of key hints and the frame joining them.
package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/learncricket/internal/ui/theme"
)

const (
	MinWidth  = 80
	MinHeight = 24

	// compactContentHeight is the content height below which screens
	// drop decoration such as the feedback art.
	compactContentHeight = 22

	brand = "🏏 LearnCricket"
)

// KeyHint is one key binding shown in the footer.
type KeyHint struct {
	Key         string
	Description string
}

// IsTooSmall reports whether the terminal is below the playable size.
func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

// IsCompact reports whether a content area of the given height should use
// the condensed layout.
func IsCompact(contentHeight int) bool {
	return contentHeight < compactContentHeight
}

// RenderMinSizeMessage asks the player to enlarge the terminal.
func RenderMinSizeMessage(width, height int) string {
	msg := fmt.Sprintf("Terminal too small to take guard.\n\nNeed at least %d x %d, have %d x %d.",
		MinWidth, MinHeight, width, height)
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.Text).
		Render(msg)
}

func bar(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Width(width).
		Background(theme.BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border)
}

// RenderHeader lays out the brand on the left, the screen title centred
// and status (usually the live score) on the right.
func RenderHeader(title, status string, width int) string {
	left := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(" " + brand)
	center := lipgloss.NewStyle().Foreground(theme.Text).Render(title)
	right := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render(status + " ")

	inner := max(width-4, 0)
	lw, cw, rw := lipgloss.Width(left), lipgloss.Width(center), lipgloss.Width(right)

	leftGap := max((inner-cw)/2-lw, 1)
	rightGap := max(inner-lw-leftGap-cw-rw, 1)

	return bar(width).Render(left + strings.Repeat(" ", leftGap) + center + strings.Repeat(" ", rightGap) + right)
}

// RenderFooter lists hints left to right, dropping trailing hints that
// would not fit.
func RenderFooter(hints []KeyHint, width int) string {
	keyStyle := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(theme.TextDim)

	avail := max(width-6, 0)
	var b strings.Builder
	b.WriteString("  ")
	used := 0
	for i, h := range hints {
		part := keyStyle.Render(h.Key) + " " + descStyle.Render(h.Description)
		sep := ""
		if i > 0 {
			sep = "   "
		}
		w := lipgloss.Width(sep + part)
		if used+w > avail {
			break
		}
		b.WriteString(sep + part)
		used += w
	}
	return bar(width).Render(b.String())
}

// RenderFrame stacks header, content and footer, giving the content all
// remaining height.
func RenderFrame(header, content, footer string, width, height int) string {
	rest := max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	body := lipgloss.NewStyle().Width(width).Height(rest).Render(content)
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}
