package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/mattn/go-runewidth"

	"github.com/abhisek/learncricket/internal/ui/theme"
)

// ProgressBar draws a labelled accuracy bar. The bar is tinted by how
// well the topic is going: weak below 50%, strong above 80%.
type ProgressBar struct {
	Label string
	// LabelWidth pads or truncates Label to a fixed column; 0 leaves it as is.
	LabelWidth  int
	Percent     float64
	ShowPercent bool
	Width       int
}

const minBarWidth = 4

func (p ProgressBar) View() string {
	var b strings.Builder
	if p.Label != "" {
		label := p.Label
		if p.LabelWidth > 0 {
			label = runewidth.FillRight(runewidth.Truncate(label, p.LabelWidth, "…"), p.LabelWidth)
		}
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Render(label))
		b.WriteString("  ")
	}

	pct := min(max(p.Percent, 0), 1)
	suffix := ""
	if p.ShowPercent {
		suffix = fmt.Sprintf("%5d%%", int(pct*100+0.5))
	}

	barWidth := max(p.Width-lipgloss.Width(b.String())-len(suffix), minBarWidth)
	filled := int(float64(barWidth)*pct + 0.5)

	fill := theme.ProgressFilled
	switch {
	case pct < 0.5:
		fill = fill.Background(theme.Error)
	case pct > 0.8:
		fill = fill.Background(theme.Success)
	}
	b.WriteString(fill.Render(strings.Repeat(" ", filled)))
	b.WriteString(theme.ProgressEmpty.Render(strings.Repeat(" ", barWidth-filled)))
	if suffix != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render(suffix))
	}
	return b.String()
}
