package components

import (
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/mattn/go-runewidth"

	"github.com/abhisek/learncricket/internal/scoring"
	"github.com/abhisek/learncricket/internal/ui/theme"
)

const (
	upcomingBall = "○"
	overSep      = " │ "
	truncMark    = "… "
)

type stripBall struct {
	outcome  scoring.Outcome
	upcoming bool
}

func (b stripBall) symbol() string {
	if b.upcoming {
		return upcomingBall
	}
	return b.outcome.Symbol()
}

// BallStrip renders results over by over, e.g. "1 • 4 6 • W │ 1 ○ ○ ○ ○ ○".
// With live set, the balls still to come in the current over are drawn
// as open circles. Oldest overs are dropped to fit width.
func BallStrip(results []scoring.Outcome, ballsPerOver int, live bool, width int) string {
	overs, truncated := fitStrip(stripOvers(results, ballsPerOver, live), width)

	var b strings.Builder
	if truncated {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render(truncMark))
	}
	for i, over := range overs {
		if i > 0 {
			b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(overSep))
		}
		for j, ball := range over {
			if j > 0 {
				b.WriteString(" ")
			}
			style := theme.Outcome(ball.outcome)
			if ball.upcoming {
				style = lipgloss.NewStyle().Foreground(theme.Border)
			}
			b.WriteString(style.Render(ball.symbol()))
		}
	}
	return b.String()
}

// plainStrip is BallStrip without styling.
func plainStrip(results []scoring.Outcome, ballsPerOver int, live bool, width int) string {
	overs, truncated := fitStrip(stripOvers(results, ballsPerOver, live), width)
	var b strings.Builder
	if truncated {
		b.WriteString(truncMark)
	}
	b.WriteString(joinOvers(overs))
	return b.String()
}

func stripOvers(results []scoring.Outcome, ballsPerOver int, live bool) [][]stripBall {
	if ballsPerOver <= 0 {
		ballsPerOver = 6
	}
	var overs [][]stripBall
	for i, o := range results {
		if i%ballsPerOver == 0 {
			overs = append(overs, nil)
		}
		overs[len(overs)-1] = append(overs[len(overs)-1], stripBall{outcome: o})
	}
	if !live {
		return overs
	}
	if len(results)%ballsPerOver == 0 {
		overs = append(overs, nil)
	}
	last := len(overs) - 1
	for len(overs[last]) < ballsPerOver {
		overs[last] = append(overs[last], stripBall{upcoming: true})
	}
	return overs
}

func joinOvers(overs [][]stripBall) string {
	parts := make([]string, len(overs))
	for i, over := range overs {
		syms := make([]string, len(over))
		for j, ball := range over {
			syms[j] = ball.symbol()
		}
		parts[i] = strings.Join(syms, " ")
	}
	return strings.Join(parts, overSep)
}

// fitStrip drops the oldest overs until the strip fits width. The
// current over is always kept. Symbols such as "•" and "○" are
// ambiguous-width, so widths come from runewidth.
func fitStrip(overs [][]stripBall, width int) ([][]stripBall, bool) {
	if width <= 0 {
		return overs, false
	}
	truncated := false
	for len(overs) > 1 {
		w := runewidth.StringWidth(joinOvers(overs))
		if truncated {
			w += runewidth.StringWidth(truncMark)
		}
		if w <= width {
			break
		}
		overs = overs[1:]
		truncated = true
	}
	return overs, truncated
}
