package match

import (
	"fmt"
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/learncricket/internal/scoring"
	"github.com/abhisek/learncricket/internal/topics"
	"github.com/abhisek/learncricket/internal/ui/components"
	"github.com/abhisek/learncricket/internal/ui/layout"
	"github.com/abhisek/learncricket/internal/ui/theme"
)

func (s *MatchScreen) View(width, height int) string {
	if s.errMsg != "" {
		return renderError(width, s.errMsg)
	}
	if s.confirmQuit {
		return renderQuitConfirm(width)
	}

	compact := layout.IsCompact(height)
	cw := components.ContentWidth(width)

	sections := []string{
		components.Scoreboard{State: s.state, Config: s.cfg, Pitch: s.pitch}.View(cw),
		components.BallStrip(s.state.BallResults, s.cfg.BallsPerOver, !s.finished, cw),
	}
	if s.overBanner != nil {
		sections = append(sections, s.renderOverBanner())
	}
	if s.flash != nil {
		sections = append(sections, s.renderFlash(cw, compact))
	}

	switch {
	case s.paused != nil:
		sections = append(sections, renderPaused(s.paused))
	case s.question != nil:
		sections = append(sections, s.renderQuestion(cw))
	case !s.finished:
		sections = append(sections, lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Render(s.spinner.View()+" The bowler is walking back..."))
	}

	return lipgloss.PlaceHorizontal(width, lipgloss.Center, strings.Join(sections, "\n\n"))
}

func (s *MatchScreen) renderQuestion(cw int) string {
	q := s.question

	meta := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).
		Render(fmt.Sprintf("%s · %s", topics.DisplayName(q.Topic), q.Difficulty))
	clock := s.renderClock()
	gap := cw - lipgloss.Width(meta) - lipgloss.Width(clock)
	header := meta + strings.Repeat(" ", max(gap, 1)) + clock

	return header + "\n" +
		lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", cw)) + "\n\n" +
		s.choice.View(cw)
}

// renderClock shows the response time in the color of the shot it is
// still worth.
func (s *MatchScreen) renderClock() string {
	secs := s.elapsed.Seconds()
	var c color.Color
	var worth string
	switch {
	case secs < s.thresholds.Six:
		c, worth = theme.OutcomeColor(scoring.Six), "six"
	case secs < s.thresholds.Four:
		c, worth = theme.OutcomeColor(scoring.Four), "four"
	case secs < s.thresholds.Single:
		c, worth = theme.OutcomeColor(scoring.Single), "single"
	default:
		c, worth = theme.OutcomeColor(scoring.Dot), "dot"
	}
	return lipgloss.NewStyle().Foreground(c).Bold(true).
		Render(fmt.Sprintf("⏱ %4.1fs  %s", secs, worth))
}

func (s *MatchScreen) renderFlash(cw int, compact bool) string {
	b := s.flash
	headline := theme.Outcome(b.Outcome).Render(b.Outcome.Label())
	detail := fmt.Sprintf("  %d run(s) in %.1fs", b.Outcome.Runs(), b.ResponseSeconds)
	if b.Outcome.IsWicket() {
		detail = fmt.Sprintf("  answer: %s", b.Question.CorrectOption())
	}
	lines := []string{headline + lipgloss.NewStyle().Foreground(theme.TextDim).Render(detail)}
	if !compact && b.Question.Explanation != "" {
		lines = append(lines, lipgloss.NewStyle().
			Width(cw).
			Foreground(theme.TextDim).
			Italic(true).
			Render(b.Question.Explanation))
	}
	return strings.Join(lines, "\n")
}

func (s *MatchScreen) renderOverBanner() string {
	o := s.overBanner
	text := fmt.Sprintf("End of over %d: %d run(s), %d wicket(s)", o.Index+1, o.Runs, o.Wickets)
	if o.Maiden {
		text += " · maiden!"
	}
	return lipgloss.NewStyle().
		Foreground(theme.BgDark).
		Background(theme.Secondary).
		Bold(true).
		Padding(0, 2).
		Render(text)
}

func renderPaused(err error) string {
	return lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render("Bad light stopped play") + "\n" +
		lipgloss.NewStyle().Foreground(theme.TextDim).Render("No questions could be fetched: "+err.Error()) + "\n\n" +
		lipgloss.NewStyle().Foreground(theme.Text).Render("[R] Try again   [Esc] Declare")
}

func renderQuitConfirm(width int) string {
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)

	var b strings.Builder
	b.WriteString("\n\n\n")
	b.WriteString(center.Foreground(theme.Text).Bold(true).Render("Declare the innings?"))
	b.WriteString("\n")
	b.WriteString(center.Foreground(theme.TextDim).Render("Your progress so far will be saved."))
	b.WriteString("\n\n")
	b.WriteString(center.Foreground(theme.Success).Render("[Y] Yes, declare"))
	b.WriteString("\n")
	b.WriteString(center.Foreground(theme.Primary).Render("[N] No, keep batting"))
	return b.String()
}

func renderError(width int, errMsg string) string {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Error).
		Render(fmt.Sprintf("\n\n\n  Error: %s\n\n  Press any key to go back.", errMsg))
}
