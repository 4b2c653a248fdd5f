package summary

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/learncricket/internal/innings"
	"github.com/abhisek/learncricket/internal/router"
	"github.com/abhisek/learncricket/internal/screen"
	"github.com/abhisek/learncricket/internal/session"
	"github.com/abhisek/learncricket/internal/topics"
	"github.com/abhisek/learncricket/internal/ui/components"
	"github.com/abhisek/learncricket/internal/ui/layout"
	"github.com/abhisek/learncricket/internal/ui/theme"
)

// SummaryScreen displays the end-of-innings scorecard.
type SummaryScreen struct {
	summary session.Summary
	warning string
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)
var _ screen.StatusProvider = (*SummaryScreen)(nil)

// New creates a SummaryScreen. warning, if set, is shown under the
// title, e.g. when progress could not be saved.
func New(summary session.Summary, warning string) *SummaryScreen {
	return &SummaryScreen{summary: summary, warning: warning}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Scorecard"
}

func (s *SummaryScreen) Status() string {
	return s.summary.ScoreLine()
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Continue"},
		{Key: "Esc", Description: "Home"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "enter", "esc":
			return s, router.Back
		}
	}
	return s, nil
}

// headline describes how the innings ended.
func headline(sum session.Summary) string {
	if sum.Phase == session.PhaseAborted {
		return "Innings declared"
	}
	switch sum.State.Status {
	case innings.StatusAllOut:
		return "All out!"
	case innings.StatusOversComplete:
		return "Innings complete!"
	}
	return "Innings over"
}

func (s *SummaryScreen) View(width, height int) string {
	sum := s.summary
	cw := components.ContentWidth(width)
	center := func(str string) string { return lipgloss.PlaceHorizontal(width, lipgloss.Center, str) }

	var b strings.Builder

	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(headline(sum))))
	b.WriteString("\n")
	if s.warning != "" {
		b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Error).Render("⚠ " + s.warning)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render(sum.ScoreLine())))
	b.WriteString("\n")
	b.WriteString(center(components.BallStrip(sum.State.BallResults, sum.Config.BallsPerOver, false, cw)))
	b.WriteString("\n\n")

	st := sum.State
	stats := fmt.Sprintf("4s %d   6s %d   dots %d   SR %.1f   RR %.2f",
		st.Fours, st.Sixes, st.DotBalls, st.StrikeRate, st.RunRate)
	answers := fmt.Sprintf("Correct %d/%d (%.0f%%)   avg %.1fs   best streak %d",
		sum.Correct, st.BallsBowled, sum.Accuracy*100, sum.AverageResponseSeconds, sum.BestStreak)
	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Text).Render(stats)))
	b.WriteString("\n")
	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Text).Render(answers)))
	b.WriteString("\n\n")

	if len(sum.Overs) > 0 {
		b.WriteString(center(renderSection("Overs", cw)))
		b.WriteString("\n")
		for _, o := range sum.Overs {
			line := fmt.Sprintf("Over %d   %2d run(s)   %d wkt", o.Index+1, o.Runs, o.Wickets)
			if o.Maiden {
				line += "   maiden"
			}
			if !o.Complete {
				line += "   (unfinished)"
			}
			b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Text).Render(line)))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if len(sum.Topics) > 0 {
		b.WriteString(center(renderSection("Topics", cw)))
		b.WriteString("\n")
		for _, tr := range sum.Topics {
			bar := components.ProgressBar{
				Label:       topics.DisplayName(tr.Topic),
				LabelWidth:  16,
				Percent:     tr.Accuracy(),
				ShowPercent: true,
				Width:       cw,
			}
			b.WriteString(center(bar.View()))
			b.WriteString("\n")
		}
		if sum.BestTopic != "" {
			note := fmt.Sprintf("Strongest: %s   Work on: %s",
				topics.DisplayName(sum.BestTopic), topics.DisplayName(sum.WorstTopic))
			b.WriteString(center(lipgloss.NewStyle().Foreground(theme.TextDim).Render(note)))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	rec := sum.Recommendation
	next := fmt.Sprintf("Next innings: %s pitch (%s)", rec.Difficulty, rec.Level)
	if len(rec.FocusTopics) > 0 {
		names := make([]string, len(rec.FocusTopics))
		for i, t := range rec.FocusTopics {
			names[i] = topics.DisplayName(t)
		}
		next += ", focus on " + strings.Join(names, ", ")
	}
	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).Render(next)))

	return b.String()
}

func renderSection(title string, cw int) string {
	return lipgloss.NewStyle().Foreground(theme.TextDim).Render(title) + "\n" +
		lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", cw))
}
