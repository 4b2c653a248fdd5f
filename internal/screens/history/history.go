package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/learncricket/internal/innings"
	"github.com/abhisek/learncricket/internal/router"
	"github.com/abhisek/learncricket/internal/scoring"
	"github.com/abhisek/learncricket/internal/screen"
	"github.com/abhisek/learncricket/internal/store"
	"github.com/abhisek/learncricket/internal/ui/components"
	"github.com/abhisek/learncricket/internal/ui/layout"
	"github.com/abhisek/learncricket/internal/ui/theme"
)

const pageSize = 50

type historyLoadedMsg struct {
	Innings []store.SessionEvent
	Err     error
}

type ballsLoadedMsg struct {
	SessionID string
	Balls     []scoring.Outcome
	Err       error
}

// HistoryScreen lists finished and declared innings, newest first.
type HistoryScreen struct {
	eventRepo store.EventRepo
	innings   []store.SessionEvent
	balls     map[string][]scoring.Outcome
	selected  int
	expanded  map[int]bool
	loaded    bool
	errMsg    string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(eventRepo store.EventRepo) *HistoryScreen {
	return &HistoryScreen{
		eventRepo: eventRepo,
		balls:     make(map[string][]scoring.Outcome),
		expanded:  make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	repo := s.eventRepo
	return func() tea.Msg {
		rows, err := repo.QuerySessions(context.Background(), store.QueryOpts{Limit: pageSize},
			store.ActionEnd, store.ActionAbort)
		return historyLoadedMsg{Innings: rows, Err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Balls"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

// loadBalls fetches the ball-by-ball record of one innings.
func (s *HistoryScreen) loadBalls(sessionID string) tea.Cmd {
	repo := s.eventRepo
	return func() tea.Msg {
		events, err := repo.SessionBalls(context.Background(), sessionID)
		if err != nil {
			return ballsLoadedMsg{SessionID: sessionID, Err: err}
		}
		out := make([]scoring.Outcome, 0, len(events))
		for _, ev := range events {
			o, err := scoring.ParseOutcome(ev.Outcome)
			if err != nil {
				return ballsLoadedMsg{SessionID: sessionID, Err: err}
			}
			out = append(out, o)
		}
		return ballsLoadedMsg{SessionID: sessionID, Balls: out}
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.innings = msg.Innings
		}
		s.loaded = true
		return s, nil

	case ballsLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		s.balls[msg.SessionID] = msg.Balls
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, router.Back
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
			return s, nil
		case "down", "j":
			if s.selected < len(s.innings)-1 {
				s.selected++
			}
			return s, nil
		case "enter":
			if len(s.innings) == 0 {
				return s, nil
			}
			s.expanded[s.selected] = !s.expanded[s.selected]
			id := s.innings[s.selected].SessionID
			if _, ok := s.balls[id]; !ok && s.expanded[s.selected] {
				return s, s.loadBalls(id)
			}
			return s, nil
		}
	}
	return s, nil
}

// result describes how an innings ended.
func result(ev store.SessionEvent) string {
	if ev.Action == store.ActionAbort {
		return "declared"
	}
	switch ev.Status {
	case "all_out":
		return "all out"
	case "overs_complete":
		return "overs up"
	}
	return ev.Status
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading history...")
	}
	if len(s.innings) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No innings yet. Pad up and play!")
	}

	cw := components.ContentWidth(width)

	var b strings.Builder
	b.WriteString("\n")

	for i, ev := range s.innings {
		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}

		score := fmt.Sprintf("%d/%d", ev.Runs, ev.Wickets)
		line := fmt.Sprintf("%s%s  %-8s %-7s ov  %-9s %s",
			prefix, ev.Timestamp.Format("Jan 02 15:04"), score,
			innings.OversNotation(ev.Balls, ev.BallsPerOver), result(ev), ev.SessionKey)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")

		if s.expanded[i] {
			balls, ok := s.balls[ev.SessionID]
			var detail string
			switch {
			case !ok:
				detail = lipgloss.NewStyle().Foreground(theme.TextDim).Render("loading balls...")
			case len(balls) == 0:
				detail = lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).Render("no balls bowled")
			default:
				detail = components.BallStrip(balls, ev.BallsPerOver, false, cw)
			}
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, detail))
			b.WriteString("\n")
		}
	}

	return b.String()
}
