package welcome

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/learncricket/internal/router"
	"github.com/abhisek/learncricket/internal/screen"
	"github.com/abhisek/learncricket/internal/ui/theme"
)

const (
	tickInterval = 100 * time.Millisecond
	deliveryEnd  = 1200 * time.Millisecond
	totalDur     = 3000 * time.Millisecond

	// runUp is how far from the stumps the ball starts, in cells.
	runUp = 12
)

var stumps = []string{
	"┬ ┬ ┬",
	"│ │ │",
	"│ │ │",
	"│ │ │",
	"┴─┴─┴",
}

type tickMsg time.Time

// WelcomeScreen bowls a ball at the stumps, shows the banner and then
// hands over to the home screen. Any key skips ahead.
type WelcomeScreen struct {
	homeFactory  func() screen.Screen
	elapsed      time.Duration
	transitioned bool
}

var _ screen.Screen = (*WelcomeScreen)(nil)

// New creates a WelcomeScreen that will transition to the screen produced by homeFactory.
func New(homeFactory func() screen.Screen) *WelcomeScreen {
	return &WelcomeScreen{homeFactory: homeFactory}
}

func (w *WelcomeScreen) Title() string {
	return ""
}

func (w *WelcomeScreen) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg.(type) {
	case tickMsg:
		if w.transitioned {
			return w, nil
		}
		w.elapsed += tickInterval
		if w.elapsed >= totalDur {
			return w, w.transition()
		}
		return w, tick()

	case tea.KeyPressMsg:
		return w, w.transition()
	}
	return w, nil
}

func (w *WelcomeScreen) transition() tea.Cmd {
	if w.transitioned {
		return nil
	}
	w.transitioned = true
	return router.Swap(w.homeFactory())
}

// ballOffset is the gap between the ball and the stumps.
func (w *WelcomeScreen) ballOffset() int {
	travelled := int(w.elapsed * runUp / deliveryEnd)
	return max(runUp-travelled, 0)
}

func (w *WelcomeScreen) View(width, height int) string {
	stumpStyle := lipgloss.NewStyle().Foreground(theme.Text)
	ballStyle := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)

	lines := make([]string, len(stumps))
	for i, s := range stumps {
		lines[i] = stumpStyle.Render(s)
	}

	bowled := w.elapsed >= deliveryEnd
	if bowled {
		bails := lipgloss.NewStyle().Foreground(theme.Secondary).Render("✦ ✦")
		lines = append([]string{" " + bails}, lines...)
		lines[3] += "  " + ballStyle.Render("●")
	} else {
		lines = append([]string{""}, lines...)
		lines[3] += strings.Repeat(" ", 1+w.ballOffset()) + ballStyle.Render("●")
	}

	sections := []string{strings.Join(lines, "\n")}
	if bowled {
		sections = append(sections,
			"",
			RenderBanner(width),
			"",
			lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).Render("press any key to continue"),
		)
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, strings.Join(sections, "\n"))
}
