package home

import (
	"context"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/rs/zerolog"

	"github.com/abhisek/learncricket/internal/adaptive"
	"github.com/abhisek/learncricket/internal/performance"
	"github.com/abhisek/learncricket/internal/router"
	"github.com/abhisek/learncricket/internal/screen"
	"github.com/abhisek/learncricket/internal/screens/history"
	"github.com/abhisek/learncricket/internal/screens/match"
	"github.com/abhisek/learncricket/internal/screens/welcome"
	"github.com/abhisek/learncricket/internal/store"
	"github.com/abhisek/learncricket/internal/ui/components"
	"github.com/abhisek/learncricket/internal/ui/layout"
)

const maxKeyLength = 24

// Options are the collaborators the home screen hands to the screens it
// opens.
type Options struct {
	// Key is the player whose progress is shown and played.
	Key string

	// NewMatch returns the session factory for a player.
	NewMatch func(key string) match.Factory

	// Progress is optional; without it the stats card stays empty.
	Progress store.ProgressRepo

	// Events is optional; without it HISTORY is disabled.
	Events store.EventRepo

	Adaptive adaptive.Config
	Log      zerolog.Logger
}

// Stats are the lifetime figures shown on the home screen.
type Stats struct {
	Played   int
	BestRuns int
	Runs     int
	Balls    int
	Accuracy float64
	Level    adaptive.Level
}

type statsLoadedMsg struct {
	Key   string
	Stats Stats
	Err   error
}

// HomeScreen is the main menu.
type HomeScreen struct {
	opts    Options
	key     string
	menu    components.Menu
	stats   Stats
	loaded  bool
	errMsg  string
	editing bool
	input   components.NameInput
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)
var _ screen.StatusProvider = (*HomeScreen)(nil)
var _ screen.Refresher = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(opts Options) *HomeScreen {
	h := &HomeScreen{opts: opts, key: opts.Key}

	items := []components.MenuItem{
		{Label: "PLAY", Hint: "Bat a new innings", Action: h.play, Disabled: opts.NewMatch == nil},
		{Label: "HISTORY", Hint: "Recent scorecards", Action: h.history, Disabled: opts.Events == nil},
		{Label: "PLAYER", Hint: "Switch who is batting", Action: h.editPlayer},
		{Label: "QUIT", Hint: "Back to the pavilion", Action: func() tea.Cmd { return tea.Quit }},
	}
	h.menu = components.NewMenu(items)
	return h
}

// Key returns the current player.
func (h *HomeScreen) Key() string {
	return h.key
}

func (h *HomeScreen) play() tea.Cmd {
	return router.Open(match.New(h.opts.NewMatch(h.key), h.opts.Log))
}

func (h *HomeScreen) history() tea.Cmd {
	return router.Open(history.New(h.opts.Events))
}

func (h *HomeScreen) editPlayer() tea.Cmd {
	h.editing = true
	h.input = components.NewNameInput(h.key, maxKeyLength)
	return h.input.Init()
}

func (h *HomeScreen) Init() tea.Cmd {
	return h.loadStats()
}

// Refresh reloads the stats, e.g. after an innings.
func (h *HomeScreen) Refresh() tea.Cmd {
	return h.loadStats()
}

func (h *HomeScreen) loadStats() tea.Cmd {
	repo := h.opts.Progress
	if repo == nil {
		h.loaded = true
		return nil
	}
	key := h.key
	cfg := h.opts.Adaptive
	return func() tea.Msg {
		data, err := repo.Load(context.Background(), key)
		if err != nil {
			return statsLoadedMsg{Key: key, Err: err}
		}
		return statsLoadedMsg{Key: key, Stats: computeStats(data, cfg)}
	}
}

// computeStats derives the home-screen figures from saved progress,
// which may be nil.
func computeStats(data *store.ProgressData, cfg adaptive.Config) Stats {
	tracker := performance.NewTracker(data, cfg.MinAttempts)
	agg := tracker.Aggregate()
	totals := tracker.Innings()
	rec := adaptive.NewSelector(cfg).Recommend(agg)
	return Stats{
		Played:   totals.Played,
		BestRuns: totals.BestRuns,
		Runs:     totals.Runs,
		Balls:    totals.Balls,
		Accuracy: agg.Accuracy(),
		Level:    rec.Level,
	}
}

func (h *HomeScreen) Title() string {
	return "Home"
}

func (h *HomeScreen) Status() string {
	return "player: " + h.key
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	if h.editing {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Save"},
			{Key: "Esc", Description: "Cancel"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter/1-4", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if msg, ok := msg.(statsLoadedMsg); ok {
		// A reply for a player we switched away from is stale.
		if msg.Key != h.key {
			return h, nil
		}
		h.loaded = true
		h.errMsg = ""
		if msg.Err != nil {
			h.opts.Log.Warn().Err(msg.Err).Str("key", msg.Key).Msg("load progress")
			h.errMsg = msg.Err.Error()
			h.stats = Stats{}
			return h, nil
		}
		h.stats = msg.Stats
		return h, nil
	}

	if h.editing {
		return h.updateEditing(msg)
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) updateEditing(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "esc":
			h.editing = false
			return h, nil
		case "enter":
			key := strings.TrimSpace(h.input.Value())
			if key == "" {
				return h, nil
			}
			h.editing = false
			if key == h.key {
				return h, nil
			}
			h.key = key
			h.loaded = false
			h.stats = Stats{}
			return h, h.loadStats()
		}
	}
	var cmd tea.Cmd
	h.input, cmd = h.input.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	// height is the content area; add back the header and footer.
	termHeight := height + 8
	compact := termHeight < 30 || width < 100

	cw := components.ContentWidth(width)

	var sections []string
	sections = append(sections, renderTitle(cw))
	sections = append(sections, renderStatsCard(h.key, h.stats, h.loaded, h.errMsg, cw, compact))
	if h.editing {
		sections = append(sections, renderPlayerPrompt(h.input, cw))
	} else {
		sections = append(sections, h.menu.View(cw))
	}

	return components.BoundaryFrame(strings.Join(sections, "\n\n"), width, height)
}

// renderTitle shows the banner art when it fits.
func renderTitle(cw int) string {
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(welcome.RenderBanner(cw))
}
