package app

import (
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/rs/zerolog"

	"github.com/abhisek/learncricket/internal/router"
	"github.com/abhisek/learncricket/internal/screen"
	"github.com/abhisek/learncricket/internal/screens/home"
	"github.com/abhisek/learncricket/internal/screens/welcome"
	"github.com/abhisek/learncricket/internal/ui/layout"
)

// Options configures the TUI.
type Options struct {
	Home home.Options

	// SkipIntro starts on the home screen instead of the welcome animation.
	SkipIntro bool

	Log zerolog.Logger
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	log    zerolog.Logger
	width  int
	height int
}

// newAppModel creates a new AppModel starting at the welcome screen.
func newAppModel(opts Options) AppModel {
	opts.Home.Log = opts.Log
	newHome := func() screen.Screen { return home.New(opts.Home) }

	var first screen.Screen
	if opts.SkipIntro {
		first = newHome()
	} else {
		first = welcome.New(newHome)
	}
	return AppModel{
		router: router.New(first),
		log:    opts.Log,
	}
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			// Abort any running innings so its progress is saved.
			m.router.CloseAll()
			return m, tea.Quit
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true
	if m.width == 0 || m.height == 0 {
		return v
	}
	v.SetContent(m.render())
	return v
}

// render lays out the header, the active screen and the footer.
func (m AppModel) render() string {
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()

	// Screens without a title, like the welcome animation, get the
	// whole terminal.
	if active.Title() == "" {
		return m.router.View(m.width, m.height)
	}

	status := ""
	if sp, ok := active.(screen.StatusProvider); ok {
		status = sp.Status()
	}
	header := layout.RenderHeader(active.Title(), status, m.width)

	var footerHints []layout.KeyHint
	if hp, ok := active.(screen.KeyHintProvider); ok {
		footerHints = hp.KeyHints()
	} else {
		footerHints = []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	footer := layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	p := tea.NewProgram(newAppModel(opts))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		opts.Log.Error().Err(err).Msg("tui exited")
		return err
	}
	return nil
}
