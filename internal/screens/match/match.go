package match

import (
	"context"
	"errors"
	"fmt"
	"time"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog"

	"github.com/abhisek/learncricket/internal/innings"
	"github.com/abhisek/learncricket/internal/questions"
	"github.com/abhisek/learncricket/internal/router"
	"github.com/abhisek/learncricket/internal/scoring"
	"github.com/abhisek/learncricket/internal/screen"
	"github.com/abhisek/learncricket/internal/screens/summary"
	sess "github.com/abhisek/learncricket/internal/session"
	"github.com/abhisek/learncricket/internal/ui/components"
	"github.com/abhisek/learncricket/internal/ui/layout"
)

const (
	tickInterval = 100 * time.Millisecond
	flashFor     = 3 * time.Second
	bannerFor    = 4 * time.Second
)

// Factory builds a session that publishes to listener.
type Factory func(listener sess.Listener) (*sess.Orchestrator, error)

// MatchScreen plays one innings. Every session call runs in a tea.Cmd;
// the screen learns about state changes from the session's events.
type MatchScreen struct {
	orch     *sess.Orchestrator
	listener *sess.ChannelListener
	log      zerolog.Logger
	now      func() time.Time

	cfg        innings.Config
	thresholds scoring.Thresholds
	state      innings.State
	pitch      string
	question   *questions.Question
	choice     components.MultiChoice
	spinner    spinner.Model

	flash      *sess.BallResult
	flashAt    time.Time
	overBanner *innings.OverSummary
	bannerAt   time.Time
	elapsed    time.Duration

	paused      error
	submitting  bool
	aborting    bool
	confirmQuit bool
	finished    bool
	summarized  bool
	errMsg      string
	warnMsg     string
}

var _ screen.Screen = (*MatchScreen)(nil)
var _ screen.KeyHintProvider = (*MatchScreen)(nil)
var _ screen.StatusProvider = (*MatchScreen)(nil)
var _ screen.Closer = (*MatchScreen)(nil)

// New creates a MatchScreen. A factory error is shown on screen.
func New(factory Factory, log zerolog.Logger) *MatchScreen {
	s := &MatchScreen{
		listener: sess.NewChannelListener(64),
		log:      log,
		now:      time.Now,
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
	orch, err := factory(s.listener)
	if err != nil {
		s.errMsg = err.Error()
		return s
	}
	s.orch = orch
	s.cfg = orch.Config().Innings
	s.thresholds = orch.Config().Thresholds
	return s
}

func (s *MatchScreen) Init() tea.Cmd {
	if s.orch == nil {
		return nil
	}
	return tea.Batch(s.start(), s.waitForEvent(), tickCmd(), s.spinner.Tick)
}

func (s *MatchScreen) Title() string {
	return "Match"
}

// Status is the live score for the header.
func (s *MatchScreen) Status() string {
	if s.orch == nil {
		return ""
	}
	return fmt.Sprintf("%s (%s ov)", s.state.ScoreLine(), innings.OversNotation(s.state.BallsBowled, s.cfg.BallsPerOver))
}

func (s *MatchScreen) KeyHints() []layout.KeyHint {
	switch {
	case s.errMsg != "":
		return []layout.KeyHint{{Key: "any key", Description: "Back"}}
	case s.confirmQuit:
		return []layout.KeyHint{
			{Key: "Y", Description: "Declare"},
			{Key: "N", Description: "Keep batting"},
		}
	case s.paused != nil:
		return []layout.KeyHint{
			{Key: "R", Description: "Retry"},
			{Key: "Esc", Description: "Declare"},
		}
	}
	return []layout.KeyHint{
		{Key: "1-4", Description: "Answer"},
		{Key: "↑↓", Description: "Choose"},
		{Key: "Enter", Description: "Play shot"},
		{Key: "Esc", Description: "Declare"},
	}
}

// Close aborts a running session so its progress is saved before exit.
func (s *MatchScreen) Close() {
	if s.orch == nil || s.orch.Phase().Terminal() {
		return
	}
	if err := s.orch.Abort(context.Background()); err != nil {
		s.log.Warn().Err(err).Msg("abort on exit")
	}
}

func (s *MatchScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case startedMsg:
		if msg.Err != nil && !isExhausted(msg.Err) {
			s.errMsg = msg.Err.Error()
		}
		return s, nil

	case sessionEventMsg:
		return s.handleEvent(msg.Event)

	case submittedMsg:
		return s.handleSubmitted(msg)

	case resumedMsg:
		if msg.Err != nil && !isExhausted(msg.Err) {
			s.errMsg = msg.Err.Error()
		}
		return s, nil

	case abortedMsg:
		s.aborting = false
		var stateErr *sess.InvalidStateError
		if msg.Err != nil && !errors.As(msg.Err, &stateErr) {
			s.warnMsg = msg.Err.Error()
		}
		return s, s.toSummary()

	case timerTickMsg:
		if s.finished || s.orch == nil {
			return s, nil
		}
		s.elapsed = s.orch.Elapsed()
		now := s.now()
		if s.flash != nil && now.Sub(s.flashAt) > flashFor {
			s.flash = nil
		}
		if s.overBanner != nil && now.Sub(s.bannerAt) > bannerFor {
			s.overBanner = nil
		}
		return s, tickCmd()

	case spinner.TickMsg:
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *MatchScreen) handleEvent(ev sess.Event) (screen.Screen, tea.Cmd) {
	s.state = ev.State
	s.cfg = ev.Config
	s.pitch = fmt.Sprintf("%s · %s", ev.Recommendation.Difficulty, ev.Recommendation.Level)

	switch ev.Kind {
	case sess.EventQuestion, sess.EventResumed:
		s.paused = nil
		s.question = ev.Question
		s.choice = components.NewMultiChoice(ev.Question.Prompt, ev.Question.Options)

	case sess.EventBall:
		s.flash = ev.Ball
		s.flashAt = s.now()
		s.question = nil

	case sess.EventOverComplete:
		s.overBanner = ev.Over
		s.bannerAt = s.now()

	case sess.EventPaused:
		s.paused = ev.Err
		s.question = nil

	case sess.EventComplete, sess.EventAborted:
		s.finished = true
		s.question = nil
		return s, s.toSummary()
	}
	return s, s.waitForEvent()
}

// toSummary swaps in the scorecard once the innings is over and no
// session call is still reporting back, so a save error is not lost.
func (s *MatchScreen) toSummary() tea.Cmd {
	if !s.finished || s.submitting || s.aborting || s.summarized {
		return nil
	}
	s.summarized = true
	return router.Swap(summary.New(s.orch.Summary(), s.warnMsg))
}

func (s *MatchScreen) handleSubmitted(msg submittedMsg) (screen.Screen, tea.Cmd) {
	s.submitting = false
	if msg.Err == nil || isExhausted(msg.Err) {
		return s, s.toSummary()
	}
	var choiceErr *sess.InvalidChoiceError
	var stateErr *sess.InvalidStateError
	switch {
	case errors.As(msg.Err, &choiceErr), errors.As(msg.Err, &stateErr):
		s.log.Debug().Err(msg.Err).Msg("submit rejected")
	default:
		// The ball was applied but progress could not be saved.
		s.warnMsg = msg.Err.Error()
		s.log.Error().Err(msg.Err).Msg("submit")
	}
	return s, s.toSummary()
}

func (s *MatchScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.errMsg != "" {
		return s, router.Back
	}
	if s.finished {
		return s, nil
	}

	if s.confirmQuit {
		switch key {
		case "y", "Y":
			s.confirmQuit = false
			return s, s.abort()
		case "n", "N", "esc":
			s.confirmQuit = false
		}
		return s, nil
	}

	if key == "esc" {
		s.confirmQuit = true
		return s, nil
	}

	if s.paused != nil {
		if key == "r" || key == "R" {
			return s, s.resume()
		}
		return s, nil
	}

	if s.question == nil || s.submitting {
		return s, nil
	}

	switch key {
	case "up", "k":
		s.choice = s.choice.Move(-1)
		return s, nil
	case "down", "j":
		s.choice = s.choice.Move(1)
		return s, nil
	case "enter":
		return s, s.submit(s.choice.Selected)
	}
	if idx, ok := s.choice.ChoiceForKey(key); ok {
		s.choice.Selected = idx
		return s, s.submit(idx)
	}
	return s, nil
}

func (s *MatchScreen) start() tea.Cmd {
	orch := s.orch
	return func() tea.Msg {
		return startedMsg{Err: orch.Start(context.Background())}
	}
}

func (s *MatchScreen) submit(choice int) tea.Cmd {
	s.submitting = true
	orch := s.orch
	return func() tea.Msg {
		ball, err := orch.Submit(context.Background(), choice)
		return submittedMsg{Ball: ball, Err: err}
	}
}

func (s *MatchScreen) resume() tea.Cmd {
	orch := s.orch
	return func() tea.Msg {
		return resumedMsg{Err: orch.Resume(context.Background())}
	}
}

func (s *MatchScreen) abort() tea.Cmd {
	s.aborting = true
	orch := s.orch
	return func() tea.Msg {
		return abortedMsg{Err: orch.Abort(context.Background())}
	}
}

// waitForEvent blocks on the listener channel for the next event.
func (s *MatchScreen) waitForEvent() tea.Cmd {
	ch := s.listener.Events()
	return func() tea.Msg {
		return sessionEventMsg{Event: <-ch}
	}
}

func isExhausted(err error) bool {
	var exhausted *sess.SupplyExhaustedError
	return errors.As(err, &exhausted)
}

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return timerTickMsg(t)
	})
}
