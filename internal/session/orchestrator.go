// Package session runs one innings: it turns answers into balls, keeps
// the question buffer topped up and publishes events for the UI and the
// store.
package session

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/abhisek/learncricket/internal/adaptive"
	"github.com/abhisek/learncricket/internal/innings"
	"github.com/abhisek/learncricket/internal/performance"
	"github.com/abhisek/learncricket/internal/questions"
	"github.com/abhisek/learncricket/internal/scoring"
	"github.com/abhisek/learncricket/internal/store"
	"github.com/abhisek/learncricket/internal/timer"
	"github.com/abhisek/learncricket/internal/topics"
)

const (
	DefaultKey               = "default"
	DefaultBufferAhead       = 2
	DefaultBatchSize         = 3
	DefaultMaxSupplyAttempts = 5
	DefaultRecentTopics      = 2

	maxPriorPrompts = 20
)

// Config tunes a session. Zero values take the defaults.
type Config struct {
	// Key names the saved progress this session loads and updates.
	Key string

	Innings    innings.Config
	Thresholds scoring.Thresholds
	Adaptive   adaptive.Config

	// BufferAhead is how many unanswered questions are kept behind the
	// current one.
	BufferAhead int

	// BatchSize is the minimum Count asked of the supply per request.
	BatchSize int

	// MaxSupplyAttempts bounds supply requests per refill.
	MaxSupplyAttempts int

	// RecentTopics is how many recent topics are sent as exclusions.
	// Negative disables the exclusion.
	RecentTopics int
}

// DefaultConfig returns the default session configuration.
func DefaultConfig() Config {
	return Config{
		Key:               DefaultKey,
		Innings:           innings.DefaultConfig(),
		Thresholds:        scoring.DefaultThresholds(),
		BufferAhead:       DefaultBufferAhead,
		BatchSize:         DefaultBatchSize,
		MaxSupplyAttempts: DefaultMaxSupplyAttempts,
		RecentTopics:      DefaultRecentTopics,
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.Key == "" {
		c.Key = def.Key
	}
	if c.Innings == (innings.Config{}) {
		c.Innings = def.Innings
	}
	if c.Thresholds == (scoring.Thresholds{}) {
		c.Thresholds = def.Thresholds
	}
	if c.BufferAhead <= 0 {
		c.BufferAhead = def.BufferAhead
	}
	if c.BatchSize <= 0 {
		c.BatchSize = def.BatchSize
	}
	if c.MaxSupplyAttempts <= 0 {
		c.MaxSupplyAttempts = def.MaxSupplyAttempts
	}
	if c.RecentTopics < 0 {
		c.RecentTopics = 0
	} else if c.RecentTopics == 0 {
		c.RecentTopics = def.RecentTopics
	}
	return c
}

// Deps are the collaborators a session talks to.
type Deps struct {
	// Supply is required.
	Supply questions.Supply

	// Progress is optional; without it nothing is loaded or saved.
	Progress store.ProgressRepo

	// Clock defaults to timer.SystemClock.
	Clock timer.Clock

	Listeners []Listener
	Logger    zerolog.Logger

	// NewID generates the session ID. Defaults to uuid.NewString.
	NewID func() string
}

// Orchestrator drives a single innings. Start, Submit, Resume and Abort
// are single-flight; the read accessors are safe to call at any time
// from any goroutine.
type Orchestrator struct {
	cfg       Config
	supply    questions.Supply
	progress  store.ProgressRepo
	clock     timer.Clock
	listeners []Listener
	log       zerolog.Logger

	// flight serializes the mutating operations.
	flight sync.Mutex

	// mu guards everything below.
	mu        sync.RWMutex
	id        string
	phase     Phase
	timer     *timer.ResponseTimer
	policy    scoring.Policy
	machine   *innings.Machine
	tracker   *performance.Tracker
	selector  *adaptive.Selector
	rec       adaptive.Recommendation
	queue     []questions.Question // queue[0] is the current question
	served    map[string]bool
	prompts   []string
	recent    []topics.Topic
	balls     []BallResult
	requests  int
	startedAt time.Time
	cancel    context.CancelFunc
}

// New creates a session that owns its own timer, innings, tracker and
// selector.
func New(cfg Config, deps Deps) (*Orchestrator, error) {
	if deps.Supply == nil {
		return nil, fmt.Errorf("session: question supply is required")
	}
	cfg = cfg.withDefaults()

	machine, err := innings.New(cfg.Innings)
	if err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}
	policy, err := scoring.NewPolicy(cfg.Thresholds)
	if err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}

	clock := deps.Clock
	if clock == nil {
		clock = timer.SystemClock{}
	}
	newID := deps.NewID
	if newID == nil {
		newID = uuid.NewString
	}

	id := newID()
	return &Orchestrator{
		cfg:       cfg,
		supply:    deps.Supply,
		progress:  deps.Progress,
		clock:     clock,
		listeners: deps.Listeners,
		log:       deps.Logger.With().Str("session", id).Logger(),
		id:        id,
		phase:     PhaseNotStarted,
		timer:     timer.New(clock),
		policy:    policy,
		machine:   machine,
		tracker:   performance.NewTracker(nil, cfg.Adaptive.MinAttempts),
		selector:  adaptive.NewSelector(cfg.Adaptive),
		served:    make(map[string]bool),
	}, nil
}

// Start loads saved progress, fills the question buffer and starts the
// timer on the first question. If no question can be had the session is
// paused and a *SupplyExhaustedError is returned.
func (o *Orchestrator) Start(ctx context.Context) error {
	if !o.flight.TryLock() {
		return &InvalidStateError{Op: "start", Phase: o.Phase()}
	}
	defer o.flight.Unlock()

	if p := o.Phase(); p != PhaseNotStarted {
		return &InvalidStateError{Op: "start", Phase: p}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	o.mu.Lock()
	o.cancel = cancel
	o.mu.Unlock()

	var snap *store.ProgressData
	if o.progress != nil {
		s, err := o.progress.Load(ctx, o.cfg.Key)
		if err != nil {
			return fmt.Errorf("load progress %q: %w", o.cfg.Key, err)
		}
		snap = s
	}

	o.mu.Lock()
	o.tracker = performance.NewTracker(snap, o.cfg.Adaptive.MinAttempts)
	o.rec = o.selector.Recommend(o.tracker.Current())
	o.startedAt = o.clock.Now()
	o.mu.Unlock()

	o.log.Info().
		Str("key", o.cfg.Key).
		Bool("resumed_progress", snap != nil).
		Str("difficulty", o.rec.Difficulty.String()).
		Msg("session started")
	o.emit(ctx, o.event(EventStarted))

	return o.present(ctx, EventQuestion)
}

// Submit scores the answer to the current question. The pipeline runs
// in a fixed order: stop the timer, evaluate, apply the ball, record
// performance, recommend, then top up the buffer. A concurrent call is
// rejected with *InvalidStateError rather than queued.
//
// The returned BallResult is valid whenever the ball was applied, even if
// an error is also returned (supply exhausted or progress not saved).
func (o *Orchestrator) Submit(ctx context.Context, choice int) (BallResult, error) {
	if !o.flight.TryLock() {
		return BallResult{}, &InvalidStateError{Op: "submit", Phase: PhaseScoring}
	}
	defer o.flight.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	o.mu.Lock()
	if o.phase != PhaseAwaitingAnswer {
		p := o.phase
		o.mu.Unlock()
		return BallResult{}, &InvalidStateError{Op: "submit", Phase: p}
	}
	q := o.queue[0]
	if choice < 0 || choice >= len(q.Options) {
		o.mu.Unlock()
		return BallResult{}, &InvalidChoiceError{Choice: choice, Max: len(q.Options) - 1}
	}

	secs, err := o.timer.Stop()
	if err != nil {
		o.mu.Unlock()
		return BallResult{}, fmt.Errorf("session: %w", err)
	}
	o.phase = PhaseScoring
	o.cancel = cancel

	correct := q.IsCorrect(choice)
	outcome := o.policy.Evaluate(secs, correct)
	state, err := o.machine.ApplyBall(outcome)
	if err != nil {
		o.phase = PhaseAwaitingAnswer
		o.cancel = nil
		_ = o.restartTimerLocked()
		o.mu.Unlock()
		return BallResult{}, fmt.Errorf("session: apply ball: %w", err)
	}

	o.tracker.Record(performance.Record{
		Topic:           q.Topic,
		Difficulty:      q.Difficulty,
		Correct:         correct,
		ResponseSeconds: secs,
		Timestamp:       o.clock.Now(),
	})
	o.rec = o.selector.Recommend(o.tracker.Current())

	ball := BallResult{
		Index:           state.BallsBowled - 1,
		Question:        q,
		Choice:          choice,
		Correct:         correct,
		ResponseSeconds: secs,
		Outcome:         outcome,
	}
	o.balls = append(o.balls, ball)
	o.queue = o.queue[1:]

	var over *innings.OverSummary
	if o.machine.IsOverComplete() {
		if s, err := o.machine.OverSummary(o.machine.OversStarted() - 1); err == nil {
			over = &s
		}
	}
	terminal := state.Status.Terminal()
	if terminal {
		o.phase = PhaseComplete
		o.cancel = nil
	}
	o.mu.Unlock()

	o.log.Debug().
		Int("ball", ball.Index).
		Str("topic", string(q.Topic)).
		Bool("correct", correct).
		Float64("secs", secs).
		Stringer("outcome", outcome).
		Msg("ball applied")

	o.emit(ctx, o.event(EventBall, func(ev *Event) { ev.Ball = &ball }))
	if over != nil {
		o.emit(ctx, o.event(EventOverComplete, func(ev *Event) { ev.Over = over }))
	}

	if terminal {
		o.mu.Lock()
		o.tracker.AddInnings(state.Runs, state.WicketsLost, state.BallsBowled)
		o.mu.Unlock()

		saveErr := o.saveProgress(ctx)
		o.log.Info().
			Str("score", state.ScoreLine()).
			Stringer("status", state.Status).
			Msg("innings complete")
		o.emit(ctx, o.event(EventComplete, o.withDuration))
		return ball, saveErr
	}

	return ball, o.present(ctx, EventQuestion)
}

// Resume retries the supply after a pause.
func (o *Orchestrator) Resume(ctx context.Context) error {
	if !o.flight.TryLock() {
		return &InvalidStateError{Op: "resume", Phase: o.Phase()}
	}
	defer o.flight.Unlock()

	if p := o.Phase(); p != PhasePaused {
		return &InvalidStateError{Op: "resume", Phase: p}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	o.mu.Lock()
	o.cancel = cancel
	o.mu.Unlock()

	return o.present(ctx, EventResumed)
}

// Abort ends the session early. An in-flight supply request is
// cancelled and Abort waits for the ball being scored, so the innings and
// tracker always reflect only fully applied balls. Progress recorded so
// far is saved.
func (o *Orchestrator) Abort(ctx context.Context) error {
	o.mu.RLock()
	cancel := o.cancel
	o.mu.RUnlock()
	if cancel != nil {
		cancel()
	}

	o.flight.Lock()
	defer o.flight.Unlock()

	o.mu.Lock()
	p := o.phase
	if p.Terminal() {
		o.mu.Unlock()
		return &InvalidStateError{Op: "abort", Phase: p}
	}
	o.timer.Reset()
	o.phase = PhaseAborted
	o.cancel = nil
	o.mu.Unlock()

	var err error
	if p != PhaseNotStarted {
		err = o.saveProgress(ctx)
	}
	o.log.Info().Stringer("from", p).Msg("session aborted")
	o.emit(ctx, o.event(EventAborted, o.withDuration))
	return err
}

// present tops up the buffer and shows the head of the queue, or pauses
// the session if the queue is empty. Callers hold flight.
func (o *Orchestrator) present(ctx context.Context, kind EventKind) error {
	if err := o.refill(ctx); err != nil {
		o.mu.Lock()
		o.phase = PhasePaused
		o.cancel = nil
		o.mu.Unlock()

		o.log.Warn().Err(err).Msg("session paused")
		o.emit(ctx, o.event(EventPaused, func(ev *Event) { ev.Err = err }))
		return err
	}

	o.mu.Lock()
	o.phase = PhaseAwaitingAnswer
	o.cancel = nil
	err := o.restartTimerLocked()
	q := o.queue[0]
	o.mu.Unlock()
	if err != nil {
		return fmt.Errorf("session: %w", err)
	}

	o.emit(ctx, o.event(kind, func(ev *Event) { ev.Question = &q }))
	return nil
}

// refill requests questions until BufferAhead of them wait behind the
// current one or the attempts run out. Malformed and repeated questions
// are discarded. It fails only when no question at all is queued.
func (o *Orchestrator) refill(ctx context.Context) error {
	want := 1 + o.cfg.BufferAhead
	var lastErr error
	attempts := 0

	for attempts < o.cfg.MaxSupplyAttempts {
		req, ok := o.nextRequest(want)
		if !ok {
			return nil
		}
		attempts++

		qs, err := o.supply.Fetch(ctx, req)
		if err != nil {
			lastErr = err
			if ctx.Err() != nil {
				break
			}
			o.log.Debug().Err(err).Int("attempt", attempts).Msg("question supply request failed")
			continue
		}
		o.enqueue(qs)
	}

	o.mu.RLock()
	have := len(o.queue)
	o.mu.RUnlock()
	switch {
	case have >= want:
		return nil
	case have > 0:
		o.log.Debug().Int("queued", have).Int("want", want).Err(lastErr).Msg("question buffer below target")
		return nil
	}
	return &SupplyExhaustedError{Attempts: attempts, Err: lastErr}
}

// nextRequest builds the supply request for the current recommendation,
// rotating through its focus topics. ok is false when the buffer is full.
func (o *Orchestrator) nextRequest(want int) (questions.Request, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()

	missing := want - len(o.queue)
	if missing <= 0 {
		return questions.Request{}, false
	}

	req := questions.Request{
		Difficulty:          o.rec.Difficulty,
		ExcludeRecentTopics: slices.Clone(o.recent),
		ExcludeIDs:          slices.Sorted(maps.Keys(o.served)),
		PriorPrompts:        slices.Clone(o.prompts),
		Count:               max(missing, o.cfg.BatchSize),
	}
	if n := len(o.rec.FocusTopics); n > 0 {
		req.Topic = o.rec.FocusTopics[o.requests%n]
	}
	o.requests++
	return req, true
}

func (o *Orchestrator) enqueue(qs []questions.Question) {
	o.mu.Lock()
	defer o.mu.Unlock()

	for _, q := range qs {
		if err := questions.Validate(q); err != nil {
			o.log.Warn().Err(err).Msg("discarding malformed question")
			continue
		}
		if o.served[q.ID] {
			continue
		}
		o.served[q.ID] = true
		o.queue = append(o.queue, q)

		o.prompts = append(o.prompts, q.Prompt)
		if len(o.prompts) > maxPriorPrompts {
			o.prompts = o.prompts[len(o.prompts)-maxPriorPrompts:]
		}
		if o.cfg.RecentTopics > 0 {
			o.recent = append(slices.DeleteFunc(o.recent, func(t topics.Topic) bool { return t == q.Topic }), q.Topic)
			if len(o.recent) > o.cfg.RecentTopics {
				o.recent = o.recent[len(o.recent)-o.cfg.RecentTopics:]
			}
		}
	}
}

func (o *Orchestrator) restartTimerLocked() error {
	o.timer.Reset()
	return o.timer.Start()
}

func (o *Orchestrator) saveProgress(ctx context.Context) error {
	if o.progress == nil {
		return nil
	}
	o.mu.RLock()
	snap := o.tracker.Snapshot(o.clock.Now())
	o.mu.RUnlock()

	// An abort may have cancelled ctx; the save must still happen.
	if err := o.progress.Save(context.WithoutCancel(ctx), o.cfg.Key, snap); err != nil {
		o.log.Error().Err(err).Msg("failed to save progress")
		return fmt.Errorf("save progress %q: %w", o.cfg.Key, err)
	}
	return nil
}

func (o *Orchestrator) event(kind EventKind, opts ...func(*Event)) Event {
	o.mu.RLock()
	ev := Event{
		Kind:           kind,
		SessionID:      o.id,
		SessionKey:     o.cfg.Key,
		Time:           o.clock.Now(),
		State:          o.machine.State(),
		Config:         o.machine.Config(),
		Recommendation: cloneRecommendation(o.rec),
	}
	o.mu.RUnlock()
	for _, opt := range opts {
		opt(&ev)
	}
	return ev
}

func (o *Orchestrator) withDuration(ev *Event) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if !o.startedAt.IsZero() {
		ev.Duration = ev.Time.Sub(o.startedAt)
	}
}

func (o *Orchestrator) emit(ctx context.Context, ev Event) {
	ctx = context.WithoutCancel(ctx)
	for _, l := range o.listeners {
		l.OnEvent(ctx, ev)
	}
}

func cloneRecommendation(r adaptive.Recommendation) adaptive.Recommendation {
	r.FocusTopics = slices.Clone(r.FocusTopics)
	return r
}

// ID returns the session ID.
func (o *Orchestrator) ID() string { return o.id }

// Config returns the effective configuration.
func (o *Orchestrator) Config() Config { return o.cfg }

// Phase returns the current phase.
func (o *Orchestrator) Phase() Phase {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.phase
}

// Current returns the question awaiting an answer.
func (o *Orchestrator) Current() (questions.Question, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if o.phase != PhaseAwaitingAnswer || len(o.queue) == 0 {
		return questions.Question{}, false
	}
	return o.queue[0], true
}

// Ahead returns how many unanswered questions are buffered behind the
// current one.
func (o *Orchestrator) Ahead() int {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return max(len(o.queue)-1, 0)
}

// State returns a copy of the innings state.
func (o *Orchestrator) State() innings.State {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.machine.State()
}

// Overs returns every started over.
func (o *Orchestrator) Overs() []innings.OverSummary {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.machine.Overs()
}

// Recommendation returns the latest recommendation.
func (o *Orchestrator) Recommendation() adaptive.Recommendation {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return cloneRecommendation(o.rec)
}

// Aggregate returns lifetime performance including this session.
func (o *Orchestrator) Aggregate() performance.Aggregate {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.tracker.Current().Clone()
}

// Balls returns every ball applied in this session.
func (o *Orchestrator) Balls() []BallResult {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return slices.Clone(o.balls)
}

// Elapsed returns the live reading of the response timer.
func (o *Orchestrator) Elapsed() time.Duration {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.timer.Elapsed()
}
