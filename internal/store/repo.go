package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To

	// Purpose filters LLM request events; other queries ignore it.
	Purpose string

	// SessionKey filters session events by player.
	SessionKey string
}

// ProgressVersion is the current ProgressData layout.
const ProgressVersion = 1

// ProgressData is the persisted performance state for one session key.
// Domain packages convert to and from it; the store only serializes it.
type ProgressData struct {
	Version              int                    `json:"version"`
	Topics               map[string]*BucketData `json:"topics,omitempty"`
	Difficulties         map[string]*BucketData `json:"difficulties,omitempty"`
	CurrentStreak        int                    `json:"current_streak"`
	BestStreak           int                    `json:"best_streak"`
	Responses            int                    `json:"responses"`
	TotalResponseSeconds float64                `json:"total_response_seconds"`
	Innings              *InningsTotals         `json:"innings,omitempty"`
	UpdatedAt            time.Time              `json:"updated_at"`
}

// BucketData counts attempts within one topic or difficulty.
type BucketData struct {
	Attempted int `json:"attempted"`
	Correct   int `json:"correct"`
}

// InningsTotals are lifetime match totals across finished innings.
type InningsTotals struct {
	Played      int `json:"played"`
	Runs        int `json:"runs"`
	Balls       int `json:"balls"`
	Wickets     int `json:"wickets"`
	BestRuns    int `json:"best_runs"`
	BestWickets int `json:"best_wickets"`
}

// ProgressRepo loads and saves ProgressData per session key.
type ProgressRepo interface {
	// Load returns the saved progress for key, or nil if none exists.
	Load(ctx context.Context, key string) (*ProgressData, error)

	// Save stores progress for key, replacing what Load returns.
	Save(ctx context.Context, key string, data *ProgressData) error

	// Delete removes all saved progress for key.
	Delete(ctx context.Context, key string) error
}

// Session event actions.
const (
	ActionStart = "start"
	ActionEnd   = "end"
	ActionAbort = "abort"
)

// BallEventData captures one delivered ball.
type BallEventData struct {
	SessionID  string
	BallIndex  int
	QuestionID string
	Topic      string
	Difficulty string
	Correct    bool
	ResponseMs int64
	Outcome    string
	Runs       int
	TotalRuns  int
	Wickets    int
}

// BallEvent is a stored BallEventData.
type BallEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	BallEventData
}

// SessionEventData captures a session lifecycle event. Score fields are
// only meaningful on end and abort.
type SessionEventData struct {
	SessionID    string
	SessionKey   string
	Action       string
	Runs         int
	Wickets      int
	Balls        int
	Overs        int
	BallsPerOver int
	TotalWickets int
	Status       string
	DurationSecs int
}

// SessionEvent is a stored SessionEventData.
type SessionEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	SessionEventData
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestEvent is a stored LLMRequestEventData.
type LLMRequestEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// EventRepo provides append and query access to domain events.
type EventRepo interface {
	AppendBall(ctx context.Context, data BallEventData) error
	AppendSession(ctx context.Context, data SessionEventData) error
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QuerySessions returns session events of the given actions, newest
	// first. No actions means all of them.
	QuerySessions(ctx context.Context, opts QueryOpts, actions ...string) ([]SessionEvent, error)

	// SessionBalls returns the balls of one session in delivery order.
	SessionBalls(ctx context.Context, sessionID string) ([]BallEvent, error)

	// QueryLLMEvents returns LLM request events, newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error)

	// GetLLMEvent returns one LLM event by ID, or nil if it doesn't exist.
	GetLLMEvent(ctx context.Context, id int) (*LLMRequestEvent, error)
}
