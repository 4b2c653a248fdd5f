package innings

import (
	"fmt"

	"github.com/abhisek/learncricket/internal/scoring"
)

// Status is the lifecycle position of an innings.
type Status int

const (
	StatusInProgress    Status = iota
	StatusAllOut               // terminal: wickets exhausted
	StatusOversComplete        // terminal: every ball bowled
)

func (s Status) String() string {
	switch s {
	case StatusInProgress:
		return "in_progress"
	case StatusAllOut:
		return "all_out"
	case StatusOversComplete:
		return "overs_complete"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Terminal reports whether no further balls may be bowled.
func (s Status) Terminal() bool { return s != StatusInProgress }

// Config sizes an innings.
type Config struct {
	TotalOvers   int
	BallsPerOver int
	// TotalWickets is the size of the batting side. The innings ends when
	// TotalWickets-1 wickets have fallen, since the last batter cannot bat
	// alone.
	TotalWickets int
}

// DefaultConfig returns a short two-over innings with three wickets,
// i.e. the learner has two lives.
func DefaultConfig() Config {
	return Config{TotalOvers: 2, BallsPerOver: 6, TotalWickets: 3}
}

// Validate checks the sizes.
func (c Config) Validate() error {
	if c.TotalOvers <= 0 {
		return fmt.Errorf("total overs must be positive, got %d", c.TotalOvers)
	}
	if c.BallsPerOver <= 0 {
		return fmt.Errorf("balls per over must be positive, got %d", c.BallsPerOver)
	}
	if c.TotalWickets < 2 {
		return fmt.Errorf("total wickets must be at least 2, got %d", c.TotalWickets)
	}
	return nil
}

// TotalBalls is the number of deliveries in a full innings.
func (c Config) TotalBalls() int { return c.TotalOvers * c.BallsPerOver }

// AllOutAt is the number of fallen wickets that ends the innings.
func (c Config) AllOutAt() int { return c.TotalWickets - 1 }

// State is a point-in-time copy of an innings. Values returned by Machine
// never alias its internal storage.
type State struct {
	Runs        int
	WicketsLost int
	BallsBowled int
	BallResults []scoring.Outcome
	Fours       int
	Sixes       int
	DotBalls    int
	Singles     int
	StrikeRate  float64
	RunRate     float64
	Status      Status
}

// OversPlayed is the fractional number of overs bowled, e.g. 1.5 for nine
// balls of a six-ball over.
func (s State) OversPlayed(ballsPerOver int) float64 {
	return oversPlayed(s.BallsBowled, ballsPerOver)
}

// ScoreLine renders the conventional "runs/wickets" form.
func (s State) ScoreLine() string {
	return fmt.Sprintf("%d/%d", s.Runs, s.WicketsLost)
}

func (s State) clone() State {
	out := s
	out.BallResults = make([]scoring.Outcome, len(s.BallResults))
	copy(out.BallResults, s.BallResults)
	return out
}

// OverSummary is the breakdown of a single over.
type OverSummary struct {
	Index    int
	Runs     int
	Wickets  int
	Dots     int
	Balls    int
	Complete bool
	// Maiden is true for a completed over in which no runs were scored.
	Maiden bool
}

// OversNotation formats a ball count the way scorecards do: "3.4" is
// three overs and four balls.
func OversNotation(balls, ballsPerOver int) string {
	if ballsPerOver <= 0 {
		return "0.0"
	}
	return fmt.Sprintf("%d.%d", balls/ballsPerOver, balls%ballsPerOver)
}

func oversPlayed(balls, ballsPerOver int) float64 {
	if balls == 0 || ballsPerOver <= 0 {
		return 0
	}
	return float64(balls/ballsPerOver) + float64(balls%ballsPerOver)/float64(ballsPerOver)
}

func strikeRate(runs, balls int) float64 {
	if balls == 0 {
		return 0
	}
	return float64(runs) / float64(balls) * 100
}

func runRate(runs, balls, ballsPerOver int) float64 {
	ov := oversPlayed(balls, ballsPerOver)
	if ov == 0 {
		return 0
	}
	return float64(runs) / ov
}
