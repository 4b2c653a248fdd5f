// Package adaptive maps a performance aggregate to the difficulty and
// topic focus of the next questions.
package adaptive

import (
	"sort"

	"github.com/abhisek/learncricket/internal/performance"
	"github.com/abhisek/learncricket/internal/topics"
)

// Level is the learner's overall standing.
type Level string

const (
	Beginner     Level = "beginner"
	Intermediate Level = "intermediate"
	Advanced     Level = "advanced"
)

const (
	beginnerBelow = 0.5
	advancedAbove = 0.8
)

// DefaultFocusCount is how many focus topics a recommendation carries.
const DefaultFocusCount = 3

// Config tunes a Selector. Zero values use the defaults.
type Config struct {
	FocusCount    int
	MinAttempts   int
	MinDifficulty topics.Difficulty
	MaxDifficulty topics.Difficulty

	// Catalog lists the topics considered for the least-attempted fallback.
	// Nil uses topics.All().
	Catalog []topics.Topic
}

// Recommendation says what to ask next.
type Recommendation struct {
	Difficulty  topics.Difficulty
	FocusTopics []topics.Topic
	Level       Level
}

// Selector is a pure function of an Aggregate; it holds configuration only.
type Selector struct {
	cfg Config
}

// NewSelector fills in defaults for zero fields.
func NewSelector(cfg Config) *Selector {
	if cfg.FocusCount <= 0 {
		cfg.FocusCount = DefaultFocusCount
	}
	if cfg.MinAttempts < 1 {
		cfg.MinAttempts = performance.DefaultMinAttempts
	}
	if !cfg.MinDifficulty.Valid() {
		cfg.MinDifficulty = topics.Easy
	}
	if !cfg.MaxDifficulty.Valid() {
		cfg.MaxDifficulty = topics.Hard
	}
	if cfg.MinDifficulty > cfg.MaxDifficulty {
		cfg.MinDifficulty, cfg.MaxDifficulty = cfg.MaxDifficulty, cfg.MinDifficulty
	}
	if cfg.Catalog == nil {
		cfg.Catalog = topics.All()
	}
	return &Selector{cfg: cfg}
}

// Config returns the effective configuration.
func (s *Selector) Config() Config { return s.cfg }

// LevelFor classifies an overall accuracy.
func LevelFor(accuracy float64) Level {
	switch {
	case accuracy < beginnerBelow:
		return Beginner
	case accuracy > advancedAbove:
		return Advanced
	default:
		return Intermediate
	}
}

func difficultyFor(l Level) topics.Difficulty {
	switch l {
	case Beginner:
		return topics.Easy
	case Advanced:
		return topics.Hard
	default:
		return topics.Medium
	}
}

// Recommend picks difficulty by overall accuracy and focus topics from the
// weakest topics. With no weak topics it focuses on the least-attempted
// ones so coverage widens.
func (s *Selector) Recommend(agg performance.Aggregate) Recommendation {
	level := LevelFor(agg.Accuracy())

	d := difficultyFor(level)
	if d < s.cfg.MinDifficulty {
		d = s.cfg.MinDifficulty
	}
	if d > s.cfg.MaxDifficulty {
		d = s.cfg.MaxDifficulty
	}

	focus := agg.WeakTopics(s.cfg.MinAttempts)
	if len(focus) == 0 {
		focus = s.leastAttempted(agg)
	}
	if len(focus) > s.cfg.FocusCount {
		focus = focus[:s.cfg.FocusCount]
	}

	return Recommendation{Difficulty: d, FocusTopics: focus, Level: level}
}

// leastAttempted orders the catalog plus any topic seen in agg by attempts
// ascending, ties by name.
func (s *Selector) leastAttempted(agg performance.Aggregate) []topics.Topic {
	seen := make(map[topics.Topic]bool, len(s.cfg.Catalog)+len(agg.Topics))
	var all []topics.Topic
	for _, t := range s.cfg.Catalog {
		if !seen[t] {
			seen[t] = true
			all = append(all, t)
		}
	}
	for t := range agg.Topics {
		if !seen[t] {
			seen[t] = true
			all = append(all, t)
		}
	}

	sort.Slice(all, func(i, j int) bool {
		ai, aj := agg.Topics[all[i]].Attempted, agg.Topics[all[j]].Attempted
		if ai != aj {
			return ai < aj
		}
		return all[i] < all[j]
	})
	return all
}
