// Package performance tracks answer history and derives the aggregate
// accuracy and streak signals the adaptive selector works from.
package performance

import (
	"math"
	"sort"
	"time"

	"github.com/abhisek/learncricket/internal/topics"
)

// Record is one answered question.
type Record struct {
	Topic           topics.Topic
	Difficulty      topics.Difficulty
	Correct         bool
	ResponseSeconds float64
	Timestamp       time.Time
}

// Bucket counts attempts within a topic or difficulty.
type Bucket struct {
	Attempted int
	Correct   int
}

// Accuracy returns Correct/Attempted, or 0 with no attempts.
func (b Bucket) Accuracy() float64 {
	if b.Attempted == 0 {
		return 0
	}
	return float64(b.Correct) / float64(b.Attempted)
}

// DefaultMinAttempts is the floor below which a topic is neither weak nor
// strong.
const DefaultMinAttempts = 3

const (
	weakBelow   = 0.5
	strongAbove = 0.8
)

// Aggregate is a summary of a set of Records.
type Aggregate struct {
	Topics               map[topics.Topic]Bucket
	Difficulties         map[topics.Difficulty]Bucket
	CurrentStreak        int
	BestStreak           int
	Responses            int
	TotalResponseSeconds float64
}

// NewAggregate returns an empty Aggregate with its maps allocated.
func NewAggregate() Aggregate {
	return Aggregate{
		Topics:       make(map[topics.Topic]Bucket),
		Difficulties: make(map[topics.Difficulty]Bucket),
	}
}

// add folds one record into the aggregate.
func (a *Aggregate) add(r Record) {
	tb := a.Topics[r.Topic]
	tb.Attempted++
	db := a.Difficulties[r.Difficulty]
	db.Attempted++
	if r.Correct {
		tb.Correct++
		db.Correct++
		a.CurrentStreak++
		if a.CurrentStreak > a.BestStreak {
			a.BestStreak = a.CurrentStreak
		}
	} else {
		a.CurrentStreak = 0
	}
	a.Topics[r.Topic] = tb
	a.Difficulties[r.Difficulty] = db

	secs := r.ResponseSeconds
	if math.IsNaN(secs) || secs < 0 {
		secs = 0
	}
	a.Responses++
	a.TotalResponseSeconds += secs
}

// Attempted returns the total number of answers.
func (a Aggregate) Attempted() int {
	n := 0
	for _, b := range a.Topics {
		n += b.Attempted
	}
	return n
}

// Correct returns the total number of correct answers.
func (a Aggregate) Correct() int {
	n := 0
	for _, b := range a.Topics {
		n += b.Correct
	}
	return n
}

// Accuracy returns overall accuracy in [0,1], 0 with no attempts.
func (a Aggregate) Accuracy() float64 {
	return Bucket{Attempted: a.Attempted(), Correct: a.Correct()}.Accuracy()
}

// TopicAccuracy returns the accuracy for one topic, 0 if never attempted.
func (a Aggregate) TopicAccuracy(t topics.Topic) float64 {
	return a.Topics[t].Accuracy()
}

// DifficultyAccuracy returns the accuracy at one difficulty, 0 if never
// attempted.
func (a Aggregate) DifficultyAccuracy(d topics.Difficulty) float64 {
	return a.Difficulties[d].Accuracy()
}

// AverageResponseSeconds returns the mean response time, 0 with no answers.
func (a Aggregate) AverageResponseSeconds() float64 {
	if a.Responses == 0 {
		return 0
	}
	return a.TotalResponseSeconds / float64(a.Responses)
}

// WeakTopics returns topics with at least minAttempts attempts and
// accuracy below 0.5, sorted by accuracy ascending then name. A
// minAttempts below 1 uses DefaultMinAttempts.
func (a Aggregate) WeakTopics(minAttempts int) []topics.Topic {
	return a.filterTopics(minAttempts, func(acc float64) bool { return acc < weakBelow }, true)
}

// StrongTopics returns topics with at least minAttempts attempts and
// accuracy above 0.8, sorted by accuracy descending then name.
func (a Aggregate) StrongTopics(minAttempts int) []topics.Topic {
	return a.filterTopics(minAttempts, func(acc float64) bool { return acc > strongAbove }, false)
}

func (a Aggregate) filterTopics(minAttempts int, keep func(float64) bool, ascending bool) []topics.Topic {
	minAttempts = clampMinAttempts(minAttempts)

	var out []topics.Topic
	for t, b := range a.Topics {
		if b.Attempted >= minAttempts && keep(b.Accuracy()) {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		ai, aj := a.Topics[out[i]].Accuracy(), a.Topics[out[j]].Accuracy()
		if ai != aj {
			if ascending {
				return ai < aj
			}
			return ai > aj
		}
		return out[i] < out[j]
	})
	return out
}

func clampMinAttempts(n int) int {
	if n < 1 {
		return DefaultMinAttempts
	}
	return n
}

// Clone returns a deep copy.
func (a Aggregate) Clone() Aggregate {
	c := a
	c.Topics = make(map[topics.Topic]Bucket, len(a.Topics))
	for k, v := range a.Topics {
		c.Topics[k] = v
	}
	c.Difficulties = make(map[topics.Difficulty]Bucket, len(a.Difficulties))
	for k, v := range a.Difficulties {
		c.Difficulties[k] = v
	}
	return c
}
