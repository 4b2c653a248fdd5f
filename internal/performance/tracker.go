package performance

import (
	"time"

	"github.com/abhisek/learncricket/internal/store"
	"github.com/abhisek/learncricket/internal/topics"
)

// Tracker appends Records on top of a seed loaded from saved progress and
// keeps a running Aggregate. It is not safe for concurrent use; the session
// that owns it serializes access.
type Tracker struct {
	minAttempts int
	seed        Aggregate
	records     []Record
	running     Aggregate
	innings     store.InningsTotals
}

// NewTracker creates a tracker seeded from snap, which may be nil.
// minAttempts below 1 uses DefaultMinAttempts.
func NewTracker(snap *store.ProgressData, minAttempts int) *Tracker {
	seed := NewAggregate()
	t := &Tracker{minAttempts: clampMinAttempts(minAttempts)}

	if snap != nil {
		for name, b := range snap.Topics {
			if b == nil {
				continue
			}
			seed.Topics[topics.Topic(name)] = sanitizeBucket(*b)
		}
		for name, b := range snap.Difficulties {
			if b == nil {
				continue
			}
			d, err := topics.ParseDifficulty(name)
			if err != nil {
				continue
			}
			seed.Difficulties[d] = sanitizeBucket(*b)
		}
		seed.CurrentStreak = max(snap.CurrentStreak, 0)
		seed.BestStreak = max(snap.BestStreak, seed.CurrentStreak)
		seed.Responses = max(snap.Responses, 0)
		seed.TotalResponseSeconds = max(snap.TotalResponseSeconds, 0)
		if snap.Innings != nil {
			t.innings = *snap.Innings
		}
	}

	t.seed = seed
	t.running = seed.Clone()
	return t
}

// sanitizeBucket enforces Attempted >= Correct >= 0 on loaded data.
func sanitizeBucket(b store.BucketData) Bucket {
	out := Bucket{Attempted: max(b.Attempted, 0), Correct: max(b.Correct, 0)}
	if out.Correct > out.Attempted {
		out.Correct = out.Attempted
	}
	return out
}

// Record appends r and updates the running aggregate.
func (t *Tracker) Record(r Record) {
	t.records = append(t.records, r)
	t.running.add(r)
}

// Records returns a copy of the records appended since the tracker was
// created.
func (t *Tracker) Records() []Record {
	out := make([]Record, len(t.records))
	copy(out, t.records)
	return out
}

// MinAttempts returns the attempts floor for weak and strong topics.
func (t *Tracker) MinAttempts() int { return t.minAttempts }

// Aggregate recomputes the aggregate from the seed and every record.
func (t *Tracker) Aggregate() Aggregate {
	agg := t.seed.Clone()
	for _, r := range t.records {
		agg.add(r)
	}
	return agg
}

// Current returns a copy of the incrementally maintained aggregate. It
// always equals Aggregate().
func (t *Tracker) Current() Aggregate {
	return t.running.Clone()
}

func (t *Tracker) Accuracy() float64 { return t.running.Accuracy() }

func (t *Tracker) TopicAccuracy(tp topics.Topic) float64 { return t.running.TopicAccuracy(tp) }

func (t *Tracker) DifficultyAccuracy(d topics.Difficulty) float64 {
	return t.running.DifficultyAccuracy(d)
}

func (t *Tracker) CurrentStreak() int { return t.running.CurrentStreak }

func (t *Tracker) BestStreak() int { return t.running.BestStreak }

// WeakTopics returns the weak topics at the tracker's attempts floor.
func (t *Tracker) WeakTopics() []topics.Topic { return t.running.WeakTopics(t.minAttempts) }

// StrongTopics returns the strong topics at the tracker's attempts floor.
func (t *Tracker) StrongTopics() []topics.Topic { return t.running.StrongTopics(t.minAttempts) }

// AddInnings folds a finished innings into the lifetime totals.
func (t *Tracker) AddInnings(runs, wickets, balls int) {
	t.innings.Played++
	t.innings.Runs += runs
	t.innings.Wickets += wickets
	t.innings.Balls += balls
	if t.innings.Played == 1 || runs > t.innings.BestRuns ||
		(runs == t.innings.BestRuns && wickets < t.innings.BestWickets) {
		t.innings.BestRuns = runs
		t.innings.BestWickets = wickets
	}
}

// Innings returns the lifetime innings totals.
func (t *Tracker) Innings() store.InningsTotals { return t.innings }

// Snapshot exports the current state for persistence.
func (t *Tracker) Snapshot(now time.Time) *store.ProgressData {
	agg := t.Aggregate()
	data := &store.ProgressData{
		Version:              store.ProgressVersion,
		Topics:               make(map[string]*store.BucketData, len(agg.Topics)),
		Difficulties:         make(map[string]*store.BucketData, len(agg.Difficulties)),
		CurrentStreak:        agg.CurrentStreak,
		BestStreak:           agg.BestStreak,
		Responses:            agg.Responses,
		TotalResponseSeconds: agg.TotalResponseSeconds,
		UpdatedAt:            now.UTC(),
	}
	for tp, b := range agg.Topics {
		data.Topics[string(tp)] = &store.BucketData{Attempted: b.Attempted, Correct: b.Correct}
	}
	for d, b := range agg.Difficulties {
		if !d.Valid() {
			continue
		}
		data.Difficulties[d.String()] = &store.BucketData{Attempted: b.Attempted, Correct: b.Correct}
	}
	if t.innings.Played > 0 {
		in := t.innings
		data.Innings = &in
	}
	return data
}
