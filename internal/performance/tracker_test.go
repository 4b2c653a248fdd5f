package performance

import (
	"math/rand/v2"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/learncricket/internal/store"
	"github.com/abhisek/learncricket/internal/topics"
)

func rec(tp topics.Topic, d topics.Difficulty, correct bool, secs float64) Record {
	return Record{Topic: tp, Difficulty: d, Correct: correct, ResponseSeconds: secs, Timestamp: time.Unix(0, 0)}
}

func TestEmptyTrackerIsZeroGuarded(t *testing.T) {
	tr := NewTracker(nil, 0)
	assert.Equal(t, DefaultMinAttempts, tr.MinAttempts())
	assert.Zero(t, tr.Accuracy())
	assert.Zero(t, tr.TopicAccuracy(topics.Rules))
	assert.Zero(t, tr.DifficultyAccuracy(topics.Hard))
	assert.Zero(t, tr.Current().AverageResponseSeconds())
	assert.Empty(t, tr.WeakTopics())
	assert.Empty(t, tr.StrongTopics())
}

func TestStreaks(t *testing.T) {
	tr := NewTracker(nil, 3)
	for _, c := range []bool{true, true, true, false, true, true} {
		tr.Record(rec(topics.Rules, topics.Easy, c, 2))
	}
	assert.Equal(t, 2, tr.CurrentStreak())
	assert.Equal(t, 3, tr.BestStreak())
}

func TestWeakAndStrongTopics(t *testing.T) {
	tr := NewTracker(nil, 3)

	// history: 0/3 weak; bowling: 1/3 weak; rules: 3/3 strong; records: 0/2 below floor.
	for i := 0; i < 3; i++ {
		tr.Record(rec(topics.History, topics.Easy, false, 4))
		tr.Record(rec(topics.Bowling, topics.Easy, i == 0, 4))
		tr.Record(rec(topics.Rules, topics.Easy, true, 4))
	}
	tr.Record(rec(topics.Records, topics.Easy, false, 4))
	tr.Record(rec(topics.Records, topics.Easy, false, 4))

	assert.Equal(t, []topics.Topic{topics.History, topics.Bowling}, tr.WeakTopics())
	assert.Equal(t, []topics.Topic{topics.Rules}, tr.StrongTopics())
}

func TestWeakTopicsTieBreakByName(t *testing.T) {
	tr := NewTracker(nil, 3)
	for i := 0; i < 3; i++ {
		tr.Record(rec(topics.Records, topics.Medium, false, 4))
		tr.Record(rec(topics.Fielding, topics.Medium, false, 4))
	}
	assert.Equal(t, []topics.Topic{topics.Fielding, topics.Records}, tr.WeakTopics())
}

func TestTracker_WeakTopicRecoversAcrossSessions(t *testing.T) {
	// Session one: 2/6 on rules.
	first := NewTracker(nil, 3)
	for i := 0; i < 6; i++ {
		first.Record(rec(topics.Rules, topics.Easy, i < 2, 6))
	}
	require.Equal(t, []topics.Topic{topics.Rules}, first.WeakTopics())

	// Session two continues from the saved snapshot: 5 more correct -> 7/11.
	second := NewTracker(first.Snapshot(time.Now()), 3)
	for i := 0; i < 5; i++ {
		second.Record(rec(topics.Rules, topics.Easy, true, 3))
	}
	assert.InDelta(t, 7.0/11.0, second.TopicAccuracy(topics.Rules), 1e-9)
	assert.Empty(t, second.WeakTopics())
	assert.Empty(t, second.StrongTopics())
}

func TestMinAttemptsClamped(t *testing.T) {
	for _, n := range []int{0, -5} {
		tr := NewTracker(nil, n)
		assert.Equal(t, DefaultMinAttempts, tr.MinAttempts())
		tr.Record(rec(topics.Rules, topics.Easy, false, 1))
		assert.Empty(t, tr.WeakTopics(), "one attempt must never make a topic weak")
	}

	agg := NewAggregate()
	agg.add(rec(topics.Rules, topics.Easy, false, 1))
	assert.Empty(t, agg.WeakTopics(0))
	assert.Equal(t, []topics.Topic{topics.Rules}, agg.WeakTopics(1))
}

func TestAverageResponseIgnoresInvalidTimes(t *testing.T) {
	tr := NewTracker(nil, 3)
	tr.Record(rec(topics.Rules, topics.Easy, true, 4))
	tr.Record(rec(topics.Rules, topics.Easy, true, -3))
	assert.InDelta(t, 2.0, tr.Current().AverageResponseSeconds(), 1e-9)
}

func TestSnapshotRoundTrip(t *testing.T) {
	tr := NewTracker(nil, 3)
	tr.Record(rec(topics.Rules, topics.Easy, true, 2))
	tr.Record(rec(topics.History, topics.Hard, false, 9))
	tr.Record(rec(topics.History, topics.Hard, true, 5))
	tr.AddInnings(24, 2, 12)

	snap := tr.Snapshot(time.Now())
	assert.Equal(t, store.ProgressVersion, snap.Version)
	assert.Equal(t, 2, snap.Topics["history"].Attempted)
	assert.Equal(t, 1, snap.Difficulties["easy"].Correct)
	require.NotNil(t, snap.Innings)
	assert.Equal(t, 24, snap.Innings.BestRuns)

	again := NewTracker(snap, 3)
	assert.Equal(t, tr.Aggregate(), again.Aggregate())
	assert.Equal(t, tr.Innings(), again.Innings())
}

func TestSeedSanitized(t *testing.T) {
	tr := NewTracker(&store.ProgressData{
		Topics: map[string]*store.BucketData{
			"rules": {Attempted: 2, Correct: 5},
			"nil":   nil,
		},
		Difficulties: map[string]*store.BucketData{
			"bogus": {Attempted: 1, Correct: 1},
		},
		CurrentStreak: 4,
		BestStreak:    1,
	}, 3)
	agg := tr.Aggregate()
	assert.Equal(t, Bucket{Attempted: 2, Correct: 2}, agg.Topics[topics.Rules])
	assert.NotContains(t, agg.Topics, topics.Topic("nil"))
	assert.Empty(t, agg.Difficulties)
	assert.Equal(t, 4, agg.BestStreak)
}

func TestAddInningsBest(t *testing.T) {
	tr := NewTracker(nil, 3)
	tr.AddInnings(10, 2, 12)
	tr.AddInnings(18, 2, 12)
	tr.AddInnings(18, 1, 12)
	tr.AddInnings(4, 2, 3)

	in := tr.Innings()
	assert.Equal(t, 4, in.Played)
	assert.Equal(t, 50, in.Runs)
	assert.Equal(t, 18, in.BestRuns)
	assert.Equal(t, 1, in.BestWickets)
}

// The incremental aggregate and the recomputed one agree after every record,
// and no topic below the floor is ever weak.
func TestIncrementalMatchesRecompute(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	all := topics.All()
	seed := &store.ProgressData{
		Topics:        map[string]*store.BucketData{"rules": {Attempted: 4, Correct: 1}},
		CurrentStreak: 2,
		BestStreak:    5,
	}
	tr := NewTracker(seed, 3)

	for i := 0; i < 300; i++ {
		r := rec(
			all[rng.IntN(len(all))],
			topics.AllDifficulties()[rng.IntN(3)],
			rng.IntN(3) > 0,
			rng.Float64()*12,
		)
		tr.Record(r)

		inc, full := tr.Current(), tr.Aggregate()
		if !reflect.DeepEqual(inc.Topics, full.Topics) || !reflect.DeepEqual(inc.Difficulties, full.Difficulties) {
			t.Fatalf("record %d: incremental buckets diverged", i)
		}
		if inc.CurrentStreak != full.CurrentStreak || inc.BestStreak != full.BestStreak || inc.Responses != full.Responses {
			t.Fatalf("record %d: incremental counters diverged", i)
		}
		if d := inc.TotalResponseSeconds - full.TotalResponseSeconds; d > 1e-6 || d < -1e-6 {
			t.Fatalf("record %d: response totals diverged by %v", i, d)
		}
		for _, tp := range tr.WeakTopics() {
			if full.Topics[tp].Attempted < tr.MinAttempts() {
				t.Fatalf("record %d: weak topic %s below attempts floor", i, tp)
			}
		}
		for _, b := range full.Topics {
			if b.Correct < 0 || b.Correct > b.Attempted {
				t.Fatalf("record %d: bucket out of range %+v", i, b)
			}
		}
	}
}
