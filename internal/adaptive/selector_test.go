package adaptive

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/abhisek/learncricket/internal/performance"
	"github.com/abhisek/learncricket/internal/topics"
)

func aggOf(buckets map[topics.Topic]performance.Bucket) performance.Aggregate {
	agg := performance.NewAggregate()
	for t, b := range buckets {
		agg.Topics[t] = b
	}
	return agg
}

func TestLevelFor(t *testing.T) {
	tests := []struct {
		acc  float64
		want Level
	}{
		{0, Beginner},
		{0.49, Beginner},
		{0.5, Intermediate},
		{0.8, Intermediate},
		{0.81, Advanced},
		{1, Advanced},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LevelFor(tt.acc), "accuracy %v", tt.acc)
	}
}

func TestRecommend_EmptyAggregate(t *testing.T) {
	s := NewSelector(Config{})
	rec := s.Recommend(performance.NewAggregate())

	assert.Equal(t, Beginner, rec.Level)
	assert.Equal(t, topics.Easy, rec.Difficulty)
	// All catalog topics are unseen, so the first three by name.
	assert.Equal(t, []topics.Topic{topics.Batting, topics.Bowling, topics.Equipment}, rec.FocusTopics)
}

func TestRecommend_WeakTopicsFirst(t *testing.T) {
	s := NewSelector(Config{})
	agg := aggOf(map[topics.Topic]performance.Bucket{
		topics.History:  {Attempted: 5, Correct: 1},
		topics.Records:  {Attempted: 4, Correct: 1},
		topics.Rules:    {Attempted: 10, Correct: 10},
		topics.Bowling:  {Attempted: 6, Correct: 6},
		topics.Fielding: {Attempted: 2, Correct: 0},
	})

	rec := s.Recommend(agg)
	// 18/27 overall -> intermediate.
	assert.Equal(t, Intermediate, rec.Level)
	assert.Equal(t, topics.Medium, rec.Difficulty)
	assert.Equal(t, []topics.Topic{topics.History, topics.Records}, rec.FocusTopics)
}

func TestRecommend_FocusTruncated(t *testing.T) {
	s := NewSelector(Config{FocusCount: 2})
	agg := aggOf(map[topics.Topic]performance.Bucket{
		topics.History:  {Attempted: 3, Correct: 0},
		topics.Records:  {Attempted: 3, Correct: 1},
		topics.Fielding: {Attempted: 3, Correct: 0},
	})
	rec := s.Recommend(agg)
	assert.Equal(t, []topics.Topic{topics.Fielding, topics.History}, rec.FocusTopics)
}

func TestRecommend_LeastAttemptedFallback(t *testing.T) {
	s := NewSelector(Config{Catalog: []topics.Topic{topics.Rules, topics.History, topics.Grounds}})
	agg := aggOf(map[topics.Topic]performance.Bucket{
		topics.Rules:              {Attempted: 9, Correct: 9},
		topics.History:            {Attempted: 2, Correct: 2},
		topics.Topic("world-cup"): {Attempted: 1, Correct: 1},
	})
	rec := s.Recommend(agg)

	assert.Equal(t, Advanced, rec.Level)
	assert.Equal(t, topics.Hard, rec.Difficulty)
	assert.Equal(t, []topics.Topic{topics.Grounds, topics.Topic("world-cup"), topics.History}, rec.FocusTopics)
}

func TestRecommend_DifficultyClamp(t *testing.T) {
	s := NewSelector(Config{MinDifficulty: topics.Medium, MaxDifficulty: topics.Medium})

	low := s.Recommend(aggOf(map[topics.Topic]performance.Bucket{topics.Rules: {Attempted: 10, Correct: 0}}))
	assert.Equal(t, Beginner, low.Level)
	assert.Equal(t, topics.Medium, low.Difficulty)

	high := s.Recommend(aggOf(map[topics.Topic]performance.Bucket{topics.Rules: {Attempted: 10, Correct: 10}}))
	assert.Equal(t, Advanced, high.Level)
	assert.Equal(t, topics.Medium, high.Difficulty)
}

func TestNewSelector_Defaults(t *testing.T) {
	cfg := NewSelector(Config{MinDifficulty: topics.Hard, MaxDifficulty: topics.Easy}).Config()
	assert.Equal(t, DefaultFocusCount, cfg.FocusCount)
	assert.Equal(t, performance.DefaultMinAttempts, cfg.MinAttempts)
	assert.Equal(t, topics.Easy, cfg.MinDifficulty)
	assert.Equal(t, topics.Hard, cfg.MaxDifficulty)
	assert.Len(t, cfg.Catalog, len(topics.All()))
}

func TestRecommend_Pure(t *testing.T) {
	s := NewSelector(Config{})
	agg := aggOf(map[topics.Topic]performance.Bucket{
		topics.History: {Attempted: 5, Correct: 1},
	})
	before := agg.Clone()
	a := s.Recommend(agg)
	b := s.Recommend(agg)
	assert.Equal(t, a, b)
	assert.Equal(t, before, agg)
}
