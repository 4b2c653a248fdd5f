package questions

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/learncricket/internal/topics"
)

func TestDefaultBank_CoversEveryTopicAndDifficulty(t *testing.T) {
	qs, err := DefaultBank()
	require.NoError(t, err)

	byTopic := map[topics.Topic]int{}
	byDifficulty := map[topics.Difficulty]int{}
	for _, q := range qs {
		byTopic[q.Topic]++
		byDifficulty[q.Difficulty]++
	}
	for _, tp := range topics.All() {
		assert.NotZero(t, byTopic[tp], "topic %s has no questions", tp)
	}
	for _, d := range topics.AllDifficulties() {
		assert.NotZero(t, byDifficulty[d], "difficulty %s has no questions", d)
	}
}

func TestLoadBank_Errors(t *testing.T) {
	_, err := LoadBank([]byte(`{`))
	assert.Error(t, err)

	_, err = LoadBank([]byte(`{"version":1,"questions":[]}`))
	assert.Error(t, err)

	_, err = LoadBank([]byte(`{"version":1,"questions":[{"id":"x","prompt":"p","options":["a","b"],"correct_index":0,"topic":"rules","difficulty":"easy"}]}`))
	assert.True(t, IsMalformed(err))

	dup := `{"version":1,"questions":[
		{"id":"x","prompt":"p","options":["a","b","c","d"],"correct_index":0,"topic":"rules","difficulty":"easy"},
		{"id":"x","prompt":"q","options":["a","b","c","d"],"correct_index":1,"topic":"rules","difficulty":"hard"}]}`
	_, err = LoadBank([]byte(dup))
	assert.ErrorContains(t, err, "duplicate id")
}

func smallBank() []Question {
	return []Question{
		sampleQuestion("r-e", topics.Rules, topics.Easy),
		sampleQuestion("r-h", topics.Rules, topics.Hard),
		sampleQuestion("b-e", topics.Batting, topics.Easy),
		sampleQuestion("b-m", topics.Batting, topics.Medium),
		sampleQuestion("h-e", topics.History, topics.Easy),
	}
}

func TestBankSupply_ExactMatch(t *testing.T) {
	b := NewBankSupply(smallBank(), 1)
	qs, err := b.Fetch(context.Background(), Request{Topic: topics.Batting, Difficulty: topics.Medium})
	require.NoError(t, err)
	require.Len(t, qs, 1)
	assert.Equal(t, "b-m", qs[0].ID)
}

func TestBankSupply_RelaxesDifficultyBeforeTopic(t *testing.T) {
	b := NewBankSupply(smallBank(), 1)
	qs, err := b.Fetch(context.Background(), Request{Topic: topics.Rules, Difficulty: topics.Medium, Count: 2})
	require.NoError(t, err)
	require.Len(t, qs, 2)
	for _, q := range qs {
		assert.Equal(t, topics.Rules, q.Topic)
	}
}

func TestBankSupply_AvoidsRecentTopics(t *testing.T) {
	b := NewBankSupply(smallBank(), 7)
	qs, err := b.Fetch(context.Background(), Request{
		Difficulty:          topics.Easy,
		ExcludeRecentTopics: []topics.Topic{topics.Rules, topics.Batting},
	})
	require.NoError(t, err)
	require.Len(t, qs, 1)
	assert.Equal(t, "h-e", qs[0].ID)
}

func TestBankSupply_NeverRepeatsAndExhausts(t *testing.T) {
	b := NewBankSupply(smallBank(), 3)
	ctx := context.Background()
	seen := map[string]bool{}
	for {
		qs, err := b.Fetch(ctx, Request{Topic: topics.Rules, Difficulty: topics.Easy, Count: 2})
		if errors.Is(err, ErrExhausted) {
			break
		}
		require.NoError(t, err)
		for _, q := range qs {
			assert.False(t, seen[q.ID], "question %s served twice", q.ID)
			seen[q.ID] = true
		}
	}
	assert.Len(t, seen, len(smallBank()))
	assert.Equal(t, 0, b.Remaining())
	assert.Equal(t, len(smallBank()), b.Size())
}

func TestBankSupply_ExcludeIDs(t *testing.T) {
	b := NewBankSupply(smallBank(), 1)
	qs, err := b.Fetch(context.Background(), Request{
		Topic:      topics.Batting,
		ExcludeIDs: []string{"b-e"},
		Count:      1,
	})
	require.NoError(t, err)
	require.Len(t, qs, 1)
	assert.Equal(t, "b-m", qs[0].ID)
}

func TestBankSupply_CancelledContext(t *testing.T) {
	b := NewBankSupply(smallBank(), 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := b.Fetch(ctx, Request{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, len(smallBank()), b.Remaining())
}

func TestBankSupply_Deterministic(t *testing.T) {
	a := NewBankSupply(smallBank(), 42)
	b := NewBankSupply(smallBank(), 42)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		qa, errA := a.Fetch(ctx, Request{})
		qb, errB := b.Fetch(ctx, Request{})
		require.NoError(t, errA)
		require.NoError(t, errB)
		assert.Equal(t, qa[0].ID, qb[0].ID)
	}
}
