package questions

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/learncricket/internal/topics"
)

func TestStaticSupply_ServesInOrder(t *testing.T) {
	s := NewStaticSupply(
		sampleQuestion("a", topics.Rules, topics.Easy),
		sampleQuestion("b", topics.Rules, topics.Easy),
		sampleQuestion("c", topics.Rules, topics.Easy),
	)
	ctx := context.Background()

	qs, err := s.Fetch(ctx, Request{Count: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ids(qs))
	assert.Equal(t, 1, s.Remaining())

	qs, err = s.Fetch(ctx, Request{Count: 5})
	require.NoError(t, err)
	assert.Equal(t, []string{"c"}, ids(qs))

	_, err = s.Fetch(ctx, Request{})
	assert.ErrorIs(t, err, ErrExhausted)
	assert.Len(t, s.Requests(), 3)
}

func TestChain_FallsBackOnError(t *testing.T) {
	failing := NewStaticSupply()
	failing.Err = errors.New("network down")
	backup := NewStaticSupply(sampleQuestion("bank-1", topics.Rules, topics.Easy))

	c := NewChain(zerolog.Nop(), failing, backup)
	qs, err := c.Fetch(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, []string{"bank-1"}, ids(qs))
	assert.Len(t, failing.Requests(), 1)
}

func TestChain_FirstSupplyWins(t *testing.T) {
	first := NewStaticSupply(sampleQuestion("llm-1", topics.Rules, topics.Easy))
	second := NewStaticSupply(sampleQuestion("bank-1", topics.Rules, topics.Easy))

	c := NewChain(zerolog.Nop(), first, second)
	qs, err := c.Fetch(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, []string{"llm-1"}, ids(qs))
	assert.Empty(t, second.Requests())
}

func TestChain_AllExhausted(t *testing.T) {
	c := NewChain(zerolog.Nop(), NewStaticSupply(), NewStaticSupply())
	_, err := c.Fetch(context.Background(), Request{})
	assert.ErrorIs(t, err, ErrExhausted)
	assert.ErrorContains(t, err, "exhausted")
}

func TestChain_MixedFailures(t *testing.T) {
	failing := NewStaticSupply()
	failing.Err = errors.New("boom")

	c := NewChain(zerolog.Nop(), failing, NewStaticSupply())
	_, err := c.Fetch(context.Background(), Request{})
	require.Error(t, err)
	assert.ErrorContains(t, err, "all question supplies failed")
	assert.ErrorIs(t, err, ErrExhausted)
}

func TestChain_Empty(t *testing.T) {
	_, err := NewChain(zerolog.Nop()).Fetch(context.Background(), Request{})
	assert.ErrorIs(t, err, ErrExhausted)
}

func TestChain_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	backup := NewStaticSupply(sampleQuestion("bank-1", topics.Rules, topics.Easy))

	c := NewChain(zerolog.Nop(), NewStaticSupply(), backup)
	_, err := c.Fetch(ctx, Request{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, backup.Requests())
}

func ids(qs []Question) []string {
	out := make([]string, len(qs))
	for i, q := range qs {
		out[i] = q.ID
	}
	return out
}
