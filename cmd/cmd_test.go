package cmd

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/learncricket/internal/config"
	"github.com/abhisek/learncricket/internal/questions"
	"github.com/abhisek/learncricket/internal/store"
)

func TestParseChoice(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"a", 0, true},
		{"D", 3, true},
		{"2", 1, true},
		{"e", 4, false},
		{"5", 4, false},
		{"ab", 0, false},
		{"?", 0, false},
	}
	for _, tt := range tests {
		got, ok := parseChoice(tt.in, 4)
		assert.Equal(t, tt.ok, ok, tt.in)
		if tt.ok {
			assert.Equal(t, tt.want, got, tt.in)
		}
	}
}

func TestQuiz(t *testing.T) {
	bank, err := questions.DefaultBank()
	require.NoError(t, err)
	qs := bank[:4]

	input := fmt.Sprintf("%c\n%d\n\n",
		'a'+qs[0].CorrectIndex,     // right, as a letter
		(qs[1].CorrectIndex+1)%4+1, // wrong, as a number
	)
	var out bytes.Buffer
	quiz(strings.NewReader(input), &out, qs)

	got := out.String()
	assert.Contains(t, got, "Correct!")
	assert.Contains(t, got, "Out!")
	assert.Contains(t, got, "(skipped)")
	assert.Contains(t, got, "(input closed)")
	assert.True(t, strings.HasSuffix(got, "1/2 correct\n"), got)
}

func TestInningsResult(t *testing.T) {
	assert.Equal(t, "all out", inningsResult(store.SessionEvent{
		SessionEventData: store.SessionEventData{Action: store.ActionEnd, Status: "all_out"},
	}))
	assert.Equal(t, "declared", inningsResult(store.SessionEvent{
		SessionEventData: store.SessionEventData{Action: store.ActionAbort, Status: "in_progress"},
	}))
}

func clearLLMEnv(t *testing.T) {
	for _, k := range []string{
		"GEMINI_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY",
		"LEARNCRICKET_LLM_PROVIDER", "LEARNCRICKET_ANTHROPIC_API_KEY",
		"LEARNCRICKET_OPENAI_API_KEY", "LEARNCRICKET_GEMINI_API_KEY", "LEARNCRICKET_OPENROUTER_API_KEY",
	} {
		t.Setenv(k, "")
	}
}

func TestSupplySource_AutoFallsBackToBank(t *testing.T) {
	clearLLMEnv(t)
	c := config.Default()

	src, err := newSupplySource(context.Background(), c, nil, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, config.SourceBank, src.Name())

	supply, err := src.New()
	require.NoError(t, err)
	_, isBank := supply.(*questions.BankSupply)
	assert.True(t, isBank)

	qs, err := supply.Fetch(context.Background(), questions.Request{Count: 2})
	require.NoError(t, err)
	assert.Len(t, qs, 2)
}

func TestSupplySource_LLMWithoutKey(t *testing.T) {
	clearLLMEnv(t)
	c := config.Default()
	c.Supply.Source = config.SourceLLM

	_, err := newSupplySource(context.Background(), c, nil, zerolog.Nop())
	assert.Error(t, err)
}

func TestSupplySource_MockProviderChainsToBank(t *testing.T) {
	clearLLMEnv(t)
	t.Setenv("LEARNCRICKET_LLM_PROVIDER", "mock")
	c := config.Default()

	src, err := newSupplySource(context.Background(), c, nil, zerolog.Nop())
	require.NoError(t, err)
	require.NotNil(t, src.provider)

	supply, err := src.New()
	require.NoError(t, err)
	_, isChain := supply.(*questions.Chain)
	assert.True(t, isChain)
}

func TestSupplySource_FreshBankPerInnings(t *testing.T) {
	clearLLMEnv(t)
	c := config.Default()
	c.Supply.Source = config.SourceBank

	src, err := newSupplySource(context.Background(), c, nil, zerolog.Nop())
	require.NoError(t, err)

	first, err := src.New()
	require.NoError(t, err)
	second, err := src.New()
	require.NoError(t, err)
	assert.NotSame(t, first, second)
}

func TestOpenProgress_SQLite(t *testing.T) {
	st, err := store.Open("file::memory:?cache=shared")
	require.NoError(t, err)
	defer st.Close()

	repo, closeFn, err := openProgress(context.Background(), config.Default(), st)
	require.NoError(t, err)
	require.NotNil(t, repo)
	assert.NoError(t, closeFn())
}

func TestResolveVersion(t *testing.T) {
	old := version
	t.Cleanup(func() { version = old })

	version = "v1.4.0"
	assert.Equal(t, "v1.4.0", resolveVersion())

	version = ""
	assert.NotEmpty(t, resolveVersion())
}
