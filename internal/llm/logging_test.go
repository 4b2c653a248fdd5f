package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/learncricket/internal/store"
)

// fakeEventRepo records LLM events; the other methods are unused here.
type fakeEventRepo struct {
	store.EventRepo
	llm []store.LLMRequestEventData
	err error
}

func (f *fakeEventRepo) AppendLLMRequest(_ context.Context, d store.LLMRequestEventData) error {
	f.llm = append(f.llm, d)
	return f.err
}

func TestLoggingProvider_RecordsSuccess(t *testing.T) {
	var buf bytes.Buffer
	repo := &fakeEventRepo{}
	mock := NewMockProvider(MockResponse{
		Content: json.RawMessage(`{"questions":[]}`),
		Usage:   Usage{InputTokens: 12, OutputTokens: 34},
	})
	p := WithLogging(mock, repo, zerolog.New(&buf).Level(zerolog.DebugLevel))

	ctx := WithPurpose(context.Background(), PurposeQuestionGen)
	_, err := p.Generate(ctx, Request{
		System:   "sys",
		Messages: []Message{{Role: RoleUser, Content: "Give me questions"}},
		Schema:   &Schema{Name: "s", Definition: map[string]any{"type": "object"}},
	})
	require.NoError(t, err)

	require.Len(t, repo.llm, 1)
	got := repo.llm[0]
	assert.Equal(t, "mock", got.Provider)
	assert.Equal(t, "question-gen", got.Purpose)
	assert.True(t, got.Success)
	assert.Equal(t, 12, got.InputTokens)
	assert.Equal(t, 34, got.OutputTokens)
	assert.Contains(t, got.RequestBody, "[system]\nsys")
	assert.Contains(t, got.RequestBody, "[schema: s]")
	assert.Equal(t, `{"questions":[]}`, got.ResponseBody)

	assert.Contains(t, buf.String(), `"message":"llm request"`)
	assert.Contains(t, buf.String(), `"purpose":"question-gen"`)
}

func TestLoggingProvider_FailureAndRepoError(t *testing.T) {
	var buf bytes.Buffer
	repo := &fakeEventRepo{err: errors.New("disk full")}
	mock := NewMockProvider(MockResponse{Err: &Error{Kind: KindRateLimited, Err: errors.New("slow down")}})
	p := WithLogging(mock, repo, zerolog.New(&buf))

	_, err := p.Generate(context.Background(), Request{})
	var e *Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, KindRateLimited, e.Kind)

	require.Len(t, repo.llm, 1)
	assert.False(t, repo.llm[0].Success)
	assert.Contains(t, repo.llm[0].ErrorMessage, "slow down")
	assert.Equal(t, "unknown", repo.llm[0].Purpose)
	assert.True(t, strings.Contains(buf.String(), "record llm request event"))
	assert.Contains(t, buf.String(), `"kind":"rate limited"`)
}

func TestLoggingProvider_NilRepo(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`{}`)})
	p := WithLogging(mock, nil, zerolog.Nop())
	_, err := p.Generate(context.Background(), Request{})
	assert.NoError(t, err)
	assert.Equal(t, "mock", p.Name())
}

type slowProvider struct{ MockProvider }

func (s *slowProvider) Generate(ctx context.Context, _ Request) (*Response, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestWithTimeout(t *testing.T) {
	mock := NewMockProvider()
	assert.Same(t, Provider(mock), WithTimeout(mock, 0))

	p := WithTimeout(&slowProvider{}, 5*time.Millisecond)
	_, err := p.Generate(context.Background(), Request{})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestNewProvider_Mock(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Provider = ProviderMock
	p, err := NewProvider(context.Background(), cfg, nil, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, "mock", p.Name())

	cfg.Provider = "nope"
	_, err = NewProvider(context.Background(), cfg, nil, zerolog.Nop())
	assert.Error(t, err)
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("LEARNCRICKET_LLM_PROVIDER", "openrouter")
	t.Setenv("LEARNCRICKET_OPENROUTER_API_KEY", "sk-or")
	t.Setenv("LEARNCRICKET_OPENROUTER_MODEL", "meta/llama")
	t.Setenv("LEARNCRICKET_LLM_TIMEOUT", "12s")

	cfg := ConfigFromEnv()
	assert.Equal(t, ProviderOpenRouter, cfg.Provider)
	assert.Equal(t, "sk-or", cfg.OpenRouter.APIKey)
	assert.Equal(t, "meta/llama", cfg.OpenRouter.Model)
	assert.Equal(t, 12*time.Second, cfg.Timeout)
	assert.NoError(t, cfg.Validate())

	resolved, ok := ResolveConfig()
	assert.True(t, ok)
	assert.Equal(t, ProviderOpenRouter, resolved.Provider)
}

func TestResolveConfig_Discovers(t *testing.T) {
	for _, k := range []string{"GEMINI_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY", "LEARNCRICKET_ANTHROPIC_API_KEY"} {
		t.Setenv(k, "")
	}
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, ok := ResolveConfig()
	require.True(t, ok)
	assert.Equal(t, ProviderOpenAI, cfg.Provider)
	assert.Equal(t, "sk-test", cfg.OpenAI.APIKey)
}
