package questions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/abhisek/learncricket/internal/llm"
	"github.com/abhisek/learncricket/internal/topics"
)

// LLMConfig controls the behavior of LLMSupply.
type LLMConfig struct {
	// MaxTokens is the token budget for one batch.
	MaxTokens int

	// Temperature controls output randomness (0.0-1.0).
	Temperature float64

	// MaxPriorPrompts is how many earlier prompts are sent for dedup.
	MaxPriorPrompts int

	// MaxBatch caps Request.Count.
	MaxBatch int
}

// DefaultLLMConfig returns recommended defaults.
func DefaultLLMConfig() LLMConfig {
	return LLMConfig{
		MaxTokens:       1500,
		Temperature:     0.8,
		MaxPriorPrompts: 20,
		MaxBatch:        5,
	}
}

// LLMSupply generates questions with an LLM provider.
type LLMSupply struct {
	provider llm.Provider
	cfg      LLMConfig
	log      zerolog.Logger

	mu    sync.Mutex
	prior []string
	asked map[string]bool
}

// NewLLMSupply creates an LLMSupply. Zero config fields take defaults.
func NewLLMSupply(provider llm.Provider, cfg LLMConfig, log zerolog.Logger) *LLMSupply {
	def := DefaultLLMConfig()
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = def.MaxTokens
	}
	if cfg.MaxPriorPrompts <= 0 {
		cfg.MaxPriorPrompts = def.MaxPriorPrompts
	}
	if cfg.MaxBatch <= 0 {
		cfg.MaxBatch = def.MaxBatch
	}
	return &LLMSupply{
		provider: provider,
		cfg:      cfg,
		log:      log,
		asked:    make(map[string]bool),
	}
}

type batchOutput struct {
	Questions []struct {
		Prompt       string   `json:"prompt"`
		Options      []string `json:"options"`
		CorrectIndex int      `json:"correct_index"`
		Explanation  string   `json:"explanation"`
		Topic        string   `json:"topic"`
	} `json:"questions"`
}

func (s *LLMSupply) Fetch(ctx context.Context, req Request) ([]Question, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeQuestionGen)

	if req.count() > s.cfg.MaxBatch {
		req.Count = s.cfg.MaxBatch
	}

	s.mu.Lock()
	req.PriorPrompts = mergePrompts(s.prior, req.PriorPrompts)
	s.mu.Unlock()

	resp, err := s.provider.Generate(ctx, llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildUserMessage(req, s.cfg.MaxPriorPrompts)},
		},
		Schema:      BatchSchema,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("LLM question generation failed: %w", err)
	}

	var raw batchOutput
	if err := json.Unmarshal(resp.Content, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse LLM response: %w", err)
	}

	difficulty := req.Difficulty
	if !difficulty.Valid() {
		difficulty = topics.Medium
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Question
	var rejected error
	for _, r := range raw.Questions {
		topic := topics.Normalize(r.Topic)
		if topic == "" {
			topic = req.Topic
		}
		q := Question{
			ID:           uuid.NewString(),
			Prompt:       strings.TrimSpace(r.Prompt),
			Options:      r.Options,
			CorrectIndex: r.CorrectIndex,
			Explanation:  strings.TrimSpace(r.Explanation),
			Topic:        topic,
			Difficulty:   difficulty,
		}
		if err := Validate(q); err != nil {
			s.log.Warn().Err(err).Msg("discarding generated question")
			rejected = err
			continue
		}
		key := strings.ToLower(q.Prompt)
		if s.asked[key] {
			s.log.Debug().Str("prompt", q.Prompt).Msg("discarding repeated question")
			continue
		}
		s.asked[key] = true
		s.prior = append(s.prior, q.Prompt)
		out = append(out, q)
	}
	if n := len(s.prior); n > s.cfg.MaxPriorPrompts {
		s.prior = s.prior[n-s.cfg.MaxPriorPrompts:]
	}

	if len(out) == 0 {
		if rejected != nil {
			return nil, fmt.Errorf("no usable questions in LLM response: %w", rejected)
		}
		return nil, fmt.Errorf("no new questions in LLM response: %w", ErrExhausted)
	}
	return out, nil
}

// mergePrompts joins prompt lists in order, dropping repeats. Prompts
// compare case-insensitively, as in the asked set.
func mergePrompts(lists ...[]string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, list := range lists {
		for _, p := range list {
			key := strings.ToLower(strings.TrimSpace(p))
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, p)
		}
	}
	return out
}

// IsMalformed reports whether err carries a *MalformedQuestionError.
func IsMalformed(err error) bool {
	var merr *MalformedQuestionError
	return errors.As(err, &merr)
}
