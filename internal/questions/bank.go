package questions

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"github.com/abhisek/learncricket/internal/topics"
)

//go:embed bank.json
var bankJSON []byte

type bankFile struct {
	Version   int        `json:"version"`
	Questions []Question `json:"questions"`
}

// LoadBank parses a JSON question bank and validates every entry.
// Duplicate IDs are rejected.
func LoadBank(data []byte) ([]Question, error) {
	var f bankFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse question bank: %w", err)
	}
	if len(f.Questions) == 0 {
		return nil, fmt.Errorf("question bank is empty")
	}

	seen := make(map[string]bool, len(f.Questions))
	for i := range f.Questions {
		q := &f.Questions[i]
		if err := Validate(*q); err != nil {
			return nil, fmt.Errorf("question bank entry %d: %w", i, err)
		}
		if seen[q.ID] {
			return nil, fmt.Errorf("question bank entry %d: duplicate id %q", i, q.ID)
		}
		seen[q.ID] = true
	}
	return f.Questions, nil
}

// DefaultBank returns the questions embedded in the binary.
func DefaultBank() ([]Question, error) {
	return LoadBank(bankJSON)
}

// BankSupply serves questions from a fixed bank. It never serves the
// same question twice. When no question matches the request exactly,
// the difficulty is relaxed first and then the topic.
type BankSupply struct {
	mu     sync.Mutex
	all    []Question
	served map[string]bool
	rng    *rand.Rand
}

// NewBankSupply creates a supply over qs. A zero seed picks one from
// the current time.
func NewBankSupply(qs []Question, seed uint64) *BankSupply {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &BankSupply{
		all:    append([]Question(nil), qs...),
		served: make(map[string]bool),
		rng:    rand.New(rand.NewPCG(seed, seed>>1|1)),
	}
}

// NewDefaultBankSupply creates a BankSupply over the embedded bank.
func NewDefaultBankSupply(seed uint64) (*BankSupply, error) {
	qs, err := DefaultBank()
	if err != nil {
		return nil, err
	}
	return NewBankSupply(qs, seed), nil
}

func (b *BankSupply) Fetch(ctx context.Context, req Request) ([]Question, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	excluded := make(map[string]bool, len(req.ExcludeIDs))
	for _, id := range req.ExcludeIDs {
		excluded[id] = true
	}
	available := func(q Question) bool {
		return !b.served[q.ID] && !excluded[q.ID]
	}
	notRecent := func(q Question) bool {
		return !slices.Contains(req.ExcludeRecentTopics, q.Topic)
	}
	matchTopic := func(q Question) bool {
		return req.Topic == "" || q.Topic == req.Topic
	}
	matchDifficulty := func(q Question) bool {
		return req.Difficulty == topics.DifficultyUnset || q.Difficulty == req.Difficulty
	}

	// Each pass relaxes one more filter. Recent topics are only avoided
	// when no explicit topic was asked for.
	passes := []func(Question) bool{
		func(q Question) bool { return matchTopic(q) && matchDifficulty(q) && (req.Topic != "" || notRecent(q)) },
		func(q Question) bool { return matchTopic(q) },
		func(q Question) bool { return matchDifficulty(q) && notRecent(q) },
		func(q Question) bool { return matchDifficulty(q) },
		func(Question) bool { return true },
	}

	want := req.count()
	var out []Question
	for _, pass := range passes {
		if len(out) == want {
			break
		}
		var pool []Question
		for _, q := range b.all {
			if available(q) && pass(q) {
				pool = append(pool, q)
			}
		}
		b.rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
		for _, q := range pool {
			if len(out) == want {
				break
			}
			b.served[q.ID] = true
			out = append(out, q)
		}
	}

	if len(out) == 0 {
		return nil, ErrExhausted
	}
	return out, nil
}

// Remaining returns how many questions have not yet been served.
func (b *BankSupply) Remaining() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.all) - len(b.served)
}

// Size returns the total number of questions in the bank.
func (b *BankSupply) Size() int {
	return len(b.all)
}
