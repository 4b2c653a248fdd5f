package llm

import "context"

// Purpose labels why a request was made. It is recorded with every LLM
// request event.
type Purpose string

const (
	PurposeQuestionGen Purpose = "question-gen"
	PurposeUnknown     Purpose = "unknown"
)

type purposeKey struct{}

// WithPurpose attaches p to ctx.
func WithPurpose(ctx context.Context, p Purpose) context.Context {
	return context.WithValue(ctx, purposeKey{}, p)
}

// PurposeFrom returns the purpose attached to ctx, or PurposeUnknown.
func PurposeFrom(ctx context.Context) Purpose {
	if p, ok := ctx.Value(purposeKey{}).(Purpose); ok && p != "" {
		return p
	}
	return PurposeUnknown
}
