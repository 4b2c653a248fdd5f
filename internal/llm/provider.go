// Package llm is a small provider-neutral client for structured JSON
// generation. Question generation is its only consumer.
package llm

import (
	"context"
	"encoding/json"
	"errors"
)

// Provider generates one completion per call. Implementations return
// *Error for every failure they can classify.
type Provider interface {
	// Generate sends req. When req.Schema is set the returned Content has
	// been validated against it.
	Generate(ctx context.Context, req Request) (*Response, error)

	// Name is the provider name, e.g. "anthropic".
	Name() string

	// ModelID is the configured model identifier.
	ModelID() string
}

// Role is the sender of a Message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Message struct {
	Role    Role
	Content string
}

// Schema is a named JSON Schema the response must satisfy.
type Schema struct {
	// Name is kebab-case, e.g. "cricket-questions". Validators cache by it.
	Name        string
	Description string
	Definition  map[string]any
}

type Request struct {
	System   string
	Messages []Message

	// Schema, when nil, leaves Content as raw text.
	Schema *Schema

	MaxTokens int

	// Temperature in [0,1]; zero keeps the provider default.
	Temperature float64
}

// StopReason is a provider-neutral finish reason.
type StopReason string

const (
	StopEnd       StopReason = "end"
	StopMaxTokens StopReason = "max_tokens"
)

type Response struct {
	Content json.RawMessage
	Usage   Usage

	// Model actually served the request; it may differ from ModelID.
	Model      string
	StopReason StopReason
}

type Usage struct {
	InputTokens  int
	OutputTokens int
}

// Total is input plus output tokens.
func (u Usage) Total() int { return u.InputTokens + u.OutputTokens }

// completion is what a provider extracted from its SDK response before
// the shared checks in finish run.
type completion struct {
	provider string
	content  json.RawMessage
	stop     StopReason
	usage    Usage
	model    string
}

// finish rejects truncated output and validates it against schema.
func (c completion) finish(v *Validator, schema *Schema) (*Response, error) {
	if c.stop == StopMaxTokens {
		return nil, &Error{Kind: KindTruncated, Provider: c.provider, Content: c.content}
	}
	content, err := v.Check(schema, c.content)
	if err != nil {
		var e *Error
		if errors.As(err, &e) {
			e.Provider = c.provider
		}
		return nil, err
	}
	return &Response{
		Content:    content,
		Usage:      c.usage,
		Model:      c.model,
		StopReason: c.stop,
	}, nil
}

// resolveModel maps a friendly alias to a model ID. Unknown names pass
// through so full model IDs work too.
func resolveModel(name string, aliases map[string]string) string {
	if id, ok := aliases[name]; ok {
		return id
	}
	return name
}
