package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Validator checks model output against a Schema. Compiled schemas are
// cached by name, so two schemas must not share a name.
type Validator struct {
	mu       sync.Mutex
	compiled map[string]*jsonschema.Schema
}

// NewValidator returns an empty Validator.
func NewValidator() *Validator {
	return &Validator{compiled: make(map[string]*jsonschema.Schema)}
}

// Check strips a Markdown code fence if the model added one and validates
// the remaining JSON. It returns the cleaned content. With a nil schema
// the content is returned unchanged.
func (v *Validator) Check(schema *Schema, raw json.RawMessage) (json.RawMessage, error) {
	if schema == nil {
		return raw, nil
	}
	content := stripFence(raw)

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(content))
	if err != nil {
		return nil, &Error{Kind: KindInvalidResponse, Content: raw, Err: fmt.Errorf("not JSON: %w", err)}
	}

	compiled, err := v.compile(schema)
	if err != nil {
		return nil, &Error{Kind: KindInvalidResponse, Content: raw, Err: err}
	}
	if err := compiled.Validate(doc); err != nil {
		return nil, &Error{Kind: KindInvalidResponse, Content: raw, Err: fmt.Errorf("schema %s: %w", schema.Name, err)}
	}
	return content, nil
}

func (v *Validator) compile(schema *Schema) (*jsonschema.Schema, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if s, ok := v.compiled[schema.Name]; ok {
		return s, nil
	}

	// The compiler wants decoded JSON values, not Go maps with typed slices.
	b, err := json.Marshal(schema.Definition)
	if err != nil {
		return nil, fmt.Errorf("marshal schema %s: %w", schema.Name, err)
	}
	def, err := jsonschema.UnmarshalJSON(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("decode schema %s: %w", schema.Name, err)
	}

	url := "mem://" + schema.Name + ".json"
	c := jsonschema.NewCompiler()
	if err := c.AddResource(url, def); err != nil {
		return nil, fmt.Errorf("add schema %s: %w", schema.Name, err)
	}
	s, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile schema %s: %w", schema.Name, err)
	}
	v.compiled[schema.Name] = s
	return s, nil
}

// stripFence removes a surrounding ``` or ```json fence.
func stripFence(raw json.RawMessage) json.RawMessage {
	b := bytes.TrimSpace(raw)
	if !bytes.HasPrefix(b, []byte("```")) {
		return b
	}
	b = b[3:]
	if nl := bytes.IndexByte(b, '\n'); nl >= 0 {
		b = b[nl+1:]
	}
	b = bytes.TrimSpace(b)
	b = bytes.TrimSuffix(b, []byte("```"))
	return bytes.TrimSpace(b)
}
