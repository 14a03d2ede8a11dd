package wallet

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ErrInvalidRequest is wrapped by every schema failure.
var ErrInvalidRequest = errors.New("wallet: invalid request")

// Request schema names.
const (
	SchemaTheme        = "theme"
	SchemaNotification = "notification"
	SchemaSwipe        = "swipe"
	SchemaPeriod       = "period"
	SchemaNavigate     = "navigate"
	SchemaSearch       = "search"
)

var requestSchemas = map[string]string{
	SchemaTheme: `{
		"type": "object",
		"required": ["theme"],
		"properties": {"theme": {"enum": ["dark", "light"]}},
		"additionalProperties": false
	}`,
	SchemaNotification: `{
		"type": "object",
		"required": ["message"],
		"properties": {
			"message": {"type": "string", "minLength": 1, "maxLength": 280},
			"kind": {"enum": ["success", "error", "warning", "info", "loading"]},
			"ttl_ms": {"type": "integer", "minimum": 0}
		},
		"additionalProperties": false
	}`,
	SchemaSwipe: `{
		"type": "object",
		"required": ["dx", "dy"],
		"properties": {"dx": {"type": "number"}, "dy": {"type": "number"}},
		"additionalProperties": false
	}`,
	SchemaPeriod: `{
		"type": "object",
		"required": ["period"],
		"properties": {"period": {"enum": ["week", "month", "year", "weekly", "monthly", "yearly"]}},
		"additionalProperties": false
	}`,
	SchemaNavigate: `{
		"type": "object",
		"required": ["page"],
		"properties": {"page": {"type": "string", "minLength": 1}},
		"additionalProperties": false
	}`,
	SchemaSearch: `{
		"type": "object",
		"properties": {
			"q": {"type": "string"},
			"filter": {"enum": ["all", "income", "expense"]}
		},
		"additionalProperties": false
	}`,
}

// RequestValidator checks decoded request bodies against a named schema.
type RequestValidator interface {
	Validate(schema string, payload map[string]any) error
}

// JSONSchemaValidator compiles the request schemas lazily and caches them.
type JSONSchemaValidator struct {
	mu       sync.RWMutex
	compiled map[string]*jsonschema.Schema
}

// NewJSONSchemaValidator builds a validator backed by jsonschema v5.
func NewJSONSchemaValidator() *JSONSchemaValidator {
	return &JSONSchemaValidator{
		compiled: make(map[string]*jsonschema.Schema),
	}
}

// Validate ensures payload satisfies the named schema.
func (v *JSONSchemaValidator) Validate(name string, payload map[string]any) error {
	schema, err := v.schemaFor(name)
	if err != nil {
		return err
	}
	// round-trip so numbers are float64 like a decoded body
	var doc any = map[string]any{}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("wallet: marshal %s payload: %w", name, err)
		}
		if err := json.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("wallet: normalize %s payload: %w", name, err)
		}
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidRequest, name, err)
	}
	return nil
}

func (v *JSONSchemaValidator) schemaFor(name string) (*jsonschema.Schema, error) {
	v.mu.RLock()
	schema, ok := v.compiled[name]
	v.mu.RUnlock()
	if ok {
		return schema, nil
	}
	raw, ok := requestSchemas[name]
	if !ok {
		return nil, fmt.Errorf("wallet: unknown schema %q", name)
	}
	compiler := jsonschema.NewCompiler()
	resource := name + ".json"
	if err := compiler.AddResource(resource, strings.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("wallet: load schema %s: %w", name, err)
	}
	compiled, err := compiler.Compile(resource)
	if err != nil {
		return nil, fmt.Errorf("wallet: compile schema %s: %w", name, err)
	}
	v.mu.Lock()
	v.compiled[name] = compiled
	v.mu.Unlock()
	return compiled, nil
}

type noopRequestValidator struct{}

func (noopRequestValidator) Validate(string, map[string]any) error { return nil }
