package wallet

import (
	"errors"
	"testing"
)

func TestJSONSchemaValidatorRejectsInvalidPayload(t *testing.T) {
	validator := NewJSONSchemaValidator()

	if err := validator.Validate(SchemaTheme, map[string]any{"theme": "light"}); err != nil {
		t.Fatalf("expected valid theme, got %v", err)
	}
	err := validator.Validate(SchemaTheme, map[string]any{"theme": "sepia"})
	if !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
	if err := validator.Validate(SchemaNotification, map[string]any{"message": ""}); err == nil {
		t.Fatalf("expected empty message to fail")
	}
	if err := validator.Validate(SchemaNotification, map[string]any{"message": "Halo", "kind": "info", "ttl_ms": 1500}); err != nil {
		t.Fatalf("expected valid notification, got %v", err)
	}
	if err := validator.Validate(SchemaSwipe, map[string]any{"dx": -80.5}); err == nil {
		t.Fatalf("expected missing dy to fail")
	}
	if err := validator.Validate(SchemaPeriod, map[string]any{"period": "weekly"}); err != nil {
		t.Fatalf("expected alias to pass, got %v", err)
	}
}

func TestJSONSchemaValidatorCachesCompiledSchemas(t *testing.T) {
	validator := NewJSONSchemaValidator()
	if err := validator.Validate(SchemaSearch, nil); err != nil {
		t.Fatalf("unexpected error validating search: %v", err)
	}
	if err := validator.Validate(SchemaSearch, map[string]any{"q": "kopi"}); err != nil {
		t.Fatalf("unexpected error on cached validation: %v", err)
	}
	if len(validator.compiled) != 1 {
		t.Fatalf("expected schema cache to contain 1 entry, got %d", len(validator.compiled))
	}
	if err := validator.Validate("missing", nil); err == nil {
		t.Fatalf("expected unknown schema error")
	}
}
