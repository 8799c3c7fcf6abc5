package schema

import "testing"

type imageArgs struct {
	Prompt string  `json:"prompt" description:"What to draw"`
	Style  string  `json:"style,omitempty"`
	Seed   *int    `json:"seed,omitempty"`
	Weight float64 `json:"weight,omitempty"`
}

func TestFromStruct(t *testing.T) {
	s := FromStruct(imageArgs{})

	if s["type"] != "object" {
		t.Fatalf("expected object schema, got %v", s["type"])
	}
	props, ok := s["properties"].(map[string]any)
	if !ok {
		t.Fatal("missing properties")
	}
	prompt, ok := props["prompt"].(map[string]any)
	if !ok {
		t.Fatal("missing prompt property")
	}
	if prompt["type"] != "string" {
		t.Errorf("prompt type = %v, want string", prompt["type"])
	}
	if prompt["description"] != "What to draw" {
		t.Errorf("prompt description = %v", prompt["description"])
	}
	if weight, _ := props["weight"].(map[string]any); weight["type"] != "number" {
		t.Errorf("weight type = %v, want number", weight["type"])
	}

	required, _ := s["required"].([]string)
	if len(required) != 1 || required[0] != "prompt" {
		t.Errorf("required = %v, want [prompt]", required)
	}
}

func TestFromStructNonStruct(t *testing.T) {
	s := FromStruct("not a struct")
	if s["type"] != "object" {
		t.Fatalf("expected fallback object schema, got %v", s)
	}
	if props, ok := s["properties"].(map[string]any); !ok || len(props) != 0 {
		t.Errorf("expected empty properties, got %v", s["properties"])
	}
}

func TestValidateMissingRequired(t *testing.T) {
	s := FromStruct(imageArgs{})
	err := Validate(map[string]any{"style": "photo"}, s)
	if err == nil {
		t.Fatal("expected error for missing prompt")
	}
	verr, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if verr.Field != "prompt" {
		t.Errorf("field = %q, want prompt", verr.Field)
	}
}

func TestValidateTypeMismatch(t *testing.T) {
	s := FromStruct(imageArgs{})
	err := Validate(map[string]any{"prompt": 42}, s)
	if err == nil {
		t.Fatal("expected type error")
	}
}

func TestValidateJSONDecodedNumbers(t *testing.T) {
	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"count": map[string]any{"type": "integer"},
		},
		"required": []any{"count"},
	}
	if err := Validate(map[string]any{"count": float64(3)}, schema); err != nil {
		t.Errorf("whole float64 should satisfy integer: %v", err)
	}
	if err := Validate(map[string]any{"count": 3.5}, schema); err == nil {
		t.Error("fractional float64 should fail integer check")
	}
}

func TestValidateAllowsExtraFields(t *testing.T) {
	s := FromStruct(imageArgs{})
	args := map[string]any{"prompt": "a lighthouse", "unknown": true}
	if err := Validate(args, s); err != nil {
		t.Errorf("extra fields should be allowed: %v", err)
	}
}
