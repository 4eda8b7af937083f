package schema

import (
	"strings"
	"testing"
)

func TestValidateConfig_Valid(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		json string
	}{
		{"empty", `{}`},
		{"single pattern", `{"path": {"pattern": "./tasks/*.puppet.js"}}`},
		{"pattern list", `{"path": {"pattern": ["./a/*.js", "./b/*.js"], "results": "out.json"}}`},
		{"attempts number", `{"attempts": 5}`},
		{"attempts infinity", `{"attempts": "Infinity"}`},
		{"attempts infinity lowercase", `{"attempts": "infinity"}`},
		{"callback command", `{"additionalParams": {"callback": "echo done"}}`},
		{"callback null", `{"additionalParams": {"callback": null}}`},
		{"glob params", `{"additionalParams": {"fastGlobParams": {"dot": false, "ignore": ["**/skip/**"]}}}`},
		{"unknown fields allowed", `{"extra": 1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if err := ValidateConfig([]byte(tt.json)); err != nil {
				t.Errorf("ValidateConfig(%s) = %v, want nil", tt.json, err)
			}
		})
	}
}

func TestValidateConfig_Invalid(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		json string
	}{
		{"root not object", `[]`},
		{"attempts zero", `{"attempts": 0}`},
		{"attempts fraction", `{"attempts": 1.5}`},
		{"attempts word", `{"attempts": "many"}`},
		{"empty pattern list", `{"path": {"pattern": []}}`},
		{"pattern number", `{"path": {"pattern": 3}}`},
		{"silent string", `{"additionalParams": {"silent": "yes"}}`},
		{"callback number", `{"additionalParams": {"callback": 1}}`},
		{"ignore not list", `{"additionalParams": {"fastGlobParams": {"ignore": "x"}}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := ValidateConfig([]byte(tt.json))
			if err == nil {
				t.Fatalf("ValidateConfig(%s) = nil, want error", tt.json)
			}
			if !strings.Contains(err.Error(), "config validation failed") {
				t.Errorf("error = %q, want to contain 'config validation failed'", err.Error())
			}
		})
	}
}

func TestValidateConfig_InvalidJSON(t *testing.T) {
	t.Parallel()
	err := ValidateConfig([]byte(`{not json`))
	if err == nil {
		t.Fatal("ValidateConfig() = nil, want error")
	}
	if !strings.Contains(err.Error(), "invalid JSON") {
		t.Errorf("error = %q, want to contain 'invalid JSON'", err.Error())
	}
}

func TestValidateValue(t *testing.T) {
	t.Parallel()
	valid := map[string]any{
		"attempts": 2,
		"path":     map[string]any{"pattern": []any{"*.js"}},
	}
	if err := ValidateValue(valid); err != nil {
		t.Errorf("ValidateValue(valid) = %v, want nil", err)
	}

	invalid := map[string]any{"attempts": -1}
	if err := ValidateValue(invalid); err == nil {
		t.Error("ValidateValue(invalid) = nil, want error")
	}

	if err := ValidateValue(map[string]any{"callback": func() {}}); err == nil {
		t.Error("ValidateValue(func) = nil, want encode error")
	}
}
