package config

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/AndreyAkinshin/theater/internal/schema"
)

// DefaultFileNames are looked up in the execution directory when no config
// file is given explicitly. First match wins.
var DefaultFileNames = []string{"theater.json", "theater.yaml", "theater.yml"}

// Load reads a JSON or YAML config file into a raw record, checks it against
// the embedded schema and returns warnings for unknown fields.
// The format is chosen by extension; anything other than .yaml/.yml is JSON.
func Load(path string) (map[string]any, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read config file: %w", err)
	}

	raw, err := decode(path, data)
	if err != nil {
		return nil, nil, err
	}

	normalizeAttempts(raw)
	if err := schema.ValidateValue(raw); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}

	return raw, detectUnknownFields(raw), nil
}

// FindDefault returns the first default config file present in dir,
// or "" when there is none.
func FindDefault(dir string) string {
	for _, name := range DefaultFileNames {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

func decode(path string, data []byte) (map[string]any, error) {
	var raw map[string]any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}
	if raw == nil {
		raw = map[string]any{}
	}
	return raw, nil
}

// Resolve merges user onto the defaults, validates the result and converts
// it to a Config.
func Resolve(user map[string]any) (*Config, error) {
	merged := Merge(DefaultMap(), user)
	if err := ValidateMap(merged); err != nil {
		return nil, err
	}
	return FromMap(merged)
}

// FromMap converts a merged raw configuration into a Config.
// The callback entry, if any, must already be a Go function.
func FromMap(m map[string]any) (*Config, error) {
	stripped := copyRecord(m)
	normalizeAttempts(stripped)
	var cbValue any
	if params, ok := asRecord(stripped["additionalParams"]); ok {
		cbValue = params["callback"]
		delete(params, "callback")
	}

	data, err := json.Marshal(stripped)
	if err != nil {
		return nil, fmt.Errorf("encode configuration: %w", err)
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("decode configuration: %w", err)
	}

	cb, err := toCallback(cbValue)
	if err != nil {
		return nil, err
	}
	cfg.AdditionalParams.Callback = cb

	return &cfg, nil
}

// normalizeAttempts spells an infinite attempts value as "Infinity".
// YAML's .inf decodes to +Inf, which encoding/json refuses to encode.
func normalizeAttempts(m map[string]any) {
	if v, ok := m["attempts"]; ok && isInfinity(v) {
		m["attempts"] = Unbounded.String()
	}
}

// ToYAML renders cfg for display.
func ToYAML(cfg *Config) ([]byte, error) {
	return yaml.Marshal(cfg)
}

func toCallback(v any) (Callback, error) {
	switch fn := v.(type) {
	case nil:
		return nil, nil
	case Callback:
		return fn, nil
	case func(context.Context) error:
		return fn, nil
	case func() error:
		return func(context.Context) error { return fn() }, nil
	case func():
		return func(context.Context) error {
			fn()
			return nil
		}, nil
	default:
		return nil, &ValidationError{
			Field:   "additionalParams.callback",
			Message: fmt.Sprintf("must be a function, got %T", v),
		}
	}
}
