package config

import (
	"fmt"
	"math"
	"reflect"
	"strings"
)

// Kind is the expected shape of a configuration value.
type Kind int

const (
	KindObject Kind = iota
	KindString
	KindNumber
	KindBoolean
	KindFunction
	KindStringOrStringArray
	KindConfiguration
)

func (k Kind) String() string {
	switch k {
	case KindObject:
		return "object"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBoolean:
		return "boolean"
	case KindFunction:
		return "function"
	case KindStringOrStringArray:
		return "string or array of strings"
	case KindConfiguration:
		return "configuration"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// IsInvalid reports whether value does not have the expected kind.
//
// A value whose string form is "infinity" (any case) is accepted for every
// kind; it is how unbounded attempts are spelled in raw configuration.
func IsInvalid(value any, kind Kind) bool {
	if isInfinity(value) {
		return false
	}
	switch kind {
	case KindObject:
		_, ok := asRecord(value)
		return !ok
	case KindString:
		_, ok := value.(string)
		return !ok
	case KindNumber:
		return !isNumber(value)
	case KindBoolean:
		_, ok := value.(bool)
		return !ok
	case KindFunction:
		return !isFunction(value)
	case KindStringOrStringArray:
		return !isStringOrStringArray(value)
	case KindConfiguration:
		return ValidateMap(value) != nil
	default:
		return true
	}
}

type fieldRule struct {
	path     string
	kind     Kind
	optional bool // nil is accepted
}

// configurationFields are checked in order; the first violation wins.
var configurationFields = []fieldRule{
	{path: "path", kind: KindObject},
	{path: "path.pattern", kind: KindStringOrStringArray},
	{path: "path.results", kind: KindString},
	{path: "attempts", kind: KindNumber},
	{path: "interpreter", kind: KindString},
	{path: "additionalParams", kind: KindObject},
	{path: "additionalParams.checkPerformance", kind: KindBoolean},
	{path: "additionalParams.silent", kind: KindBoolean},
	{path: "additionalParams.writeResultsToFile", kind: KindBoolean},
	{path: "additionalParams.continueOnFailure", kind: KindBoolean},
	{path: "additionalParams.callback", kind: KindFunction, optional: true},
	{path: "additionalParams.fastGlobParams", kind: KindObject},
}

// ValidateMap checks a merged raw configuration against the configuration
// schema and returns the first violation as a *ValidationError.
func ValidateMap(value any) error {
	root, ok := asRecord(value)
	if !ok {
		return &ValidationError{Field: "configuration", Message: "must be an object"}
	}
	for _, rule := range configurationFields {
		v := lookup(root, rule.path)
		if rule.optional && isAbsent(v) {
			continue
		}
		if IsInvalid(v, rule.kind) {
			return &ValidationError{Field: rule.path, Message: "must be " + article(rule.kind)}
		}
	}
	if err := validateAttemptsValue(lookup(root, "attempts")); err != nil {
		return err
	}
	return validatePatternsValue(lookup(root, "path.pattern"))
}

// Validate checks a resolved configuration.
func Validate(cfg *Config) error {
	if cfg == nil {
		return &ValidationError{Field: "configuration", Message: "is required"}
	}
	if len(cfg.Path.Pattern) == 0 {
		return &ValidationError{Field: "path.pattern", Message: "must contain at least one pattern"}
	}
	for i, p := range cfg.Path.Pattern {
		if strings.TrimSpace(p) == "" {
			return &ValidationError{Field: fmt.Sprintf("path.pattern[%d]", i), Message: "must not be empty"}
		}
	}
	if cfg.AdditionalParams.WriteResultsToFile && strings.TrimSpace(cfg.Path.Results) == "" {
		return &ValidationError{Field: "path.results", Message: "is required when writeResultsToFile is enabled"}
	}
	if cfg.Attempts < 1 && !cfg.Attempts.IsUnbounded() {
		return &ValidationError{Field: "attempts", Message: "must be a positive integer or Infinity"}
	}
	return nil
}

func validateAttemptsValue(v any) error {
	if isInfinity(v) {
		return nil
	}
	f, ok := toFloat(v)
	if !ok || f < 1 || f != math.Trunc(f) || f > MaxAttempts {
		return &ValidationError{Field: "attempts", Message: "must be a positive integer or Infinity"}
	}
	return nil
}

func validatePatternsValue(v any) error {
	if s, ok := v.(string); ok {
		if strings.TrimSpace(s) == "" {
			return &ValidationError{Field: "path.pattern", Message: "must not be empty"}
		}
		return nil
	}
	if n := reflect.ValueOf(v); n.Kind() == reflect.Slice && n.Len() == 0 {
		return &ValidationError{Field: "path.pattern", Message: "must contain at least one pattern"}
	}
	return nil
}

// lookup resolves a dotted path inside nested records.
func lookup(root map[string]any, path string) any {
	var cur any = root
	for _, part := range strings.Split(path, ".") {
		rec, ok := asRecord(cur)
		if !ok {
			return nil
		}
		cur = rec[part]
	}
	return cur
}

func isInfinity(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case float64:
		return math.IsInf(val, 1)
	case float32:
		return math.IsInf(float64(val), 1)
	case Attempts:
		return val.IsUnbounded()
	}
	return isInfinityString(fmt.Sprint(v))
}

func isInfinityString(s string) bool {
	return strings.EqualFold(strings.TrimSpace(s), "infinity")
}

func isNumber(v any) bool {
	_, ok := toFloat(v)
	return ok
}

func toFloat(v any) (float64, bool) {
	if v == nil {
		return 0, false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	default:
		return 0, false
	}
}

func isFunction(v any) bool {
	if v == nil {
		return false
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Func && !rv.IsNil()
}

// isAbsent treats a typed nil function, such as a nil Callback stored in a
// raw map, the same as a missing value.
func isAbsent(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Func && rv.IsNil()
}

func isStringOrStringArray(v any) bool {
	switch val := v.(type) {
	case string:
		return true
	case []string:
		return true
	case Patterns:
		return true
	case []any:
		for _, item := range val {
			if _, ok := item.(string); !ok {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func article(k Kind) string {
	switch k {
	case KindObject:
		return "an object"
	case KindString, KindStringOrStringArray:
		return "a " + k.String()
	case KindNumber:
		return "a number"
	case KindBoolean:
		return "a boolean"
	case KindFunction:
		return "a function"
	default:
		return k.String()
	}
}
