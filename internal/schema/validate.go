// Package schema validates theater configuration documents against the
// embedded JSON schema.
package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	schemafs "github.com/AndreyAkinshin/theater/schema"
)

const configSchemaName = "config.schema.json"

// configSchema compiles the embedded config schema on first use.
var configSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	raw, err := schemafs.FS.ReadFile(configSchemaName)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", configSchemaName, err)
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", configSchemaName, err)
	}

	c := jsonschema.NewCompiler()
	if err := c.AddResource(configSchemaName, doc); err != nil {
		return nil, fmt.Errorf("register %s: %w", configSchemaName, err)
	}
	return c.Compile(configSchemaName)
})

// ValidateConfig checks raw JSON against the config schema.
func ValidateConfig(data []byte) error {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	return validate(doc)
}

// ValidateValue checks an already decoded document, such as one read from
// YAML. The value is round-tripped through JSON so YAML-specific types
// reach the validator in their JSON form.
func ValidateValue(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("invalid config document: %w", err)
	}
	return ValidateConfig(data)
}

func validate(doc any) error {
	s, err := configSchema()
	if err != nil {
		return err
	}
	if err := s.Validate(doc); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}
