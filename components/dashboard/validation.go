package dashboard

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ConfigValidator validates serialized widget configurations before they are parsed.
type ConfigValidator interface {
	ValidateConfig(raw string) error
}

// DefaultWidgetConfigSchema describes the fields the reconciler relies on.
func DefaultWidgetConfigSchema() map[string]any {
	dimensions := map[string]any{
		"type": "array",
		"items": map[string]any{
			"type":       "object",
			"required":   []string{"name"},
			"properties": map[string]any{"name": map[string]any{"type": "string"}},
		},
	}
	encoding := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"items": map[string]any{"type": "array"},
		},
	}
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"selectedChart": map[string]any{"type": "integer", "minimum": 1},
			"mode":          map[string]any{"type": "string"},
			"dimetionAxis":  map[string]any{"type": []string{"string", "null"}},
			"cols":          dimensions,
			"rows":          dimensions,
			"metrics":       map[string]any{"type": "array"},
			"filters": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"config": map[string]any{
							"type":       "object",
							"properties": map[string]any{"sql": map[string]any{"type": "string"}},
						},
					},
				},
			},
			"color":        encoding,
			"label":        encoding,
			"size":         encoding,
			"chartStyles":  map[string]any{"type": "object"},
			"controls":     map[string]any{"type": "array"},
			"autoLoadData": map[string]any{"type": "boolean"},
		},
	}
}

// JSONSchemaValidator validates widget configs against a compiled JSON schema.
type JSONSchemaValidator struct {
	schema   map[string]any
	once     sync.Once
	compiled *jsonschema.Schema
	err      error
}

// NewJSONSchemaValidator builds a validator backed by jsonschema v5. A nil schema
// selects DefaultWidgetConfigSchema.
func NewJSONSchemaValidator(schema map[string]any) *JSONSchemaValidator {
	if schema == nil {
		schema = DefaultWidgetConfigSchema()
	}
	return &JSONSchemaValidator{schema: schema}
}

// ValidateConfig ensures the serialized configuration satisfies the schema.
func (v *JSONSchemaValidator) ValidateConfig(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return errEmptyConfig
	}
	schema, err := v.compile()
	if err != nil {
		return err
	}
	var payload any
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return fmt.Errorf("dashboard: parse widget config: %w", err)
	}
	if err := schema.Validate(payload); err != nil {
		return fmt.Errorf("dashboard: widget config failed validation: %w", err)
	}
	return nil
}

func (v *JSONSchemaValidator) compile() (*jsonschema.Schema, error) {
	v.once.Do(func() {
		data, err := json.Marshal(v.schema)
		if err != nil {
			v.err = fmt.Errorf("dashboard: marshal widget config schema: %w", err)
			return
		}
		compiler := jsonschema.NewCompiler()
		const name = "widget_config.json"
		if err := compiler.AddResource(name, bytes.NewReader(data)); err != nil {
			v.err = fmt.Errorf("dashboard: load widget config schema: %w", err)
			return
		}
		v.compiled, v.err = compiler.Compile(name)
		if v.err != nil {
			v.err = fmt.Errorf("dashboard: compile widget config schema: %w", v.err)
		}
	})
	return v.compiled, v.err
}

type noopConfigValidator struct{}

func (noopConfigValidator) ValidateConfig(string) error { return nil }
