package api

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// modulesSchema describes the module-loader response. The deck builder
// trusts card shapes, so malformed server output is rejected here instead
// of surfacing as a broken session mid-study.
var modulesSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"modules": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type":     "object",
				"required": []any{"id", "name"},
				"properties": map[string]any{
					"id":   map[string]any{"type": "integer"},
					"name": map[string]any{"type": "string"},
					"cards": map[string]any{
						"type": "array",
						"items": map[string]any{
							"type":     "object",
							"required": []any{"id", "term", "definition"},
							"properties": map[string]any{
								"id":         map[string]any{"type": "integer"},
								"term":       sideSchema,
								"definition": sideSchema,
							},
						},
					},
				},
			},
		},
	},
	"required": []any{"modules"},
}

var sideSchema = map[string]any{
	"type":     "object",
	"required": []any{"text", "lang"},
	"properties": map[string]any{
		"text": map[string]any{"type": "string"},
		"lang": map[string]any{"type": "string"},
	},
}

var compileModulesSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	// The jsonschema library expects a parsed JSON value (any), not raw
	// bytes. Marshal then unmarshal to get a clean any representation.
	defBytes, err := json.Marshal(modulesSchema)
	if err != nil {
		return nil, fmt.Errorf("marshal schema definition: %w", err)
	}
	var defParsed any
	if err := json.Unmarshal(defBytes, &defParsed); err != nil {
		return nil, fmt.Errorf("parse schema definition: %w", err)
	}

	c := jsonschema.NewCompiler()
	const schemaURL = "schema://modules-response.json"
	if err := c.AddResource(schemaURL, defParsed); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	return c.Compile(schemaURL)
})

// validateModulesResponse checks raw against the modules response schema.
func validateModulesResponse(raw []byte) error {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	compiled, err := compileModulesSchema()
	if err != nil {
		return fmt.Errorf("compile modules schema: %w", err)
	}

	if err := compiled.Validate(parsed); err != nil {
		return fmt.Errorf("modules response rejected: %w", err)
	}
	return nil
}
