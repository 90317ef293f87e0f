package analysis

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// BuildAnalysisJSONSchema describes the accepted AnalysisResult document. Only the
// container shapes are pinned down; field and rawResult contents stay free-form.
func BuildAnalysisJSONSchema() map[string]any {
	cell := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"rowIndex":    map[string]any{"type": "integer", "minimum": 0},
			"columnIndex": map[string]any{"type": "integer", "minimum": 0},
			"content":     map[string]any{"type": "string"},
		},
		"required": []string{"rowIndex", "columnIndex"},
	}
	line := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"content": map[string]any{"type": "string"},
		},
	}
	return map[string]any{
		"$schema": "http://json-schema.org/draft-07/schema#",
		"type":    "object",
		"properties": map[string]any{
			"documentType": map[string]any{"type": "string"},
			"confidence":   map[string]any{"type": "number", "minimum": 0, "maximum": 1},
			"fields":       map[string]any{"type": []string{"object", "null"}},
			"tables": map[string]any{
				"type": []string{"array", "null"},
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"cells": map[string]any{"type": "array", "items": cell},
					},
				},
			},
			"pages": map[string]any{
				"type": []string{"array", "null"},
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"lines": map[string]any{"type": []string{"array", "null"}, "items": line},
					},
				},
			},
		},
	}
}

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

func analysisSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		b, err := json.Marshal(BuildAnalysisJSONSchema())
		if err != nil {
			schemaErr = fmt.Errorf("marshal schema: %w", err)
			return
		}
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("analysis.json", bytes.NewReader(b)); err != nil {
			schemaErr = fmt.Errorf("add schema: %w", err)
			return
		}
		compiledSchema, schemaErr = compiler.Compile("analysis.json")
	})
	return compiledSchema, schemaErr
}

// ValidateJSON checks data against the AnalysisResult schema.
func ValidateJSON(data []byte) error {
	schema, err := analysisSchema()
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}
