package syllabus

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// BuildRecordJSONSchema returns a JSON-Schema (draft 2020-12 subset) as a
// generic map. Exported course records are validated against it before
// they are written, and again when records are read back in.
func BuildRecordJSONSchema() map[string]any {
	props := map[string]any{
		"course_code":        map[string]any{"type": "string", "pattern": `^[A-Z]{2,4}\s*\d{3,4}$`},
		"course_name":        map[string]any{"type": "string", "minLength": 1},
		"instructor_name":    map[string]any{"type": "string", "minLength": 1},
		"instructor_email":   map[string]any{"type": "string", "pattern": `^[\w.-]+@[\w.-]+\.\w+$`},
		"office_hours":       map[string]any{"type": "string"},
		"semester":           map[string]any{"type": "string"},
		"year":               map[string]any{"type": "integer", "minimum": 1900},
		"course_description": map[string]any{"type": "string"},
		"textbooks": map[string]any{
			"type":  "array",
			"items": map[string]any{"type": "string"},
		},
		"grading_scheme": map[string]any{
			"type":                 "object",
			"additionalProperties": map[string]any{"type": "number"},
		},
		"important_dates": map[string]any{
			"type":                 "object",
			"additionalProperties": map[string]any{"type": "string", "format": "date-time"},
		},
	}
	required := []string{"course_code", "course_name", "instructor_name", "year"}

	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties":           props,
		"required":             required,
	}
}

// ValidateJSONAgainstSchema validates "data" against "schemaMap".
func ValidateJSONAgainstSchema(schemaMap map[string]any, data []byte) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
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

// FromJSON decodes a record from JSON, checking it against the schema and
// the validation rules so no unvalidated record enters through this path.
func FromJSON(data []byte) (*Record, error) {
	if err := ValidateJSONAgainstSchema(BuildRecordJSONSchema(), data); err != nil {
		return nil, err
	}
	rec := NewRecord()
	if err := json.Unmarshal(data, rec); err != nil {
		return nil, fmt.Errorf("unmarshal record: %w", err)
	}
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	return rec, nil
}
