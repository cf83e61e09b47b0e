package task

import (
	"bytes"
	"encoding/json"
	"fmt"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

const schemaURL = "https://tableflip.dev/crosscal/schema/todo_sections_v1.json"

// documentSchema describes the tasks slot. Missing top-level keys are allowed
// and read as empty collections.
const documentSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "definitions": {
    "task": {
      "type": "object",
      "required": ["id", "text"],
      "properties": {
        "id": {"type": "number"},
        "text": {"type": "string"},
        "completed": {"type": "boolean"},
        "desc": {"type": ["string", "null"]}
      }
    },
    "tasks": {
      "type": ["array", "null"],
      "items": {"$ref": "#/definitions/task"}
    }
  },
  "properties": {
    "all": {"$ref": "#/definitions/tasks"},
    "sections": {
      "type": ["object", "null"],
      "additionalProperties": {"$ref": "#/definitions/tasks"}
    }
  }
}`

var schema = jsonschema.MustCompileString(schemaURL, documentSchema)

// Decode parses a tasks slot. Input that is not JSON or does not match the
// document schema is reported as an error; callers substitute NewDocument.
func Decode(data []byte) (*Document, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return NewDocument(), nil
	}
	var v interface{}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("task: parse document: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return nil, fmt.Errorf("task: invalid document: %w", err)
	}
	d := NewDocument()
	if err := json.Unmarshal(data, d); err != nil {
		return nil, fmt.Errorf("task: decode document: %w", err)
	}
	return d, nil
}

// Encode serialises d for the tasks slot.
func Encode(d *Document) ([]byte, error) {
	if d == nil {
		d = NewDocument()
	}
	return json.Marshal(d)
}
