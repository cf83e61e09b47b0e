// Package marks holds the per-day completion marks shown on the calendar.
package marks

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// LayoutISO is the key format of a mark.
const LayoutISO = "2006-01-02"

const schemaURL = "https://tableflip.dev/crosscal/schema/crosscal_marks.json"

const marksSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "additionalProperties": {"type": "boolean"}
}`

var schema = jsonschema.MustCompileString(schemaURL, marksSchema)

// Marks is the set of marked days. An absent key is an unmarked day.
type Marks map[string]bool

// Key returns the ISO key for t in its own location.
func Key(t time.Time) string {
	return t.Format(LayoutISO)
}

// ParseKey validates an ISO day key.
func ParseKey(s string) (time.Time, error) {
	t, err := time.ParseInLocation(LayoutISO, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("marks: %q is not a YYYY-MM-DD date", s)
	}
	return t, nil
}

// Marked reports whether date is marked.
func (m Marks) Marked(date string) bool {
	return m[date]
}

// Toggle flips the mark for date and returns the new state. Unmarking deletes
// the key so that toggling twice restores the original set.
func (m Marks) Toggle(date string) bool {
	if m[date] {
		delete(m, date)
		return false
	}
	m[date] = true
	return true
}

// Clear removes every mark.
func (m Marks) Clear() {
	for k := range m {
		delete(m, k)
	}
}

// Dates lists marked days in ascending order.
func (m Marks) Dates() []string {
	out := make([]string, 0, len(m))
	for k, v := range m {
		if v {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

// InMonth counts the marked days of the month containing t.
func (m Marks) InMonth(t time.Time) int {
	prefix := t.Format("2006-01-")
	n := 0
	for k, v := range m {
		if v && len(k) == len(LayoutISO) && k[:len(prefix)] == prefix {
			n++
		}
	}
	return n
}

// Decode parses the marks slot. False values are dropped: only presence
// carries meaning.
func Decode(data []byte) (Marks, error) {
	m := Marks{}
	if len(bytes.TrimSpace(data)) == 0 {
		return m, nil
	}
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("marks: parse: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return nil, fmt.Errorf("marks: invalid: %w", err)
	}
	var raw map[string]bool
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("marks: decode: %w", err)
	}
	for k, on := range raw {
		if on {
			m[k] = true
		}
	}
	return m, nil
}

// Encode serialises m for the marks slot.
func Encode(m Marks) ([]byte, error) {
	out := make(map[string]bool, len(m))
	for k, v := range m {
		if v {
			out[k] = true
		}
	}
	return json.Marshal(out)
}
