package task

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Document is the root object stored in the tasks slot. Sections keep the
// order in which they were created.
type Document struct {
	All      []*Task
	Sections []*Section
}

// NewDocument returns the empty, well-formed document.
func NewDocument() *Document {
	return &Document{
		All:      []*Task{},
		Sections: []*Section{},
	}
}

// Section returns the section called name, or nil.
func (d *Document) Section(name string) *Section {
	for _, s := range d.Sections {
		if s.Name == name {
			return s
		}
	}
	return nil
}

// HasSection reports whether a section called name exists.
func (d *Document) HasSection(name string) bool {
	return d.Section(name) != nil
}

// SectionNames lists section names in creation order.
func (d *Document) SectionNames() []string {
	names := make([]string, 0, len(d.Sections))
	for _, s := range d.Sections {
		names = append(names, s.Name)
	}
	return names
}

// Collection returns the task list for ref and whether it exists. The "all"
// collection always exists.
func (d *Document) Collection(ref string) ([]*Task, bool) {
	if IsAll(ref) {
		return d.All, true
	}
	if s := d.Section(ref); s != nil {
		return s.Tasks, true
	}
	return nil, false
}

// SetCollection replaces the task list for ref. It reports false when ref
// names a section that does not exist.
func (d *Document) SetCollection(ref string, tasks []*Task) bool {
	if IsAll(ref) {
		d.All = tasks
		return true
	}
	if s := d.Section(ref); s != nil {
		s.Tasks = tasks
		return true
	}
	return false
}

// AddSection appends an empty section. Name validation is the caller's job.
func (d *Document) AddSection(name string) *Section {
	s := &Section{Name: name, Tasks: []*Task{}}
	d.Sections = append(d.Sections, s)
	return s
}

// RemoveSection drops the section called name with all of its tasks.
func (d *Document) RemoveSection(name string) bool {
	for i, s := range d.Sections {
		if s.Name == name {
			d.Sections = append(d.Sections[:i], d.Sections[i+1:]...)
			return true
		}
	}
	return false
}

// MaxID returns the largest task id in the document, or zero.
func (d *Document) MaxID() int64 {
	var max int64
	visit := func(tasks []*Task) {
		for _, t := range tasks {
			if t != nil && t.ID > max {
				max = t.ID
			}
		}
	}
	visit(d.All)
	for _, s := range d.Sections {
		visit(s.Tasks)
	}
	return max
}

// Clone returns a deep copy of d.
func (d *Document) Clone() *Document {
	cp := &Document{
		All:      cloneTasks(d.All),
		Sections: make([]*Section, 0, len(d.Sections)),
	}
	for _, s := range d.Sections {
		cp.Sections = append(cp.Sections, &Section{Name: s.Name, Tasks: cloneTasks(s.Tasks)})
	}
	return cp
}

func cloneTasks(tasks []*Task) []*Task {
	out := make([]*Task, 0, len(tasks))
	for _, t := range tasks {
		if t != nil {
			out = append(out, t.Clone())
		}
	}
	return out
}

// MarshalJSON writes {"all": [...], "sections": {...}} with sections in
// creation order.
func (d *Document) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	all, err := json.Marshal(nonNil(d.All))
	if err != nil {
		return nil, err
	}
	buf.WriteString(`{"all":`)
	buf.Write(all)
	buf.WriteString(`,"sections":{`)
	for i, s := range d.Sections {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(s.Name)
		if err != nil {
			return nil, err
		}
		tasks, err := json.Marshal(nonNil(s.Tasks))
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(tasks)
	}
	buf.WriteString(`}}`)
	return buf.Bytes(), nil
}

// UnmarshalJSON reads the document form written by MarshalJSON. Missing keys
// become empty collections; section order follows the input.
func (d *Document) UnmarshalJSON(data []byte) error {
	var raw struct {
		All      []*Task         `json:"all"`
		Sections json.RawMessage `json:"sections"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	d.All = compact(raw.All)
	d.Sections = []*Section{}
	if len(raw.Sections) == 0 || string(raw.Sections) == "null" {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw.Sections))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errors.New("task: sections must be an object")
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("task: unexpected section key %v", tok)
		}
		if IsAll(name) {
			return fmt.Errorf("task: reserved section name %q", name)
		}
		var tasks []*Task
		if err := dec.Decode(&tasks); err != nil {
			return fmt.Errorf("task: section %q: %w", name, err)
		}
		if s := d.Section(name); s != nil {
			// Repeated keys: the last one wins, as with a plain object.
			s.Tasks = compact(tasks)
			continue
		}
		d.Sections = append(d.Sections, &Section{Name: name, Tasks: compact(tasks)})
	}
	_, err = dec.Token()
	return err
}

func nonNil(tasks []*Task) []*Task {
	if tasks == nil {
		return []*Task{}
	}
	return compact(tasks)
}

func compact(tasks []*Task) []*Task {
	out := make([]*Task, 0, len(tasks))
	for _, t := range tasks {
		if t != nil {
			out = append(out, t)
		}
	}
	return out
}
