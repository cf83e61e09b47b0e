// Package view derives what the task surfaces display from a task.Document:
// which collection is selected and how it splits into pending and completed
// rows.
package view

import (
	"tableflip.dev/crosscal/pkg/task"
)

// Selector tracks the section currently in view. The zero value shows the
// "all" collection.
type Selector struct {
	current string
}

// Select switches the view to nameOrAll. Unknown names are accepted and
// resolved lazily by Current.
func (s *Selector) Select(nameOrAll string) {
	if task.IsAll(nameOrAll) {
		s.current = task.AllName
		return
	}
	s.current = nameOrAll
}

// Current returns the selected section, or "all" when nothing is selected or
// the selected section no longer exists in doc.
func (s *Selector) Current(doc *task.Document) string {
	if s.current == "" || task.IsAll(s.current) {
		return task.AllName
	}
	if doc == nil || !doc.HasSection(s.current) {
		return task.AllName
	}
	return s.current
}

// Selected returns the raw selection without resolving it against a document.
func (s *Selector) Selected() string {
	if s.current == "" {
		return task.AllName
	}
	return s.current
}

// Collection returns the live task list for the selection. If the selected
// section was deleted the result is empty rather than the "all" list.
func (s *Selector) Collection(doc *task.Document) []*task.Task {
	if doc == nil {
		return []*task.Task{}
	}
	tasks, ok := doc.Collection(s.Selected())
	if !ok {
		return []*task.Task{}
	}
	return tasks
}

// Heading is the title shown above the task list.
func Heading(current string) string {
	if task.IsAll(current) {
		return "All Tasks"
	}
	return "Section: " + current
}

// SectionSummary is a line of the section panel.
type SectionSummary struct {
	Name    string `json:"name"`
	Count   int    `json:"count"`
	Active  bool   `json:"active"`
	Special bool   `json:"-"`
}

// Sections lists the "all" entry followed by every section in creation order,
// with task counts.
func Sections(doc *task.Document, current string) []SectionSummary {
	if doc == nil {
		doc = task.NewDocument()
	}
	out := make([]SectionSummary, 0, len(doc.Sections)+1)
	out = append(out, SectionSummary{
		Name:    task.AllName,
		Count:   len(doc.All),
		Active:  task.IsAll(current),
		Special: true,
	})
	for _, s := range doc.Sections {
		out = append(out, SectionSummary{
			Name:   s.Name,
			Count:  len(s.Tasks),
			Active: s.Name == current,
		})
	}
	return out
}
