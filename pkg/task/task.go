// Package task defines the task and section document persisted by crosscal.
package task

import (
	"fmt"
	"strings"
)

// AllName is the reserved name of the implicit collection that is not a
// user section.
const AllName = "all"

// Task is a single to-do item.
type Task struct {
	ID        int64  `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
	Desc      string `json:"desc"`
}

// New returns a pending task with an empty description.
func New(id int64, text string) *Task {
	return &Task{
		ID:   id,
		Text: strings.TrimSpace(text),
	}
}

// Pending reports whether the task is not completed.
func (t *Task) Pending() bool {
	return !t.Completed
}

func (t *Task) String() string {
	mark := " "
	if t.Completed {
		mark = "x"
	}
	return fmt.Sprintf("[%s] %s", mark, t.Text)
}

// Clone returns a deep copy of t.
func (t *Task) Clone() *Task {
	if t == nil {
		return nil
	}
	cp := *t
	return &cp
}

// Section is a named, ordered list of tasks.
type Section struct {
	Name  string
	Tasks []*Task
}

// IsAll reports whether ref names the implicit "all" collection. The check is
// case-insensitive because "All" is also refused as a section name.
func IsAll(ref string) bool {
	return ref == "" || strings.EqualFold(strings.TrimSpace(ref), AllName)
}

// Index returns the position of the task with id in tasks, or -1.
func Index(tasks []*Task, id int64) int {
	for i, t := range tasks {
		if t != nil && t.ID == id {
			return i
		}
	}
	return -1
}

// Partition splits tasks into pending and completed, both in input order.
func Partition(tasks []*Task) (pending, completed []*Task) {
	pending = make([]*Task, 0, len(tasks))
	completed = make([]*Task, 0)
	for _, t := range tasks {
		if t == nil {
			continue
		}
		if t.Completed {
			completed = append(completed, t)
		} else {
			pending = append(pending, t)
		}
	}
	return pending, completed
}

// Reordered rebuilds tasks as the pending tasks named by order, in that
// order, followed by every completed task in its previous relative order.
// Ids that are unknown, completed or repeated are ignored, and pending tasks
// order does not name are dropped.
func Reordered(tasks []*Task, order []int64) []*Task {
	pending, completed := Partition(tasks)
	byID := make(map[int64]*Task, len(pending))
	for _, t := range pending {
		byID[t.ID] = t
	}

	out := make([]*Task, 0, len(order)+len(completed))
	used := make(map[int64]bool, len(order))
	for _, id := range order {
		t, ok := byID[id]
		if !ok || used[id] {
			continue
		}
		used[id] = true
		out = append(out, t)
	}
	return append(out, completed...)
}
