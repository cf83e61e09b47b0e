package view

import "tableflip.dev/crosscal/pkg/task"

// Row is one rendered task line.
type Row struct {
	ID        int64  `json:"id"`
	Text      string `json:"text"`
	Desc      string `json:"desc,omitempty"`
	Completed bool   `json:"completed"`
	Draggable bool   `json:"-"` // pending rows only
}

// Projection is the visible state of a collection: pending rows first, then
// completed rows, each in collection order.
type Projection struct {
	Heading   string `json:"heading"`
	Pending   []Row  `json:"pending"`
	Completed []Row  `json:"completed"`
}

// Len is the number of rows in both groups.
func (p Projection) Len() int {
	return len(p.Pending) + len(p.Completed)
}

// Rows returns pending rows followed by completed rows.
func (p Projection) Rows() []Row {
	out := make([]Row, 0, p.Len())
	out = append(out, p.Pending...)
	return append(out, p.Completed...)
}

// PendingIDs is the displayed order of the pending group.
func (p Projection) PendingIDs() []int64 {
	out := make([]int64, 0, len(p.Pending))
	for _, r := range p.Pending {
		out = append(out, r.ID)
	}
	return out
}

// Project recomputes the projection of tasks from scratch.
func Project(heading string, tasks []*task.Task) Projection {
	pending, completed := task.Partition(tasks)
	p := Projection{
		Heading:   heading,
		Pending:   make([]Row, 0, len(pending)),
		Completed: make([]Row, 0, len(completed)),
	}
	for _, t := range pending {
		p.Pending = append(p.Pending, rowOf(t))
	}
	for _, t := range completed {
		p.Completed = append(p.Completed, rowOf(t))
	}
	return p
}

func rowOf(t *task.Task) Row {
	return Row{
		ID:        t.ID,
		Text:      t.Text,
		Desc:      t.Desc,
		Completed: t.Completed,
		Draggable: !t.Completed,
	}
}
