// Package drag implements the gesture that reorders pending tasks.
//
// The controller only ever holds a preview of the order. Nothing reaches the
// task store until Commit hands the final id sequence to the caller.
package drag

import (
	"errors"
	"fmt"
)

// State of the gesture.
type State int

const (
	Idle State = iota
	Dragging
	DropPending
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Dragging:
		return "dragging"
	case DropPending:
		return "drop-pending"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

var (
	ErrBusy         = errors.New("drag: gesture already in progress")
	ErrNotDraggable = errors.New("drag: row is not draggable")
	ErrNotDragging  = errors.New("drag: no gesture in progress")
	ErrNoDrop       = errors.New("drag: nothing to commit")
)

// Item is a row that takes part in the gesture.
type Item struct {
	ID        int64
	Draggable bool
}

// Box is the vertical extent of a rendered row.
type Box struct {
	Top    float64
	Height float64
}

// Mid is the vertical midpoint of the box.
func (b Box) Mid() float64 {
	return b.Top + b.Height/2
}

// Controller is the Idle → Dragging → DropPending → Idle state machine.
type Controller struct {
	state  State
	source int64
	order  []int64
}

// State reports the current state.
func (c *Controller) State() State {
	return c.state
}

// Source is the id of the row being dragged, valid while not Idle.
func (c *Controller) Source() int64 {
	return c.source
}

// Preview returns the order the pending list should currently be drawn in.
func (c *Controller) Preview() []int64 {
	out := make([]int64, len(c.order))
	copy(out, c.order)
	return out
}

// Begin starts dragging id over the pending rows. Rows that are not draggable
// (completed tasks) cannot start a gesture.
func (c *Controller) Begin(rows []Item, id int64) error {
	if c.state != Idle {
		return ErrBusy
	}
	found := false
	order := make([]int64, 0, len(rows))
	for _, r := range rows {
		if !r.Draggable {
			if r.ID == id {
				return ErrNotDraggable
			}
			continue
		}
		if r.ID == id {
			found = true
		}
		order = append(order, r.ID)
	}
	if !found {
		return ErrNotDraggable
	}
	c.state = Dragging
	c.source = id
	c.order = order
	return nil
}

// Move places the source row relative to the pointer. boxes are the rendered
// extents of the preview rows, keyed by id; the source row's own box is
// ignored. The source is inserted before the row whose midpoint is the
// closest one below the pointer, or appended when there is none. It returns
// whether the preview changed.
func (c *Controller) Move(y float64, boxes map[int64]Box) bool {
	if c.state != Dragging {
		return false
	}
	rest := make([]int64, 0, len(c.order))
	for _, id := range c.order {
		if id != c.source {
			rest = append(rest, id)
		}
	}

	before := int64(0)
	hasBefore := false
	closest := 0.0
	for _, id := range rest {
		box, ok := boxes[id]
		if !ok {
			continue
		}
		offset := y - box.Mid()
		if offset < 0 && (!hasBefore || offset > closest) {
			closest = offset
			before = id
			hasBefore = true
		}
	}

	next := make([]int64, 0, len(c.order))
	inserted := false
	for _, id := range rest {
		if hasBefore && id == before {
			next = append(next, c.source)
			inserted = true
		}
		next = append(next, id)
	}
	if !inserted {
		next = append(next, c.source)
	}

	changed := !equal(next, c.order)
	c.order = next
	return changed
}

// Release ends the pointer gesture. Released over the pending list the drop
// waits for Commit; anywhere else the gesture is cancelled.
func (c *Controller) Release(overPending bool) error {
	if c.state != Dragging {
		return ErrNotDragging
	}
	if !overPending {
		c.Cancel()
		return nil
	}
	c.state = DropPending
	return nil
}

// Commit passes the dropped order to apply and returns to Idle whether or not
// apply succeeds.
func (c *Controller) Commit(apply func(order []int64) error) error {
	if c.state != DropPending {
		return ErrNoDrop
	}
	order := c.Preview()
	c.Cancel()
	if apply == nil {
		return nil
	}
	return apply(order)
}

// Cancel abandons the gesture without touching the store.
func (c *Controller) Cancel() {
	c.state = Idle
	c.source = 0
	c.order = nil
}

func equal(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
