// Package tasklist renders the pending and completed rows of the to-do panel
// and records where each row landed so pointer events can be mapped back.
package tasklist

import (
	"fmt"
	"strings"

	"github.com/muesli/reflow/truncate"

	"tableflip.dev/crosscal/pkg/drag"
	"tableflip.dev/crosscal/pkg/tui/theme"
	"tableflip.dev/crosscal/pkg/view"
)

// Columns of a row line: a two column cursor gutter, then the checkbox.
const (
	HeadingRow    = 0
	CheckboxStart = 2
	CheckboxEnd   = 4
	TextStart     = 6
)

// Options controls what Render highlights.
type Options struct {
	Theme theme.TaskTheme
	// Cursor is the id of the row under the keyboard cursor.
	Cursor int64
	// Dragging is the id of the row being dragged.
	Dragging int64
	// Order replaces the pending order while a drag previews a drop.
	Order []int64
	// Width truncates row text when positive.
	Width int
}

// Layout maps rendered lines back to rows.
type Layout struct {
	Rows []view.Row

	byLine map[int]view.Row
	lineOf map[int64]int

	pendingTop    int
	pendingBottom int
}

// RowAt returns the row drawn on line y.
func (l Layout) RowAt(y int) (view.Row, bool) {
	r, ok := l.byLine[y]
	return r, ok
}

// Line returns the line a row was drawn on.
func (l Layout) Line(id int64) (int, bool) {
	y, ok := l.lineOf[id]
	return y, ok
}

// InPending reports whether y is over the pending list, including the line
// just below it so rows can be dropped at the end.
func (l Layout) InPending(y int) bool {
	return y >= l.pendingTop && y <= l.pendingBottom
}

// Boxes returns the extent of every pending row for the drag controller.
func (l Layout) Boxes() map[int64]drag.Box {
	out := make(map[int64]drag.Box)
	for _, r := range l.Rows {
		if !r.Draggable {
			continue
		}
		out[r.ID] = drag.Box{Top: float64(l.lineOf[r.ID]), Height: 1}
	}
	return out
}

// Items lists the rows in the form the drag controller expects.
func (l Layout) Items() []drag.Item {
	out := make([]drag.Item, 0, len(l.Rows))
	for _, r := range l.Rows {
		out = append(out, drag.Item{ID: r.ID, Draggable: r.Draggable})
	}
	return out
}

// Render draws p and returns the text with its layout.
func Render(p view.Projection, opts Options) (string, Layout) {
	th := opts.Theme
	layout := Layout{
		byLine: make(map[int]view.Row),
		lineOf: make(map[int64]int),
	}

	lines := []string{th.Heading.Render(p.Heading) + th.Group.Render(fmt.Sprintf("  %d", p.Len()))}
	if p.Len() == 0 {
		lines = append(lines, th.Empty.Render("  No tasks yet. Press a to add one."))
		layout.pendingTop, layout.pendingBottom = len(lines)-1, len(lines)-1
		return strings.Join(lines, "\n"), layout
	}

	add := func(r view.Row) {
		layout.byLine[len(lines)] = r
		layout.lineOf[r.ID] = len(lines)
		layout.Rows = append(layout.Rows, r)
		lines = append(lines, renderRow(r, opts))
	}

	layout.pendingTop = len(lines)
	for _, r := range ordered(p.Pending, opts.Order) {
		add(r)
	}
	layout.pendingBottom = len(lines)

	if len(p.Completed) > 0 {
		lines = append(lines, "", th.Group.Render(fmt.Sprintf("  Completed (%d)", len(p.Completed))))
		for _, r := range p.Completed {
			add(r)
		}
	}
	return strings.Join(lines, "\n"), layout
}

func renderRow(r view.Row, opts Options) string {
	th := opts.Theme

	gutter := "  "
	if r.ID == opts.Cursor {
		gutter = th.Cursor.Render("› ")
	}
	box := "[ ]"
	if r.Completed {
		box = "[x]"
	}

	text := r.Text
	if opts.Width > TextStart+1 {
		text = truncate.StringWithTail(text, uint(opts.Width-TextStart-2), "…")
	}
	style := th.Pending
	if r.Completed {
		style = th.Completed
	}
	line := box + " " + style.Render(text)
	if r.Desc != "" {
		line += th.Desc.Render(" ¶")
	}
	if r.ID == opts.Dragging {
		line = th.Dragging.Render(box + " " + text)
	}
	return gutter + line
}

// ordered applies order to rows. Rows missing from order keep their place
// after the listed ones.
func ordered(rows []view.Row, order []int64) []view.Row {
	if len(order) == 0 {
		return rows
	}
	byID := make(map[int64]view.Row, len(rows))
	for _, r := range rows {
		byID[r.ID] = r
	}
	out := make([]view.Row, 0, len(rows))
	seen := make(map[int64]bool, len(rows))
	for _, id := range order {
		if r, ok := byID[id]; ok && !seen[id] {
			out = append(out, r)
			seen[id] = true
		}
	}
	for _, r := range rows {
		if !seen[r.ID] {
			out = append(out, r)
		}
	}
	return out
}
