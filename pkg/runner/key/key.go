// Package key provides CLI helpers to display the glyph and key legend.
package key

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/crosscal/pkg/glyph"
)

// Binding is one terminal UI key.
type Binding struct {
	Keys    string
	Meaning string
}

// Bindings lists the terminal UI keys in the order they are documented.
func Bindings() []Binding {
	return []Binding{
		{"tab", "switch between calendar and tasks"},
		{"arrows h/j/k/l", "move the day cursor (calendar)"},
		{"[ ]", "previous/next month"},
		{"t", "jump to today"},
		{"space enter", "mark or unmark the day (calendar)"},
		{"C", "clear all marks"},
		{"↑/↓ k/j", "move the task cursor (tasks)"},
		{"s", "choose section"},
		{"n", "new section"},
		{"D", "delete section"},
		{"a", "add task"},
		{"space x", "toggle completed"},
		{"enter", "edit task"},
		{"ctrl+s ctrl+d", "save or delete in the editor"},
		{"K/J", "move pending task up/down"},
		{"drag", "reorder pending tasks with the mouse"},
		{"d", "delete task"},
		{"?", "show this key"},
		{"q ctrl+c", "quit"},
	}
}

// Key prints the glyph legend and the terminal UI keys.
type Key struct {
	Out io.Writer
}

// Do renders the legends to stdout.
func (k *Key) Do(ctx context.Context) error {
	out := k.out()
	_, _ = fmt.Fprintln(out, "")

	gl := glyph.DefaultGlyphs()
	sort.Sort(glyph.ByOrder(gl))
	k.Glyphs(ctx, gl)
	_, _ = fmt.Fprintln(out, "")

	k.Keys(ctx, Bindings())
	_, _ = fmt.Fprintln(out, "")
	return nil
}

// Glyphs renders a glyph table.
func (k *Key) Glyphs(_ context.Context, glyfs []glyph.Glyph) {
	bold := color.New(color.Bold)

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("Glyph"), bold.Sprint("Meaning"))
	for _, v := range glyfs {
		tbl.AddRow(v.Symbol, v.Meaning)
	}
	tbl.RightAlign(0)

	_, _ = fmt.Fprintln(k.out(), tbl)
}

// Keys renders the key bindings table.
func (k *Key) Keys(_ context.Context, bindings []Binding) {
	bold := color.New(color.Bold)

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("Key"), bold.Sprint("Action"))
	for _, b := range bindings {
		tbl.AddRow(b.Keys, b.Meaning)
	}
	tbl.RightAlign(0)

	_, _ = fmt.Fprintln(k.out(), tbl)
}

func (k *Key) out() io.Writer {
	if k.Out != nil {
		return k.Out
	}
	return color.Output
}
