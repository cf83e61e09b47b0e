// Package glyph defines the symbols used to draw tasks and calendar marks.
package glyph

import "github.com/muesli/termenv"

type Glyph struct {
	Key     string
	Symbol  string
	Meaning string
	Order   int
}

type Kind int

const (
	Pending Kind = iota
	Completed
	Marked
	Today
	Grip
)

func DefaultGlyphs() []Glyph {
	return []Glyph{{
		Key:     "space",
		Symbol:  "○",
		Meaning: "task",
		Order:   0,
	}, {
		Key:     "space",
		Symbol:  "✘",
		Meaning: "task completed",
		Order:   1,
	}, {
		Key:     "enter",
		Symbol:  "◆",
		Meaning: "day marked",
		Order:   2,
	}, {
		Key:     "t",
		Symbol:  "▸",
		Meaning: "today",
		Order:   3,
	}, {
		Key:     "K/J",
		Symbol:  "⠿",
		Meaning: "drag to reorder",
		Order:   4,
	}}
}

func (g Glyph) String() string {
	return g.Symbol
}

func (k Kind) Glyph() Glyph {
	return DefaultGlyphs()[k]
}

func (k Kind) String() string {
	return k.Glyph().String()
}

// ForTask returns the bullet for a task row.
func ForTask(completed bool) Kind {
	if completed {
		return Completed
	}
	return Pending
}

// ByOrder sorts glyphs for the legend.
type ByOrder []Glyph

func (a ByOrder) Len() int           { return len(a) }
func (a ByOrder) Swap(i, j int)      { a[i], a[j] = a[j], a[i] }
func (a ByOrder) Less(i, j int) bool { return a[i].Order < a[j].Order }

// Strike crosses out in when the terminal supports it.
func Strike(in string) string {
	return termenv.String(in).CrossOut().String()
}

// Faint dims in when the terminal supports it.
func Faint(in string) string {
	return termenv.String(in).Faint().String()
}
