package printers

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"

	"tableflip.dev/crosscal/pkg/glyph"
	"tableflip.dev/crosscal/pkg/marks"
)

const width = len("11 12 13 14 15 16 17") // an example week

// Calendar prints one month with marked days highlighted.
func (pp *PrettyPrint) Calendar(month marks.Month, set marks.Marks, now time.Time) {
	tf := color.New(color.FgWhite, color.Italic)
	hf := color.New(color.Faint)

	m := month.Title()
	mid := (width - len(m)) / 2
	if mid < 0 {
		mid = 0
	}
	_, _ = tf.Fprintf(pp.out(), "%s%s\n", strings.Repeat(" ", mid), m)
	_, _ = hf.Fprintln(pp.out(), "Su Mo Tu We Th Fr Sa")

	l1 := color.New(color.Faint, color.FgWhite)
	l2 := color.New(color.Bold, color.FgHiGreen)
	lt := color.New(color.Underline)
	l2t := color.New(color.Bold, color.FgHiGreen, color.Underline)

	for _, week := range month.Weeks(set, now) {
		for i, c := range week {
			sep := " "
			if i == len(week)-1 {
				sep = ""
			}
			if c.Blank() {
				_, _ = fmt.Fprint(pp.out(), "  "+sep)
				continue
			}
			printer := l1
			switch {
			case c.Marked && c.Today:
				printer = l2t
			case c.Marked:
				printer = l2
			case c.Today:
				printer = lt
			}
			_, _ = printer.Fprintf(pp.out(), "%2d", c.Day)
			_, _ = fmt.Fprint(pp.out(), sep)
		}
		_, _ = fmt.Fprintln(pp.out(), "")
	}

	n := set.InMonth(month.First())
	_, _ = hf.Fprintf(pp.out(), "%s %d marked\n\n", glyph.Marked, n)
}

// MarkedDates prints every marked day, oldest first.
func (pp *PrettyPrint) MarkedDates(set marks.Marks) {
	dates := set.Dates()
	if len(dates) == 0 {
		pp.none("No marked days")
		return
	}
	for _, d := range dates {
		_, _ = fmt.Fprintf(pp.out(), "%s %s\n", glyph.Marked, d)
	}
	_, _ = fmt.Fprintln(pp.out(), "")
}
