// Package calendar renders the month grid of the calendar panel and maps
// pointer positions back to days.
package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"tableflip.dev/crosscal/pkg/glyph"
	"tableflip.dev/crosscal/pkg/marks"
	"tableflip.dev/crosscal/pkg/tui/theme"
)

// Rows of the rendered grid, relative to its top-left corner.
const (
	TitleRow     = 0
	WeekdayRow   = 1
	FirstWeekRow = 2
	cellWidth    = 3
)

const width = len("Su Mo Tu We Th Fr Sa")

// Options controls calendar styling.
type Options struct {
	Theme theme.CalendarTheme
	// Cursor is the YYYY-MM-DD key of the highlighted day, if any.
	Cursor string
}

// Render produces the multi-line grid for month.
func Render(month marks.Month, set marks.Marks, now time.Time, opts Options) string {
	th := opts.Theme
	lines := make([]string, 0, 9)

	title := month.Title()
	pad := (width - len(title)) / 2
	if pad < 0 {
		pad = 0
	}
	lines = append(lines, strings.Repeat(" ", pad)+th.Title.Render(title))
	lines = append(lines, th.Weekday.Render("Su Mo Tu We Th Fr Sa"))

	days := month.Days()
	for _, week := range month.Weeks(set, now) {
		cells := make([]string, 0, len(week))
		for _, c := range week {
			if c.Blank() {
				cells = append(cells, "  ")
				continue
			}
			cells = append(cells, renderDay(c, days, opts))
		}
		lines = append(lines, strings.Join(cells, " "))
	}

	lines = append(lines, "", th.Weekday.Render(fmt.Sprintf("%s %d marked", glyph.Marked, set.InMonth(month.First()))))
	return strings.Join(lines, "\n")
}

func renderDay(c marks.Cell, days int, opts Options) string {
	th := opts.Theme
	text := fmt.Sprintf("%2d", c.Day)

	style := th.Day
	if c.Marked {
		t := 0.0
		if days > 1 {
			t = float64(c.Day-1) / float64(days-1)
		}
		style = th.Marked.Foreground(theme.Blend(th.MarkFrom, th.MarkTo, t))
	}
	if c.Today {
		style = style.Inherit(th.Today)
	}
	if c.Date == opts.Cursor {
		style = style.Inherit(th.Cursor)
	}
	return style.Render(text)
}

// DayAt returns the day under column x and row y of the rendered grid.
func DayAt(month marks.Month, x, y int) (string, bool) {
	week := y - FirstWeekRow
	if week < 0 || x < 0 || x%cellWidth == cellWidth-1 {
		return "", false
	}
	col := x / cellWidth
	if col > 6 {
		return "", false
	}
	weeks := month.Weeks(nil, time.Time{})
	if week >= len(weeks) {
		return "", false
	}
	c := weeks[week][col]
	if c.Blank() {
		return "", false
	}
	return c.Date, true
}

// Width is the rendered width of the grid.
func Width() int {
	return lipgloss.Width("Su Mo Tu We Th Fr Sa")
}
