package printers

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"

	"tableflip.dev/crosscal/pkg/glyph"
	"tableflip.dev/crosscal/pkg/view"
)

type PrettyPrint struct {
	ShowID bool
	// Width truncates task text when positive.
	Width int
	// Out defaults to color.Output.
	Out io.Writer
}

var (
	spacing = strings.Repeat(" ", len("1710000000000  "))
)

func (pp *PrettyPrint) out() io.Writer {
	if pp.Out != nil {
		return pp.Out
	}
	return color.Output
}

func (pp *PrettyPrint) NewLine() {
	_, _ = fmt.Fprintln(pp.out(), "")
}

func (pp *PrettyPrint) Title(title string) {
	t := color.New(color.Bold, color.Underline)

	if pp.ShowID {
		_, _ = t.Fprint(pp.out(), spacing)
	}
	_, _ = t.Fprintln(pp.out(), title)
}

func (pp *PrettyPrint) TitleWithCount(title string, count int) {
	t := color.New(color.Bold, color.Underline)
	c := color.New(color.Faint)

	if pp.ShowID {
		_, _ = t.Fprint(pp.out(), spacing)
	}
	_, _ = t.Fprint(pp.out(), title)
	_, _ = c.Fprintf(pp.out(), " - %d", count)

	switch count {
	case 1:
		_, _ = c.Fprintln(pp.out(), " task")
	default:
		_, _ = c.Fprintln(pp.out(), " tasks")
	}
}

// Projection prints the pending rows, then the completed rows under their own
// subheading.
func (pp *PrettyPrint) Projection(p view.Projection) {
	pp.TitleWithCount(p.Heading, p.Len())
	if p.Len() == 0 {
		pp.none("No tasks yet")
		return
	}
	pp.Rows(p.Pending...)
	if len(p.Completed) > 0 {
		f := color.New(color.Faint, color.Underline)
		if pp.ShowID {
			_, _ = f.Fprint(pp.out(), spacing)
		}
		_, _ = f.Fprintln(pp.out(), "Completed")
		pp.Rows(p.Completed...)
	}
	_, _ = fmt.Fprintln(pp.out(), "")
}

func (pp *PrettyPrint) Rows(rows ...view.Row) {
	y := color.New(color.FgHiYellow, color.Italic, color.Faint)
	d := color.New(color.Faint)

	for _, r := range rows {
		if pp.ShowID {
			id := fmt.Sprint(r.ID)
			_, _ = y.Fprint(pp.out(), id)
			_, _ = y.Fprint(pp.out(), strings.Repeat(" ", max(1, len(spacing)-len(id))))
		}
		text := r.Text
		if pp.Width > 0 {
			text = truncate.StringWithTail(text, uint(pp.Width), "…")
		}
		if r.Completed {
			text = glyph.Strike(text)
		}
		_, _ = fmt.Fprintf(pp.out(), "%s %s\n", glyph.ForTask(r.Completed), text)
		if r.Desc != "" {
			for _, line := range strings.Split(wordwrap.String(r.Desc, 60), "\n") {
				if pp.ShowID {
					_, _ = fmt.Fprint(pp.out(), spacing)
				}
				_, _ = d.Fprintf(pp.out(), "  %s\n", line)
			}
		}
	}
}

// Sections prints the section panel as a table.
func (pp *PrettyPrint) Sections(sections []view.SectionSummary) {
	bold := color.New(color.Bold)
	faint := color.New(color.Faint)

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow("", bold.Sprint("Section"), bold.Sprint("Tasks"))
	for _, s := range sections {
		cursor := ""
		if s.Active {
			cursor = glyph.Today.String()
		}
		name := s.Name
		if s.Special {
			name = faint.Sprint(name)
		}
		tbl.AddRow(cursor, name, s.Count)
	}
	tbl.RightAlign(2)

	_, _ = fmt.Fprintln(pp.out(), tbl)
}

func (pp *PrettyPrint) none(msg string) {
	f := color.New(color.Faint, color.Italic)
	if pp.ShowID {
		_, _ = f.Fprint(pp.out(), spacing)
	}
	_, _ = f.Fprintf(pp.out(), " %s\n\n", msg)
}
