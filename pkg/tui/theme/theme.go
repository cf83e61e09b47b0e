package theme

import (
	"github.com/charmbracelet/lipgloss"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// Theme centralizes Lip Gloss styles for the Bubble Tea UI.
type Theme struct {
	Header   lipgloss.Style
	Footer   FooterTheme
	Panel    PanelTheme
	Calendar CalendarTheme
	Tasks    TaskTheme
	Modal    ModalTheme
}

// FooterTheme groups styles used by the bottom status bar.
type FooterTheme struct {
	Help    lipgloss.Style
	Status  lipgloss.Style
	Warning lipgloss.Style
}

// PanelTheme styles framed panels and headings.
type PanelTheme struct {
	Frame lipgloss.Style
	Title lipgloss.Style
}

// CalendarTheme styles the month grid. Marked days are tinted along a
// gradient from MarkFrom to MarkTo across the month.
type CalendarTheme struct {
	Title    lipgloss.Style
	Weekday  lipgloss.Style
	Day      lipgloss.Style
	Marked   lipgloss.Style
	Today    lipgloss.Style
	Cursor   lipgloss.Style
	MarkFrom string
	MarkTo   string
}

// TaskTheme styles task rows.
type TaskTheme struct {
	Heading   lipgloss.Style
	Pending   lipgloss.Style
	Completed lipgloss.Style
	Desc      lipgloss.Style
	Cursor    lipgloss.Style
	Dragging  lipgloss.Style
	Group     lipgloss.Style
	Empty     lipgloss.Style
}

// ModalTheme styles centered modal overlays.
type ModalTheme struct {
	Frame  lipgloss.Style
	Title  lipgloss.Style
	Body   lipgloss.Style
	Active lipgloss.Style
}

// Default returns the built-in theme used across the UI.
func Default() Theme {
	return Theme{
		Header: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")),
		Footer: FooterTheme{
			Help:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
			Status:  lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
			Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("208")).Bold(true),
		},
		Panel: PanelTheme{
			Frame: lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				Padding(0, 1),
			Title: lipgloss.NewStyle().Bold(true),
		},
		Calendar: CalendarTheme{
			Title:    lipgloss.NewStyle().Bold(true),
			Weekday:  lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Bold(true),
			Day:      lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
			Marked:   lipgloss.NewStyle().Bold(true),
			Today:    lipgloss.NewStyle().Underline(true),
			Cursor:   lipgloss.NewStyle().Reverse(true),
			MarkFrom: "#10B981",
			MarkTo:   "#3B82F6",
		},
		Tasks: TaskTheme{
			Heading:   lipgloss.NewStyle().Bold(true).Underline(true),
			Pending:   lipgloss.NewStyle(),
			Completed: lipgloss.NewStyle().Strikethrough(true).Foreground(lipgloss.Color("243")),
			Desc:      lipgloss.NewStyle().Foreground(lipgloss.Color("242")).Italic(true),
			Cursor:    lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true),
			Dragging:  lipgloss.NewStyle().Background(lipgloss.Color("63")).Foreground(lipgloss.Color("0")),
			Group:     lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Faint(true),
			Empty:     lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Italic(true),
		},
		Modal: ModalTheme{
			Frame: lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				Padding(0, 1),
			Title:  lipgloss.NewStyle().Bold(true),
			Body:   lipgloss.NewStyle(),
			Active: lipgloss.NewStyle().Reverse(true),
		},
	}
}

// Blend returns the color t of the way from the hex color from to to. Bad
// hex values fall back to from.
func Blend(from, to string, t float64) lipgloss.Color {
	a, err := colorful.Hex(from)
	if err != nil {
		return lipgloss.Color(from)
	}
	b, err := colorful.Hex(to)
	if err != nil {
		return lipgloss.Color(from)
	}
	switch {
	case t <= 0:
		return lipgloss.Color(a.Hex())
	case t >= 1:
		return lipgloss.Color(b.Hex())
	}
	return lipgloss.Color(a.BlendLab(b, t).Clamped().Hex())
}
