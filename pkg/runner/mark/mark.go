// Package mark provides the runner logic for calendar marks.
package mark

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fatih/color"

	"tableflip.dev/crosscal/pkg/app"
	"tableflip.dev/crosscal/pkg/marks"
	"tableflip.dev/crosscal/pkg/printers"
	"tableflip.dev/crosscal/pkg/store"
)

// Toggle flips the mark on one day and prints its month.
type Toggle struct {
	Persistence store.Persistence
	Log         *log.Logger
	// Date is YYYY-MM-DD; empty means today.
	Date string
	Now  func() time.Time
	Out  io.Writer
}

func (n *Toggle) Do(ctx context.Context) error {
	st, err := load(ctx, n.Persistence, n.Log)
	if err != nil {
		return err
	}
	now := clock(n.Now)
	date := n.Date
	if date == "" {
		date = marks.Key(now)
	}
	day, err := marks.ParseKey(date)
	if err != nil {
		return err
	}
	on, err := st.ToggleMark(date)
	if err != nil {
		return err
	}
	state := "unmarked"
	if on {
		state = "marked"
	}
	_, _ = fmt.Fprintf(writer(n.Out), "%s %s\n\n", date, state)

	pp := printers.PrettyPrint{Out: n.Out}
	pp.Calendar(marks.MonthOf(day), st.Marks(), now)
	return st.StorageErr()
}

// Clear removes every mark.
type Clear struct {
	Persistence store.Persistence
	Log         *log.Logger
	// Confirm is asked before clearing. A nil Confirm clears without asking.
	Confirm func(label string) (bool, error)
	Out     io.Writer
}

func (n *Clear) Do(ctx context.Context) error {
	st, err := load(ctx, n.Persistence, n.Log)
	if err != nil {
		return err
	}
	count := len(st.Marks())
	if count == 0 {
		_, _ = fmt.Fprintln(writer(n.Out), "No marked days")
		return nil
	}
	if n.Confirm != nil {
		ok, err := n.Confirm(fmt.Sprintf("Clear %d marked days", count))
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
	}
	st.ClearMarks()
	_, _ = fmt.Fprintf(writer(n.Out), "Cleared %d marked days\n", count)
	return st.StorageErr()
}

// Calendar prints the month containing On, or every marked day as JSON.
type Calendar struct {
	Persistence store.Persistence
	Log         *log.Logger
	On          time.Time
	JSON        bool
	Now         func() time.Time
	Out         io.Writer
}

func (n *Calendar) Do(ctx context.Context) error {
	st, err := load(ctx, n.Persistence, n.Log)
	if err != nil {
		return err
	}
	now := clock(n.Now)
	on := n.On
	if on.IsZero() {
		on = now
	}
	if n.JSON {
		return json.NewEncoder(writer(n.Out)).Encode(st.Marks())
	}
	pp := printers.PrettyPrint{Out: n.Out}
	pp.Calendar(marks.MonthOf(on), st.Marks(), now)
	return nil
}

func load(ctx context.Context, p store.Persistence, l *log.Logger) (*app.State, error) {
	if p == nil {
		return nil, errors.New("can not use marks, no persistence")
	}
	return app.Load(ctx, p, app.WithLogger(l))
}

func clock(now func() time.Time) time.Time {
	if now == nil {
		return time.Now()
	}
	return now()
}

func writer(w io.Writer) io.Writer {
	if w != nil {
		return w
	}
	return color.Output
}
