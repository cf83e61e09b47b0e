// Package todo provides the runner logic for tasks inside a section.
package todo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/fatih/color"

	"tableflip.dev/crosscal/pkg/app"
	"tableflip.dev/crosscal/pkg/printers"
	"tableflip.dev/crosscal/pkg/store"
	"tableflip.dev/crosscal/pkg/task"
)

// Add appends a pending task to a section and prints the section.
type Add struct {
	Persistence store.Persistence
	Log         *log.Logger
	Section     string
	Text        string
	ShowID      bool
	Out         io.Writer
}

func (n *Add) Do(ctx context.Context) error {
	st, err := load(ctx, n.Persistence, n.Log)
	if err != nil {
		return err
	}
	if _, err := st.AddTask(n.Section, n.Text); err != nil {
		return err
	}
	if err := show(st, n.Section, n.ShowID, n.Out); err != nil {
		return err
	}
	return st.StorageErr()
}

// List prints a section. With Follow it keeps printing whenever the tasks
// slot changes, until ctx is done.
type List struct {
	Persistence store.Persistence
	Log         *log.Logger
	Section     string
	ShowID      bool
	JSON        bool
	Follow      bool
	Out         io.Writer
}

func (n *List) Do(ctx context.Context) error {
	st, err := load(ctx, n.Persistence, n.Log)
	if err != nil {
		return err
	}

	var events <-chan store.Event
	if n.Follow {
		var cancel context.CancelFunc
		ctx, cancel = context.WithCancel(ctx)
		defer cancel()
		if events, err = n.Persistence.Watch(ctx); err != nil {
			return err
		}
	}

	if err := n.render(st); err != nil {
		return err
	}
	if events == nil {
		return nil
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if !ev.Affects(store.SlotTasks) {
				continue
			}
			if err := st.Reload(ctx); err != nil {
				return nil
			}
			if err := n.render(st); err != nil {
				return err
			}
		}
	}
}

func (n *List) render(st *app.State) error {
	if !n.JSON {
		return show(st, n.Section, n.ShowID, n.Out)
	}
	p, err := st.ProjectionOf(n.Section)
	if err != nil {
		return err
	}
	return json.NewEncoder(writer(n.Out)).Encode(p)
}

// Complete sets or clears the completed flag of a task.
type Complete struct {
	Persistence store.Persistence
	Log         *log.Logger
	Section     string
	ID          int64
	Done        bool
	ShowID      bool
	Out         io.Writer
}

func (n *Complete) Do(ctx context.Context) error {
	st, err := load(ctx, n.Persistence, n.Log)
	if err != nil {
		return err
	}
	if err := st.SetCompleted(n.Section, n.ID, n.Done); err != nil {
		return err
	}
	if err := show(st, n.Section, n.ShowID, n.Out); err != nil {
		return err
	}
	return st.StorageErr()
}

// Edit changes the text or description of a task. Fields that are not set
// keep their stored values.
type Edit struct {
	Persistence store.Persistence
	Log         *log.Logger
	Section     string
	ID          int64
	Text        *string
	Desc        *string
	ShowID      bool
	Out         io.Writer
}

func (n *Edit) Do(ctx context.Context) error {
	if n.Text == nil && n.Desc == nil {
		return errors.New("nothing to edit, set --text or --desc")
	}
	st, err := load(ctx, n.Persistence, n.Log)
	if err != nil {
		return err
	}
	current, err := st.Task(n.Section, n.ID)
	if err != nil {
		return err
	}
	text, desc := current.Text, current.Desc
	if n.Text != nil {
		text = *n.Text
	}
	if n.Desc != nil {
		desc = *n.Desc
	}
	if err := st.EditTask(n.Section, n.ID, text, desc); err != nil {
		return err
	}
	if err := show(st, n.Section, n.ShowID, n.Out); err != nil {
		return err
	}
	return st.StorageErr()
}

// Delete removes a task.
type Delete struct {
	Persistence store.Persistence
	Log         *log.Logger
	Section     string
	ID          int64
	// Confirm is asked before deleting. A nil Confirm deletes without asking.
	Confirm func(label string) (bool, error)
	ShowID  bool
	Out     io.Writer
}

func (n *Delete) Do(ctx context.Context) error {
	st, err := load(ctx, n.Persistence, n.Log)
	if err != nil {
		return err
	}
	t, err := st.Task(n.Section, n.ID)
	if err != nil {
		return err
	}
	if n.Confirm != nil {
		ok, err := n.Confirm(fmt.Sprintf("Delete %q", t.Text))
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
	}
	if err := st.DeleteTask(n.Section, n.ID); err != nil {
		return err
	}
	if err := show(st, n.Section, n.ShowID, n.Out); err != nil {
		return err
	}
	return st.StorageErr()
}

// ErrIncompleteOrder is returned when an order leaves out pending tasks.
var ErrIncompleteOrder = errors.New("order must name every pending task")

// Order rewrites the order of the pending tasks of a section. Every pending
// task must be named, since a reorder drops the ones it leaves out.
type Order struct {
	Persistence store.Persistence
	Log         *log.Logger
	Section     string
	IDs         []int64
	ShowID      bool
	Out         io.Writer
}

func (n *Order) Do(ctx context.Context) error {
	st, err := load(ctx, n.Persistence, n.Log)
	if err != nil {
		return err
	}
	p, err := st.ProjectionOf(n.Section)
	if err != nil {
		return err
	}
	named := make(map[int64]bool, len(n.IDs))
	for _, id := range n.IDs {
		named[id] = true
	}
	var missing []int64
	for _, id := range p.PendingIDs() {
		if !named[id] {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w, missing %v", ErrIncompleteOrder, missing)
	}
	if err := st.Reorder(n.Section, n.IDs); err != nil {
		return err
	}
	if err := show(st, n.Section, n.ShowID, n.Out); err != nil {
		return err
	}
	return st.StorageErr()
}

func load(ctx context.Context, p store.Persistence, l *log.Logger) (*app.State, error) {
	if p == nil {
		return nil, errors.New("can not use tasks, no persistence")
	}
	return app.Load(ctx, p, app.WithLogger(l))
}

func show(st *app.State, ref string, showID bool, out io.Writer) error {
	if ref == "" {
		ref = task.AllName
	}
	p, err := st.ProjectionOf(ref)
	if err != nil {
		return err
	}
	pp := printers.PrettyPrint{ShowID: showID, Out: out}
	pp.Projection(p)
	return nil
}

func writer(w io.Writer) io.Writer {
	if w != nil {
		return w
	}
	return color.Output
}
