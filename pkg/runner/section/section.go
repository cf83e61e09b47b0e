// Package section provides the runner logic for managing task sections.
package section

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
)

// List prints "all" and every section with its task count.
type List struct {
	Persistence store.Persistence
	Log         *log.Logger
	JSON        bool
	Out         io.Writer
}

func (n *List) Do(ctx context.Context) error {
	if n.Persistence == nil {
		return errors.New("can not list sections, no persistence")
	}
	st, err := app.Load(ctx, n.Persistence, app.WithLogger(n.Log))
	if err != nil {
		return err
	}
	if n.JSON {
		return json.NewEncoder(writer(n.Out)).Encode(st.Sections())
	}
	pp := printers.PrettyPrint{Out: n.Out}
	pp.Sections(st.Sections())
	return nil
}

// Add creates a new empty section.
type Add struct {
	Persistence store.Persistence
	Log         *log.Logger
	Name        string
	Out         io.Writer
}

func (n *Add) Do(ctx context.Context) error {
	if n.Persistence == nil {
		return errors.New("can not add section, no persistence")
	}
	st, err := app.Load(ctx, n.Persistence, app.WithLogger(n.Log))
	if err != nil {
		return err
	}
	if err := st.AddSection(n.Name); err != nil {
		return err
	}
	pp := printers.PrettyPrint{Out: n.Out}
	pp.Sections(st.Sections())
	return st.StorageErr()
}

// Delete removes a section and every task in it.
type Delete struct {
	Persistence store.Persistence
	Log         *log.Logger
	Name        string
	// Confirm is asked before deleting. A nil Confirm deletes without asking.
	Confirm func(label string) (bool, error)
	Out     io.Writer
}

func (n *Delete) Do(ctx context.Context) error {
	if n.Persistence == nil {
		return errors.New("can not delete section, no persistence")
	}
	st, err := app.Load(ctx, n.Persistence, app.WithLogger(n.Log))
	if err != nil {
		return err
	}
	if !st.Document().HasSection(n.Name) {
		return app.ErrSectionNotFound
	}
	if n.Confirm != nil {
		ok, err := n.Confirm(fmt.Sprintf("Delete section %q and all its tasks", n.Name))
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
	}
	if err := st.DeleteSection(n.Name); err != nil {
		return err
	}
	pp := printers.PrettyPrint{Out: n.Out}
	pp.Sections(st.Sections())
	return st.StorageErr()
}

func writer(w io.Writer) io.Writer {
	if w != nil {
		return w
	}
	return color.Output
}
