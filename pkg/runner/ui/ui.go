// Package ui starts the terminal user interface.
package ui

import (
	"context"
	"errors"
	"os"

	"github.com/mattn/go-isatty"

	"tableflip.dev/crosscal/pkg/app"
	"tableflip.dev/crosscal/pkg/logging"
	"tableflip.dev/crosscal/pkg/store"
	teaui "tableflip.dev/crosscal/pkg/tui/app"
)

// ErrNoTerminal is returned when stdout is not a terminal.
var ErrNoTerminal = errors.New("ui: requires a terminal")

type UI struct {
	Persistence store.Persistence
}

func (d *UI) Do(ctx context.Context) error {
	if d.Persistence == nil {
		return errors.New("can not start ui, no persistence")
	}
	if !IsTerminal(os.Stdout) {
		return ErrNoTerminal
	}
	// Log lines would corrupt the alternate screen; warnings go to the status
	// line instead.
	st, err := app.Load(ctx, d.Persistence, app.WithLogger(logging.Discard()))
	if err != nil {
		return err
	}
	return teaui.Run(ctx, st, d.Persistence)
}

// IsTerminal reports whether f is an interactive terminal.
func IsTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
