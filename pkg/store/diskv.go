// Package store persists crosscal slots: named JSON documents in a
// directory-backed key-value store.
package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"regexp"

	"github.com/peterbourgon/diskv/v3"
)

const (
	// SlotTasks holds the sections and tasks document.
	SlotTasks = "todo_sections_v1"
	// SlotMarks holds the calendar marks.
	SlotMarks = "crosscal_marks"
)

// ErrNotFound is returned by Read for a slot that was never written.
var ErrNotFound = errors.New("store: slot not found")

var slotPattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// Persistence defines the slot storage contract.
type Persistence interface {
	// Read returns the raw slot contents or ErrNotFound.
	Read(slot string) ([]byte, error)
	// Write replaces the whole slot.
	Write(slot string, data []byte) error
	// Erase removes a slot; erasing a missing slot is not an error.
	Erase(slot string) error
	// Slots lists stored slots.
	Slots(ctx context.Context) []string
	// Watch streams slot change events until ctx is cancelled.
	Watch(ctx context.Context) (<-chan Event, error)
}

// Load creates a Persistence backed by diskv using the provided config.
func Load(cfg Config) (Persistence, error) {
	if cfg == nil {
		var err error
		cfg, err = LoadConfig()
		if err != nil {
			return nil, err
		}
	}

	basePath := cfg.BasePath()
	if basePath == "" {
		return nil, errors.New("store: base path unknown")
	}
	return &persistence{d: diskv.New(diskv.Options{
		BasePath:     basePath,
		Transform:    flatTransform,
		CacheSizeMax: 1024 * 1024, // 1MB
	}), basePath: basePath}, nil
}

type persistence struct {
	d        *diskv.Diskv
	basePath string
}

// flatTransform keeps every slot directly under the base path.
func flatTransform(string) []string {
	return []string{}
}

func checkSlot(slot string) error {
	if !slotPattern.MatchString(slot) {
		return fmt.Errorf("store: invalid slot name %q", slot)
	}
	return nil
}

func (p *persistence) Read(slot string) ([]byte, error) {
	if err := checkSlot(slot); err != nil {
		return nil, err
	}
	if !p.d.Has(slot) {
		return nil, ErrNotFound
	}
	val, err := p.d.Read(slot)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("store: read %s: %w", slot, err)
	}
	return val, nil
}

func (p *persistence) Write(slot string, data []byte) error {
	if err := checkSlot(slot); err != nil {
		return err
	}
	if err := p.d.Write(slot, data); err != nil {
		return fmt.Errorf("store: write %s: %w", slot, err)
	}
	return nil
}

func (p *persistence) Erase(slot string) error {
	if err := checkSlot(slot); err != nil {
		return err
	}
	if !p.d.Has(slot) {
		return nil
	}
	if err := p.d.Erase(slot); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("store: erase %s: %w", slot, err)
	}
	return nil
}

func (p *persistence) Slots(ctx context.Context) []string {
	all := make([]string, 0)
	for key := range p.d.Keys(ctx.Done()) {
		if slotPattern.MatchString(key) {
			all = append(all, key)
		}
	}
	return all
}
