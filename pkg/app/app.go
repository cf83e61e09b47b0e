// Package app owns the crosscal application state: the task document, the
// calendar marks and the current view. Every mutation rewrites the affected
// slot through the persistence layer.
package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"tableflip.dev/crosscal/pkg/logging"
	"tableflip.dev/crosscal/pkg/marks"
	"tableflip.dev/crosscal/pkg/store"
	"tableflip.dev/crosscal/pkg/task"
	"tableflip.dev/crosscal/pkg/view"
)

// State is the in-memory application state. It is not safe for concurrent
// use; the command line and the terminal UI drive it from one goroutine.
type State struct {
	persistence store.Persistence
	log         *log.Logger
	now         func() time.Time

	doc      *task.Document
	marks    marks.Marks
	selector view.Selector
	lastID   int64

	// unread holds slots whose last read failed. They are never written
	// until a Reload reads them again.
	unread     map[string]error
	storageErr error
}

// Option customises Load.
type Option func(*State)

// WithLogger sets the logger used for storage warnings.
func WithLogger(l *log.Logger) Option {
	return func(s *State) {
		if l != nil {
			s.log = l
		}
	}
}

// WithClock overrides the time source used for task ids.
func WithClock(now func() time.Time) Option {
	return func(s *State) {
		if now != nil {
			s.now = now
		}
	}
}

// Load reads both slots and returns the state. Missing or malformed slots are
// replaced by empty defaults; only a missing persistence is an error.
func Load(ctx context.Context, p store.Persistence, opts ...Option) (*State, error) {
	if p == nil {
		return nil, errors.New("app: no persistence configured")
	}
	s := &State{
		persistence: p,
		log:         logging.New(""),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.Reload(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload replaces the in-memory document and marks with the stored slots.
// The current selection is kept and resolved against the new document.
func (s *State) Reload(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.unread = map[string]error{}
	s.storageErr = nil
	s.doc = s.loadDocument()
	s.marks = s.loadMarks()
	s.lastID = s.doc.MaxID()
	return nil
}

func (s *State) loadDocument() *task.Document {
	data, ok := s.readSlot(store.SlotTasks)
	if !ok {
		return task.NewDocument()
	}
	doc, err := task.Decode(data)
	if err != nil {
		s.log.Warn("malformed slot replaced with an empty document", "slot", store.SlotTasks, "err", err)
		return task.NewDocument()
	}
	return doc
}

func (s *State) loadMarks() marks.Marks {
	data, ok := s.readSlot(store.SlotMarks)
	if !ok {
		return marks.Marks{}
	}
	m, err := marks.Decode(data)
	if err != nil {
		s.log.Warn("malformed slot replaced with no marks", "slot", store.SlotMarks, "err", err)
		return marks.Marks{}
	}
	return m
}

func (s *State) readSlot(slot string) ([]byte, bool) {
	data, err := s.persistence.Read(slot)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return nil, false
	case err != nil:
		s.unread[slot] = err
		s.storageErr = s.unreadErr()
		s.log.Warn("storage unavailable, slot will not be written", "slot", slot, "err", err)
		return nil, false
	}
	return data, true
}

// StorageErr returns the last storage failure. A failed write is cleared by a
// later successful write; a failed read is cleared only by a successful Reload.
func (s *State) StorageErr() error {
	return s.storageErr
}

// Document exposes the live document. Callers must not mutate it directly.
func (s *State) Document() *task.Document {
	return s.doc
}

// --- View

// Select switches the current section. Unknown names fall back to "all".
func (s *State) Select(nameOrAll string) {
	s.selector.Select(nameOrAll)
	if s.selector.Current(s.doc) != s.selector.Selected() {
		s.selector.Select(task.AllName)
	}
}

// CurrentSection is "all" or the name of the selected section.
func (s *State) CurrentSection() string {
	return s.selector.Current(s.doc)
}

// Collection is the live task list of the current section.
func (s *State) Collection() []*task.Task {
	return s.selector.Collection(s.doc)
}

// Projection recomputes the visible rows of the current section.
func (s *State) Projection() view.Projection {
	current := s.CurrentSection()
	return view.Project(view.Heading(current), s.Collection())
}

// ProjectionOf recomputes the visible rows of ref without changing the
// selection.
func (s *State) ProjectionOf(ref string) (view.Projection, error) {
	tasks, ok := s.doc.Collection(ref)
	if !ok {
		return view.Projection{}, ErrSectionNotFound
	}
	if task.IsAll(ref) {
		ref = task.AllName
	}
	return view.Project(view.Heading(ref), tasks), nil
}

// Sections lists "all" and every section with task counts.
func (s *State) Sections() []view.SectionSummary {
	return view.Sections(s.doc, s.CurrentSection())
}

// Task returns a copy of the task with id in ref.
func (s *State) Task(ref string, id int64) (*task.Task, error) {
	t, err := s.find(ref, id)
	if err != nil {
		return nil, err
	}
	return t.Clone(), nil
}

// --- Sections

// AddSection creates an empty section and selects it.
func (s *State) AddSection(name string) error {
	name = strings.TrimSpace(name)
	switch {
	case name == "":
		return ErrSectionNameEmpty
	case strings.EqualFold(name, task.AllName):
		return ErrSectionNameReserved
	case s.doc.HasSection(name):
		return ErrSectionExists
	}
	s.doc.AddSection(name)
	s.persistTasks()
	s.selector.Select(name)
	return nil
}

// DeleteSection removes a section and all of its tasks. If it was selected
// the view falls back to "all".
func (s *State) DeleteSection(name string) error {
	if !s.doc.RemoveSection(name) {
		return ErrSectionNotFound
	}
	s.persistTasks()
	if s.selector.Selected() == name {
		s.selector.Select(task.AllName)
	}
	return nil
}

// --- Tasks

// AddTask appends a new pending task to ref.
func (s *State) AddTask(ref, text string) (*task.Task, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrTaskTextEmpty
	}
	tasks, ok := s.doc.Collection(ref)
	if !ok {
		return nil, ErrSectionNotFound
	}
	t := task.New(s.nextID(), text)
	s.doc.SetCollection(ref, append(tasks, t))
	s.persistTasks()
	return t.Clone(), nil
}

// DeleteTask removes the task with id from ref.
func (s *State) DeleteTask(ref string, id int64) error {
	tasks, ok := s.doc.Collection(ref)
	if !ok {
		return ErrSectionNotFound
	}
	i := task.Index(tasks, id)
	if i < 0 {
		return ErrTaskNotFound
	}
	rest := make([]*task.Task, 0, len(tasks)-1)
	rest = append(rest, tasks[:i]...)
	rest = append(rest, tasks[i+1:]...)
	s.doc.SetCollection(ref, rest)
	s.persistTasks()
	return nil
}

// SetCompleted sets the completion flag in place.
func (s *State) SetCompleted(ref string, id int64, done bool) error {
	t, err := s.find(ref, id)
	if err != nil {
		return err
	}
	t.Completed = done
	s.persistTasks()
	return nil
}

// ToggleCompleted flips the completion flag and returns the new value.
func (s *State) ToggleCompleted(ref string, id int64) (bool, error) {
	t, err := s.find(ref, id)
	if err != nil {
		return false, err
	}
	t.Completed = !t.Completed
	s.persistTasks()
	return t.Completed, nil
}

// EditTask replaces the text when newText is not blank and always replaces
// the description, so an empty newDesc clears it.
func (s *State) EditTask(ref string, id int64, newText, newDesc string) error {
	t, err := s.find(ref, id)
	if err != nil {
		return err
	}
	if text := strings.TrimSpace(newText); text != "" {
		t.Text = text
	}
	t.Desc = strings.TrimSpace(newDesc)
	s.persistTasks()
	return nil
}

// Reorder applies a new order to the pending tasks of ref. Completed tasks
// keep their relative order after the pending ones.
func (s *State) Reorder(ref string, pendingOrder []int64) error {
	tasks, ok := s.doc.Collection(ref)
	if !ok {
		return ErrSectionNotFound
	}
	s.doc.SetCollection(ref, task.Reordered(tasks, pendingOrder))
	s.persistTasks()
	return nil
}

// MovePending shifts a pending task by delta places among the pending tasks
// of ref. It is the keyboard counterpart of a drag.
func (s *State) MovePending(ref string, id int64, delta int) error {
	tasks, ok := s.doc.Collection(ref)
	if !ok {
		return ErrSectionNotFound
	}
	pending, _ := task.Partition(tasks)
	order := make([]int64, 0, len(pending))
	from := -1
	for i, t := range pending {
		if t.ID == id {
			from = i
		}
		order = append(order, t.ID)
	}
	if from < 0 {
		return ErrTaskNotFound
	}
	to := from + delta
	if to < 0 {
		to = 0
	}
	if to > len(order)-1 {
		to = len(order) - 1
	}
	if to == from {
		return nil
	}
	order = append(order[:from], order[from+1:]...)
	order = append(order[:to], append([]int64{id}, order[to:]...)...)
	return s.Reorder(ref, order)
}

func (s *State) find(ref string, id int64) (*task.Task, error) {
	tasks, ok := s.doc.Collection(ref)
	if !ok {
		return nil, ErrSectionNotFound
	}
	i := task.Index(tasks, id)
	if i < 0 {
		return nil, ErrTaskNotFound
	}
	return tasks[i], nil
}

// nextID returns the creation time in milliseconds, bumped so ids stay
// strictly increasing within the document.
func (s *State) nextID() int64 {
	id := s.now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}

// --- Calendar marks

// Marked reports whether the day key is marked.
func (s *State) Marked(date string) bool {
	return s.marks.Marked(date)
}

// Marks returns a copy of the marks.
func (s *State) Marks() marks.Marks {
	out := make(marks.Marks, len(s.marks))
	for k, v := range s.marks {
		out[k] = v
	}
	return out
}

// ToggleMark flips the mark on a YYYY-MM-DD day and returns the new state.
func (s *State) ToggleMark(date string) (bool, error) {
	if _, err := marks.ParseKey(date); err != nil {
		return false, err
	}
	on := s.marks.Toggle(date)
	s.persistMarks()
	return on, nil
}

// ClearMarks removes every mark.
func (s *State) ClearMarks() {
	s.marks.Clear()
	s.persistMarks()
}

// --- Persistence

func (s *State) persistTasks() {
	data, err := task.Encode(s.doc)
	if err != nil {
		s.storageFailed(store.SlotTasks, err)
		return
	}
	s.write(store.SlotTasks, data)
}

func (s *State) persistMarks() {
	data, err := marks.Encode(s.marks)
	if err != nil {
		s.storageFailed(store.SlotMarks, err)
		return
	}
	s.write(store.SlotMarks, data)
}

func (s *State) write(slot string, data []byte) {
	if err, ok := s.unread[slot]; ok {
		s.storageFailed(slot, fmt.Errorf("%s could not be read: %w", slot, err))
		return
	}
	if err := s.persistence.Write(slot, data); err != nil {
		s.storageFailed(slot, err)
		return
	}
	s.storageErr = s.unreadErr()
}

// unreadErr reports the first slot that could not be read, or nil.
func (s *State) unreadErr() error {
	for _, slot := range []string{store.SlotTasks, store.SlotMarks} {
		if err, ok := s.unread[slot]; ok {
			return fmt.Errorf("%w: %s could not be read, changes will not be saved: %v", ErrStorageUnavailable, slot, err)
		}
	}
	return nil
}

func (s *State) storageFailed(slot string, err error) {
	s.storageErr = fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	s.log.Warn("storage unavailable, changes kept in memory", "slot", slot, "err", err)
}
