package app

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"tableflip.dev/crosscal/pkg/logging"
	"tableflip.dev/crosscal/pkg/store"
	"tableflip.dev/crosscal/pkg/task"
)

// flakyPersistence fails writes while broken is set.
type flakyPersistence struct {
	*store.Memory
	broken bool
	writes int
}

func (f *flakyPersistence) Write(slot string, data []byte) error {
	f.writes++
	if f.broken {
		return errors.New("quota exceeded")
	}
	return f.Memory.Write(slot, data)
}

// unreadablePersistence fails reads of failSlot.
type unreadablePersistence struct {
	*store.Memory
	failSlot string
}

func (u *unreadablePersistence) Read(slot string) ([]byte, error) {
	if slot == u.failSlot {
		return nil, errors.New("input/output error")
	}
	return u.Memory.Read(slot)
}

func fixedClock(ms int64) func() time.Time {
	return func() time.Time { return time.UnixMilli(ms) }
}

func newState(t *testing.T, p store.Persistence) *State {
	t.Helper()
	if p == nil {
		p = store.NewMemory()
	}
	s, err := Load(context.Background(), p, WithLogger(logging.Discard()), WithClock(fixedClock(1000)))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	return s
}

func idsOf(tasks []*task.Task) []int64 {
	out := make([]int64, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.ID)
	}
	return out
}

func TestLoadRequiresPersistence(t *testing.T) {
	if _, err := Load(context.Background(), nil); err == nil {
		t.Fatalf("expected error without persistence")
	}
}

func TestLoadEmpty(t *testing.T) {
	s := newState(t, nil)
	if s.CurrentSection() != task.AllName {
		t.Fatalf("expected all, got %q", s.CurrentSection())
	}
	if len(s.Collection()) != 0 || len(s.Document().Sections) != 0 {
		t.Fatalf("expected empty document")
	}
}

func TestLoadMalformedSlots(t *testing.T) {
	mem := store.NewMemory()
	_ = mem.Write(store.SlotTasks, []byte(`{"all": "nope"`))
	_ = mem.Write(store.SlotMarks, []byte(`[1,2,3]`))
	s := newState(t, mem)
	if len(s.Document().All) != 0 || len(s.Marks()) != 0 {
		t.Fatalf("malformed slots should load as empty")
	}
	if s.StorageErr() != nil {
		t.Fatalf("malformed data is not a storage failure: %v", s.StorageErr())
	}
}

func TestAddSectionThenTask(t *testing.T) {
	mem := store.NewMemory()
	s := newState(t, mem)

	if err := s.AddSection("Work"); err != nil {
		t.Fatalf("add section: %v", err)
	}
	if s.CurrentSection() != "Work" {
		t.Fatalf("new section should be selected, got %q", s.CurrentSection())
	}
	added, err := s.AddTask("Work", "Ship spec")
	if err != nil {
		t.Fatalf("add task: %v", err)
	}

	work, _ := s.Document().Collection("Work")
	if len(work) != 1 {
		t.Fatalf("expected one task in Work, got %d", len(work))
	}
	got := work[0]
	if got.Text != "Ship spec" || got.Completed || got.Desc != "" || got.ID != added.ID {
		t.Fatalf("unexpected task %#v", got)
	}

	// The write reached the slot.
	reloaded := newState(t, mem)
	again, ok := reloaded.Document().Collection("Work")
	if !ok || len(again) != 1 || again[0].Text != "Ship spec" {
		t.Fatalf("task not persisted: %#v", again)
	}
}

func TestAddSectionRejections(t *testing.T) {
	mem := store.NewMemory()
	s := newState(t, mem)
	if err := s.AddSection("Work"); err != nil {
		t.Fatalf("add section: %v", err)
	}
	before := mem.Slots(context.Background())
	data, _ := mem.Read(store.SlotTasks)

	tests := map[string]error{
		"":      ErrSectionNameEmpty,
		"   ":   ErrSectionNameEmpty,
		"all":   ErrSectionNameReserved,
		"All":   ErrSectionNameReserved,
		" ALL ": ErrSectionNameReserved,
		"Work":  ErrSectionExists,
	}
	for name, want := range tests {
		err := s.AddSection(name)
		if !errors.Is(err, want) {
			t.Fatalf("%q: want %v, got %v", name, want, err)
		}
		if !IsRejection(err) {
			t.Fatalf("%q: expected a rejection", name)
		}
	}
	if names := s.Document().SectionNames(); !reflect.DeepEqual(names, []string{"Work"}) {
		t.Fatalf("sections changed: %v", names)
	}
	after, _ := mem.Read(store.SlotTasks)
	if string(after) != string(data) || !reflect.DeepEqual(before, mem.Slots(context.Background())) {
		t.Fatalf("rejected adds must not write")
	}

	// Section names are case-sensitive.
	if err := s.AddSection("work"); err != nil {
		t.Fatalf("work differs from Work: %v", err)
	}
}

func TestDeleteSection(t *testing.T) {
	s := newState(t, nil)
	_ = s.AddSection("Work")
	if _, err := s.AddTask("Work", "one"); err != nil {
		t.Fatalf("add task: %v", err)
	}
	if err := s.DeleteSection("Nope"); !errors.Is(err, ErrSectionNotFound) {
		t.Fatalf("expected ErrSectionNotFound, got %v", err)
	}
	if err := s.DeleteSection("Work"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if s.CurrentSection() != task.AllName {
		t.Fatalf("view should fall back to all, got %q", s.CurrentSection())
	}
	if _, ok := s.Document().Collection("Work"); ok {
		t.Fatalf("section should be gone")
	}
	if got := s.Collection(); got == nil {
		t.Fatalf("collection must not be nil")
	}
}

func TestDeleteOtherSectionKeepsView(t *testing.T) {
	s := newState(t, nil)
	_ = s.AddSection("Home")
	_ = s.AddSection("Work")
	if err := s.DeleteSection("Home"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if s.CurrentSection() != "Work" {
		t.Fatalf("expected Work to stay selected, got %q", s.CurrentSection())
	}
}

func TestSelect(t *testing.T) {
	s := newState(t, nil)
	_ = s.AddSection("Work")
	s.Select("all")
	if s.CurrentSection() != task.AllName {
		t.Fatalf("expected all")
	}
	s.Select("Missing")
	if s.CurrentSection() != task.AllName {
		t.Fatalf("unknown sections fall back to all")
	}
	s.Select("Work")
	if s.Projection().Heading != "Section: Work" {
		t.Fatalf("unexpected heading %q", s.Projection().Heading)
	}
}

func TestAddTaskRejections(t *testing.T) {
	s := newState(t, nil)
	if _, err := s.AddTask("all", "   "); !errors.Is(err, ErrTaskTextEmpty) {
		t.Fatalf("expected ErrTaskTextEmpty, got %v", err)
	}
	if _, err := s.AddTask("Nope", "text"); !errors.Is(err, ErrSectionNotFound) {
		t.Fatalf("expected ErrSectionNotFound, got %v", err)
	}
	if len(s.Document().All) != 0 {
		t.Fatalf("rejected add changed the document")
	}
}

func TestTaskIDsAreUnique(t *testing.T) {
	s := newState(t, nil)
	a, _ := s.AddTask("all", "a")
	b, _ := s.AddTask("all", "b")
	c, _ := s.AddTask("all", "c")
	if a.ID != 1000 || b.ID != 1001 || c.ID != 1002 {
		t.Fatalf("expected increasing ids from the clock, got %d %d %d", a.ID, b.ID, c.ID)
	}
	if a.Text != "a" || a.Completed {
		t.Fatalf("unexpected task %#v", a)
	}
}

func TestIDsContinueAfterReload(t *testing.T) {
	mem := store.NewMemory()
	_ = mem.Write(store.SlotTasks, []byte(`{"all":[{"id":5000,"text":"old","completed":false,"desc":""}],"sections":{}}`))
	s := newState(t, mem)
	added, err := s.AddTask("all", "new")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if added.ID != 5001 {
		t.Fatalf("expected id after the stored max, got %d", added.ID)
	}
}

func TestSetCompletedAndProjection(t *testing.T) {
	s := newState(t, nil)
	s.now = fixedClock(1001)
	done, _ := s.AddTask("all", "finish")
	if done.ID != 1001 {
		t.Fatalf("unexpected id %d", done.ID)
	}
	_, _ = s.AddTask("all", "other")

	if err := s.SetCompleted("all", 1001, true); err != nil {
		t.Fatalf("set completed: %v", err)
	}
	p := s.Projection()
	if len(p.Completed) != 1 || p.Completed[0].ID != 1001 {
		t.Fatalf("expected 1001 in completed, got %#v", p.Completed)
	}
	for _, r := range p.Pending {
		if r.ID == 1001 {
			t.Fatalf("1001 must not be pending")
		}
	}
	if err := s.SetCompleted("all", 42, true); !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}
}

func TestToggleCompleted(t *testing.T) {
	s := newState(t, nil)
	added, _ := s.AddTask("all", "a")
	on, err := s.ToggleCompleted("all", added.ID)
	if err != nil || !on {
		t.Fatalf("expected completed, got %v %v", on, err)
	}
	on, err = s.ToggleCompleted("all", added.ID)
	if err != nil || on {
		t.Fatalf("expected pending, got %v %v", on, err)
	}
}

func TestPartitionAfterOperations(t *testing.T) {
	s := newState(t, nil)
	var ids []int64
	for _, text := range []string{"a", "b", "c", "d", "e"} {
		added, _ := s.AddTask("all", text)
		ids = append(ids, added.ID)
	}
	_ = s.SetCompleted("all", ids[1], true)
	_ = s.DeleteTask("all", ids[2])
	_, _ = s.ToggleCompleted("all", ids[4])
	_ = s.SetCompleted("all", ids[1], false)
	_, _ = s.ToggleCompleted("all", ids[0])

	p := s.Projection()
	if p.Len() != len(s.Collection()) {
		t.Fatalf("partition %d rows, collection %d tasks", p.Len(), len(s.Collection()))
	}
	seen := make(map[int64]bool)
	for _, r := range p.Rows() {
		if seen[r.ID] {
			t.Fatalf("row %d appears twice", r.ID)
		}
		seen[r.ID] = true
	}
}

func TestDeleteTask(t *testing.T) {
	s := newState(t, nil)
	a, _ := s.AddTask("all", "a")
	b, _ := s.AddTask("all", "b")
	if err := s.DeleteTask("all", a.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if got := idsOf(s.Collection()); !reflect.DeepEqual(got, []int64{b.ID}) {
		t.Fatalf("unexpected collection %v", got)
	}
	if err := s.DeleteTask("all", a.ID); !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("second delete should report not found, got %v", err)
	}
}

func TestEditTask(t *testing.T) {
	s := newState(t, nil)
	a, _ := s.AddTask("all", "draft")

	if err := s.EditTask("all", a.ID, "  final  ", "  details "); err != nil {
		t.Fatalf("edit: %v", err)
	}
	got, _ := s.Task("all", a.ID)
	if got.Text != "final" || got.Desc != "details" {
		t.Fatalf("unexpected task %#v", got)
	}

	// Blank text keeps the old text, blank description clears it.
	if err := s.EditTask("all", a.ID, "   ", ""); err != nil {
		t.Fatalf("edit: %v", err)
	}
	got, _ = s.Task("all", a.ID)
	if got.Text != "final" || got.Desc != "" {
		t.Fatalf("unexpected task %#v", got)
	}

	// Task returns a copy.
	got.Text = "mutated"
	again, _ := s.Task("all", a.ID)
	if again.Text != "final" {
		t.Fatalf("Task must return a copy")
	}
}

func TestReorderScenario(t *testing.T) {
	mem := store.NewMemory()
	_ = mem.Write(store.SlotTasks, []byte(`{"all":[
		{"id":1,"text":"A","completed":false,"desc":""},
		{"id":9,"text":"Y","completed":true,"desc":""},
		{"id":2,"text":"B","completed":false,"desc":""},
		{"id":8,"text":"X","completed":true,"desc":""},
		{"id":3,"text":"C","completed":false,"desc":""}
	],"sections":{}}`))
	s := newState(t, mem)

	if err := s.Reorder("all", []int64{3, 1, 2}); err != nil {
		t.Fatalf("reorder: %v", err)
	}
	if got := idsOf(s.Collection()); !reflect.DeepEqual(got, []int64{3, 1, 2, 9, 8}) {
		t.Fatalf("unexpected order %v", got)
	}

	// Idempotent with the current pending order.
	before := idsOf(s.Collection())
	if err := s.Reorder("all", s.Projection().PendingIDs()); err != nil {
		t.Fatalf("reorder: %v", err)
	}
	if got := idsOf(s.Collection()); !reflect.DeepEqual(got, before) {
		t.Fatalf("reorder not idempotent: %v vs %v", before, got)
	}

	// Completed ids in the request cannot move completed tasks.
	if err := s.Reorder("all", []int64{8, 9, 2, 3, 1}); err != nil {
		t.Fatalf("reorder: %v", err)
	}
	if got := idsOf(s.Collection()); !reflect.DeepEqual(got, []int64{2, 3, 1, 9, 8}) {
		t.Fatalf("unexpected order %v", got)
	}

	if err := s.Reorder("all", []int64{3, 1}); err != nil {
		t.Fatalf("reorder: %v", err)
	}
	if got := idsOf(s.Collection()); !reflect.DeepEqual(got, []int64{3, 1, 9, 8}) {
		t.Fatalf("pending tasks left out of the order are dropped, got %v", got)
	}

	if err := s.Reorder("Nope", nil); !errors.Is(err, ErrSectionNotFound) {
		t.Fatalf("expected ErrSectionNotFound, got %v", err)
	}
}

func TestMovePending(t *testing.T) {
	s := newState(t, nil)
	a, _ := s.AddTask("all", "a")
	b, _ := s.AddTask("all", "b")
	c, _ := s.AddTask("all", "c")
	_ = s.SetCompleted("all", a.ID, true)

	if err := s.MovePending("all", c.ID, -1); err != nil {
		t.Fatalf("move: %v", err)
	}
	if got := idsOf(s.Collection()); !reflect.DeepEqual(got, []int64{c.ID, b.ID, a.ID}) {
		t.Fatalf("unexpected order %v", got)
	}
	if err := s.MovePending("all", c.ID, -5); err != nil {
		t.Fatalf("move past the top should clamp: %v", err)
	}
	if err := s.MovePending("all", a.ID, 1); !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("completed tasks cannot move, got %v", err)
	}
}

func TestStorageUnavailableKeepsState(t *testing.T) {
	p := &flakyPersistence{Memory: store.NewMemory()}
	s := newState(t, p)
	p.broken = true

	added, err := s.AddTask("all", "survives")
	if err != nil {
		t.Fatalf("storage failures are not rejections: %v", err)
	}
	if !errors.Is(s.StorageErr(), ErrStorageUnavailable) {
		t.Fatalf("expected storage warning, got %v", s.StorageErr())
	}
	if len(s.Collection()) != 1 || s.Collection()[0].ID != added.ID {
		t.Fatalf("in-memory state lost")
	}

	p.broken = false
	if err := s.SetCompleted("all", added.ID, true); err != nil {
		t.Fatalf("set completed: %v", err)
	}
	if s.StorageErr() != nil {
		t.Fatalf("successful write should clear the warning, got %v", s.StorageErr())
	}
	data, _ := p.Read(store.SlotTasks)
	doc, err := task.Decode(data)
	if err != nil || len(doc.All) != 1 || !doc.All[0].Completed {
		t.Fatalf("full document should be written after recovery: %s", data)
	}
}

func TestUnreadableSlotIsNeverOverwritten(t *testing.T) {
	mem := store.NewMemory()
	stored := `{"all":[{"id":1,"text":"precious","completed":false,"desc":""}],"sections":{"Work":[]}}`
	if err := mem.Write(store.SlotTasks, []byte(stored)); err != nil {
		t.Fatalf("seed: %v", err)
	}
	p := &unreadablePersistence{Memory: mem, failSlot: store.SlotTasks}
	s := newState(t, p)
	if !errors.Is(s.StorageErr(), ErrStorageUnavailable) {
		t.Fatalf("expected read warning, got %v", s.StorageErr())
	}

	if _, err := s.AddTask("all", "new"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := s.ToggleMark("2024-03-15"); err != nil {
		t.Fatalf("mark: %v", err)
	}
	data, _ := mem.Read(store.SlotTasks)
	if string(data) != stored {
		t.Fatalf("unreadable slot was overwritten: %s", data)
	}
	if _, err := mem.Read(store.SlotMarks); err != nil {
		t.Fatalf("readable slot should still be written: %v", err)
	}
	if !errors.Is(s.StorageErr(), ErrStorageUnavailable) {
		t.Fatalf("warning must survive writes to other slots, got %v", s.StorageErr())
	}

	p.failSlot = ""
	if err := s.Reload(context.Background()); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if s.StorageErr() != nil {
		t.Fatalf("successful reload should clear the warning, got %v", s.StorageErr())
	}
	if len(s.Collection()) != 1 || s.Collection()[0].Text != "precious" || !s.Document().HasSection("Work") {
		t.Fatalf("stored document not restored: %v", idsOf(s.Collection()))
	}
	if _, err := s.AddTask("all", "after"); err != nil {
		t.Fatalf("add: %v", err)
	}
	data, _ = mem.Read(store.SlotTasks)
	doc, err := task.Decode(data)
	if err != nil || len(doc.All) != 2 || doc.All[0].Text != "precious" || !doc.HasSection("Work") {
		t.Fatalf("expected stored tasks kept after recovery: %s", data)
	}
}

func TestEveryMutationWrites(t *testing.T) {
	p := &flakyPersistence{Memory: store.NewMemory()}
	s := newState(t, p)

	steps := []func() error{
		func() error { return s.AddSection("Work") },
		func() error { _, err := s.AddTask("Work", "a"); return err },
		func() error { return s.SetCompleted("Work", 1000, true) },
		func() error { _, err := s.ToggleCompleted("Work", 1000); return err },
		func() error { return s.EditTask("Work", 1000, "b", "") },
		func() error { return s.Reorder("Work", []int64{1000}) },
		func() error { return s.DeleteTask("Work", 1000) },
		func() error { return s.DeleteSection("Work") },
		func() error { _, err := s.ToggleMark("2024-03-15"); return err },
		func() error { s.ClearMarks(); return nil },
	}
	for i, step := range steps {
		before := p.writes
		if err := step(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		if p.writes != before+1 {
			t.Fatalf("step %d: expected one write, got %d", i, p.writes-before)
		}
	}
}

func TestMarks(t *testing.T) {
	mem := store.NewMemory()
	s := newState(t, mem)

	on, err := s.ToggleMark("2024-03-15")
	if err != nil || !on {
		t.Fatalf("expected mark, got %v %v", on, err)
	}
	if !s.Marked("2024-03-15") {
		t.Fatalf("expected marked")
	}
	on, err = s.ToggleMark("2024-03-15")
	if err != nil || on {
		t.Fatalf("expected unmark, got %v %v", on, err)
	}
	if _, ok := s.Marks()["2024-03-15"]; ok {
		t.Fatalf("key should be absent after toggling twice")
	}

	if _, err := s.ToggleMark("March 15"); err == nil {
		t.Fatalf("expected invalid date error")
	}

	_, _ = s.ToggleMark("2024-03-01")
	_, _ = s.ToggleMark("2024-03-02")
	s.ClearMarks()
	if len(s.Marks()) != 0 {
		t.Fatalf("expected no marks")
	}
	data, _ := mem.Read(store.SlotMarks)
	if string(data) != "{}" {
		t.Fatalf("expected cleared slot, got %s", data)
	}
}

func TestMarksIndependentOfTasks(t *testing.T) {
	mem := store.NewMemory()
	s := newState(t, mem)
	_, _ = s.ToggleMark("2024-03-15")
	if _, err := mem.Read(store.SlotTasks); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("marking a day must not write the tasks slot")
	}
}

func TestSections(t *testing.T) {
	s := newState(t, nil)
	_, _ = s.AddTask("all", "a")
	_ = s.AddSection("Work")
	_, _ = s.AddTask("Work", "b")
	_, _ = s.AddTask("Work", "c")

	got := s.Sections()
	if len(got) != 2 || got[0].Count != 1 || got[1].Name != "Work" || got[1].Count != 2 || !got[1].Active {
		t.Fatalf("unexpected sections %#v", got)
	}
}

func TestReload(t *testing.T) {
	mem := store.NewMemory()
	s := newState(t, mem)
	other := newState(t, mem)

	_, _ = other.AddTask("all", "from another process")
	if len(s.Collection()) != 0 {
		t.Fatalf("states are independent until reload")
	}
	if err := s.Reload(context.Background()); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if len(s.Collection()) != 1 {
		t.Fatalf("expected reloaded task")
	}
}
