package mark

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"tableflip.dev/crosscal/pkg/app"
	"tableflip.dev/crosscal/pkg/logging"
	"tableflip.dev/crosscal/pkg/marks"
	"tableflip.dev/crosscal/pkg/store"
)

func march15() time.Time {
	return time.Date(2024, time.March, 15, 9, 0, 0, 0, time.Local)
}

func TestToggleToday(t *testing.T) {
	ctx := context.Background()
	p := store.NewMemory()
	var buf bytes.Buffer

	toggle := Toggle{Persistence: p, Log: logging.Discard(), Now: march15, Out: &buf}
	if err := toggle.Do(ctx); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !strings.Contains(buf.String(), "2024-03-15 marked") || !strings.Contains(buf.String(), "March 2024") {
		t.Fatalf("unexpected output:\n%s", buf.String())
	}

	buf.Reset()
	if err := toggle.Do(ctx); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !strings.Contains(buf.String(), "2024-03-15 unmarked") {
		t.Fatalf("unexpected output:\n%s", buf.String())
	}
	data, _ := p.Read(store.SlotMarks)
	if string(data) != "{}" {
		t.Fatalf("toggling twice should leave no marks, got %s", data)
	}
}

func TestToggleInvalidDate(t *testing.T) {
	toggle := Toggle{Persistence: store.NewMemory(), Log: logging.Discard(), Date: "15/03/2024", Out: &bytes.Buffer{}}
	if err := toggle.Do(context.Background()); err == nil {
		t.Fatalf("expected invalid date error")
	}
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	p := store.NewMemory()
	st, _ := app.Load(ctx, p, app.WithLogger(logging.Discard()))
	_, _ = st.ToggleMark("2024-03-01")
	_, _ = st.ToggleMark("2024-03-02")

	var buf bytes.Buffer
	asked := ""
	declined := Clear{Persistence: p, Log: logging.Discard(), Out: &buf,
		Confirm: func(label string) (bool, error) { asked = label; return false, nil }}
	if err := declined.Do(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if !strings.Contains(asked, "2 marked days") {
		t.Fatalf("unexpected prompt %q", asked)
	}
	st, _ = app.Load(ctx, p, app.WithLogger(logging.Discard()))
	if len(st.Marks()) != 2 {
		t.Fatalf("declined clear removed marks")
	}

	wipe := Clear{Persistence: p, Log: logging.Discard(), Out: &buf}
	if err := wipe.Do(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	st, _ = app.Load(ctx, p, app.WithLogger(logging.Discard()))
	if len(st.Marks()) != 0 {
		t.Fatalf("expected no marks")
	}
}

func TestCalendarJSON(t *testing.T) {
	ctx := context.Background()
	p := store.NewMemory()
	_ = p.Write(store.SlotMarks, []byte(`{"2024-03-15":true}`))

	var buf bytes.Buffer
	cal := Calendar{Persistence: p, Log: logging.Discard(), JSON: true, Out: &buf}
	if err := cal.Do(ctx); err != nil {
		t.Fatalf("cal: %v", err)
	}
	var got marks.Marks
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !got["2024-03-15"] {
		t.Fatalf("unexpected marks %v", got)
	}

	buf.Reset()
	cal = Calendar{Persistence: p, Log: logging.Discard(), On: march15(), Now: march15, Out: &buf}
	if err := cal.Do(ctx); err != nil {
		t.Fatalf("cal: %v", err)
	}
	if !strings.Contains(buf.String(), "1 marked") {
		t.Fatalf("unexpected calendar:\n%s", buf.String())
	}
}
