package options

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestParseIDs(t *testing.T) {
	o := &IDOptions{}
	if err := o.ParseIDs([]string{"3", "1", "1710000000000"}); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(o.IDs) != 3 || o.IDs[2] != 1710000000000 {
		t.Fatalf("unexpected ids %v", o.IDs)
	}
	if err := o.ParseIDs([]string{"abc"}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestGetOn(t *testing.T) {
	now := time.Date(2024, time.March, 15, 0, 0, 0, 0, time.Local)
	tests := map[string]time.Month{
		"2024-07": time.July,
		"11":      time.November,
	}
	for in, want := range tests {
		o := &OnOptions{OnString: in}
		got, err := o.GetOn(now)
		if err != nil {
			t.Fatalf("%q: %v", in, err)
		}
		if got.Month() != want || got.Year() != 2024 || got.Day() != 1 {
			t.Fatalf("%q: unexpected %v", in, got)
		}
	}

	if got, err := (&OnOptions{}).GetOn(now); err != nil || !got.IsZero() {
		t.Fatalf("unset flag should be zero, got %v %v", got, err)
	}
	if _, err := (&OnOptions{OnString: "March"}).GetOn(now); err == nil {
		t.Fatalf("expected error")
	}
}

func TestConfirmerYes(t *testing.T) {
	if (&ConfirmOptions{Yes: true}).Confirmer() != nil {
		t.Fatalf("--yes should skip the prompt")
	}
	if (&ConfirmOptions{}).Confirmer() == nil {
		t.Fatalf("expected a prompt")
	}
}

func TestHandleErrorJSON(t *testing.T) {
	var buf bytes.Buffer
	o := &OutputOptions{JSON: true, Out: &buf}
	want := errors.New("section not found")
	if err := o.HandleError(want); err != want {
		t.Fatalf("error must still be returned, got %v", err)
	}
	if got := strings.TrimSpace(buf.String()); got != `{"error":"section not found"}` {
		t.Fatalf("unexpected output %q", got)
	}

	buf.Reset()
	if err := o.HandleError(nil); err != nil || buf.Len() != 0 {
		t.Fatalf("nil error should print nothing, got %v %q", err, buf.String())
	}

	plain := &OutputOptions{Out: &buf}
	if err := plain.HandleError(want); err != want || buf.Len() != 0 {
		t.Fatalf("text mode should only return the error")
	}
}
