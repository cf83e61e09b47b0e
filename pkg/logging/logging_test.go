package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]log.Level{
		"":         DefaultLevel,
		"debug":    log.DebugLevel,
		"INFO":     log.InfoLevel,
		" warn ":   log.WarnLevel,
		"error":    log.ErrorLevel,
		"nonsense": DefaultLevel,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Fatalf("%q: want %v, got %v", in, want, got)
		}
	}
}

func TestNewWithWriterFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, "warn")
	logger.Info("hidden")
	logger.Warn("storage unavailable", "slot", "todo_sections_v1")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info should be filtered at warn level: %q", out)
	}
	if !strings.Contains(out, "storage unavailable") || !strings.Contains(out, "todo_sections_v1") {
		t.Fatalf("expected warning with slot, got %q", out)
	}
}
