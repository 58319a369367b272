package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"":        Info,
		"DEBUG":   Debug,
		"warning": Warn,
		"error":   Error,
		"verbose": Info,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestParseFormat(t *testing.T) {
	if ParseFormat(" JSON ") != FormatJSON {
		t.Fatalf("expected json")
	}
	if ParseFormat("pretty") != FormatText {
		t.Fatalf("expected text fallback")
	}
}

func TestZeroLogger_JSONWithFields(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Level: Info, Format: FormatJSON, App: "medremind", Out: &buf})

	log.With(map[string]any{"user_id": "user-1"}).Info("dose recorded", map[string]any{
		"medication_id": "med-1",
		"error":         errors.New("boom"),
		"":              "ignored",
	})

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("invalid json %q: %v", buf.String(), err)
	}
	want := map[string]any{
		"level":         "info",
		"message":       "dose recorded",
		"app":           "medremind",
		"user_id":       "user-1",
		"medication_id": "med-1",
		"error":         "boom",
	}
	for k, v := range want {
		if entry[k] != v {
			t.Fatalf("field %q = %v, want %v (entry %v)", k, entry[k], v, entry)
		}
	}
	if _, ok := entry[""]; ok {
		t.Fatalf("empty key must be dropped")
	}
}

func TestZeroLogger_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Level: Warn, Format: FormatJSON, Out: &buf})

	log.Debug("hidden", nil)
	log.Info("hidden", nil)
	log.Warn("shown", nil)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 || !strings.Contains(lines[0], "shown") {
		t.Fatalf("expected only the warn line, got %q", buf.String())
	}
}

func TestZeroLogger_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Level: Info, Format: FormatText, Out: &buf})

	log.Info("server listening", map[string]any{"addr": ":8080"})

	out := buf.String()
	if !strings.Contains(out, "server listening") || !strings.Contains(out, "addr=:8080") {
		t.Fatalf("unexpected text output %q", out)
	}
}
