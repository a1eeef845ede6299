package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zerolog.Level{
		"trace":   zerolog.TraceLevel,
		"DEBUG":   zerolog.DebugLevel,
		" warn ":  zerolog.WarnLevel,
		"warning": zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"":        zerolog.InfoLevel,
		"loud":    zerolog.InfoLevel,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestComponentTagsEntries(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	var buf bytes.Buffer
	Init(Options{Level: "debug", Output: &buf, Service: "dashboard"})

	l := Component("session")
	l.Info().Msg("hello")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log line: %v (%s)", err, buf.String())
	}
	if entry["component"] != "session" || entry["service"] != "dashboard" || entry["message"] != "hello" {
		t.Fatalf("unexpected entry %v", entry)
	}
}

func TestInitOnlyOnce(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	var first, second bytes.Buffer
	Init(Options{Output: &first})
	Init(Options{Output: &second})

	l := Get()
	l.Info().Msg("x")
	if first.Len() == 0 || second.Len() != 0 {
		t.Fatal("second Init must not replace the logger")
	}
}

func TestLevelFilters(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	var buf bytes.Buffer
	Init(Options{Level: "warn", Output: &buf})
	l := Get()
	l.Info().Msg("dropped")
	if buf.Len() != 0 {
		t.Fatalf("info should be filtered at warn level, got %s", buf.String())
	}
}

func TestGetBeforeInitPanics(t *testing.T) {
	Reset()
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	Get()
}
