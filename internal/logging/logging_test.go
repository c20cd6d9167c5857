package logging

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ThreeDotsLabs/watermill"
)

// lines decodes one JSON log record per line.
func lines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, l := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if l == "" {
			continue
		}
		var rec map[string]any
		if err := json.Unmarshal([]byte(l), &rec); err != nil {
			t.Fatalf("invalid log line %q: %v", l, err)
		}
		out = append(out, rec)
	}
	return out
}

func TestParseLevel(t *testing.T) {
	tests := map[string]Level{
		"debug":   DebugLevel,
		" INFO ":  InfoLevel,
		"Warning": WarnLevel,
		"warn":    WarnLevel,
		"ERROR":   ErrorLevel,
		"fatal":   FatalLevel,
		"verbose": InfoLevel,
		"":        InfoLevel,
	}

	for input, want := range tests {
		if got := ParseLevel(input); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestInit_FiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: WarnLevel, Output: &buf})

	Debug().Msg("subscribe")
	Info().Msg("publish")
	Warn().Str("channel", "boat.select").Msg("mirror publish failed")
	Error().Err(os.ErrClosed).Msg("delivery fault")

	recs := lines(t, &buf)
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d: %s", len(recs), buf.String())
	}
	if recs[0]["channel"] != "boat.select" || recs[0]["level"] != "warn" {
		t.Errorf("unexpected warn record: %v", recs[0])
	}
	if recs[1]["error"] != os.ErrClosed.Error() {
		t.Errorf("expected error field, got %v", recs[1])
	}
}

func TestInit_PrettyOutput(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: InfoLevel, Output: &buf, Pretty: true})

	Info().Msg("server listening")

	if !strings.Contains(buf.String(), "server listening") {
		t.Errorf("expected message in console output, got %s", buf.String())
	}
	if strings.HasPrefix(buf.String(), "{") {
		t.Errorf("expected console output, got JSON: %s", buf.String())
	}
}

func TestInit_DiscardedOutput(t *testing.T) {
	// The CLI discards logs unless asked to print them.
	Init(Config{Level: DebugLevel, Output: io.Discard})
	Info().Msg("nothing to see")

	if GetLogFilePath() != "" {
		t.Error("expected no log file")
	}
}

func TestLogToFile(t *testing.T) {
	dir := t.TempDir()

	Init(Config{Level: InfoLevel, Output: io.Discard, LogToFile: true, LogDir: dir})
	defer Close()

	serverLog := Component("server")
	serverLog.Info().Msg("file log test")

	path := GetLogFilePath()
	if filepath.Dir(path) != dir {
		t.Fatalf("log file %q not in %q", path, dir)
	}
	if name := filepath.Base(path); !strings.HasPrefix(name, "boatbus-") || !strings.HasSuffix(name, ".log") {
		t.Errorf("unexpected log file name: %s", name)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(content), `"component":"server"`) {
		t.Errorf("log file missing record: %s", content)
	}

	Close()
	if GetLogFilePath() != "" {
		t.Error("expected no log file after Close")
	}
}

func TestInit_ReplacesLogFile(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()

	Init(Config{Output: io.Discard, LogToFile: true, LogDir: first})
	firstPath := GetLogFilePath()

	Init(Config{Output: io.Discard, LogToFile: true, LogDir: second})
	defer Close()

	if got := GetLogFilePath(); filepath.Dir(got) != second {
		t.Errorf("expected log file in %s, got %s", second, got)
	}
	if _, err := os.Stat(firstPath); err != nil {
		t.Errorf("first log file should be kept: %v", err)
	}
}

func TestComponent(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: InfoLevel, Output: &buf})

	eventLog := Component("event")
	eventLog.Info().Int("subscribers", 3).Msg("publish")
	pageLog := With().Str("page", "page-1").Logger()
	pageLog.Info().Msg("connected")

	recs := lines(t, &buf)
	if recs[0]["component"] != "event" || recs[0]["subscribers"] != float64(3) {
		t.Errorf("unexpected component record: %v", recs[0])
	}
	if recs[1]["page"] != "page-1" {
		t.Errorf("expected page field, got %v", recs[1])
	}
}

func TestWatermillAdapter(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: DebugLevel, Output: &buf})

	adapter := Watermill().With(watermill.LogFields{"topic": "boat.select"})
	adapter.Error("publish failed", os.ErrClosed, watermill.LogFields{"attempt": 2})
	adapter.Info("subscribed", nil)
	adapter.Trace("sending", nil)

	recs := lines(t, &buf)
	if len(recs) != 2 {
		t.Fatalf("expected trace to be filtered at debug, got %d records", len(recs))
	}
	for _, rec := range recs {
		if rec["topic"] != "boat.select" || rec["component"] != "watermill" {
			t.Errorf("expected inherited fields, got %v", rec)
		}
	}
	if recs[0]["attempt"] != float64(2) || recs[0]["level"] != "error" {
		t.Errorf("unexpected error record: %v", recs[0])
	}
	if recs[1]["level"] != "debug" {
		t.Errorf("expected info to be demoted to debug, got %v", recs[1])
	}
}

func TestWatermillAdapter_QuietAtInfo(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: InfoLevel, Output: &buf})

	Watermill().Info("subscribed", watermill.LogFields{"topic": "boat.message"})

	if buf.Len() != 0 {
		t.Errorf("expected watermill info to stay hidden at info level, got %s", buf.String())
	}
}
