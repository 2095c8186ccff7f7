package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const sampleLog = `{"time":"2026-03-01T10:00:00Z","level":"INFO","msg":"run started","run_id":"abc-1","mode":"level"}
{"time":"2026-03-01T10:00:01Z","level":"DEBUG","msg":"partitioned walls","run_id":"abc-1","phase":"build","conflicting":1}
not json at all
{"time":"2026-03-01T10:00:02Z","level":"WARN","msg":"placement failed","run_id":"abc-1","phase":"replicate","level_name":"Level 3"}
{"time":"2026-03-01T10:00:03Z","level":"INFO","msg":"run started","run_id":"def-2"}
`

func writeSample(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte(sampleLog), 0644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestReadLog(t *testing.T) {
	dir := writeSample(t)

	entries, err := ReadLog(dir)
	if err != nil {
		t.Fatalf("ReadLog failed: %v", err)
	}
	if len(entries) != 4 {
		t.Fatalf("expected 4 entries (bad line skipped), got %d", len(entries))
	}

	second := entries[1]
	if second.RunID != "abc-1" || second.Phase != "build" || second.Level != "DEBUG" {
		t.Errorf("entry = %+v", second)
	}
	if second.Attrs["conflicting"] != float64(1) {
		t.Errorf("Attrs = %v", second.Attrs)
	}
	if _, ok := second.Attrs[KeyRun]; ok {
		t.Error("run id should not be duplicated into Attrs")
	}
}

func TestReadLog_IncludesBackups(t *testing.T) {
	dir := writeSample(t)
	older := `{"time":"2026-02-28T09:00:00Z","level":"INFO","msg":"older run","run_id":"old-0"}` + "\n"
	if err := os.WriteFile(BackupPath(filepath.Join(dir, FileName), 1), []byte(older), 0644); err != nil {
		t.Fatal(err)
	}

	entries, err := ReadLog(dir)
	if err != nil {
		t.Fatalf("ReadLog failed: %v", err)
	}
	if len(entries) != 5 {
		t.Fatalf("expected 5 entries, got %d", len(entries))
	}
	if entries[0].Message != "older run" {
		t.Errorf("first entry = %q, want the backup entry sorted first", entries[0].Message)
	}
}

func TestReadLog_Missing(t *testing.T) {
	if _, err := ReadLog(t.TempDir()); err == nil {
		t.Error("ReadLog on an empty directory should fail")
	}
}

func TestFilterLogs(t *testing.T) {
	entries, err := ReadLog(writeSample(t))
	if err != nil {
		t.Fatalf("ReadLog failed: %v", err)
	}

	tests := []struct {
		name   string
		filter Filter
		want   int
	}{
		{"no filter", Filter{}, 4},
		{"level at or above info", Filter{Level: "info"}, 3},
		{"level warn", Filter{Level: LevelWarn}, 1},
		{"run prefix", Filter{RunID: "abc"}, 3},
		{"phase", Filter{Phase: "replicate"}, 1},
		{"message", Filter{MessageContains: "started"}, 2},
		{"since", Filter{Since: time.Date(2026, 3, 1, 10, 0, 2, 0, time.UTC)}, 2},
		{"combined", Filter{RunID: "abc-1", MessageContains: "started"}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FilterLogs(entries, tt.filter); len(got) != tt.want {
				t.Errorf("FilterLogs() returned %d entries, want %d", len(got), tt.want)
			}
		})
	}
}

func TestFilterLogs_UnknownLevel(t *testing.T) {
	entries := []Entry{
		{Level: LevelInfo, Message: "placed instance"},
		{Level: "Level 2", Message: "mangled level"},
		{Level: LevelError, Message: "saving model failed"},
	}

	got := FilterLogs(entries, Filter{Level: "error"})
	if len(got) != 1 || got[0].Message != "saving model failed" {
		t.Errorf("FilterLogs(error) = %+v, want only the error entry", got)
	}
	if got := FilterLogs(entries, Filter{}); len(got) != 3 {
		t.Errorf("FilterLogs() without a level returned %d entries, want 3", len(got))
	}
}

func TestReadLog_LevelAttributeDoesNotClobberLevel(t *testing.T) {
	dir := t.TempDir()
	logger, err := New(Options{Dir: dir, Level: LevelInfo, Rotation: DefaultRotationConfig()})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	logger.WithPhase("replicate").Info("placed instance", "target_level", "Level 2", "group", 42)
	if err := logger.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	entries, err := ReadLog(dir)
	if err != nil {
		t.Fatalf("ReadLog failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if entries[0].Level != LevelInfo || entries[0].Attrs["target_level"] != "Level 2" {
		t.Errorf("entry = %+v", entries[0])
	}
	if got := FilterLogs(entries, Filter{Level: LevelError}); len(got) != 0 {
		t.Errorf("FilterLogs(ERROR) = %+v, want none", got)
	}
}

func TestTail(t *testing.T) {
	entries := []Entry{{Message: "a"}, {Message: "b"}, {Message: "c"}}
	if got := Tail(entries, 2); len(got) != 2 || got[0].Message != "b" {
		t.Errorf("Tail(2) = %+v", got)
	}
	if got := Tail(entries, 0); len(got) != 3 {
		t.Errorf("Tail(0) = %+v, want all", got)
	}
	if got := Tail(entries, 10); len(got) != 3 {
		t.Errorf("Tail(10) = %+v, want all", got)
	}
}

func TestWriteText(t *testing.T) {
	entries := []Entry{{
		Time:    time.Date(2026, 3, 1, 10, 0, 2, 0, time.UTC),
		Level:   LevelWarn,
		Message: "placement failed",
		RunID:   "abc-1",
		Phase:   "replicate",
		Attrs:   map[string]any{"level_name": "Level 3"},
	}}

	var buf bytes.Buffer
	if err := WriteText(&buf, entries); err != nil {
		t.Fatalf("WriteText failed: %v", err)
	}
	want := `[2026-03-01 10:00:02.000] WARN - placement failed (run=abc-1, phase=replicate) {"level_name":"Level 3"}`
	if got := strings.TrimSpace(buf.String()); got != want {
		t.Errorf("WriteText() =\n%s\nwant\n%s", got, want)
	}
}
