package progresslog

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/verte-zerg/wordsprint/internal/model"
)

func TestResolveName(t *testing.T) {
	cases := map[string]string{
		"":              "progress.log",
		"  ":            "progress.log",
		"session":       "session.log",
		"session.log":   "session.log",
		"dir/results":   "dir/results.log",
		"notes.txt":     "notes.txt.log",
		"progress.log2": "progress.log2.log",
	}
	for in, want := range cases {
		if got := ResolveName(in); got != want {
			t.Fatalf("ResolveName(%q) = %q, want %q", in, got, want)
		}
	}
	if got := New("").Path(); got != "progress.log" {
		t.Fatalf("expected default path, got %q", got)
	}
}

func TestFlushWritesRecordsInOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "results")
	l := New(path)
	records := []model.ResultRecord{
		{Label: "english.num", Interval: 60, Hits: 14, Misses: 3},
		{Label: "russian.num", Interval: 30, Hits: 5, Misses: 0},
		{Label: "english.num", Interval: 30, Hits: 9, Misses: 2},
	}
	for _, r := range records {
		l.Record(r)
	}
	if l.Len() != 3 {
		t.Fatalf("expected 3 pending records, got %d", l.Len())
	}
	if err := l.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if l.Len() != 0 {
		t.Fatalf("expected empty buffer after flush, got %d", l.Len())
	}

	data, err := os.ReadFile(path + ".log")
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	expected := "\"english.num\", 60, 14, 3\n\"russian.num\", 30, 5, 0\n\"english.num\", 30, 9, 2\n"
	if string(data) != expected {
		t.Fatalf("unexpected log contents:\n%s", data)
	}
}

func TestFlushAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "progress.log")
	if err := os.WriteFile(path, []byte("\"old.num\", 30, 1, 1\n"), 0o644); err != nil {
		t.Fatalf("seed log: %v", err)
	}
	l := New(path)
	l.Record(model.ResultRecord{Label: "new.num", Interval: 60, Hits: 2, Misses: 0})
	if err := l.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	// A second flush with nothing buffered must not touch the file.
	if err := l.Flush(); err != nil {
		t.Fatalf("empty flush: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	if len(lines) != 2 || lines[1] != `"new.num", 60, 2, 0` {
		t.Fatalf("unexpected log lines: %q", lines)
	}
}

func TestFlushFailureKeepsBuffer(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	if err := os.WriteFile(blocker, []byte("file, not a directory"), 0o644); err != nil {
		t.Fatalf("write blocker: %v", err)
	}
	l := New(filepath.Join(blocker, "progress"))
	rec := model.ResultRecord{Label: "english.num", Interval: 60, Hits: 1, Misses: 1}
	l.Record(rec)

	err := l.Flush()
	if err == nil {
		t.Fatalf("expected flush to fail")
	}
	var persistErr *PersistError
	if !errors.As(err, &persistErr) {
		t.Fatalf("expected *PersistError, got %T", err)
	}
	if persistErr.Path != l.Path() {
		t.Fatalf("unexpected error path %q", persistErr.Path)
	}
	pending := l.Pending()
	if len(pending) != 1 || pending[0] != rec {
		t.Fatalf("expected buffer to be retained, got %+v", pending)
	}

	// Retry against a writable destination succeeds with the same records.
	l.path = filepath.Join(dir, "retry.log")
	if err := l.Flush(); err != nil {
		t.Fatalf("retry flush: %v", err)
	}
	if l.Len() != 0 {
		t.Fatalf("expected empty buffer after retry")
	}
}

func TestPendingIsACopy(t *testing.T) {
	l := New("x")
	l.Record(model.ResultRecord{Label: "a", Interval: 30})
	pending := l.Pending()
	pending[0].Label = "changed"
	if l.Pending()[0].Label != "a" {
		t.Fatalf("pending must not alias the buffer")
	}
}
