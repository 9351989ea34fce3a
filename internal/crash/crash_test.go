package crash

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"layoutbuilder/internal/dnd"
	"layoutbuilder/internal/domain"
	"layoutbuilder/internal/layout"
	"layoutbuilder/internal/storage"
)

func newController(t *testing.T) *dnd.Controller {
	t.Helper()
	b, err := layout.NewBoard(domain.DefaultCatalog(), 6, 3)
	if err != nil {
		t.Fatalf("NewBoard: %v", err)
	}
	c := dnd.NewController(b)
	c.GestureStart("header-1")
	c.GestureEnd("header-1", "slot-1")
	return c
}

type brokenSource struct{}

func (brokenSource) CommittedDocument() layout.Document { panic("no board") }

func TestWriteReportCreatesFileInTemp(t *testing.T) {
	path, err := writeReport("", nil, "boom", []byte("stacktrace"))
	if err != nil {
		t.Fatalf("writeReport error: %v", err)
	}
	t.Cleanup(func() { _ = os.Remove(path) })
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	s := string(b)
	if !strings.Contains(s, "Layout Builder Crash Report") {
		t.Fatalf("report header missing")
	}
	if !strings.Contains(s, "Panic: boom") {
		t.Fatalf("panic content missing: %s", s)
	}
	if strings.Contains(s, "Layout:\n") {
		t.Fatalf("no layout expected without a source")
	}
}

func TestWriteReportIncludesLayout(t *testing.T) {
	dir := t.TempDir()
	path, err := writeReport(dir, newController(t), "kaboom", []byte("stack"))
	if err != nil {
		t.Fatalf("writeReport error: %v", err)
	}
	if filepath.Dir(path) != filepath.Join(dir, storage.JournalDirName) {
		t.Fatalf("expected report under %s, got %s", storage.JournalDirName, path)
	}
	b, _ := os.ReadFile(path)
	if !strings.Contains(string(b), `"id": "header-1"`) {
		t.Fatalf("layout missing from report: %s", b)
	}
}

func TestWriteReportSurvivesBrokenSource(t *testing.T) {
	path, err := writeReport(t.TempDir(), brokenSource{}, "boom", nil)
	if err != nil {
		t.Fatalf("writeReport error: %v", err)
	}
	b, _ := os.ReadFile(path)
	if !strings.Contains(string(b), "unavailable: no board") {
		t.Fatalf("expected placeholder for broken source: %s", b)
	}
}

func TestRecover_WritesReportAndExits(t *testing.T) {
	oldStderr := os.Stderr
	r, w, _ := os.Pipe()
	os.Stderr = w
	defer func() {
		_ = w.Close()
		os.Stderr = oldStderr
		_, _ = io.Copy(io.Discard, r)
	}()

	code := 0
	oldExit := exitFn
	exitFn = func(c int) { code = c }
	defer func() { exitFn = oldExit }()

	dir := t.TempDir()
	ctrl := newController(t)
	func() {
		defer Recover(dir, ctrl)
		panic("boom")
	}()

	files, _ := os.ReadDir(filepath.Join(dir, storage.JournalDirName))
	var found string
	for _, f := range files {
		if strings.HasPrefix(f.Name(), "crash-") && strings.HasSuffix(f.Name(), ".log") {
			found = filepath.Join(dir, storage.JournalDirName, f.Name())
		}
	}
	if found == "" {
		t.Fatalf("expected crash report file")
	}
	b, _ := os.ReadFile(found)
	if !strings.Contains(string(b), "Panic: boom") {
		t.Fatalf("report does not contain panic: %s", b)
	}
	if code != 2 {
		t.Fatalf("expected exit code 2, got %d", code)
	}
}

func TestRecover_NoPanicIsNoop(t *testing.T) {
	called := false
	oldExit := exitFn
	exitFn = func(int) { called = true }
	defer func() { exitFn = oldExit }()
	func() {
		defer Recover(t.TempDir(), nil)
	}()
	if called {
		t.Fatalf("exit must not be called without a panic")
	}
}
