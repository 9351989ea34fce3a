package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"layoutbuilder/internal/dnd"
	"layoutbuilder/internal/domain"
	"layoutbuilder/internal/layout"
	"layoutbuilder/internal/version"
)

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("LB_TELEMETRY_OPT_IN", "")
	t.Setenv("LB_EXPORT_DIR", "")
	var out, errOut bytes.Buffer
	root := New(&out).RootCommand()
	root.SetErr(&errOut)
	root.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "config.yaml")}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func newController(t *testing.T) *dnd.Controller {
	t.Helper()
	b, err := layout.NewBoard(domain.DefaultCatalog(), 6, 3)
	if err != nil {
		t.Fatalf("NewBoard: %v", err)
	}
	return dnd.NewController(b)
}

func TestParsePlacements(t *testing.T) {
	ps, err := parsePlacements([]string{"header-1=slot-0", " hero-1 = slot-3 "})
	if err != nil {
		t.Fatalf("parsePlacements: %v", err)
	}
	if len(ps) != 2 || ps[1] != (placement{ID: "hero-1", Slot: "slot-3"}) {
		t.Fatalf("unexpected placements: %+v", ps)
	}
	for _, bad := range []string{"header-1", "=slot-0", "header-1="} {
		if _, err := parsePlacements([]string{bad}); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}

func TestApply_SkipsRejectedDrops(t *testing.T) {
	ctrl := newController(t)
	var warnings []string
	err := apply(ctrl, []placement{
		{"header-1", "slot-0"},
		{"hero-1", "slot-2"}, // wide box cannot wrap rows
		{"ghost", "slot-1"},
		{"hero-1", "slot-3"},
	}, false, func(s string) { warnings = append(warnings, s) })
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if len(warnings) != 2 {
		t.Fatalf("expected two warnings, got %v", warnings)
	}
	doc := ctrl.Document()
	if len(doc.Placed()) != 2 {
		t.Fatalf("expected two placed boxes, got %d", len(doc.Placed()))
	}
}

func TestApply_StrictFails(t *testing.T) {
	ctrl := newController(t)
	err := apply(ctrl, []placement{{"hero-1", "slot-2"}}, true, func(string) {})
	if !errors.Is(err, ErrPlacement) {
		t.Fatalf("expected ErrPlacement, got %v", err)
	}
}

func TestVersionCommand(t *testing.T) {
	out, _, err := run(t, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.Contains(out, version.String()) {
		t.Fatalf("version output %q", out)
	}
}

func TestCatalogCommand_GroupsByCategory(t *testing.T) {
	out, _, err := run(t, "catalog")
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	layoutAt := strings.Index(out, "Layout\n")
	formsAt := strings.Index(out, "Forms\n")
	if layoutAt < 0 || formsAt < layoutAt {
		t.Fatalf("categories missing or out of order:\n%s", out)
	}
	if !strings.Contains(out, "Hero Section ↔") {
		t.Fatalf("wide indicator missing:\n%s", out)
	}
}

func TestCatalogCommand_CustomFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "boxes.yaml")
	data := "boxes:\n  - id: a\n    category: Misc\n    label: Alpha\n    footprint: normal\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	out, _, err := run(t, "--catalog", path, "catalog")
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	if !strings.Contains(out, "Misc") || !strings.Contains(out, "Alpha") {
		t.Fatalf("custom catalog not listed:\n%s", out)
	}
}

func TestExportAndListJournal(t *testing.T) {
	dir := t.TempDir()
	out, errOut, err := run(t, "export", "--dir", dir, "--format", "svg",
		"--place", "header-1=slot-0", "--place", "hero-1=slot-2")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if !strings.Contains(errOut, "skipped hero-1") {
		t.Fatalf("expected a skipped placement warning, got %q", errOut)
	}
	svg := filepath.Join(dir, "layout.svg")
	if !strings.Contains(out, svg) {
		t.Fatalf("export output %q does not name %s", out, svg)
	}
	if _, err := os.Stat(svg); err != nil {
		t.Fatalf("svg not written: %v", err)
	}

	out, _, err = run(t, "exports", "--dir", dir)
	if err != nil {
		t.Fatalf("exports: %v", err)
	}
	if !strings.Contains(out, "svg") || !strings.Contains(out, svg) {
		t.Fatalf("journal listing missing export:\n%s", out)
	}
}

func TestExportPreset(t *testing.T) {
	dir := t.TempDir()
	if _, _, err := run(t, "export", "--dir", dir, "--format", "web", "--place", "card-1=slot-4"); err != nil {
		t.Fatalf("export: %v", err)
	}
	for _, name := range []string{"layout.svg", "layout.png"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Fatalf("%s not written: %v", name, err)
		}
	}
	if _, _, err := run(t, "export", "--dir", dir, "--format", "gif"); err == nil {
		t.Fatalf("expected an error for an unknown format")
	}
}

func TestExportStrict(t *testing.T) {
	_, _, err := run(t, "export", "--dir", t.TempDir(), "--strict", "--place", "nope=slot-0")
	if !errors.Is(err, ErrPlacement) {
		t.Fatalf("expected ErrPlacement, got %v", err)
	}
}

func TestDocumentWithoutController(t *testing.T) {
	c := New(&bytes.Buffer{})
	if doc := c.CommittedDocument(); len(doc.Slots) != 0 {
		t.Fatalf("expected empty document, got %+v", doc)
	}
}
