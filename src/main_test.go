package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alfbr/opm-utilities/src/eclfile"
)

func writeDeck(t *testing.T, path string, kws ...eclfile.Keyword) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()
	for _, kw := range kws {
		if err := eclfile.WriteKeyword(f, kw); err != nil {
			t.Fatalf("write %s: %v", kw.Name, err)
		}
	}
}

// writeCase lays down a summary-only case with vectors WOPR:PROD1 and
// FOPR (plus history vector FOPRH) over three report dates.
func writeCase(t *testing.T, dir, name string, scale float32) string {
	t.Helper()
	base := filepath.Join(dir, name)
	writeDeck(t, base+".SMSPEC",
		eclfile.Keyword{Name: "KEYWORDS", Kind: eclfile.Char, Strings: []string{"TIME", "WOPR", "FOPR", "FOPRH"}},
		eclfile.Keyword{Name: "WGNAMES", Kind: eclfile.Char, Strings: []string{":+:+:+:+", "PROD1", ":+:+:+:+", ":+:+:+:+"}},
		eclfile.Keyword{Name: "STARTDAT", Kind: eclfile.Inte, Ints: []int32{1, 1, 2020}},
	)
	var rows []eclfile.Keyword
	for i := 0; i < 3; i++ {
		rows = append(rows, eclfile.Keyword{
			Name: "PARAMS", Kind: eclfile.Real,
			Floats: []float32{float32(i * 10), scale * float32(i+1), scale * float32(i+2), scale * float32(i+3)},
		})
	}
	writeDeck(t, base+".UNSMRY", rows...)
	return base
}

func TestClassifyArgs(t *testing.T) {
	dir := t.TempDir()
	base := writeCase(t, dir, "RUN1", 1)

	casePaths, requests := classifyArgs([]string{
		base + ".SMSPEC", // existing file
		base,             // base with .SMSPEC sibling
		"WOPR:PROD1",
		"SWAT:1,2,3",
	})
	if len(casePaths) != 2 {
		t.Fatalf("case paths: %v", casePaths)
	}
	if len(requests) != 2 || requests[0] != "WOPR:PROD1" {
		t.Fatalf("requests: %v", requests)
	}
}

func TestRunPassTwoCasesOneVector(t *testing.T) {
	// Scenario: two cases, one vector, no flags -> one panel with two
	// series and per-case legend labels.
	dir := t.TempDir()
	a := writeCase(t, dir, "R0", 1)
	b := writeCase(t, dir, "R1", 2)

	panels, err := runPass([]string{a, b}, []string{"WOPR:PROD1"}, config{})
	if err != nil {
		t.Fatalf("run pass: %v", err)
	}
	if len(panels) != 1 {
		t.Fatalf("expected 1 panel, got %d", len(panels))
	}
	if panels[0].SeriesCount() != 2 {
		t.Fatalf("expected 2 series, got %d", panels[0].SeriesCount())
	}
	if panels[0].Title != "WOPR:PROD1" {
		t.Fatalf("title: %q", panels[0].Title)
	}
}

func TestRunPassHistoryOverlay(t *testing.T) {
	dir := t.TempDir()
	base := writeCase(t, dir, "R0", 1)

	panels, err := runPass([]string{base}, []string{"FOPR"}, config{hist: true})
	if err != nil {
		t.Fatalf("run pass: %v", err)
	}
	if len(panels) != 1 {
		t.Fatalf("expected 1 panel, got %d", len(panels))
	}
	// the FOPRH overlay joins the FOPR series in the same panel
	if panels[0].SeriesCount() != 2 {
		t.Fatalf("expected case series plus history, got %d", panels[0].SeriesCount())
	}
}

func TestRunPassNoVectorsIsFatal(t *testing.T) {
	dir := t.TempDir()
	base := writeCase(t, dir, "R0", 1)

	if _, err := runPass([]string{base}, []string{"NOSUCH"}, config{}); err == nil {
		t.Fatalf("expected resolution failure")
	}
}

func TestRunPassNoCasesIsFatal(t *testing.T) {
	if _, err := runPass([]string{"/nonexistent/CASE"}, []string{"FOPR"}, config{}); err == nil {
		t.Fatalf("expected load failure")
	}
}

func TestRunPassWildcardAcrossPanels(t *testing.T) {
	dir := t.TempDir()
	base := writeCase(t, dir, "R0", 1)

	panels, err := runPass([]string{base}, []string{"F*"}, config{})
	if err != nil {
		t.Fatalf("run pass: %v", err)
	}
	// FOPR and FOPRH both match the wildcard; one panel each
	if len(panels) != 2 {
		t.Fatalf("expected 2 panels, got %d", len(panels))
	}
}

func TestRunPassSinglePanel(t *testing.T) {
	dir := t.TempDir()
	base := writeCase(t, dir, "R0", 1)

	panels, err := runPass([]string{base}, []string{"FOPR", "WOPR:PROD1"}, config{singlePanel: true})
	if err != nil {
		t.Fatalf("run pass: %v", err)
	}
	if len(panels) != 1 || panels[0].Title != "" {
		t.Fatalf("single-panel composition broken: %d panels, title %q", len(panels), panels[0].Title)
	}
	if panels[0].SeriesCount() != 2 {
		t.Fatalf("expected 2 series, got %d", panels[0].SeriesCount())
	}
}
