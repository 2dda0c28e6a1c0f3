package compose

import (
	"bytes"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alfbr/opm-utilities/src/style"
)

func day(n int) time.Time {
	return time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

func makeSeries(vector, caseID string, caseIdx int, values ...float64) Series {
	dates := make([]time.Time, len(values))
	for i := range values {
		dates[i] = day(i)
	}
	return Series{Vector: vector, CaseID: caseID, CaseIdx: caseIdx, Dates: dates, Values: values}
}

func TestHistoricalKey(t *testing.T) {
	cases := map[string]string{
		"WOPR:PROD1": "WOPRH:PROD1",
		"FOPR":       "FOPRH",
		"GGPR:GRP1":  "GGPRH:GRP1",
	}
	for in, want := range cases {
		if got := HistoricalKey(in); got != want {
			t.Fatalf("HistoricalKey(%q): got %q want %q", in, got, want)
		}
	}
}

func TestTwoCasesOneVectorOnePanel(t *testing.T) {
	// Scenario: two cases, one vector, no flags.
	asg := style.NewAssigner(style.Options{}, 1, 0, 2, nil)
	series := []Series{
		makeSeries("WOPR:PROD1", "R0", 0, 1, 2, 3),
		makeSeries("WOPR:PROD1", "R1", 1, 2, 3, 4),
	}
	panels := Panels(series, asg, Options{})
	if len(panels) != 1 {
		t.Fatalf("expected 1 panel, got %d", len(panels))
	}
	if panels[0].Title != "WOPR:PROD1" {
		t.Fatalf("title: got %q", panels[0].Title)
	}
	if panels[0].SeriesCount() != 2 {
		t.Fatalf("expected 2 series, got %d", panels[0].SeriesCount())
	}
}

func TestMultiPanelOrderSummaryBeforeCell(t *testing.T) {
	asg := style.NewAssigner(style.Options{}, 2, 1, 1, nil)
	series := []Series{
		{Vector: "SWAT:1,2,3", CaseID: "R0", Cell: true,
			Dates: []time.Time{day(0)}, Values: []float64{0.3}},
		makeSeries("FOPR", "R0", 0, 1, 2),
		makeSeries("WOPR:PROD1", "R0", 0, 3, 4),
	}
	panels := Panels(series, asg, Options{})
	if len(panels) != 3 {
		t.Fatalf("expected 3 panels, got %d", len(panels))
	}
	titles := []string{panels[0].Title, panels[1].Title, panels[2].Title}
	want := []string{"FOPR", "WOPR:PROD1", "SWAT:1,2,3"}
	for i := range want {
		if titles[i] != want[i] {
			t.Fatalf("panel order: got %v want %v", titles, want)
		}
	}
}

func TestSinglePanelModeUntitled(t *testing.T) {
	asg := style.NewAssigner(style.Options{SinglePanel: true}, 2, 0, 1, nil)
	series := []Series{
		makeSeries("FOPR", "R0", 0, 1, 2),
		makeSeries("FGPR", "R0", 0, 3, 4),
	}
	panels := Panels(series, asg, Options{SinglePanel: true})
	if len(panels) != 1 {
		t.Fatalf("expected 1 panel, got %d", len(panels))
	}
	if panels[0].Title != "" {
		t.Fatalf("single panel must be untitled, got %q", panels[0].Title)
	}
	if panels[0].SeriesCount() != 2 {
		t.Fatalf("expected 2 series, got %d", panels[0].SeriesCount())
	}
}

func TestEnsembleScenario(t *testing.T) {
	// Scenario: ensemble mode, three cases, two matched vectors ->
	// six series across two panels.
	asg := style.NewAssigner(style.Options{Ensemble: true}, 2, 0, 3, nil)
	var series []Series
	for ci, id := range []string{"R0", "R1", "R2"} {
		series = append(series,
			makeSeries("FOPR", id, ci, 1, 2),
			makeSeries("FWPR", id, ci, 3, 4),
		)
	}
	panels := Panels(series, asg, Options{})
	if len(panels) != 2 {
		t.Fatalf("expected 2 panels, got %d", len(panels))
	}
	for _, p := range panels {
		if p.SeriesCount() != 3 {
			t.Fatalf("panel %q: expected 3 series, got %d", p.Title, p.SeriesCount())
		}
	}
}

func TestNormalizationRoundTrip(t *testing.T) {
	s := makeSeries("FOPR", "R0", 0, -1, 2, 4)
	if s.MaxAbs() != 4 {
		t.Fatalf("MaxAbs: got %v", s.MaxAbs())
	}
	maxAbs := s.MaxAbs()
	normalized := make([]float64, len(s.Values))
	peak := 0.0
	for i, v := range s.Values {
		normalized[i] = v / maxAbs
		peak = math.Max(peak, normalized[i])
	}
	if peak != 1 {
		t.Fatalf("normalized peak: got %v want 1", peak)
	}
	for i, v := range normalized {
		if v*maxAbs != s.Values[i] {
			t.Fatalf("round trip failed at %d: %v", i, v*maxAbs)
		}
	}
}

func TestMaxAbsIgnoresNaN(t *testing.T) {
	s := makeSeries("FOPR", "R0", 0, math.NaN(), 3, math.Inf(1))
	if s.MaxAbs() != 3 {
		t.Fatalf("MaxAbs with NaN/Inf: got %v", s.MaxAbs())
	}
}

func TestAllNaNSeriesNotDrawn(t *testing.T) {
	asg := style.NewAssigner(style.Options{}, 1, 0, 2, nil)
	series := []Series{
		makeSeries("FOPR", "R0", 0, 1, 2),
		makeSeries("FOPR", "R1", 1, math.NaN(), math.NaN()),
	}
	panels := Panels(series, asg, Options{})
	if panels[0].SeriesCount() != 1 {
		t.Fatalf("all-NaN series should be skipped, got %d drawn", panels[0].SeriesCount())
	}
}

func TestLegendCapSkipsAbsentCases(t *testing.T) {
	// Four cases loaded but the second lacks the vector: with a cap of
	// two, the first two series actually drawn carry labels.
	asg := style.NewAssigner(style.Options{LegendCap: 2}, 1, 0, 4, nil)
	series := []Series{
		makeSeries("FOPR", "R0", 0, 1, 2),
		makeSeries("FOPR", "R2", 2, 2, 3), // R1 contributed no series
		makeSeries("FOPR", "R3", 3, 3, 4),
	}
	panels := Panels(series, asg, Options{})
	var named []string
	for _, s := range panels[0].ch.Series {
		if n := s.GetName(); n != "" {
			named = append(named, n)
		}
	}
	if len(named) != 2 || named[0] != "R0" || named[1] != "R2" {
		t.Fatalf("legended series: %v", named)
	}
}

func TestRenderPNGProducesImage(t *testing.T) {
	asg := style.NewAssigner(style.Options{}, 1, 0, 1, nil)
	panels := Panels([]Series{makeSeries("FOPR", "R0", 0, 1, 2, 3)}, asg, Options{Width: 400, Height: 240})
	b, err := panels[0].RenderPNG()
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(b))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if img.Bounds().Dx() != 400 || img.Bounds().Dy() != 240 {
		t.Fatalf("bounds: %v", img.Bounds())
	}
}

func TestDumpFiles(t *testing.T) {
	dir := t.TempDir()
	asg := style.NewAssigner(style.Options{}, 2, 0, 1, nil)
	panels := Panels([]Series{
		makeSeries("FOPR", "R0", 0, 1, 2, 3),
		makeSeries("FWPR", "R0", 0, 4, 5, 6),
	}, asg, Options{Width: 400, Height: 200})

	pngPath := filepath.Join(dir, DumpPNG)
	svgPath := filepath.Join(dir, DumpSVG)
	if err := DumpFiles(panels, pngPath, svgPath); err != nil {
		t.Fatalf("dump: %v", err)
	}

	b, err := os.ReadFile(pngPath)
	if err != nil {
		t.Fatalf("read png: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(b))
	if err != nil {
		t.Fatalf("decode stacked png: %v", err)
	}
	if img.Bounds().Dy() != 400 {
		t.Fatalf("stacked height: got %d want 400", img.Bounds().Dy())
	}

	svg, err := os.ReadFile(svgPath)
	if err != nil {
		t.Fatalf("read svg: %v", err)
	}
	if !strings.HasPrefix(string(svg), "<svg") {
		t.Fatalf("svg prefix missing")
	}
	if !strings.Contains(string(svg), `y="200"`) {
		t.Fatalf("second panel offset missing from svg")
	}
}

func TestLegendSuppressionMapsToEmptyName(t *testing.T) {
	asg := style.NewAssigner(style.Options{SuppressLegend: true}, 1, 0, 1, nil)
	panels := Panels([]Series{makeSeries("FOPR", "R0", 0, 1, 2)}, asg, Options{})
	// suppressed labels must not leak the sentinel into the chart
	for _, s := range panels[0].ch.Series {
		if s.GetName() == style.NoLegend {
			t.Fatalf("sentinel leaked into chart series name")
		}
	}
}
