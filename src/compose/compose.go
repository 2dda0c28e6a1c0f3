// Package compose groups resolved series into chart panels and renders
// them.
package compose

import (
	"bytes"
	"fmt"
	"math"
	"strings"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/alfbr/opm-utilities/src/plog"
	"github.com/alfbr/opm-utilities/src/style"
)

// Series is one fully-resolved (vector, case) time series, the unit
// the composer consumes. Derived quantities arrive here materialized;
// nothing downstream distinguishes them from stored ones.
type Series struct {
	Vector     string
	CaseID     string
	CaseIdx    int // case load order, drives colour/legend assignment
	Dates      []time.Time
	Values     []float64
	Historical bool
	Cell       bool // restart-cell vector; cell panels follow summary panels
}

// MaxAbs returns the largest finite |value| of the series.
func (s *Series) MaxAbs() float64 {
	m := 0.0
	for _, v := range s.Values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		m = math.Max(m, math.Abs(v))
	}
	return m
}

// HistoricalKey derives the observed-history vector for a summary
// vector: an H suffix on the base mnemonic, preserving any well/group
// qualifier ("WOPR:PROD1" -> "WOPRH:PROD1", "FOPR" -> "FOPRH").
func HistoricalKey(key string) string {
	if idx := strings.Index(key, ":"); idx >= 0 {
		return key[:idx] + "H" + key[idx:]
	}
	return key + "H"
}

// Options configures one composition pass.
type Options struct {
	SinglePanel bool
	Normalize   bool
	Width       int
	Height      int
}

const (
	defaultWidth  = 900
	defaultHeight = 360
)

// Panel is one finished chart, ready to render.
type Panel struct {
	Title string
	ch    chart.Chart
}

var gridlineGrey = drawing.Color{R: 0xd0, G: 0xd0, B: 0xd0, A: 255}

// Panels groups the series into one or more panels. In multi-panel
// mode there is one panel per distinct matched vector followed by one
// per distinct restart-cell vector; in single-panel mode every series
// lands in one untitled panel.
func Panels(all []Series, asg *style.Assigner, opt Options) []Panel {
	if opt.Width <= 0 {
		opt.Width = defaultWidth
	}
	if opt.Height <= 0 {
		opt.Height = defaultHeight
	}

	vectorIdx := map[string]int{}
	var order []string
	for pass := 0; pass < 2; pass++ {
		for i := range all {
			s := &all[i]
			if s.Historical || s.Cell != (pass == 1) {
				continue
			}
			if _, seen := vectorIdx[s.Vector]; !seen {
				vectorIdx[s.Vector] = len(order)
				order = append(order, s.Vector)
			}
		}
	}

	var panels []Panel
	if opt.SinglePanel {
		panels = append(panels, buildPanel("", all, vectorIdx, asg, opt))
		return panels
	}
	for _, vec := range order {
		var group []Series
		for i := range all {
			if all[i].Vector == vec {
				group = append(group, all[i])
			}
		}
		title := vec + asg.TitleAnnotation()
		panels = append(panels, buildPanel(title, group, vectorIdx, asg, opt))
	}
	return panels
}

func buildPanel(title string, group []Series, vectorIdx map[string]int, asg *style.Assigner, opt Options) Panel {
	var chSeries []chart.Series
	var legended []chart.Series
	drawn := map[string]int{} // vector -> series drawn so far; legend slots follow this, not case load order
	for i := range group {
		s := &group[i]
		dates, values := finitePoints(s.Dates, s.Values)
		if len(values) == 0 {
			plog.Debugf("series %s/%s has no finite samples, not drawn", s.Vector, s.CaseID)
			continue
		}
		maxAbs := s.MaxAbs()
		a := asg.Assign(style.Context{
			Vector:     s.Vector,
			CaseID:     s.CaseID,
			VectorIdx:  vectorIdx[s.Vector],
			CaseIdx:    s.CaseIdx,
			SeriesIdx:  drawn[s.Vector],
			Historical: s.Historical,
			MaxAbs:     maxAbs,
		})
		if !s.Historical {
			drawn[s.Vector]++
		}
		if opt.Normalize && maxAbs > 0 {
			scaled := make([]float64, len(values))
			for j, v := range values {
				scaled[j] = v / maxAbs
			}
			values = scaled
		}

		name := a.Label
		if name == style.NoLegend {
			name = ""
		}
		st := chart.Style{
			StrokeColor: a.Color.WithAlpha(uint8(math.Round(a.Alpha * 255))),
			StrokeWidth: 1.5,
		}
		if s.Historical {
			// observed history: black dots, no connecting line
			st = chart.Style{
				StrokeWidth: 0,
				DotWidth:    3,
				DotColor:    a.Color.WithAlpha(uint8(math.Round(a.Alpha * 255))),
			}
		}
		ts := chart.TimeSeries{Name: name, XValues: dates, YValues: values, Style: st}
		chSeries = append(chSeries, ts)
		if name != "" {
			legended = append(legended, ts)
		}
	}

	ch := chart.Chart{
		Title:  title,
		Width:  opt.Width,
		Height: opt.Height,
		Background: chart.Style{
			FillColor: drawing.ColorWhite,
			Padding:   chart.Box{Top: 14, Left: 16, Right: 12, Bottom: 8},
		},
		Canvas: chart.Style{FillColor: drawing.ColorWhite},
		XAxis: chart.XAxis{
			Name:           "Date",
			GridMajorStyle: chart.Style{StrokeColor: gridlineGrey, StrokeWidth: 1},
		},
		YAxis: chart.YAxis{
			GridMajorStyle: chart.Style{StrokeColor: gridlineGrey, StrokeWidth: 1},
		},
		Series: chSeries,
	}
	if len(legended) > 0 {
		// the legend renderable reads Series from the chart it is handed;
		// give it a copy restricted to the labelled ones
		legendSrc := ch
		legendSrc.Series = legended
		ch.Elements = []chart.Renderable{chart.Legend(&legendSrc)}
	}
	return Panel{Title: title, ch: ch}
}

func finitePoints(dates []time.Time, values []float64) ([]time.Time, []float64) {
	n := len(values)
	if len(dates) < n {
		n = len(dates)
	}
	outD := make([]time.Time, 0, n)
	outV := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		if math.IsNaN(values[i]) || math.IsInf(values[i], 0) {
			continue
		}
		outD = append(outD, dates[i])
		outV = append(outV, values[i])
	}
	return outD, outV
}

// SeriesCount returns the number of drawable series in the panel.
func (p *Panel) SeriesCount() int { return len(p.ch.Series) }

// RenderPNG renders the panel to PNG bytes.
func (p *Panel) RenderPNG() ([]byte, error) {
	var buf bytes.Buffer
	if err := p.ch.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render panel %q: %w", p.Title, err)
	}
	return buf.Bytes(), nil
}

// RenderSVG renders the panel to a standalone SVG document.
func (p *Panel) RenderSVG() ([]byte, error) {
	var buf bytes.Buffer
	if err := p.ch.Render(chart.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render panel %q: %w", p.Title, err)
	}
	return buf.Bytes(), nil
}

// Width and Height report the panel's render size in pixels.
func (p *Panel) Width() int  { return p.ch.Width }
func (p *Panel) Height() int { return p.ch.Height }
