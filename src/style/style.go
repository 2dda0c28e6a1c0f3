// Package style assigns colour, legend label, and transparency to every
// plotted (vector, case) pair.
//
// Assignment is a pure function of the assigner's options and the
// per-series Context, so a rerender over identical inputs reproduces
// identical output, and the four display modes stay independently
// testable.
package style

import (
	"fmt"
	"math"

	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/alfbr/opm-utilities/src/plog"
	"github.com/alfbr/opm-utilities/src/sim"
)

// NoLegend is the label sentinel for series that must not appear in the
// panel legend.
const NoLegend = "_nolegend_"

// DefaultLegendCap bounds the number of legend entries per vector.
const DefaultLegendCap = 5

// Options selects the display mode and legend behavior for one render
// pass.
type Options struct {
	Ensemble       bool // colour by vector identity rather than case identity
	SinglePanel    bool
	Normalize      bool
	SuppressLegend bool
	LegendCap      int    // distinct legend entries per vector; DefaultLegendCap when zero
	ParamName      string // colouring parameter, "" when inactive
	LogParam       bool   // log10-normalize the colouring parameter
}

// Context describes one series within the render pass.
type Context struct {
	Vector     string
	CaseID     string
	VectorIdx  int // index of the vector among all plotted vectors
	CaseIdx    int // index of the case in load order
	SeriesIdx  int // running index among the vector's drawn series; drives the legend rules
	Historical bool
	MaxAbs     float64 // the series' own maximum absolute value
}

// Assignment is the computed appearance of one series.
type Assignment struct {
	Color drawing.Color
	Label string
	Alpha float64
}

// Assigner computes assignments for a fixed set of vectors and cases.
type Assigner struct {
	opt        Options
	numCases   int
	palette    []drawing.Color
	paramNorm  map[string]float64 // case ID -> normalized [0,1]; nil when inactive
	annotation string
}

// NewAssigner sizes the colour space for the pass: one colour per case
// normally, one per plotted vector in ensemble mode, one per matched
// summary vector in single-panel mode. When a colouring parameter is
// active the categorical palette is replaced by the parameter gradient,
// unless the parameter's value range is degenerate, in which case
// parameter colouring is disabled for the run with a diagnostic.
func NewAssigner(opt Options, numSummary, numCells, numCases int, params *sim.ParamTable) *Assigner {
	if opt.LegendCap <= 0 {
		opt.LegendCap = DefaultLegendCap
	}
	a := &Assigner{opt: opt, numCases: numCases}
	switch {
	case opt.Ensemble:
		a.palette = Palette(numSummary + numCells)
	case opt.SinglePanel:
		n := numSummary
		if n == 0 {
			n = numCells
		}
		a.palette = Palette(n)
	default:
		a.palette = Palette(numCases)
	}
	if opt.ParamName != "" && params != nil {
		norm, ok := normalizeParams(params, opt.LogParam)
		if !ok {
			plog.Warnf("colouring parameter %q has a degenerate value range; parameter colouring disabled (closest known key: %q)",
				opt.ParamName, sim.NearestKey(opt.ParamName, params.KnownKeys()))
		} else {
			a.paramNorm = norm
			a.annotation = fmt.Sprintf(" (coloured by %s)", opt.ParamName)
			if opt.LogParam {
				a.annotation = fmt.Sprintf(" (coloured by log10(%s))", opt.ParamName)
			}
		}
	}
	return a
}

// ParamActive reports whether parameter colouring survived range
// validation.
func (a *Assigner) ParamActive() bool { return a.paramNorm != nil }

// TitleAnnotation is appended to panel titles when parameter colouring
// is active ("" otherwise).
func (a *Assigner) TitleAnnotation() string { return a.annotation }

// Assign computes the appearance of one series.
func (a *Assigner) Assign(ctx Context) Assignment {
	return Assignment{
		Color: a.colorFor(ctx),
		Label: a.labelFor(ctx),
		Alpha: AlphaFor(a.opt.Ensemble, a.numCases),
	}
}

func (a *Assigner) colorFor(ctx Context) drawing.Color {
	if ctx.Historical {
		return drawing.ColorBlack
	}
	if a.paramNorm != nil {
		return Gradient(a.paramNorm[ctx.CaseID])
	}
	idx := ctx.CaseIdx
	if a.opt.Ensemble || a.opt.SinglePanel {
		idx = ctx.VectorIdx
	}
	if len(a.palette) == 0 {
		return drawing.ColorBlack
	}
	return a.palette[idx%len(a.palette)]
}

// labelFor evaluates the legend rules in precedence order: historical
// suppression, the legend cap, ensemble first-case-only, single-panel
// combined labels, and finally the bare case identifier.
func (a *Assigner) labelFor(ctx Context) string {
	if a.opt.SuppressLegend {
		return NoLegend
	}
	if ctx.Historical {
		// Normalization reattaches a label so the scale factor stays
		// recoverable from the plot.
		if a.opt.Normalize && ctx.MaxAbs > 0 {
			return fmt.Sprintf("hist (max=%.4g)", ctx.MaxAbs)
		}
		return NoLegend
	}
	if ctx.SeriesIdx >= a.opt.LegendCap {
		return NoLegend
	}
	var base string
	switch {
	case a.opt.Ensemble:
		if ctx.SeriesIdx != 0 {
			return NoLegend
		}
		base = ctx.Vector
	case a.opt.SinglePanel:
		base = ctx.Vector + ", " + ctx.CaseID
	default:
		base = ctx.CaseID
	}
	if a.opt.Normalize && ctx.MaxAbs > 0 {
		base += fmt.Sprintf(" (max=%.4g)", ctx.MaxAbs)
	}
	return base
}

// AlphaFor returns the series transparency: 0.7 normally; in ensemble
// mode it falls linearly to 0.4 as the case count grows from 5 to 50
// and stays at 0.4 beyond, keeping dense overlays legible.
func AlphaFor(ensemble bool, numCases int) float64 {
	if !ensemble {
		return 0.7
	}
	switch {
	case numCases <= 5:
		return 0.7
	case numCases >= 50:
		return 0.4
	}
	return 0.7 - 0.3*float64(numCases-5)/45.0
}

// degenerateEps bounds the smallest usable parameter range.
const degenerateEps = 1e-8

// normalizeParams linearly maps the parameter values onto [0,1]
// (after log10 when requested). A degenerate range reports !ok.
func normalizeParams(params *sim.ParamTable, logScale bool) (map[string]float64, bool) {
	vals := params.Values()
	if len(vals) == 0 {
		return nil, false
	}
	work := make(map[string]float64, len(vals))
	for id, v := range vals {
		if logScale {
			if v <= 0 {
				plog.Warnf("case %s: non-positive value %v for log-scaled parameter %q, treating as smallest",
					id, v, params.Name())
				v = math.Inf(-1)
			} else {
				v = math.Log10(v)
			}
		}
		work[id] = v
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range work {
		if math.IsInf(v, -1) {
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if !(hi-lo > degenerateEps) {
		return nil, false
	}
	for id, v := range work {
		if math.IsInf(v, -1) {
			work[id] = 0
			continue
		}
		work[id] = (v - lo) / (hi - lo)
	}
	return work, true
}
