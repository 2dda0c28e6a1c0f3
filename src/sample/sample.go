// Package sample extracts per-report-step scalars from restart stores,
// turning restart-cell vectors into plottable series.
package sample

import (
	"fmt"
	"math"
	"time"

	"github.com/alfbr/opm-utilities/src/compose"
	"github.com/alfbr/opm-utilities/src/plog"
	"github.com/alfbr/opm-utilities/src/resolve"
	"github.com/alfbr/opm-utilities/src/sim"
)

// Quantities behind the oil-saturation derivation.
const (
	oilSaturation   = "SOIL"
	waterSaturation = "SWAT"
	gasSaturation   = "SGAS"
)

// CellSeries samples one restart-cell vector across every report step
// of the case. Oil saturation is not stored in restart files and is
// derived per step as 1 - SWAT - SGAS at the same cell.
//
// A case with an unreadable restart store or grid, an inactive or
// out-of-range cell, or an unknown quantity degrades to an all-NaN
// series over the case's summary dates, with a warning; the pass
// continues with the remaining cases.
func CellSeries(c *sim.Case, v resolve.CellVector, caseIdx int) compose.Series {
	rst, err := c.Restart()
	if err != nil {
		plog.Warnf("case %s: restart store unavailable (%v); plotting %s as missing", c.ID, err, v)
		return missingSeries(c, v, caseIdx, c.Summary.Dates())
	}
	grid, err := c.Grid()
	if err != nil {
		plog.Warnf("case %s: grid unavailable (%v); plotting %s as missing", c.ID, err, v)
		return missingSeries(c, v, caseIdx, rst.Dates())
	}
	idx := grid.ActiveIndex(v.I, v.J, v.K)
	if idx < 0 {
		plog.Warnf("case %s: cell (%d,%d,%d) is inactive or outside the %s grid; plotting %s as missing",
			c.ID, v.I, v.J, v.K, dimsString(grid), v)
		return missingSeries(c, v, caseIdx, rst.Dates())
	}

	steps := rst.Steps()
	values := make([]float64, steps)
	for step := 0; step < steps; step++ {
		val, err := sampleStep(rst, v.Name, step, idx)
		if err != nil {
			plog.Warnf("case %s: %v; plotting %s as missing", c.ID, err, v)
			return missingSeries(c, v, caseIdx, rst.Dates())
		}
		values[step] = val
	}
	return compose.Series{
		Vector:  v.String(),
		CaseID:  c.ID,
		CaseIdx: caseIdx,
		Dates:   rst.Dates(),
		Values:  values,
		Cell:    true,
	}
}

func sampleStep(rst *sim.RestartStore, name string, step, idx int) (float64, error) {
	if name == oilSaturation {
		sw, err := rst.Value(waterSaturation, step, idx)
		if err != nil {
			return 0, err
		}
		sg, err := rst.Value(gasSaturation, step, idx)
		if err != nil {
			return 0, err
		}
		return 1 - sw - sg, nil
	}
	return rst.Value(name, step, idx)
}

func missingSeries(c *sim.Case, v resolve.CellVector, caseIdx int, dates []time.Time) compose.Series {
	values := make([]float64, len(dates))
	for i := range values {
		values[i] = math.NaN()
	}
	return compose.Series{
		Vector:  v.String(),
		CaseID:  c.ID,
		CaseIdx: caseIdx,
		Dates:   dates,
		Values:  values,
		Cell:    true,
	}
}

func dimsString(g *sim.Grid) string {
	nx, ny, nz := g.Dims()
	return fmt.Sprintf("%dx%dx%d", nx, ny, nz)
}
