package sim

import (
	"fmt"
	"time"

	"github.com/alfbr/opm-utilities/src/eclfile"
)

// INTEHEAD slots carrying the report date (0-based).
const (
	iheadDay   = 64
	iheadMonth = 65
	iheadYear  = 66
)

// RestartStore holds the per-report-step solution arrays of one case,
// decoded from BASE.UNRST. Arrays are active-cell sized.
type RestartStore struct {
	dates  []time.Time
	arrays map[string][][]float64 // name -> one slice per report step
}

// Header and well/group blocks that are not per-cell solution data.
var nonSolution = map[string]bool{
	"SEQNUM": true, "INTEHEAD": true, "LOGIHEAD": true, "DOUBHEAD": true,
	"IGRP": true, "SGRP": true, "XGRP": true, "ZGRP": true,
	"IWEL": true, "SWEL": true, "XWEL": true, "ZWEL": true,
	"ICON": true, "SCON": true, "XCON": true,
	"STARTSOL": true, "ENDSOL": true,
}

// OpenRestart reads a unified restart file.
func OpenRestart(path string) (*RestartStore, error) {
	kws, err := eclfile.ReadFile(path)
	if err != nil {
		return nil, err
	}
	r := &RestartStore{arrays: make(map[string][][]float64)}
	for i := range kws {
		kw := &kws[i]
		if kw.Name == "INTEHEAD" {
			if len(kw.Ints) <= iheadYear {
				return nil, fmt.Errorf("%s: INTEHEAD too short (%d ints)", path, len(kw.Ints))
			}
			d := time.Date(int(kw.Ints[iheadYear]), time.Month(kw.Ints[iheadMonth]), int(kw.Ints[iheadDay]), 0, 0, 0, 0, time.UTC)
			r.dates = append(r.dates, d)
			continue
		}
		if nonSolution[kw.Name] {
			continue
		}
		switch kw.Kind {
		case eclfile.Real:
			vals := make([]float64, len(kw.Floats))
			for j, v := range kw.Floats {
				vals[j] = float64(v)
			}
			r.arrays[kw.Name] = append(r.arrays[kw.Name], vals)
		case eclfile.Doub:
			vals := make([]float64, len(kw.Doubles))
			copy(vals, kw.Doubles)
			r.arrays[kw.Name] = append(r.arrays[kw.Name], vals)
		}
	}
	if r.Steps() == 0 {
		return nil, fmt.Errorf("%s: no SWAT records; cannot establish a report-step count", path)
	}
	if len(r.dates) != r.Steps() {
		return nil, fmt.Errorf("%s: %d report dates but %d water-saturation records; refusing to pair steps with dates",
			path, len(r.dates), r.Steps())
	}
	return r, nil
}

// Steps returns the canonical report-step count, defined by the number
// of stored water-saturation records. Every other sampled quantity is
// checked against it (see Value).
func (r *RestartStore) Steps() int { return len(r.arrays["SWAT"]) }

// Dates returns one report date per step, from the INTEHEAD blocks.
func (r *RestartStore) Dates() []time.Time {
	out := make([]time.Time, len(r.dates))
	copy(out, r.dates)
	return out
}

// Has reports whether a solution array with the given name was stored.
func (r *RestartStore) Has(name string) bool { return len(r.arrays[name]) > 0 }

// RecordCount returns the number of stored records for name.
func (r *RestartStore) RecordCount(name string) int { return len(r.arrays[name]) }

// Value returns quantity name at active-cell index idx and report step
// step. A record count differing from Steps() is an error rather than
// a silent truncation.
func (r *RestartStore) Value(name string, step, idx int) (float64, error) {
	recs, ok := r.arrays[name]
	if !ok {
		return 0, fmt.Errorf("no %s records in restart file", name)
	}
	if len(recs) != r.Steps() {
		return 0, fmt.Errorf("%s has %d records but the restart file has %d report steps", name, len(recs), r.Steps())
	}
	if step < 0 || step >= len(recs) {
		return 0, fmt.Errorf("%s: report step %d out of range [0,%d)", name, step, len(recs))
	}
	if idx < 0 || idx >= len(recs[step]) {
		return 0, fmt.Errorf("%s step %d: active index %d out of range [0,%d)", name, step, idx, len(recs[step]))
	}
	return recs[step][idx], nil
}
