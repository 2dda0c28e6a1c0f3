// Package resolve classifies requested vector identifiers against the
// loaded cases.
package resolve

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/alfbr/opm-utilities/src/plog"
	"github.com/alfbr/opm-utilities/src/sim"
)

// ErrNoVectors is returned when no request resolved to anything.
var ErrNoVectors = errors.New("no requested vector matched any case data")

// CellVector is a quantity sampled at one grid cell, requested as
// NAME:I,J,K with 1-based coordinates.
type CellVector struct {
	Name    string
	I, J, K int
}

func (c CellVector) String() string {
	return fmt.Sprintf("%s:%d,%d,%d", c.Name, c.I, c.J, c.K)
}

var cellPattern = regexp.MustCompile(`^([A-Z]+):([0-9]+),([0-9]+),([0-9]+)$`)

// Result is the typed outcome of resolution.
type Result struct {
	Summary   []string     // matched summary vector keys, in request/expansion order
	Cells     []CellVector // restart-cell vectors
	Unmatched []string
}

// Vectors resolves the requested identifiers. Matching is performed
// exclusively against schema, the summary store of the first loaded
// case; that store is the schema authority for the whole pass.
//
// Each request is tried as a summary vector first (exact key, or glob
// expansion over the schema's key enumeration), then as a restart-cell
// pattern. Requests matching neither are logged and dropped. When
// nothing at all resolves, ErrNoVectors is returned.
func Vectors(requests []string, schema *sim.SummaryStore) (Result, error) {
	var res Result
	seenSummary := map[string]bool{}
	seenCell := map[string]bool{}

	for _, req := range requests {
		switch {
		case strings.ContainsAny(req, "*?["):
			matches := expand(req, schema)
			if len(matches) == 0 {
				res.Unmatched = append(res.Unmatched, req)
				plog.Warnf("pattern %q matched no summary vector", req)
				continue
			}
			for _, m := range matches {
				if !seenSummary[m] {
					seenSummary[m] = true
					res.Summary = append(res.Summary, m)
				}
			}
		case schema.Has(req):
			if !seenSummary[req] {
				seenSummary[req] = true
				res.Summary = append(res.Summary, req)
			}
		default:
			if cv, ok := parseCell(req); ok {
				if !seenCell[cv.String()] {
					seenCell[cv.String()] = true
					res.Cells = append(res.Cells, cv)
				}
				continue
			}
			res.Unmatched = append(res.Unmatched, req)
			plog.Warnf("identifier %q matches no summary vector and no cell pattern", req)
		}
	}

	if len(res.Summary) == 0 && len(res.Cells) == 0 {
		return res, ErrNoVectors
	}
	return res, nil
}

// expand returns the schema keys matching the glob pattern, in the
// schema's key enumeration order. The expansion is deterministic for a
// given store.
func expand(pattern string, schema *sim.SummaryStore) []string {
	var out []string
	for _, key := range schema.Keys() {
		ok, err := doublestar.Match(pattern, key)
		if err != nil {
			plog.Warnf("bad pattern %q: %v", pattern, err)
			return nil
		}
		if ok {
			out = append(out, key)
		}
	}
	return out
}

// parseCell matches the NAME:I,J,K grammar. Coordinates are 1-based
// and must be positive.
func parseCell(req string) (CellVector, bool) {
	m := cellPattern.FindStringSubmatch(req)
	if m == nil {
		return CellVector{}, false
	}
	i, err1 := strconv.Atoi(m[2])
	j, err2 := strconv.Atoi(m[3])
	k, err3 := strconv.Atoi(m[4])
	if err1 != nil || err2 != nil || err3 != nil || i < 1 || j < 1 || k < 1 {
		return CellVector{}, false
	}
	return CellVector{Name: m[1], I: i, J: j, K: k}, true
}
