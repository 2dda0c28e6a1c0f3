package sim

import (
	"fmt"
	"time"

	"github.com/alfbr/opm-utilities/src/eclfile"
)

// SummaryStore holds the report-date axis and every summary vector of
// one case, decoded from BASE.SMSPEC + BASE.UNSMRY.
//
// Vector keys follow the usual mnemonic convention: well and group
// vectors carry their qualifier ("WOPR:PROD1"), field vectors are the
// bare mnemonic ("FOPR").
type SummaryStore struct {
	keys  []string       // unique keys, first-occurrence file order
	cols  map[string]int // key -> PARAMS column
	rows  [][]float32    // one PARAMS row per ministep
	dates []time.Time
	start time.Time
}

// Qualifier value Eclipse writes for columns without a well/group name.
const noQualifier = ":+:+:+:+"

// OpenSummary reads the summary specification and the unified summary
// data file of one case.
func OpenSummary(smspecPath, unsmryPath string) (*SummaryStore, error) {
	spec, err := eclfile.ReadFile(smspecPath)
	if err != nil {
		return nil, err
	}
	mnemonics := eclfile.First(spec, "KEYWORDS")
	if mnemonics == nil {
		return nil, fmt.Errorf("%s: no KEYWORDS block", smspecPath)
	}
	qualifiers := eclfile.First(spec, "WGNAMES")
	if qualifiers == nil {
		qualifiers = eclfile.First(spec, "NAMES")
	}

	s := &SummaryStore{cols: make(map[string]int, len(mnemonics.Strings))}
	for i, name := range mnemonics.Strings {
		key := name
		if qualifiers != nil && i < len(qualifiers.Strings) {
			if q := qualifiers.Strings[i]; q != "" && q != noQualifier {
				key = name + ":" + q
			}
		}
		if _, dup := s.cols[key]; !dup {
			s.cols[key] = i
			s.keys = append(s.keys, key)
		}
	}
	timeCol, ok := s.cols["TIME"]
	if !ok {
		return nil, fmt.Errorf("%s: no TIME column", smspecPath)
	}

	s.start, err = startDate(eclfile.First(spec, "STARTDAT"))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", smspecPath, err)
	}

	data, err := eclfile.ReadFile(unsmryPath)
	if err != nil {
		return nil, err
	}
	ncols := len(mnemonics.Strings)
	for _, kw := range eclfile.All(data, "PARAMS") {
		if kw.Len() != ncols {
			return nil, fmt.Errorf("%s: PARAMS row has %d values, SMSPEC declares %d columns", unsmryPath, kw.Len(), ncols)
		}
		s.rows = append(s.rows, kw.Floats)
		days := float64(kw.Floats[timeCol])
		s.dates = append(s.dates, s.start.Add(time.Duration(days*24*float64(time.Hour))))
	}
	if len(s.rows) == 0 {
		return nil, fmt.Errorf("%s: no PARAMS records", unsmryPath)
	}
	return s, nil
}

func startDate(kw *eclfile.Keyword) (time.Time, error) {
	if kw == nil || len(kw.Ints) < 3 {
		return time.Time{}, fmt.Errorf("missing or short STARTDAT")
	}
	day, month, year := int(kw.Ints[0]), int(kw.Ints[1]), int(kw.Ints[2])
	hour, minute, micro := 0, 0, 0
	if len(kw.Ints) >= 6 {
		hour, minute, micro = int(kw.Ints[3]), int(kw.Ints[4]), int(kw.Ints[5])
	}
	return time.Date(year, time.Month(month), day, hour, minute, 0, micro*1000, time.UTC), nil
}

// Keys returns every vector key in file order. This ordering defines
// the deterministic expansion of wildcard requests.
func (s *SummaryStore) Keys() []string {
	out := make([]string, len(s.keys))
	copy(out, s.keys)
	return out
}

// Has reports whether the store carries the exact vector key.
func (s *SummaryStore) Has(key string) bool {
	_, ok := s.cols[key]
	return ok
}

// Dates returns the report date of every ministep.
func (s *SummaryStore) Dates() []time.Time {
	out := make([]time.Time, len(s.dates))
	copy(out, s.dates)
	return out
}

// Values returns the time series for key, one value per report date.
// Unknown keys yield nil.
func (s *SummaryStore) Values(key string) []float64 {
	col, ok := s.cols[key]
	if !ok {
		return nil
	}
	out := make([]float64, len(s.rows))
	for i, row := range s.rows {
		out[i] = float64(row[col])
	}
	return out
}

// StartDate returns the simulation start.
func (s *SummaryStore) StartDate() time.Time { return s.start }
