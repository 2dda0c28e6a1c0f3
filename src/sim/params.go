package sim

import (
	"bufio"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/agext/levenshtein"

	"github.com/alfbr/opm-utilities/src/plog"
)

// SidecarName is the per-case key/value file consulted for colouring
// parameters: one `key value` pair per whitespace-separated line.
const SidecarName = "parameters.txt"

// ParamTable maps case ID to the value of one named parameter. Cases
// whose sidecar lacks the key (or lacks a sidecar entirely) default to
// zero, with a diagnostic naming the closest known key.
type ParamTable struct {
	name   string
	values map[string]float64
	known  []string // sorted union of keys seen across all sidecars
}

// NewParamTable builds a table directly from case-ID keyed values.
func NewParamTable(name string, values map[string]float64, known []string) *ParamTable {
	t := &ParamTable{name: name, values: make(map[string]float64, len(values))}
	for k, v := range values {
		t.values[k] = v
	}
	t.known = append(t.known, known...)
	sort.Strings(t.known)
	return t
}

// LoadParams builds the table for the named parameter across cases.
// All sidecars are scanned before any diagnostic so the nearest-key
// suggestion can draw on the full key union.
func LoadParams(cases []*Case, name string) *ParamTable {
	t := &ParamTable{name: name, values: make(map[string]float64, len(cases))}
	known := map[string]struct{}{}
	missing := []string{}
	for _, c := range cases {
		path := filepath.Join(c.Dir(), SidecarName)
		keys, val, found := readSidecar(path, name)
		for _, k := range keys {
			known[k] = struct{}{}
		}
		if !found {
			missing = append(missing, c.ID)
		}
		t.values[c.ID] = val
	}
	t.known = make([]string, 0, len(known))
	for k := range known {
		t.known = append(t.known, k)
	}
	sort.Strings(t.known)

	for _, id := range missing {
		plog.Warnf("parameter %q not found for case %s; defaulting to 0 (closest known key: %q)",
			name, id, NearestKey(name, t.known))
	}
	return t
}

// readSidecar scans one sidecar file. It returns every key seen, and
// the first value recorded under name (first match wins).
func readSidecar(path, name string) (keys []string, val float64, found bool) {
	f, err := os.Open(path)
	if err != nil {
		plog.Debugf("no parameter sidecar at %s", path)
		return nil, 0, false
	}
	defer f.Close()
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 2 {
			continue
		}
		keys = append(keys, fields[0])
		if !found && fields[0] == name {
			v, err := strconv.ParseFloat(fields[1], 64)
			if err != nil {
				plog.Warnf("%s: unparsable value %q for key %s", path, fields[1], name)
				continue
			}
			val, found = v, true
		}
	}
	return keys, val, found
}

// Name returns the parameter name the table was built for.
func (t *ParamTable) Name() string { return t.name }

// Value returns the parameter value for a case ID (zero when absent).
func (t *ParamTable) Value(caseID string) float64 { return t.values[caseID] }

// Values returns a copy of the case -> value mapping.
func (t *ParamTable) Values() map[string]float64 {
	out := make(map[string]float64, len(t.values))
	for k, v := range t.values {
		out[k] = v
	}
	return out
}

// KnownKeys returns the sorted union of sidecar keys seen while
// building the table.
func (t *ParamTable) KnownKeys() []string {
	out := make([]string, len(t.known))
	copy(out, t.known)
	return out
}

// NearestKey returns the candidate most similar to name by normalized
// edit distance, or "" when there are no candidates.
func NearestKey(name string, candidates []string) string {
	p := levenshtein.NewParams()
	best, bestScore := "", -1.0
	for _, k := range candidates {
		if s := levenshtein.Match(name, k, p); s > bestScore {
			best, bestScore = k, s
		}
	}
	return best
}
