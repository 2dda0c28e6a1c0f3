// Package sim loads reservoir-simulation case output into in-memory
// stores: summary vectors, restart solution arrays, the grid, and the
// per-case parameter sidecar.
package sim

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
)

// Extensions recognized (and stripped) when deriving the case base path.
var resultExts = map[string]bool{
	".DATA": true, ".SMSPEC": true, ".UNSMRY": true,
	".UNRST": true, ".EGRID": true, ".INIT": true,
}

// Case is one simulation run. The summary store is read eagerly; the
// restart store and grid are opened on first use since they are only
// needed for restart-cell vectors. A Case is immutable once opened.
type Case struct {
	ID      string
	Summary *SummaryStore

	base string

	restartOnce sync.Once
	restart     *RestartStore
	restartErr  error

	gridOnce sync.Once
	grid     *Grid
	gridErr  error
}

// OpenCase opens the case identified by path, which may point at the
// deck or any of its result files; the extension is stripped to find
// the sibling stores. The case ID is the base file name.
func OpenCase(path string) (*Case, error) {
	base := path
	if ext := filepath.Ext(path); resultExts[strings.ToUpper(ext)] {
		base = strings.TrimSuffix(path, ext)
	}
	c := &Case{ID: filepath.Base(base), base: base}
	sum, err := OpenSummary(base+".SMSPEC", base+".UNSMRY")
	if err != nil {
		return nil, fmt.Errorf("case %s: %w", c.ID, err)
	}
	c.Summary = sum
	return c, nil
}

// Restart returns the case's restart store, opening BASE.UNRST on the
// first call.
func (c *Case) Restart() (*RestartStore, error) {
	c.restartOnce.Do(func() {
		c.restart, c.restartErr = OpenRestart(c.base + ".UNRST")
	})
	return c.restart, c.restartErr
}

// Grid returns the case's grid, opening BASE.EGRID on the first call.
func (c *Case) Grid() (*Grid, error) {
	c.gridOnce.Do(func() {
		c.grid, c.gridErr = OpenGrid(c.base + ".EGRID")
	})
	return c.grid, c.gridErr
}

// Dir returns the directory holding the case files (and its
// parameters.txt sidecar, when present).
func (c *Case) Dir() string { return filepath.Dir(c.base) }
