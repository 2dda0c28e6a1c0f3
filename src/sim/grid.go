package sim

import (
	"fmt"

	"github.com/alfbr/opm-utilities/src/eclfile"
)

// Grid maps 1-based (i,j,k) cell coordinates to linear active-cell
// indices, decoded from BASE.EGRID.
type Grid struct {
	nx, ny, nz int
	active     []int // global cell -> active index, -1 inactive; nil when all cells are active
}

// OpenGrid reads an extensible grid file. Only the dimensions and the
// active-cell map are decoded.
func OpenGrid(path string) (*Grid, error) {
	kws, err := eclfile.ReadFile(path)
	if err != nil {
		return nil, err
	}
	head := eclfile.First(kws, "GRIDHEAD")
	if head == nil || len(head.Ints) < 4 {
		return nil, fmt.Errorf("%s: missing or short GRIDHEAD", path)
	}
	g := &Grid{nx: int(head.Ints[1]), ny: int(head.Ints[2]), nz: int(head.Ints[3])}
	if g.nx <= 0 || g.ny <= 0 || g.nz <= 0 {
		return nil, fmt.Errorf("%s: bad grid dimensions %dx%dx%d", path, g.nx, g.ny, g.nz)
	}

	if actnum := eclfile.First(kws, "ACTNUM"); actnum != nil {
		ncells := g.nx * g.ny * g.nz
		if len(actnum.Ints) != ncells {
			return nil, fmt.Errorf("%s: ACTNUM has %d entries for %d cells", path, len(actnum.Ints), ncells)
		}
		g.active = make([]int, ncells)
		n := 0
		for i, a := range actnum.Ints {
			if a != 0 {
				g.active[i] = n
				n++
			} else {
				g.active[i] = -1
			}
		}
	}
	return g, nil
}

// Dims returns the grid dimensions.
func (g *Grid) Dims() (nx, ny, nz int) { return g.nx, g.ny, g.nz }

// ActiveIndex maps the 1-based cell (i,j,k) to its linear active-cell
// index, or -1 when the cell is out of range or inactive.
func (g *Grid) ActiveIndex(i, j, k int) int {
	if i < 1 || i > g.nx || j < 1 || j > g.ny || k < 1 || k > g.nz {
		return -1
	}
	global := (k-1)*g.nx*g.ny + (j-1)*g.nx + (i - 1)
	if g.active == nil {
		return global
	}
	return g.active[global]
}
