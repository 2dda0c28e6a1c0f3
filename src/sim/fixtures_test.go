package sim

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alfbr/opm-utilities/src/eclfile"
)

// writeDeck writes keyword blocks to path, failing the test on error.
func writeDeck(t *testing.T, path string, kws ...eclfile.Keyword) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()
	for _, kw := range kws {
		if err := eclfile.WriteKeyword(f, kw); err != nil {
			t.Fatalf("write %s to %s: %v", kw.Name, path, err)
		}
	}
}

// writeSummaryCase lays down BASE.SMSPEC and BASE.UNSMRY for a case
// with the given vector columns (TIME is prepended automatically) and
// one PARAMS row per entry of times.
func writeSummaryCase(t *testing.T, dir, name string, mnemonics, qualifiers []string, times []float32, rows [][]float32) string {
	t.Helper()
	base := filepath.Join(dir, name)
	keys := append([]string{"TIME"}, mnemonics...)
	quals := append([]string{noQualifier}, qualifiers...)
	writeDeck(t, base+".SMSPEC",
		eclfile.Keyword{Name: "KEYWORDS", Kind: eclfile.Char, Strings: keys},
		eclfile.Keyword{Name: "WGNAMES", Kind: eclfile.Char, Strings: quals},
		eclfile.Keyword{Name: "STARTDAT", Kind: eclfile.Inte, Ints: []int32{1, 1, 2020}},
	)
	var data []eclfile.Keyword
	for i, tv := range times {
		row := append([]float32{tv}, rows[i]...)
		data = append(data,
			eclfile.Keyword{Name: "MINISTEP", Kind: eclfile.Inte, Ints: []int32{int32(i)}},
			eclfile.Keyword{Name: "PARAMS", Kind: eclfile.Real, Floats: row},
		)
	}
	writeDeck(t, base+".UNSMRY", data...)
	return base
}

// writeRestart lays down BASE.UNRST with the given solution arrays,
// one entry per report step. Dates advance one day per step from
// 1 Jan 2020.
func writeRestart(t *testing.T, base string, steps int, arrays map[string][][]float32) {
	t.Helper()
	var kws []eclfile.Keyword
	for s := 0; s < steps; s++ {
		ihead := make([]int32, 95)
		ihead[iheadDay] = int32(1 + s)
		ihead[iheadMonth] = 1
		ihead[iheadYear] = 2020
		kws = append(kws,
			eclfile.Keyword{Name: "SEQNUM", Kind: eclfile.Inte, Ints: []int32{int32(s)}},
			eclfile.Keyword{Name: "INTEHEAD", Kind: eclfile.Inte, Ints: ihead},
		)
		for name, recs := range arrays {
			if s < len(recs) {
				kws = append(kws, eclfile.Keyword{Name: name, Kind: eclfile.Real, Floats: recs[s]})
			}
		}
	}
	writeDeck(t, base+".UNRST", kws...)
}

// writeGrid lays down BASE.EGRID. actnum may be nil for all-active.
func writeGrid(t *testing.T, base string, nx, ny, nz int, actnum []int32) {
	t.Helper()
	head := make([]int32, 100)
	head[0] = 1 // corner-point grid
	head[1], head[2], head[3] = int32(nx), int32(ny), int32(nz)
	kws := []eclfile.Keyword{{Name: "GRIDHEAD", Kind: eclfile.Inte, Ints: head}}
	if actnum != nil {
		kws = append(kws, eclfile.Keyword{Name: "ACTNUM", Kind: eclfile.Inte, Ints: actnum})
	}
	writeDeck(t, base+".EGRID", kws...)
}
