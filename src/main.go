// summaryplot renders summary vectors and restart-cell quantities from
// one or more reservoir-simulation cases for visual comparison.
//
// Two modes:
//  1. Interactive (default): panels open in a window; R reloads the
//     data from disk, Q quits.
//  2. Dump (-dump): panels are written to summaryplot.png and
//     summaryplot.svg and the process exits.
//
// Design notes:
//   - Arguments are classified by existence: an argument naming a file
//     on disk (directly or via its .SMSPEC sibling) is a case, anything
//     else is a vector request.
//   - The first loaded case is the schema authority: vector requests
//     are matched against its summary store only.
//   - Every reload is a full render pass from scratch; cases, series
//     and colour state are rebuilt and nothing is shared with the
//     previous pass.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/alfbr/opm-utilities/src/compose"
	"github.com/alfbr/opm-utilities/src/plog"
	"github.com/alfbr/opm-utilities/src/resolve"
	"github.com/alfbr/opm-utilities/src/sample"
	"github.com/alfbr/opm-utilities/src/sim"
	"github.com/alfbr/opm-utilities/src/style"
	"github.com/alfbr/opm-utilities/src/view"
)

type config struct {
	hist        bool
	noLegend    bool
	singlePanel bool
	normalize   bool
	ensemble    bool
	dump        bool
	colourBy    string
	logColourBy string
	maxLabels   int
}

func main() {
	var cfg config
	flag.BoolVar(&cfg.hist, "hist", false, "Overlay observed history vectors (H suffix) from the first case")
	flag.BoolVar(&cfg.noLegend, "nolegend", false, "Suppress all legend entries")
	flag.BoolVar(&cfg.singlePanel, "single", false, "Compose every series into one panel instead of one panel per vector")
	flag.BoolVar(&cfg.normalize, "normalize", false, "Rescale each series to a peak of 1, recording the original maximum in the legend")
	flag.BoolVar(&cfg.ensemble, "ensemble", false, "Colour by vector identity rather than case identity")
	flag.BoolVar(&cfg.dump, "dump", false, "Write summaryplot.png and summaryplot.svg instead of opening a window")
	flag.StringVar(&cfg.colourBy, "colourby", "", "Colour cases by this parameter from each case's parameters.txt")
	flag.StringVar(&cfg.logColourBy, "logcolourby", "", "Like -colourby but log10-scaled")
	flag.IntVar(&cfg.maxLabels, "maxlabels", style.DefaultLegendCap, "Maximum legend entries per vector")
	logLevel := flag.String("log-level", "info", "Log level (debug|info|warn|error)")
	flag.Parse()
	plog.SetLevel(*logLevel)

	if cfg.colourBy != "" && cfg.logColourBy != "" {
		plog.Warnf("both -colourby and -logcolourby given; using -logcolourby %q", cfg.logColourBy)
		cfg.colourBy = ""
	}

	casePaths, requests := classifyArgs(flag.Args())
	if len(casePaths) == 0 {
		plog.Errorf("no case files among the arguments")
		os.Exit(1)
	}

	panels, err := runPass(casePaths, requests, cfg)
	if err != nil {
		plog.Errorf("%v", err)
		os.Exit(1)
	}

	if cfg.dump {
		if err := compose.DumpFiles(panels, compose.DumpPNG, compose.DumpSVG); err != nil {
			plog.Errorf("dump: %v", err)
			os.Exit(1)
		}
		plog.Infof("wrote %s and %s", compose.DumpPNG, compose.DumpSVG)
		return
	}

	pngs, err := renderAll(panels)
	if err != nil {
		plog.Errorf("%v", err)
		os.Exit(1)
	}
	view.Show("summaryplot", pngs, func() ([][]byte, error) {
		panels, err := runPass(casePaths, requests, cfg)
		if err != nil {
			return nil, err
		}
		return renderAll(panels)
	})
}

// classifyArgs splits positional arguments into case paths and vector
// requests. Anything naming a file on disk (itself or via a .SMSPEC
// sibling) is a case.
func classifyArgs(args []string) (casePaths, requests []string) {
	for _, arg := range args {
		if _, err := os.Stat(arg); err == nil {
			casePaths = append(casePaths, arg)
			continue
		}
		if _, err := os.Stat(arg + ".SMSPEC"); err == nil {
			casePaths = append(casePaths, arg)
			continue
		}
		requests = append(requests, arg)
	}
	return casePaths, requests
}

// runPass is one complete render pass: open every case, resolve the
// requests against the first case, sample and assemble every series,
// and compose the panels.
func runPass(casePaths, requests []string, cfg config) ([]compose.Panel, error) {
	var cases []*sim.Case
	for _, path := range casePaths {
		c, err := sim.OpenCase(path)
		if err != nil {
			plog.Warnf("skipping case: %v", err)
			continue
		}
		plog.Debugf("loaded case %s with %d report dates", c.ID, len(c.Summary.Dates()))
		cases = append(cases, c)
	}
	if len(cases) == 0 {
		return nil, fmt.Errorf("no cases could be loaded")
	}

	res, err := resolve.Vectors(requests, cases[0].Summary)
	if err != nil {
		return nil, err
	}
	plog.Infof("resolved %d summary vector(s), %d cell vector(s), %d unmatched",
		len(res.Summary), len(res.Cells), len(res.Unmatched))

	series := assembleSeries(cases, res, cfg)

	var params *sim.ParamTable
	paramName, logParam := cfg.colourBy, false
	if cfg.logColourBy != "" {
		paramName, logParam = cfg.logColourBy, true
	}
	if paramName != "" {
		params = sim.LoadParams(cases, paramName)
	}

	opt := style.Options{
		Ensemble:       cfg.ensemble,
		SinglePanel:    cfg.singlePanel,
		Normalize:      cfg.normalize,
		SuppressLegend: cfg.noLegend,
		LegendCap:      cfg.maxLabels,
		ParamName:      paramName,
		LogParam:       logParam,
	}
	asg := style.NewAssigner(opt, len(res.Summary), len(res.Cells), len(cases), params)

	panels := compose.Panels(series, asg, compose.Options{
		SinglePanel: cfg.singlePanel,
		Normalize:   cfg.normalize,
	})
	return panels, nil
}

// assembleSeries materializes one series per (vector, case) pair:
// summary vectors straight from the summary stores, cell vectors via
// the restart sampler, plus history overlays from the first case.
func assembleSeries(cases []*sim.Case, res resolve.Result, cfg config) []compose.Series {
	var series []compose.Series
	for _, vec := range res.Summary {
		for ci, c := range cases {
			if !c.Summary.Has(vec) {
				plog.Warnf("case %s has no vector %s, skipping", c.ID, vec)
				continue
			}
			series = append(series, compose.Series{
				Vector:  vec,
				CaseID:  c.ID,
				CaseIdx: ci,
				Dates:   c.Summary.Dates(),
				Values:  c.Summary.Values(vec),
			})
		}
		if cfg.hist {
			hv := compose.HistoricalKey(vec)
			if cases[0].Summary.Has(hv) {
				series = append(series, compose.Series{
					Vector:     vec,
					CaseID:     cases[0].ID,
					CaseIdx:    0,
					Dates:      cases[0].Summary.Dates(),
					Values:     cases[0].Summary.Values(hv),
					Historical: true,
				})
			} else {
				plog.Debugf("no history vector %s in first case", hv)
			}
		}
	}
	for _, cv := range res.Cells {
		for ci, c := range cases {
			series = append(series, sample.CellSeries(c, cv, ci))
		}
	}
	return series
}

func renderAll(panels []compose.Panel) ([][]byte, error) {
	out := make([][]byte, 0, len(panels))
	for i := range panels {
		b, err := panels[i].RenderPNG()
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}
