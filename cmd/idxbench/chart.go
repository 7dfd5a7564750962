package main

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// renderChart draws a grouped bar chart of per-operation latency for each
// structure in results, and saves it as a PNG at path.
func renderChart(path string, results []benchResult) error {
	byOp := make(map[string][]benchResult)
	var ops []string
	for _, r := range results {
		if _, ok := byOp[r.Operation]; !ok {
			ops = append(ops, r.Operation)
		}
		byOp[r.Operation] = append(byOp[r.Operation], r)
	}

	p := plot.New()
	p.Title.Text = "btreeidx vs pebbleidx latency (ns/op)"
	p.Y.Label.Text = "latency (ns)"
	p.X.Label.Text = "operation"

	structures := []string{"btreeidx", "pebbleidx"}
	width := vg.Points(12)

	for i, structure := range structures {
		values := make(plotter.Values, len(ops))
		for j, op := range ops {
			for _, r := range byOp[op] {
				if r.Structure == structure {
					values[j] = float64(r.LatencyNs)
				}
			}
		}
		bars, err := plotter.NewBarChart(values, width)
		if err != nil {
			return fmt.Errorf("idxbench: new bar chart for %s: %w", structure, err)
		}
		bars.Offset = width * vg.Length(i) * 1.2
		bars.Color = plotutil.Color(i)
		p.Add(bars)
		p.Legend.Add(structure, bars)
	}

	p.NominalX(ops...)

	if err := p.Save(8*vg.Inch, 5*vg.Inch, path); err != nil {
		return fmt.Errorf("idxbench: save chart: %w", err)
	}
	return nil
}
