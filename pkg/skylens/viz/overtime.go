package viz

import (
	"fmt"
	"log"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/skylens-io/skylens/pkg/skylens/topics"
)

// TopicsOverTime renders topic prevalence across the corpus time bins,
// one line per top topic. A nil series (no usable timestamps) skips
// the chart without failing the run.
func (v *Renderer) TopicsOverTime(prefix, title string, m *topics.Model, ot *topics.OverTime) error {
	if ot == nil {
		log.Printf("viz: no time series for %s, skipping topics-over-time chart", prefix)
		return nil
	}

	p := plot.New()
	p.Title.Text = title
	p.Y.Label.Text = "posts per bin"
	p.X.Tick.Marker = plot.TimeTicks{Format: "01-02 15:04"}
	p.Legend.Top = true

	plotted := 0
	for i, t := range m.TopTopics(v.TopN) {
		counts, ok := ot.Counts[t.ID]
		if !ok {
			continue
		}
		xys := make(plotter.XYs, len(counts))
		for bin, c := range counts {
			xys[bin].X = float64(ot.BinStart(bin).Unix())
			xys[bin].Y = float64(c)
		}
		line, err := plotter.NewLine(xys)
		if err != nil {
			return fmt.Errorf("topics over time %s: %w", prefix, err)
		}
		line.Color = plotutil.Color(i)
		p.Add(line)
		p.Legend.Add(fmt.Sprintf("T%d %s", t.ID, t.Label(2)), line)
		plotted++
	}
	if plotted == 0 {
		log.Printf("viz: no topic lines for %s, skipping topics-over-time chart", prefix)
		return nil
	}

	return v.save(p, 11*vg.Inch, 5*vg.Inch, prefix, chartOverTime)
}
