package viz

import (
	"fmt"
	"log"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/skylens-io/skylens/pkg/skylens/topics"
)

// simGrid adapts a similarity matrix to plotter.GridXYZ.
type simGrid struct {
	m *mat.Dense
}

func (g simGrid) Dims() (c, r int) {
	rows, cols := g.m.Dims()
	return cols, rows
}

func (g simGrid) Z(c, r int) float64 { return g.m.At(r, c) }
func (g simGrid) X(c int) float64    { return float64(c) }
func (g simGrid) Y(r int) float64    { return float64(r) }

// TopicHeatmap renders the pairwise cosine similarity between a run's
// topics. Fewer than two topics make a heatmap meaningless, so those
// runs are skipped with a log line.
func (v *Renderer) TopicHeatmap(prefix, title string, m *topics.Model) error {
	sim := topics.Similarity(m.Topics)
	if sim == nil {
		log.Printf("viz: no topics for %s, skipping heatmap", prefix)
		return nil
	}
	if n, _ := sim.Dims(); n < 2 {
		log.Printf("viz: fewer than two topics for %s, skipping heatmap", prefix)
		return nil
	}

	p := plot.New()
	p.Title.Text = title

	hm := plotter.NewHeatMap(simGrid{m: sim}, palette.Heat(12, 1))
	p.Add(hm)

	labels := make([]string, len(m.Topics))
	for i, t := range m.Topics {
		labels[i] = fmt.Sprintf("T%d", t.ID)
	}
	p.X.Tick.Marker = topicTick{labels: labels}
	p.Y.Tick.Marker = topicTick{labels: labels}

	return v.save(p, 7*vg.Inch, 6*vg.Inch, prefix, chartHeatmap)
}
