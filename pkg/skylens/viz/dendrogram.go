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

// TopicHierarchy renders the agglomerative merge tree over a run's
// topics as a dendrogram: leaves on the x-axis, merge distance on the
// y-axis, one bracket per merge.
func (v *Renderer) TopicHierarchy(prefix, title string, m *topics.Model) error {
	sim := topics.Similarity(m.Topics)
	merges := topics.Linkage(sim)
	if len(merges) == 0 {
		log.Printf("viz: fewer than two topics for %s, skipping hierarchy", prefix)
		return nil
	}
	n := len(m.Topics)

	// Leaf order from a traversal of the final merge keeps the tree
	// from crossing itself.
	children := make(map[int][2]int, len(merges))
	for i, mg := range merges {
		children[n+i] = [2]int{mg.A, mg.B}
	}
	var order []int
	var walk func(node int)
	walk = func(node int) {
		if node < n {
			order = append(order, node)
			return
		}
		pair := children[node]
		walk(pair[0])
		walk(pair[1])
	}
	walk(n + len(merges) - 1)

	x := make(map[int]float64, n+len(merges))
	h := make(map[int]float64, n+len(merges))
	for pos, leaf := range order {
		x[leaf] = float64(pos)
		h[leaf] = 0
	}

	p := plot.New()
	p.Title.Text = title
	p.Y.Label.Text = "merge distance"

	for i, mg := range merges {
		node := n + i
		x[node] = (x[mg.A] + x[mg.B]) / 2
		h[node] = mg.Distance

		bracket := plotter.XYs{
			{X: x[mg.A], Y: h[mg.A]},
			{X: x[mg.A], Y: mg.Distance},
			{X: x[mg.B], Y: mg.Distance},
			{X: x[mg.B], Y: h[mg.B]},
		}
		line, err := plotter.NewLine(bracket)
		if err != nil {
			return fmt.Errorf("hierarchy %s: %w", prefix, err)
		}
		line.Color = plotutil.Color(0)
		p.Add(line)
	}

	labels := make([]string, n)
	for pos, leaf := range order {
		labels[pos] = fmt.Sprintf("T%d %s", m.Topics[leaf].ID, m.Topics[leaf].Label(1))
	}
	p.X.Tick.Marker = topicTick{labels: labels}

	return v.save(p, 10*vg.Inch, 6*vg.Inch, prefix, chartHierarchy)
}
