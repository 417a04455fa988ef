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

// barKeywordCount is how many keywords annotate each bar label.
const barKeywordCount = 3

// TopicBarChart renders the top topics of a run by member count, each
// bar labelled with the topic's leading keywords. An empty topic set is
// skipped with a log line.
func (v *Renderer) TopicBarChart(prefix, title string, m *topics.Model) error {
	top := m.TopTopics(v.TopN)
	if len(top) == 0 {
		log.Printf("viz: no topics for %s, skipping bar chart", prefix)
		return nil
	}

	values := make(plotter.Values, len(top))
	labels := make([]string, len(top))
	for i, t := range top {
		values[i] = float64(t.Size)
		labels[i] = fmt.Sprintf("T%d %s", t.ID, t.Label(barKeywordCount))
	}

	p := plot.New()
	p.Title.Text = title
	p.Y.Label.Text = "posts"

	bars, err := plotter.NewBarChart(values, vg.Points(28))
	if err != nil {
		return fmt.Errorf("bar chart %s: %w", prefix, err)
	}
	bars.LineStyle.Width = 0
	bars.Color = plotutil.Color(0)
	p.Add(bars)
	p.NominalX(labels...)

	return v.save(p, 11*vg.Inch, 5*vg.Inch, prefix, chartBar)
}
