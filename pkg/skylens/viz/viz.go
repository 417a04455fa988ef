// Package viz renders the analysis charts. Charts are written as PNG;
// when raster export fails in the running environment the renderer
// falls back to SVG and logs, never failing the pipeline.
package viz

import (
	"fmt"
	"log"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
)

// Chart file name suffixes, combined with a run prefix such as
// "overall" or an airline name.
const (
	chartBar       = "topic_barchart"
	chartHierarchy = "topic_hierarchy"
	chartHeatmap   = "topic_heatmap"
	chartOverTime  = "topics_over_time"
)

// Renderer writes charts for topic models into an output directory.
type Renderer struct {
	OutputDir string
	TopN      int
}

// New creates a renderer for the given directory, showing at most topN
// topics per chart.
func New(outputDir string, topN int) *Renderer {
	return &Renderer{OutputDir: outputDir, TopN: topN}
}

// save writes the plot as <prefix>_<chart>.png, falling back to .svg
// when the raster encoder is unavailable. Existing files from a prior
// run are overwritten.
func (v *Renderer) save(p *plot.Plot, w, h vg.Length, prefix, chart string) error {
	base := filepath.Join(v.OutputDir, fmt.Sprintf("%s_%s", prefix, chart))

	pngPath := base + ".png"
	if err := p.Save(w, h, pngPath); err == nil {
		log.Printf("viz: wrote %s", pngPath)
		return nil
	} else {
		log.Printf("viz: raster export failed for %s, falling back to SVG: %v", pngPath, err)
	}

	svgPath := base + ".svg"
	if err := p.Save(w, h, svgPath); err != nil {
		return fmt.Errorf("save chart %s: %w", base, err)
	}
	log.Printf("viz: wrote %s", svgPath)
	return nil
}

// topicTick labels a categorical axis position.
type topicTick struct {
	labels []string
}

func (t topicTick) Ticks(min, max float64) []plot.Tick {
	var ticks []plot.Tick
	for i, label := range t.labels {
		x := float64(i)
		if x < min || x > max {
			continue
		}
		ticks = append(ticks, plot.Tick{Value: x, Label: label})
	}
	return ticks
}
