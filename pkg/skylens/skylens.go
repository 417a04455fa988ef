// Package skylens wires the analysis pipeline together: load a
// spreadsheet of airline-directed posts, clean and attribute them,
// discover topics overall and per airline, and render charts.
package skylens

import (
	"context"
	"crypto/rand"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/skylens-io/skylens/pkg/skylens/config"
	"github.com/skylens-io/skylens/pkg/skylens/export"
	"github.com/skylens-io/skylens/pkg/skylens/internalerr"
	"github.com/skylens-io/skylens/pkg/skylens/loader"
	"github.com/skylens-io/skylens/pkg/skylens/post"
	"github.com/skylens-io/skylens/pkg/skylens/preprocess"
	"github.com/skylens-io/skylens/pkg/skylens/store"
	"github.com/skylens-io/skylens/pkg/skylens/store/sqlite"
	"github.com/skylens-io/skylens/pkg/skylens/topics"
	"github.com/skylens-io/skylens/pkg/skylens/viz"
)

// Pipeline executes one full analysis batch. Stages run sequentially;
// each stage owns its output and nothing is shared between runs.
type Pipeline struct {
	opts    config.Options
	cleaner *preprocess.Cleaner
	dict    *preprocess.Dictionary
	entropy *ulid.MonotonicEntropy
}

// Summary reports what a finished pipeline run produced.
type Summary struct {
	Records        int
	SkippedRecords int
	ModeledRecords int
	Retained       []string
	OverallRunID   string
	OverallTopics  int
	AirlineRuns    map[string]int
	SkippedRuns    []string
}

// New validates the configuration and loads the airline dictionary and
// stopword list, falling back to the built-in defaults when no files
// are configured.
func New(opts config.Options) (*Pipeline, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	stops := preprocess.DefaultStopwords
	if opts.StoplistPath != "" {
		sl, err := config.LoadStoplist(opts.StoplistPath)
		if err != nil {
			return nil, fmt.Errorf("load stoplist: %w", err)
		}
		stops = sl.Terms
	}

	dict := preprocess.DefaultDictionary()
	if opts.AirlinesPath != "" {
		a, err := config.LoadAirlines(opts.AirlinesPath)
		if err != nil {
			return nil, fmt.Errorf("load airline dictionary: %w", err)
		}
		dict = preprocess.NewDictionary(a.Entries)
	}

	return &Pipeline{
		opts:    opts,
		cleaner: preprocess.NewCleaner(stops),
		dict:    dict,
		entropy: ulid.Monotonic(rand.Reader, 0),
	}, nil
}

// Run executes load, preprocess, overall and per-airline modeling, and
// chart rendering, in that order. It returns after every retained
// airline has been handled; per-airline problems degrade and log
// rather than abort.
func (p *Pipeline) Run(ctx context.Context) (*Summary, error) {
	if err := ensureWritableDir(p.opts.OutputDir); err != nil {
		return nil, err
	}

	var archive store.Store
	if p.opts.ArchivePath != "" {
		var err error
		archive, err = sqlite.Open(ctx, p.opts.ArchivePath)
		if err != nil {
			return nil, fmt.Errorf("open archive: %w", err)
		}
		defer archive.Close()
	}

	records, err := loader.Load(p.opts.InputPath)
	if err != nil {
		return nil, err
	}

	pre := preprocess.New(p.cleaner, p.dict)
	res := pre.Run(records, p.opts.MinMentions)

	summary := &Summary{
		Records:        len(res.Records),
		SkippedRecords: res.Skipped,
		ModeledRecords: len(res.Filtered),
		Retained:       res.Retained,
		AirlineRuns:    make(map[string]int),
	}

	renderer := viz.New(p.opts.OutputDir, p.opts.TopN)
	fitOpts := topics.FitOptions{TopicCount: p.opts.TopicCount, Seed: p.opts.Seed}

	// Overall run over the full filtered corpus.
	log.Printf("skylens: overall topic run over %d records", len(res.Filtered))
	corpus := res.Filtered
	model := topics.Fit(cleanTexts(corpus), fitOpts)
	corpus = withAssignments(corpus, model.Assignments)
	summary.OverallRunID = p.newRunID()
	summary.OverallTopics = len(model.Topics)

	overTime := topics.ComputeOverTime(corpus, p.opts.TimeBins)

	if err := renderer.TopicBarChart("overall", "Top Topic Word Scores", model); err != nil {
		return nil, err
	}
	if err := renderer.TopicHierarchy("overall", "Hierarchical Topic Structure", model); err != nil {
		return nil, err
	}
	if err := renderer.TopicHeatmap("overall", "Topic Similarity Heatmap", model); err != nil {
		return nil, err
	}
	if err := renderer.TopicsOverTime("overall", "Topics Over Time", model, overTime); err != nil {
		return nil, err
	}
	if err := p.archiveRun(ctx, archive, summary.OverallRunID, "overall", corpus, model, false); err != nil {
		return nil, err
	}

	// One independent run per retained airline; no state is shared
	// with the overall run or between airlines.
	for _, airline := range res.Retained {
		subset := res.Subset(airline)
		runID := p.newRunID()

		if len(subset) < p.opts.MinCorpusSize {
			log.Printf("skylens: skipping %s, %d records is below minimum corpus size %d",
				airline, len(subset), p.opts.MinCorpusSize)
			summary.SkippedRuns = append(summary.SkippedRuns, airline)
			if err := p.archiveRun(ctx, archive, runID, airline, subset, nil, true); err != nil {
				return nil, err
			}
			continue
		}

		log.Printf("skylens: topic run for %s over %d records", airline, len(subset))
		airlineModel := topics.Fit(cleanTexts(subset), fitOpts)
		subset = withAssignments(subset, airlineModel.Assignments)
		summary.AirlineRuns[airline] = len(airlineModel.Topics)

		title := fmt.Sprintf("Top Topics for %s", airline)
		if err := renderer.TopicBarChart(airline, title, airlineModel); err != nil {
			return nil, err
		}
		if err := p.archiveRun(ctx, archive, runID, airline, subset, airlineModel, false); err != nil {
			return nil, err
		}
	}

	if p.opts.SaveProcessed {
		path := filepath.Join(p.opts.OutputDir, export.ProcessedFile)
		if err := export.WriteProcessed(path, res.Records); err != nil {
			return nil, err
		}
		log.Printf("skylens: processed data saved to %s", path)
	}

	return summary, nil
}

// newRunID mints a sortable run id.
func (p *Pipeline) newRunID() string {
	return ulid.MustNew(ulid.Now(), p.entropy).String()
}

// archiveRun persists one run's outcome when an archive is configured.
func (p *Pipeline) archiveRun(ctx context.Context, archive store.Store, runID, label string, records []post.Record, model *topics.Model, skipped bool) error {
	if archive == nil {
		return nil
	}

	run := store.Run{
		ID:        runID,
		Label:     label,
		CreatedAt: time.Now(),
		Docs:      len(records),
		Skipped:   skipped,
	}
	if model != nil {
		run.Topics = len(model.Topics)
	}
	if err := archive.SaveRun(ctx, run); err != nil {
		return fmt.Errorf("archive run %s: %w", label, err)
	}
	if model == nil {
		return nil
	}

	ts := make([]store.Topic, 0, len(model.Topics))
	for _, t := range model.Topics {
		st := store.Topic{ID: t.ID, Size: t.Size}
		for _, kw := range t.Keywords {
			st.Keywords = append(st.Keywords, store.Keyword{Term: kw.Term, Weight: kw.Weight})
		}
		ts = append(ts, st)
	}
	if err := archive.SaveTopics(ctx, runID, ts); err != nil {
		return fmt.Errorf("archive topics for %s: %w", label, err)
	}

	as := make([]store.Assignment, 0, len(records))
	for _, r := range records {
		as = append(as, store.Assignment{PostID: r.ID, Topic: r.Topic})
	}
	if err := archive.SaveAssignments(ctx, runID, as); err != nil {
		return fmt.Errorf("archive assignments for %s: %w", label, err)
	}
	return nil
}

// cleanTexts projects the corpus onto its cleaned text.
func cleanTexts(records []post.Record) []string {
	docs := make([]string, len(records))
	for i, r := range records {
		docs[i] = r.CleanText
	}
	return docs
}

// withAssignments returns a copy of the records with topic ids set.
func withAssignments(records []post.Record, assignments []int) []post.Record {
	out := make([]post.Record, len(records))
	copy(out, records)
	for i := range out {
		if i < len(assignments) {
			out[i].Topic = assignments[i]
		}
	}
	return out
}

func ensureWritableDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("%w: %s: %v", internalerr.ErrOutputDir, dir, err)
	}
	probe, err := os.CreateTemp(dir, ".write-probe-*")
	if err != nil {
		return fmt.Errorf("%w: %s: %v", internalerr.ErrOutputDir, dir, err)
	}
	probe.Close()
	return os.Remove(probe.Name())
}
