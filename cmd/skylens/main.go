package main

import (
	"context"
	"flag"
	"log"
	"strings"

	"github.com/skylens-io/skylens/pkg/skylens"
	"github.com/skylens-io/skylens/pkg/skylens/config"
)

func main() {
	defaults := config.DefaultOptions()

	var (
		input         = flag.String("input", "", "Path to the input spreadsheet, .xlsx or .csv (required)")
		output        = flag.String("output", defaults.OutputDir, "Directory for charts and processed data")
		minMentions   = flag.Int("min-mentions", defaults.MinMentions, "Minimum mentions for an airline to be analyzed")
		topN          = flag.Int("top-n", defaults.TopN, "Number of top topics to display per chart")
		timeBins      = flag.Int("time-bins", defaults.TimeBins, "Number of bins for topics-over-time analysis")
		topicCount    = flag.Int("topics", 0, "Fixed topic count per run (0 = choose from corpus size)")
		seed          = flag.Int64("seed", 0, "Random seed for reproducible topic runs (0 = time-seeded)")
		minCorpus     = flag.Int("min-corpus", defaults.MinCorpusSize, "Smallest per-airline corpus worth modeling")
		saveProcessed = flag.Bool("save-processed", false, "Save the cleaned record set as CSV")
		airlines      = flag.String("airlines", "", "Optional: airline dictionary YAML file")
		stoplist      = flag.String("stoplist", "", "Optional: stopword list YAML file")
		archive       = flag.String("archive", "", "Optional: sqlite run-archive path")
	)
	flag.Parse()

	if *input == "" {
		log.Fatal("--input required")
	}

	opts := config.Options{
		InputPath:     *input,
		OutputDir:     *output,
		MinMentions:   *minMentions,
		TopN:          *topN,
		TimeBins:      *timeBins,
		TopicCount:    *topicCount,
		Seed:          *seed,
		MinCorpusSize: *minCorpus,
		SaveProcessed: *saveProcessed,
		AirlinesPath:  *airlines,
		StoplistPath:  *stoplist,
		ArchivePath:   *archive,
	}

	pipeline, err := skylens.New(opts)
	if err != nil {
		log.Fatalf("setup: %v", err)
	}

	log.Printf("Starting airline topic analysis on %s", *input)
	summary, err := pipeline.Run(context.Background())
	if err != nil {
		log.Fatalf("pipeline: %v", err)
	}

	log.Printf("Done: %d records (%d skipped), %d modeled", summary.Records, summary.SkippedRecords, summary.ModeledRecords)
	log.Printf("Airlines retained: %s", strings.Join(summary.Retained, ", "))
	log.Printf("Overall run %s: %d topics", summary.OverallRunID, summary.OverallTopics)
	for airline, n := range summary.AirlineRuns {
		log.Printf("  %s: %d topics", airline, n)
	}
	if len(summary.SkippedRuns) > 0 {
		log.Printf("Skipped (corpus too small): %s", strings.Join(summary.SkippedRuns, ", "))
	}
}
