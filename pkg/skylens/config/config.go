package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/skylens-io/skylens/pkg/skylens/internalerr"
)

// Options carries the full pipeline configuration end to end.
type Options struct {
	InputPath   string
	OutputDir   string
	MinMentions int
	TopN        int
	TimeBins    int

	// TopicCount fixes the number of topics per run; 0 picks a
	// corpus-size heuristic.
	TopicCount int

	// Seed fixes the topic model's random source so topic ids and
	// keyword rankings are stable across runs; 0 means time-seeded.
	Seed int64

	// MinCorpusSize is the smallest per-airline subset worth modeling.
	// Smaller subsets are skipped with a warning.
	MinCorpusSize int

	SaveProcessed bool

	// AirlinesPath and StoplistPath override the built-in airline
	// dictionary and stopword list.
	AirlinesPath string
	StoplistPath string

	// ArchivePath, when set, persists run results to a sqlite archive.
	ArchivePath string
}

// DefaultOptions returns the documented defaults for every tunable.
func DefaultOptions() Options {
	return Options{
		OutputDir:     "analysis_results",
		MinMentions:   100,
		TopN:          10,
		TimeBins:      20,
		MinCorpusSize: 25,
	}
}

// Validate rejects configurations that would only fail mid-run.
func (o Options) Validate() error {
	if o.InputPath == "" {
		return fmt.Errorf("%w: input path required", internalerr.ErrInvalidConfig)
	}
	if o.OutputDir == "" {
		return fmt.Errorf("%w: output directory required", internalerr.ErrInvalidConfig)
	}
	if o.TimeBins <= 0 {
		return fmt.Errorf("%w: time bins must be positive, got %d", internalerr.ErrInvalidConfig, o.TimeBins)
	}
	if o.TopN <= 0 {
		return fmt.Errorf("%w: top-n must be positive, got %d", internalerr.ErrInvalidConfig, o.TopN)
	}
	if o.MinMentions < 0 {
		return fmt.Errorf("%w: mention threshold must not be negative, got %d", internalerr.ErrInvalidConfig, o.MinMentions)
	}
	if o.TopicCount < 0 {
		return fmt.Errorf("%w: topic count must not be negative, got %d", internalerr.ErrInvalidConfig, o.TopicCount)
	}
	if o.MinCorpusSize < 0 {
		return fmt.Errorf("%w: minimum corpus size must not be negative, got %d", internalerr.ErrInvalidConfig, o.MinCorpusSize)
	}
	return nil
}

// Airlines represents the airline alias dictionary configuration.
// Each entry maps a canonical airline name to the handles and aliases
// that count as a mention of it.
type Airlines struct {
	Entries []AirlineEntry `yaml:"airlines"`
}

// AirlineEntry is one canonical airline with its known aliases.
type AirlineEntry struct {
	Canonical string   `yaml:"canonical"`
	Aliases   []string `yaml:"aliases"`
}

// LoadAirlines loads the airline dictionary from a YAML file.
func LoadAirlines(path string) (*Airlines, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var a Airlines
	if err := yaml.Unmarshal(data, &a); err != nil {
		return nil, err
	}
	if len(a.Entries) == 0 {
		return nil, fmt.Errorf("%w: airline dictionary %s has no entries", internalerr.ErrInvalidConfig, path)
	}

	return &a, nil
}

// Stoplist represents the stopword list configuration.
type Stoplist struct {
	Terms []string `yaml:"terms"`
}

// LoadStoplist loads stopwords from a YAML file.
func LoadStoplist(path string) (*Stoplist, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var sl Stoplist
	if err := yaml.Unmarshal(data, &sl); err != nil {
		return nil, err
	}

	return &sl, nil
}
