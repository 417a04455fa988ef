package preprocess

import (
	"log"
	"sort"

	"github.com/skylens-io/skylens/pkg/skylens/post"
)

// Result is the preprocessed corpus: every loadable record with clean
// text and airlines attached, the retained airlines with their mention
// counts, and the subset of records eligible for topic modeling.
type Result struct {
	// Records is every processed record, in source order, including
	// records that match no retained airline. These still appear in the
	// processed export.
	Records []post.Record

	// Filtered is the modeling corpus: records mentioning at least one
	// retained airline, in source order.
	Filtered []post.Record

	// MentionCounts is the corpus-wide record count per airline, for
	// every airline with at least one mention.
	MentionCounts map[string]int

	// Retained lists airlines meeting the mention threshold, sorted.
	Retained []string

	// Skipped counts malformed records dropped during preprocessing.
	Skipped int
}

// Preprocessor cleans text and attributes records to airlines.
type Preprocessor struct {
	cleaner *Cleaner
	dict    *Dictionary
}

// New creates a preprocessor from a cleaner and an airline dictionary.
func New(cleaner *Cleaner, dict *Dictionary) *Preprocessor {
	return &Preprocessor{cleaner: cleaner, dict: dict}
}

// Run processes the full record set: extracts airline mentions, cleans
// text, counts mentions per airline, and filters to airlines with at
// least minMentions records. Malformed records (empty raw text) are
// skipped and counted, never fatal.
func (p *Preprocessor) Run(records []post.Record, minMentions int) Result {
	res := Result{MentionCounts: make(map[string]int)}

	for _, r := range records {
		if r.Text == "" {
			res.Skipped++
			continue
		}
		r.Airlines = p.dict.Extract(r.Text)
		r.CleanText = p.cleaner.Clean(r.Text)
		for _, a := range r.Airlines {
			res.MentionCounts[a]++
		}
		res.Records = append(res.Records, r)
	}

	for airline, count := range res.MentionCounts {
		if count >= minMentions {
			res.Retained = append(res.Retained, airline)
		}
	}
	sort.Strings(res.Retained)

	retained := make(map[string]struct{}, len(res.Retained))
	for _, a := range res.Retained {
		retained[a] = struct{}{}
	}
	for _, r := range res.Records {
		for _, a := range r.Airlines {
			if _, ok := retained[a]; ok {
				res.Filtered = append(res.Filtered, r)
				break
			}
		}
	}

	if res.Skipped > 0 {
		log.Printf("preprocess: skipped %d malformed records", res.Skipped)
	}
	log.Printf("preprocess: %d records, %d in modeling corpus, %d airlines retained (threshold %d)",
		len(res.Records), len(res.Filtered), len(res.Retained), minMentions)
	return res
}

// Subset returns the records of the modeling corpus that mention the
// given airline, preserving order.
func (res Result) Subset(airline string) []post.Record {
	var out []post.Record
	for _, r := range res.Filtered {
		if r.Mentions(airline) {
			out = append(out, r)
		}
	}
	return out
}
