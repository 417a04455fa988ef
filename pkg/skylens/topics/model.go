package topics

import (
	"log"
	"sort"
	"strings"
	"time"

	"github.com/james-bowman/nlp"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"

	"github.com/skylens-io/skylens/pkg/skylens/post"
)

const (
	ldaIterations = 100
	ldaPasses     = 50

	// MaxKeywords is the length of the ranked keyword list per topic.
	MaxKeywords = 10

	autoTopicsMin     = 2
	autoTopicsMax     = 12
	autoTopicsPerDocs = 50

	// docsPerTopic caps K so tiny corpora never ask for more topics
	// than they can populate.
	docsPerTopic = 5
)

// Keyword is one ranked term of a topic.
type Keyword struct {
	Term   string
	Weight float64
}

// Topic is one cluster from a single modeling run. Topic ids are local
// to their run; topics from different runs are never comparable.
type Topic struct {
	ID       int
	Keywords []Keyword
	Size     int
}

// Label renders a short keyword summary, e.g. "delay flight hour".
func (t Topic) Label(n int) string {
	if n > len(t.Keywords) {
		n = len(t.Keywords)
	}
	terms := make([]string, n)
	for i := 0; i < n; i++ {
		terms[i] = t.Keywords[i].Term
	}
	return strings.Join(terms, " ")
}

// FitOptions configures a single model fit.
type FitOptions struct {
	// TopicCount fixes K; 0 selects clamp(docs/50, 2, 12).
	TopicCount int

	// Seed fixes the LDA random source; 0 means time-seeded.
	Seed int64
}

// Model is the outcome of one fit: a topic set and one assignment per
// input document, with post.OutlierTopic for unclustered documents.
type Model struct {
	K           int
	Topics      []Topic
	Assignments []int
}

// Empty reports whether the fit produced no topics at all.
func (m *Model) Empty() bool {
	return len(m.Topics) == 0
}

// TopTopics returns up to n topics ordered by member count, largest
// first, breaking ties by id.
func (m *Model) TopTopics(n int) []Topic {
	sorted := make([]Topic, len(m.Topics))
	copy(sorted, m.Topics)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Size != sorted[j].Size {
			return sorted[i].Size > sorted[j].Size
		}
		return sorted[i].ID < sorted[j].ID
	})
	if n < len(sorted) {
		sorted = sorted[:n]
	}
	return sorted
}

// Fit discovers topics in the cleaned corpus: count-vectorises the
// documents, fits LDA, assigns each document its dominant topic, and
// ranks keywords per topic from term-frequency statistics over member
// texts. An unusable corpus yields a degenerate empty model rather
// than an error; small-corpus policy is the caller's concern.
func Fit(docs []string, opts FitOptions) *Model {
	m := &Model{Assignments: make([]int, len(docs))}
	for i := range m.Assignments {
		m.Assignments[i] = post.OutlierTopic
	}
	if len(docs) == 0 {
		return m
	}

	k := opts.TopicCount
	if k <= 0 {
		k = clamp(len(docs)/autoTopicsPerDocs, autoTopicsMin, autoTopicsMax)
	}
	if max := len(docs) / docsPerTopic; k > max {
		k = max
	}
	if k < autoTopicsMin {
		k = autoTopicsMin
	}
	m.K = k

	vectoriser := nlp.NewCountVectoriser()
	lda := nlp.NewLatentDirichletAllocation(k)
	lda.Processes = 1
	lda.Iterations = ldaIterations
	lda.TransformationPasses = ldaPasses
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	lda.Rnd = rand.New(rand.NewSource(uint64(seed)))

	pipeline := nlp.NewPipeline(vectoriser, lda)
	docsOverTopics, err := pipeline.FitTransform(docs...)
	if err != nil {
		log.Printf("topics: model fit failed on %d documents, producing empty topic set: %v", len(docs), err)
		m.K = 0
		return m
	}

	m.Assignments = assign(docsOverTopics, docs, k)

	sizes := make(map[int]int)
	for _, t := range m.Assignments {
		if t != post.OutlierTopic {
			sizes[t]++
		}
	}

	members := make(map[int][]string)
	for i, t := range m.Assignments {
		if t != post.OutlierTopic {
			members[t] = append(members[t], docs[i])
		}
	}
	keywords := rankKeywords(docs, members)

	for topic := 0; topic < k; topic++ {
		m.Topics = append(m.Topics, Topic{
			ID:       topic,
			Keywords: keywords[topic],
			Size:     sizes[topic],
		})
	}

	log.Printf("topics: fitted %d topics over %d documents", k, len(docs))
	return m
}

// assign picks the dominant topic per document. Documents with empty
// text, or whose best probability does not beat a uniform assignment,
// are outliers.
func assign(docsOverTopics mat.Matrix, docs []string, k int) []int {
	rows, cols := docsOverTopics.Dims()
	assignments := make([]int, len(docs))
	uniform := 1.0 / float64(k)

	for doc := 0; doc < len(docs); doc++ {
		assignments[doc] = post.OutlierTopic
		if doc >= cols || strings.TrimSpace(docs[doc]) == "" {
			continue
		}
		best, bestP := post.OutlierTopic, 0.0
		for topic := 0; topic < rows; topic++ {
			if p := docsOverTopics.At(topic, doc); p > bestP {
				best, bestP = topic, p
			}
		}
		if bestP > uniform {
			assignments[doc] = best
		}
	}
	return assignments
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
