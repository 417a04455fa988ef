package topics

import (
	"math"
	"sort"
	"strings"
)

// relevance scores how strongly a term associates with a topic, as a
// smoothed log-ratio of the term's in-topic frequency against its
// corpus-wide frequency:
//
//	rel(t,c) = log((N_tc + ε) * N / ((N_t + ε)(N_c + ε)))
//
// Where:
//   - N_tc = occurrences of term t within topic c's member texts
//   - N_t  = occurrences of term t in the whole corpus
//   - N_c  = total tokens in topic c's member texts
//   - N    = total tokens in the corpus
//   - ε    = smoothing constant
const relevanceEpsilon = 1.0

func relevance(nTC, nT, nC, n int64) float64 {
	if n == 0 {
		return 0
	}
	numerator := (float64(nTC) + relevanceEpsilon) * float64(n)
	denominator := (float64(nT) + relevanceEpsilon) * (float64(nC) + relevanceEpsilon)
	if denominator == 0 {
		return 0
	}
	return math.Log(numerator / denominator)
}

// rankKeywords derives each topic's ranked keyword list from term
// frequencies restricted to the topic's member texts, weighted against
// the corpus background so corpus-wide filler ranks low.
func rankKeywords(corpus []string, members map[int][]string) map[int][]Keyword {
	corpusFreq := make(map[string]int64)
	var corpusTokens int64
	for _, doc := range corpus {
		for _, term := range strings.Fields(doc) {
			corpusFreq[term]++
			corpusTokens++
		}
	}

	out := make(map[int][]Keyword, len(members))
	for topic, texts := range members {
		topicFreq := make(map[string]int64)
		var topicTokens int64
		for _, doc := range texts {
			for _, term := range strings.Fields(doc) {
				topicFreq[term]++
				topicTokens++
			}
		}

		keywords := make([]Keyword, 0, len(topicFreq))
		for term, n := range topicFreq {
			keywords = append(keywords, Keyword{
				Term:   term,
				Weight: relevance(n, corpusFreq[term], topicTokens, corpusTokens),
			})
		}
		sort.Slice(keywords, func(i, j int) bool {
			if keywords[i].Weight != keywords[j].Weight {
				return keywords[i].Weight > keywords[j].Weight
			}
			return keywords[i].Term < keywords[j].Term
		})
		if len(keywords) > MaxKeywords {
			keywords = keywords[:MaxKeywords]
		}
		out[topic] = keywords
	}
	return out
}
