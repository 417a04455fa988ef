package topics

import (
	"math"
	"testing"
)

func testTopics() []Topic {
	return []Topic{
		{ID: 0, Keywords: []Keyword{{"delay", 1.0}, {"flight", 0.5}}},
		{ID: 1, Keywords: []Keyword{{"delay", 0.9}, {"gate", 0.7}}},
		{ID: 2, Keywords: []Keyword{{"crew", 1.0}, {"service", 0.8}}},
	}
}

func TestSimilarityDiagonalAndSymmetry(t *testing.T) {
	sim := Similarity(testTopics())
	if sim == nil {
		t.Fatal("Expected a similarity matrix")
	}
	n, _ := sim.Dims()
	for i := 0; i < n; i++ {
		if math.Abs(sim.At(i, i)-1) > 1e-9 {
			t.Errorf("Self-similarity of topic %d is %f, want 1", i, sim.At(i, i))
		}
		for j := 0; j < n; j++ {
			if math.Abs(sim.At(i, j)-sim.At(j, i)) > 1e-9 {
				t.Errorf("Matrix not symmetric at (%d,%d)", i, j)
			}
		}
	}
}

func TestSimilarityReflectsSharedKeywords(t *testing.T) {
	sim := Similarity(testTopics())

	// Topics 0 and 1 share "delay"; topic 2 shares nothing with 0.
	if sim.At(0, 1) <= sim.At(0, 2) {
		t.Errorf("Expected sim(0,1) > sim(0,2), got %f <= %f", sim.At(0, 1), sim.At(0, 2))
	}
	if sim.At(0, 2) != 0 {
		t.Errorf("Disjoint topics should have zero similarity, got %f", sim.At(0, 2))
	}
}

func TestSimilarityEmpty(t *testing.T) {
	if sim := Similarity(nil); sim != nil {
		t.Error("Expected nil matrix for no topics")
	}
}

func TestLinkageMergeCount(t *testing.T) {
	topics := testTopics()
	merges := Linkage(Similarity(topics))

	if len(merges) != len(topics)-1 {
		t.Fatalf("Expected %d merges, got %d", len(topics)-1, len(merges))
	}

	// The closest pair (0,1) merges first.
	first := merges[0]
	if !(first.A == 0 && first.B == 1 || first.A == 1 && first.B == 0) {
		t.Errorf("Expected topics 0 and 1 to merge first, got %+v", first)
	}

	// The final merge spans every leaf.
	last := merges[len(merges)-1]
	if last.Size != len(topics) {
		t.Errorf("Final merge should span %d leaves, got %d", len(topics), last.Size)
	}
}

func TestLinkageTooFewTopics(t *testing.T) {
	single := []Topic{{ID: 0, Keywords: []Keyword{{"delay", 1}}}}
	if merges := Linkage(Similarity(single)); merges != nil {
		t.Error("Expected no merges for a single topic")
	}
}
