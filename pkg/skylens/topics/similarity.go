package topics

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Similarity computes the pairwise cosine similarity between topics,
// representing each topic by its keyword-weight vector over the union
// keyword vocabulary. The matrix is symmetric with a unit diagonal.
func Similarity(topics []Topic) *mat.Dense {
	n := len(topics)
	if n == 0 {
		return nil
	}

	vocab := make(map[string]int)
	for _, t := range topics {
		for _, kw := range t.Keywords {
			if _, ok := vocab[kw.Term]; !ok {
				vocab[kw.Term] = len(vocab)
			}
		}
	}
	if len(vocab) == 0 {
		return mat.NewDense(n, n, nil)
	}

	vectors := make([][]float64, n)
	for i, t := range topics {
		v := make([]float64, len(vocab))
		for _, kw := range t.Keywords {
			v[vocab[kw.Term]] = kw.Weight
		}
		vectors[i] = v
	}

	sim := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			s := cosine(vectors[i], vectors[j])
			sim.Set(i, j, s)
			sim.Set(j, i, s)
		}
	}
	return sim
}

func cosine(a, b []float64) float64 {
	na := floats.Norm(a, 2)
	nb := floats.Norm(b, 2)
	if na == 0 || nb == 0 {
		return 0
	}
	return floats.Dot(a, b) / (na * nb)
}

// Merge is one step of the agglomerative topic hierarchy. A and B are
// node ids: ids below the leaf count refer to topics by index, higher
// ids refer to earlier merges (leaf count + merge index).
type Merge struct {
	A        int
	B        int
	Distance float64
	Size     int
}

// Linkage builds an average-linkage merge tree over the topics from
// their cosine distances (1 - similarity). It returns len(topics)-1
// merges, in merge order.
func Linkage(sim *mat.Dense) []Merge {
	if sim == nil {
		return nil
	}
	n, _ := sim.Dims()
	if n < 2 {
		return nil
	}

	type cluster struct {
		id      int
		members []int
	}
	clusters := make([]cluster, n)
	for i := range clusters {
		clusters[i] = cluster{id: i, members: []int{i}}
	}

	dist := func(a, b cluster) float64 {
		var sum float64
		for _, i := range a.members {
			for _, j := range b.members {
				sum += 1 - sim.At(i, j)
			}
		}
		return sum / float64(len(a.members)*len(b.members))
	}

	var merges []Merge
	next := n
	for len(clusters) > 1 {
		bi, bj, bd := 0, 1, math.Inf(1)
		for i := 0; i < len(clusters); i++ {
			for j := i + 1; j < len(clusters); j++ {
				if d := dist(clusters[i], clusters[j]); d < bd {
					bi, bj, bd = i, j, d
				}
			}
		}

		a, b := clusters[bi], clusters[bj]
		merged := cluster{id: next, members: append(append([]int{}, a.members...), b.members...)}
		merges = append(merges, Merge{A: a.id, B: b.id, Distance: bd, Size: len(merged.members)})
		next++

		clusters = append(clusters[:bj], clusters[bj+1:]...)
		clusters[bi] = merged
	}
	return merges
}
