// Package similarity computes the scalar similarity signals between resume and
// job description feature vectors. Inputs are assumed L2-normalized, so dot
// products stand in for cosine similarity.
package similarity

import (
	"sort"
)

// DefaultTopK is the number of strongest bullet pairs averaged by TopKMean
const DefaultTopK = 20

// Dot returns the dot product of a and b over their common length
func Dot(a, b []float32) float64 {
	n := min(len(a), len(b))
	var sum float64
	for i := 0; i < n; i++ {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

// IsZero reports whether v has no nonzero component
func IsZero(v []float32) bool {
	for _, x := range v {
		if x != 0 {
			return false
		}
	}
	return true
}

// Cosine returns the dot product of two aggregate vectors.
// An all-zero (or empty) operand means no signal and yields 0.
func Cosine(a, b []float32) float64 {
	if IsZero(a) || IsZero(b) {
		return 0.0
	}
	return Dot(a, b)
}

// Matrix returns the pairwise dot-product matrix, rows of a by rows of b
func Matrix(a, b [][]float32) [][]float64 {
	out := make([][]float64, len(a))
	for i, row := range a {
		out[i] = make([]float64, len(b))
		for j, col := range b {
			out[i][j] = Dot(row, col)
		}
	}
	return out
}

// Coverage measures how much of the job's skill set the resume covers: for each
// JD skill, the best match among resume skills, averaged over JD skills.
// Resume skills irrelevant to the JD do not lower the score.
func Coverage(jd, resume [][]float32) float64 {
	if len(jd) == 0 || len(resume) == 0 {
		return 0.0
	}

	var total float64
	for _, row := range Matrix(jd, resume) {
		best := row[0]
		for _, sim := range row[1:] {
			if sim > best {
				best = sim
			}
		}
		total += best
	}
	return total / float64(len(jd))
}

// TopKMean averages the k largest entries of the full JD-by-resume bullet
// similarity matrix. k is clamped to the number of pairs; k <= 0 uses DefaultTopK.
func TopKMean(jd, resume [][]float32, k int) float64 {
	if len(jd) == 0 || len(resume) == 0 {
		return 0.0
	}
	if k <= 0 {
		k = DefaultTopK
	}

	sims := make([]float64, 0, len(jd)*len(resume))
	for _, row := range Matrix(jd, resume) {
		sims = append(sims, row...)
	}
	k = min(k, len(sims))

	sort.Sort(sort.Reverse(sort.Float64Slice(sims)))

	var total float64
	for _, sim := range sims[:k] {
		total += sim
	}
	return total / float64(k)
}
