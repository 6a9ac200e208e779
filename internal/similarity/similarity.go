package similarity

import (
	"math"

	"silabo/internal/lexical"
)

// Cosine returns the cosine similarity of two vectors. Mismatched lengths,
// empty vectors, and zero-magnitude vectors all yield 0.
func Cosine(a, b []float64) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, magA, magB float64
	for i := range a {
		dot += a[i] * b[i]
		magA += a[i] * a[i]
		magB += b[i] * b[i]
	}
	if magA == 0 || magB == 0 {
		return 0
	}
	return dot / (math.Sqrt(magA) * math.Sqrt(magB))
}

// Jaccard returns |A∩B| / |A∪B|. Either set empty yields 0.
func Jaccard(a, b lexical.TokenSet) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	intersection := 0
	for token := range a {
		if b.Contains(token) {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	return float64(intersection) / float64(union)
}

// Centroid returns the element-wise mean of the given vectors, skipping
// empty ones. Nil when no usable vectors remain or lengths disagree.
func Centroid(vectors [][]float64) []float64 {
	var usable [][]float64
	for _, v := range vectors {
		if len(v) > 0 {
			usable = append(usable, v)
		}
	}
	if len(usable) == 0 {
		return nil
	}
	dim := len(usable[0])
	for _, v := range usable {
		if len(v) != dim {
			return nil
		}
	}
	centroid := make([]float64, dim)
	for _, v := range usable {
		for i, x := range v {
			centroid[i] += x
		}
	}
	for i := range centroid {
		centroid[i] /= float64(len(usable))
	}
	return centroid
}
