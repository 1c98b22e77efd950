package auth

import "github.com/mamishal/echoos/internal/repositories/identities"

// DefaultMatchThreshold is the rejection floor on the [-1, 1] cosine
// similarity scale. Conservative on purpose: a legitimate user rejected is
// preferred over an impostor accepted.
const DefaultMatchThreshold = 0.75

// Match selects the enrolled voice identity whose embedding is most similar
// to candidate and accepts it only if the best score reaches threshold
// (inclusive). It is a greedy nearest-neighbor classifier with a hard
// rejection floor.
//
// Similarity is the plain dot product; embeddings are unit-normalized by
// the external encoder, so this equals cosine similarity. On equal scores
// the first-encountered record wins. An empty record set never matches,
// whatever the threshold.
func Match(candidate []float64, records []identities.VoiceRecord, threshold float64) (string, bool) {
	var (
		bestName  string
		bestScore float64
		found     bool
	)
	for _, rec := range records {
		score := dot(candidate, rec.Embedding)
		if !found || score > bestScore {
			bestName = rec.Name
			bestScore = score
			found = true
		}
	}

	if !found || bestScore < threshold {
		return "", false
	}
	return bestName, true
}

func dot(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += a[i] * b[i]
	}
	return sum
}
