package session

import (
	"math/rand"

	"github.com/nicolippi7-boop/sensory-lab-sub000/internal/models"
)

// workingOrder derives the presentation order for one run. The input slice
// is never mutated; randomized orders are drawn fresh here, once, at session
// start, and are deliberately not reproducible across runs.
func workingOrder(samples []models.Sample, randomize bool) []models.Sample {
	order := make([]models.Sample, len(samples))
	copy(order, samples)
	if !randomize {
		return order
	}
	// Fisher-Yates, tail to head
	for i := len(order) - 1; i > 0; i-- {
		j := rand.Intn(i + 1)
		order[i], order[j] = order[j], order[i]
	}
	return order
}
