// Temporal aggregates are computed in SQL over the normalized event rows;
// everything non-temporal is aggregated in Go by the analysis package.
package repository

import (
	"context"

	"github.com/nicolippi7-boop/sensory-lab-sub000/internal/database"
)

// CurvePoint is one bucket of an averaged temporal curve.
type CurvePoint struct {
	AtSeconds float64 `json:"atSeconds"`
	Value     float64 `json:"value"`
}

// DominanceCount is how often one attribute was clicked dominant for a
// sample, across all judges.
type DominanceCount struct {
	AttributeID string `json:"attributeId"`
	Clicks      int    `json:"clicks"`
}

// GetIntensityCurve averages the time-intensity value per 0.5s bucket across
// every judge of a test, for one sample and tracked attribute.
func GetIntensityCurve(ctx context.Context, testID uint, sampleCode, attributeID string) ([]CurvePoint, error) {
	var points []CurvePoint
	query := `
		WITH test_events AS (
			SELECT e.at_seconds, e.value
			FROM result_events e
			JOIN results r ON e.result_id = r.id
			WHERE r.test_id = ? AND e.sample_code = ? AND e.kind = 'intensity' AND e.attribute_id = ?
		)
		SELECT
			round(at_seconds::numeric, 1)::float AS at_seconds,
			AVG(value) AS value
		FROM test_events
		GROUP BY 1
		ORDER BY 1;
	`
	err := database.DB.WithContext(ctx).Raw(query, testID, sampleCode, attributeID).Scan(&points).Error
	return points, err
}

// GetDominanceCounts tallies dominance clicks per attribute for one sample
// of a test.
func GetDominanceCounts(ctx context.Context, testID uint, sampleCode string) ([]DominanceCount, error) {
	var counts []DominanceCount
	query := `
		SELECT e.attribute_id, COUNT(*) AS clicks
		FROM result_events e
		JOIN results r ON e.result_id = r.id
		WHERE r.test_id = ? AND e.sample_code = ? AND e.kind = 'dominance'
		GROUP BY e.attribute_id
		ORDER BY clicks DESC;
	`
	err := database.DB.WithContext(ctx).Raw(query, testID, sampleCode).Scan(&counts).Error
	return counts, err
}
