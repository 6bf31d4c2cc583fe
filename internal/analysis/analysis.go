// Package analysis computes the simple aggregates a panel leader reviews:
// per-attribute means, citation percentages, preference and correct-pick
// rates, napping centroids. Nothing here goes beyond means and percentages.
package analysis

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nicolippi7-boop/sensory-lab-sub000/internal/models"
)

// AttributeMean is the mean rating of one (sample, attribute) cell across
// judges.
type AttributeMean struct {
	SampleCode  string  `json:"sampleCode"`
	AttributeID string  `json:"attributeId"`
	Mean        float64 `json:"mean"`
	N           int     `json:"n"`
}

// CitationRate is the share of judges who checked one (sample, attribute)
// cell (CATA) or marked it applicable (RATA).
type CitationRate struct {
	SampleCode  string  `json:"sampleCode"`
	AttributeID string  `json:"attributeId"`
	Percent     float64 `json:"percent"`
	N           int     `json:"n"`
}

// SelectionRate is the share of judges who picked one sample (paired
// comparison, triangle selections).
type SelectionRate struct {
	SampleCode string  `json:"sampleCode"`
	Percent    float64 `json:"percent"`
	N          int     `json:"n"`
}

// TriangleSummary aggregates a triangle test's discrimination outcome.
type TriangleSummary struct {
	Judges      int     `json:"judges"`
	CorrectPick int     `json:"correctPicks"`
	PercentHit  float64 `json:"percentHit"`
	Forced      int     `json:"forcedResponses"`
}

// Centroid is the mean napping position of one sample.
type Centroid struct {
	SampleCode string  `json:"sampleCode"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	N          int     `json:"n"`
}

// splitKey splits a "sampleCode_attributeId" composite key. Sample codes
// cannot contain underscores (enforced at test creation), so the first
// underscore is the separator even for free-text flash labels.
func splitKey(key string) (sample, attr string, ok bool) {
	i := strings.Index(key, "_")
	if i <= 0 || i == len(key)-1 {
		return "", "", false
	}
	return key[:i], key[i+1:], true
}

// RatingMeans averages every rating cell across the given results.
func RatingMeans(results []models.Result) []AttributeMean {
	type acc struct {
		sum float64
		n   int
	}
	cells := make(map[[2]string]*acc)
	for _, r := range results {
		for key, v := range r.Ratings {
			sample, attr, ok := splitKey(key)
			if !ok {
				continue
			}
			k := [2]string{sample, attr}
			if cells[k] == nil {
				cells[k] = &acc{}
			}
			cells[k].sum += v
			cells[k].n++
		}
	}

	means := make([]AttributeMean, 0, len(cells))
	for k, a := range cells {
		means = append(means, AttributeMean{
			SampleCode:  k[0],
			AttributeID: k[1],
			Mean:        a.sum / float64(a.n),
			N:           a.n,
		})
	}
	sort.Slice(means, func(i, j int) bool {
		if means[i].SampleCode != means[j].SampleCode {
			return means[i].SampleCode < means[j].SampleCode
		}
		return means[i].AttributeID < means[j].AttributeID
	})
	return means
}

// CitationRates reports, per cell, the percentage of judges who cited it.
// For CATA that means the key is in the selection set; for RATA a rating
// above zero (zero is the cleared, not-selected state).
func CitationRates(results []models.Result) []CitationRate {
	total := len(results)
	if total == 0 {
		return nil
	}
	counts := make(map[[2]string]int)
	note := func(key string) {
		sample, attr, ok := splitKey(key)
		if ok {
			counts[[2]string{sample, attr}]++
		}
	}
	for _, r := range results {
		for _, key := range r.Selections {
			note(key)
		}
		for key, v := range r.Ratings {
			if v > 0 {
				note(key)
			}
		}
	}

	rates := make([]CitationRate, 0, len(counts))
	for k, n := range counts {
		rates = append(rates, CitationRate{
			SampleCode:  k[0],
			AttributeID: k[1],
			Percent:     100 * float64(n) / float64(total),
			N:           n,
		})
	}
	sort.Slice(rates, func(i, j int) bool {
		if rates[i].SampleCode != rates[j].SampleCode {
			return rates[i].SampleCode < rates[j].SampleCode
		}
		return rates[i].AttributeID < rates[j].AttributeID
	})
	return rates
}

// PairedPreference reports the share of judges preferring each sample.
func PairedPreference(results []models.Result) []SelectionRate {
	total := 0
	counts := make(map[string]int)
	for _, r := range results {
		if r.PairedSelection != nil {
			counts[*r.PairedSelection]++
			total++
		}
	}
	if total == 0 {
		return nil
	}

	rates := make([]SelectionRate, 0, len(counts))
	for code, n := range counts {
		rates = append(rates, SelectionRate{
			SampleCode: code,
			Percent:    100 * float64(n) / float64(total),
			N:          n,
		})
	}
	sort.Slice(rates, func(i, j int) bool { return rates[i].SampleCode < rates[j].SampleCode })
	return rates
}

// Triangle aggregates discrimination outcomes against the configured odd
// sample code.
func Triangle(results []models.Result, correctSample string) TriangleSummary {
	s := TriangleSummary{}
	for _, r := range results {
		if r.TriangleSelection == nil {
			continue
		}
		s.Judges++
		if correctSample != "" && *r.TriangleSelection == correctSample {
			s.CorrectPick++
		}
		if r.TriangleResponse != nil && r.TriangleResponse.IsForcedResponse {
			s.Forced++
		}
	}
	if s.Judges > 0 {
		s.PercentHit = 100 * float64(s.CorrectPick) / float64(s.Judges)
	}
	return s
}

// NappingCentroids averages every sample's placement across judges.
func NappingCentroids(results []models.Result) []Centroid {
	type acc struct {
		x, y float64
		n    int
	}
	sums := make(map[string]*acc)
	for _, r := range results {
		for code, p := range r.Coordinates {
			if sums[code] == nil {
				sums[code] = &acc{}
			}
			sums[code].x += p.X
			sums[code].y += p.Y
			sums[code].n++
		}
	}

	centroids := make([]Centroid, 0, len(sums))
	for code, a := range sums {
		centroids = append(centroids, Centroid{
			SampleCode: code,
			X:          a.x / float64(a.n),
			Y:          a.y / float64(a.n),
			N:          a.n,
		})
	}
	sort.Slice(centroids, func(i, j int) bool { return centroids[i].SampleCode < centroids[j].SampleCode })
	return centroids
}

// Summarize renders the aggregates as plain text, the form handed to the
// narrative analysis service.
func Summarize(test models.Test, results []models.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Test %q (%s), %d submitted results.\n", test.Name, test.Method, len(results))

	switch test.Method {
	case models.MethodTriangle:
		t := Triangle(results, test.CorrectSample)
		fmt.Fprintf(&b, "Correct identification: %d of %d judges (%.1f%%), %d forced guesses.\n",
			t.CorrectPick, t.Judges, t.PercentHit, t.Forced)
	case models.MethodPaired:
		for _, p := range PairedPreference(results) {
			fmt.Fprintf(&b, "Sample %s preferred by %.1f%% (%d judges).\n", p.SampleCode, p.Percent, p.N)
		}
	case models.MethodCATA, models.MethodRATA:
		for _, c := range CitationRates(results) {
			fmt.Fprintf(&b, "Sample %s attribute %s cited by %.1f%%.\n", c.SampleCode, c.AttributeID, c.Percent)
		}
	case models.MethodNapping:
		for _, c := range NappingCentroids(results) {
			fmt.Fprintf(&b, "Sample %s centroid (%.1f, %.1f) from %d placements.\n", c.SampleCode, c.X, c.Y, c.N)
		}
	default:
		for _, m := range RatingMeans(results) {
			fmt.Fprintf(&b, "Sample %s attribute %s mean %.2f (n=%d).\n", m.SampleCode, m.AttributeID, m.Mean, m.N)
		}
	}
	return b.String()
}
