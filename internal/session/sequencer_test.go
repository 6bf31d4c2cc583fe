package session

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nicolippi7-boop/sensory-lab-sub000/internal/models"
)

func codes(samples []models.Sample) []string {
	out := make([]string, len(samples))
	for i, s := range samples {
		out[i] = s.Code
	}
	return out
}

func TestWorkingOrderPreservesDefinitionOrder(t *testing.T) {
	samples := []models.Sample{
		{Code: "101"}, {Code: "202"}, {Code: "303"},
	}
	got := workingOrder(samples, false)
	assert.Equal(t, []string{"101", "202", "303"}, codes(got))
}

func TestWorkingOrderCopiesInput(t *testing.T) {
	samples := []models.Sample{{Code: "101"}, {Code: "202"}}
	got := workingOrder(samples, false)
	got[0].Code = "mutated"
	assert.Equal(t, "101", samples[0].Code)
}

func TestWorkingOrderShuffleIsPermutation(t *testing.T) {
	samples := []models.Sample{
		{Code: "101"}, {Code: "202"}, {Code: "303"}, {Code: "404"}, {Code: "505"},
	}
	for i := 0; i < 20; i++ {
		got := workingOrder(samples, true)
		require.Len(t, got, len(samples))

		want := codes(samples)
		have := codes(got)
		sort.Strings(want)
		sort.Strings(have)
		assert.Equal(t, want, have)
	}
}
