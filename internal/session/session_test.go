package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nicolippi7-boop/sensory-lab-sub000/internal/models"
)

// testTuning keeps the real ticker dormant so tests drive the clock through
// advanceClock directly.
func testTuning() Tuning {
	return Tuning{
		DefaultDuration: 60 * time.Second,
		ClockTick:       time.Hour,
		IntensityTick:   500 * time.Millisecond,
	}
}

func mustStart(t *testing.T, test models.Test) *Session {
	t.Helper()
	s, err := New(test, "Judge 1", nil, testTuning(), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(s.Exit)
	return s
}

// tick injects dt seconds of clock time, the way the ticker goroutine does.
func tick(s *Session, dt float64) {
	s.mu.Lock()
	s.advanceClock(dt)
	s.mu.Unlock()
}

func qdaTest() models.Test {
	return models.Test{
		ID:     1,
		Name:   "Juice profile",
		Method: models.MethodQDA,
		Status: models.StatusActive,
		Samples: []models.Sample{
			{ID: 1, Code: "417", Name: "Supplier A"},
			{ID: 2, Code: "582", Name: "Supplier B"},
		},
		Attributes: []models.Attribute{
			{ID: 11, Name: "Sweetness", Scale: models.ScaleContinuous0to100},
			{ID: 12, Name: "Sourness", Scale: models.ScaleCategory5},
		},
	}
}

func TestNewRejectsBadInput(t *testing.T) {
	_, err := New(qdaTest(), "   ", nil, testTuning(), zap.NewNop())
	assert.Error(t, err)

	bad := qdaTest()
	bad.Method = "guesswork"
	_, err = New(bad, "Judge", nil, testTuning(), zap.NewNop())
	assert.Error(t, err)

	empty := qdaTest()
	empty.Samples = nil
	_, err = New(empty, "Judge", nil, testTuning(), zap.NewNop())
	assert.Error(t, err)
}

func TestQDAUntouchedCellsKeepScaleDefaults(t *testing.T) {
	s := mustStart(t, qdaTest())

	r, err := s.Advance()
	require.NoError(t, err)
	require.Nil(t, r)

	r, err = s.Advance()
	require.NoError(t, err)
	require.NotNil(t, r)

	// Continuous cells default to 0, categorical to the first point.
	assert.Equal(t, 0.0, r.Ratings["417_11"])
	assert.Equal(t, 0.0, r.Ratings["582_11"])
	assert.Equal(t, 1.0, r.Ratings["417_12"])
	assert.Equal(t, 1.0, r.Ratings["582_12"])
	assert.Len(t, r.Ratings, 4)
}

func TestQDARateClampsToAttributeScale(t *testing.T) {
	s := mustStart(t, qdaTest())

	require.NoError(t, s.Rate("417", 11, 140))
	require.NoError(t, s.Rate("417", 12, 9))
	require.NoError(t, s.Rate("582", 11, -3))

	_, err := s.Advance()
	require.NoError(t, err)
	r, err := s.Advance()
	require.NoError(t, err)

	assert.Equal(t, 100.0, r.Ratings["417_11"])
	assert.Equal(t, 5.0, r.Ratings["417_12"])
	assert.Equal(t, 0.0, r.Ratings["582_11"])
}

func TestRateRejectsUnknownSampleAndAttribute(t *testing.T) {
	s := mustStart(t, qdaTest())

	assert.ErrorIs(t, s.Rate("999", 11, 50), ErrUnknownSample)
	assert.ErrorIs(t, s.Rate("417", 99, 50), ErrUnknownAttribute)
}

func TestHedonicClampsToNinePointScale(t *testing.T) {
	test := qdaTest()
	test.Method = models.MethodHedonic
	s := mustStart(t, test)

	require.NoError(t, s.Rate("417", 11, 42))
	require.NoError(t, s.Rate("417", 12, 0))

	_, err := s.Advance()
	require.NoError(t, err)
	r, err := s.Advance()
	require.NoError(t, err)

	assert.Equal(t, 9.0, r.Ratings["417_11"])
	assert.Equal(t, 1.0, r.Ratings["417_12"])
	// Untouched hedonic cells keep the neutral midpoint.
	assert.Equal(t, 5.0, r.Ratings["582_11"])
}

func TestAdvanceIsIdempotentAfterCompletion(t *testing.T) {
	s := mustStart(t, qdaTest())

	_, err := s.Advance()
	require.NoError(t, err)
	first, err := s.Advance()
	require.NoError(t, err)
	require.NotNil(t, first)

	again, err := s.Advance()
	require.NoError(t, err)
	assert.Same(t, first, again)
	assert.Same(t, first, s.Result())
}

func TestExitedSessionRejectsEverything(t *testing.T) {
	s := mustStart(t, qdaTest())
	s.Exit()

	assert.ErrorIs(t, s.Rate("417", 11, 50), ErrClosed)
	_, err := s.Advance()
	assert.ErrorIs(t, err, ErrClosed)

	// Exit is idempotent.
	s.Exit()
}

func TestCompletedSessionRejectsMutations(t *testing.T) {
	s := mustStart(t, qdaTest())
	_, err := s.Advance()
	require.NoError(t, err)
	_, err = s.Advance()
	require.NoError(t, err)

	assert.ErrorIs(t, s.Rate("417", 11, 50), ErrComplete)
}

func TestCATAToggleAndSortedSelections(t *testing.T) {
	test := qdaTest()
	test.Method = models.MethodCATA
	s := mustStart(t, test)

	require.NoError(t, s.ToggleCheck("417", 12))
	require.NoError(t, s.ToggleCheck("417", 11))
	require.NoError(t, s.ToggleCheck("582", 11))
	// Toggling twice clears the cell.
	require.NoError(t, s.ToggleCheck("582", 11))

	_, err := s.Advance()
	require.NoError(t, err)
	r, err := s.Advance()
	require.NoError(t, err)

	assert.Equal(t, []string{"417_11", "417_12"}, r.Selections)
	assert.Nil(t, r.Ratings)
}

func TestRATAToggleSeedsAndClears(t *testing.T) {
	test := qdaTest()
	test.Method = models.MethodRATA
	s := mustStart(t, test)

	require.NoError(t, s.ToggleApplicable("417", 11))
	require.NoError(t, s.Rate("417", 11, 80))
	require.NoError(t, s.ToggleApplicable("582", 11))
	require.NoError(t, s.ToggleApplicable("582", 11))

	_, err := s.Advance()
	require.NoError(t, err)
	r, err := s.Advance()
	require.NoError(t, err)

	assert.Equal(t, 80.0, r.Ratings["417_11"])
	assert.Equal(t, 0.0, r.Ratings["582_11"])
}

func TestPairedRequiresSelectionToAdvance(t *testing.T) {
	test := qdaTest()
	test.Method = models.MethodPaired
	test.Attributes = nil
	s := mustStart(t, test)

	_, err := s.Advance()
	assert.ErrorIs(t, err, ErrIncomplete)

	assert.ErrorIs(t, s.SelectSample("999"), ErrUnknownSample)
	require.NoError(t, s.SelectSample("582"))

	r, err := s.Advance()
	require.NoError(t, err)
	require.NotNil(t, r)
	require.NotNil(t, r.PairedSelection)
	assert.Equal(t, "582", *r.PairedSelection)
}

func TestSortingRequiresFullAssignment(t *testing.T) {
	test := qdaTest()
	test.Method = models.MethodSorting
	test.Attributes = nil
	s := mustStart(t, test)

	assert.Equal(t, []string{"Group 1", "Group 2", "Group 3"}, s.Groups())

	_, err := s.Advance()
	assert.ErrorIs(t, err, ErrIncomplete)

	require.NoError(t, s.AddGroup("Citrus"))
	assert.ErrorIs(t, s.AssignGroup("417", "Floral"), ErrUnknownGroup)
	require.NoError(t, s.AssignGroup("417", "Citrus"))
	require.NoError(t, s.AssignGroup("582", "Group 1"))

	r, err := s.Advance()
	require.NoError(t, err)
	require.NotNil(t, r)
	assert.Equal(t, map[string]string{"417": "Citrus", "582": "Group 1"}, r.Groups)
}

func TestSortingRemoveGroupUnassignsSamples(t *testing.T) {
	test := qdaTest()
	test.Method = models.MethodSorting
	s := mustStart(t, test)

	require.NoError(t, s.AssignGroup("417", "Group 2"))
	require.NoError(t, s.RemoveGroup("Group 2"))

	assert.NotContains(t, s.Groups(), "Group 2")
	_, err := s.Advance()
	assert.ErrorIs(t, err, ErrIncomplete)
}

func TestNappingNormalizesAndGates(t *testing.T) {
	test := qdaTest()
	test.Method = models.MethodNapping
	test.Attributes = nil
	s := mustStart(t, test)

	_, err := s.Advance()
	assert.ErrorIs(t, err, ErrIncomplete)

	require.NoError(t, s.PlaceSample("417", 300, 150, 600, 600))
	// Out-of-bounds clicks clamp to the sheet edge.
	require.NoError(t, s.PlaceSample("582", 700, -20, 600, 600))

	r, err := s.Advance()
	require.NoError(t, err)
	require.NotNil(t, r)
	assert.Equal(t, models.Point{X: 50, Y: 25}, r.Coordinates["417"])
	assert.Equal(t, models.Point{X: 100, Y: 0}, r.Coordinates["582"])
}

func TestWholeSetMethodsCompleteInOneStep(t *testing.T) {
	test := qdaTest()
	test.Method = models.MethodNapping
	test.Samples = append(test.Samples, models.Sample{ID: 3, Code: "736"})
	s := mustStart(t, test)

	require.NoError(t, s.PlaceSample("417", 1, 1, 10, 10))
	require.NoError(t, s.PlaceSample("582", 2, 2, 10, 10))
	require.NoError(t, s.PlaceSample("736", 3, 3, 10, 10))

	r, err := s.Advance()
	require.NoError(t, err)
	assert.NotNil(t, r, "whole-set methods should finalize from the single step")
}

func TestResultCarriesOnlyMethodFields(t *testing.T) {
	s := mustStart(t, qdaTest())
	_, err := s.Advance()
	require.NoError(t, err)
	r, err := s.Advance()
	require.NoError(t, err)

	assert.NotEmpty(t, r.ID)
	assert.Equal(t, uint(1), r.TestID)
	assert.Equal(t, "Judge 1", r.JudgeName)
	assert.False(t, r.SubmittedAt.IsZero())

	assert.NotNil(t, r.Ratings)
	assert.Nil(t, r.Selections)
	assert.Nil(t, r.TriangleSelection)
	assert.Nil(t, r.TriangleResponse)
	assert.Nil(t, r.PairedSelection)
	assert.Nil(t, r.Groups)
	assert.Nil(t, r.Coordinates)
	assert.Nil(t, r.DominanceLogs)
	assert.Nil(t, r.IntensityLogs)
}

func TestSnapshotShowsCodesOnly(t *testing.T) {
	s := mustStart(t, qdaTest())
	v := s.Snapshot()

	assert.Equal(t, "417", v.Sample.Code)
	assert.Equal(t, 2, v.Total)
	assert.Equal(t, StateRunning, v.State)
	assert.True(t, v.CanAdvance)
	for _, sv := range v.Samples {
		assert.NotContains(t, []string{"Supplier A", "Supplier B"}, sv.Code)
	}

	// Reading the snapshot twice never reorders the working set.
	again := s.Snapshot()
	assert.Equal(t, v.Samples, again.Samples)
}

func TestAdvanceMovesToNextSample(t *testing.T) {
	s := mustStart(t, qdaTest())
	_, err := s.Advance()
	require.NoError(t, err)

	v := s.Snapshot()
	assert.Equal(t, 1, v.Index)
	assert.Equal(t, "582", v.Sample.Code)
}
