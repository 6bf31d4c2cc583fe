package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nicolippi7-boop/sensory-lab-sub000/internal/models"
)

func triangleTest() models.Test {
	return models.Test{
		ID:            7,
		Name:          "Lemonade reformulation",
		Method:        models.MethodTriangle,
		Status:        models.StatusActive,
		CorrectSample: "254",
		Samples: []models.Sample{
			{ID: 1, Code: "331"},
			{ID: 2, Code: "902"},
			{ID: 3, Code: "254"},
		},
	}
}

func TestTriangleGuidedFlow(t *testing.T) {
	s := mustStart(t, triangleTest())
	require.Equal(t, StepSelection, s.TriangleStepNow())

	// Cannot move on without a pick.
	assert.ErrorIs(t, s.TriangleNext(), ErrNoSelection)
	assert.ErrorIs(t, s.TriangleSelect("999"), ErrUnknownSample)

	require.NoError(t, s.TriangleSelect("254"))
	require.NoError(t, s.TriangleNext())
	require.Equal(t, StepForced, s.TriangleStepNow())

	require.NoError(t, s.TriangleForced(false))
	require.Equal(t, StepDetails, s.TriangleStepNow())

	// The details step validates channel and intensity range.
	assert.ErrorIs(t, s.TriangleDetails("touch", "x", 2), ErrBadStep)
	assert.ErrorIs(t, s.TriangleDetails(models.ChannelTaste, "x", 5), ErrBadStep)
	// A blank description blocks the summary.
	assert.ErrorIs(t, s.TriangleNext(), ErrEmptyDescription)

	require.NoError(t, s.TriangleDetails(models.ChannelTaste, "bitter aftertaste", 3))
	require.NoError(t, s.TriangleNext())
	require.Equal(t, StepConfirm, s.TriangleStepNow())

	r, err := s.ConfirmTriangle()
	require.NoError(t, err)
	require.NotNil(t, r)

	require.NotNil(t, r.TriangleSelection)
	assert.Equal(t, "254", *r.TriangleSelection)
	require.NotNil(t, r.TriangleResponse)
	assert.False(t, r.TriangleResponse.IsForcedResponse)
	assert.Equal(t, models.ChannelTaste, r.TriangleResponse.SensoryCategoryType)
	assert.Equal(t, "bitter aftertaste", r.TriangleResponse.Description)
	assert.Equal(t, 3, r.TriangleResponse.Intensity)
}

func TestTriangleForcedSkipsDetails(t *testing.T) {
	s := mustStart(t, triangleTest())

	require.NoError(t, s.TriangleSelect("331"))
	require.NoError(t, s.TriangleNext())
	require.NoError(t, s.TriangleForced(true))
	require.Equal(t, StepConfirm, s.TriangleStepNow())

	r, err := s.ConfirmTriangle()
	require.NoError(t, err)
	require.NotNil(t, r.TriangleResponse)
	assert.True(t, r.TriangleResponse.IsForcedResponse)
	assert.Empty(t, r.TriangleResponse.SensoryCategoryType)
	assert.Empty(t, r.TriangleResponse.Description)
	assert.Zero(t, r.TriangleResponse.Intensity)
}

func TestTriangleBackPreservesEntries(t *testing.T) {
	s := mustStart(t, triangleTest())

	require.NoError(t, s.TriangleSelect("902"))
	require.NoError(t, s.TriangleNext())
	require.NoError(t, s.TriangleForced(false))
	require.NoError(t, s.TriangleDetails(models.ChannelAroma, "greener citrus note", 2))
	require.NoError(t, s.TriangleNext())

	// Walk all the way back, then forward again without re-entering anything.
	require.NoError(t, s.TriangleBack())
	require.Equal(t, StepDetails, s.TriangleStepNow())
	require.NoError(t, s.TriangleBack())
	require.Equal(t, StepForced, s.TriangleStepNow())
	require.NoError(t, s.TriangleBack())
	require.Equal(t, StepSelection, s.TriangleStepNow())
	assert.ErrorIs(t, s.TriangleBack(), ErrBadStep)

	require.NoError(t, s.TriangleNext())
	require.NoError(t, s.TriangleForced(false))
	require.NoError(t, s.TriangleNext())

	r, err := s.ConfirmTriangle()
	require.NoError(t, err)
	assert.Equal(t, "greener citrus note", r.TriangleResponse.Description)
	assert.Equal(t, 2, r.TriangleResponse.Intensity)
}

func TestTriangleBackFromConfirmAfterForcedGuess(t *testing.T) {
	s := mustStart(t, triangleTest())

	require.NoError(t, s.TriangleSelect("331"))
	require.NoError(t, s.TriangleNext())
	require.NoError(t, s.TriangleForced(true))
	require.NoError(t, s.TriangleBack())
	assert.Equal(t, StepForced, s.TriangleStepNow())
}

func TestTriangleNeverFinalizesThroughAdvance(t *testing.T) {
	s := mustStart(t, triangleTest())

	_, err := s.Advance()
	assert.ErrorIs(t, err, ErrTriangleFlow)

	_, err = s.ConfirmTriangle()
	assert.ErrorIs(t, err, ErrBadStep)
}

func TestTriangleConfirmIsIdempotent(t *testing.T) {
	s := mustStart(t, triangleTest())

	require.NoError(t, s.TriangleSelect("254"))
	require.NoError(t, s.TriangleNext())
	require.NoError(t, s.TriangleForced(true))

	first, err := s.ConfirmTriangle()
	require.NoError(t, err)
	again, err := s.ConfirmTriangle()
	require.NoError(t, err)
	assert.Same(t, first, again)
}

func TestTriangleActionsRejectedOnOtherMethods(t *testing.T) {
	s := mustStart(t, qdaTest())
	assert.ErrorIs(t, s.TriangleSelect("417"), ErrWrongMethod)
	assert.ErrorIs(t, s.TriangleNext(), ErrWrongMethod)
	_, err := s.ConfirmTriangle()
	assert.ErrorIs(t, err, ErrWrongMethod)
}
