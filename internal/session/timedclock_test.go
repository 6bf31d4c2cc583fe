package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nicolippi7-boop/sensory-lab-sub000/internal/models"
)

func tdsTest() models.Test {
	return models.Test{
		ID:              3,
		Name:            "Chocolate TDS",
		Method:          models.MethodTDS,
		Status:          models.StatusActive,
		DurationSeconds: 45,
		Samples: []models.Sample{
			{ID: 1, Code: "270"},
			{ID: 2, Code: "885"},
		},
		Attributes: []models.Attribute{
			{ID: 21, Name: "Bitter"},
			{ID: 22, Name: "Sweet"},
		},
	}
}

func tiTest() models.Test {
	t := tdsTest()
	t.Method = models.MethodTimeIntensity
	t.Attributes = []models.Attribute{{ID: 31, Name: "Sweetness"}}
	return t
}

func eventIDs(log []models.TimedEvent) []string {
	out := make([]string, len(log))
	for i, e := range log {
		out[i] = e.ID
	}
	return out
}

func TestTDSLogIsFramedByMarkers(t *testing.T) {
	s := mustStart(t, tdsTest())

	require.NoError(t, s.StartClock())
	tick(s, 1.2)
	require.NoError(t, s.MarkDominant(21))
	tick(s, 1.8)
	require.NoError(t, s.MarkDominant(22))
	tick(s, 2.0)
	require.NoError(t, s.StopClock())

	log := s.Snapshot().DominanceLog
	require.Len(t, log, 4)
	assert.Equal(t, []string{models.MarkerStart, "21", "22", models.MarkerEnd}, eventIDs(log))
	assert.Equal(t, 0.0, log[0].At)
	assert.Equal(t, 1.2, log[1].At)
	assert.Equal(t, 3.0, log[2].At)
	assert.Equal(t, 5.0, log[3].At)
}

func TestTDSResumeReopensTheLog(t *testing.T) {
	s := mustStart(t, tdsTest())

	require.NoError(t, s.StartClock())
	tick(s, 1.0)
	require.NoError(t, s.MarkDominant(21))
	require.NoError(t, s.StopClock())

	// Resuming drops the END marker and keeps ticking from where it stopped.
	require.NoError(t, s.StartClock())
	tick(s, 2.0)
	require.NoError(t, s.MarkDominant(22))
	require.NoError(t, s.StopClock())

	log := s.Snapshot().DominanceLog
	assert.Equal(t, []string{models.MarkerStart, "21", "22", models.MarkerEnd}, eventIDs(log))
	assert.Equal(t, 3.0, log[2].At)
	assert.Equal(t, 3.0, log[3].At)
}

func TestMarkDominantRequiresRunningClock(t *testing.T) {
	s := mustStart(t, tdsTest())
	assert.ErrorIs(t, s.MarkDominant(21), ErrClockNotRunning)

	require.NoError(t, s.StartClock())
	tick(s, 0.5)
	require.NoError(t, s.StopClock())
	assert.ErrorIs(t, s.MarkDominant(21), ErrClockNotRunning)
}

func TestClockAutoStopsAtDuration(t *testing.T) {
	s := mustStart(t, tdsTest())

	require.NoError(t, s.StartClock())
	tick(s, 1.0)
	require.NoError(t, s.MarkDominant(21))
	tick(s, 100.0)

	elapsed, running := s.Elapsed()
	assert.Equal(t, 45.0, elapsed)
	assert.False(t, running)

	log := s.Snapshot().DominanceLog
	require.NotEmpty(t, log)
	last := log[len(log)-1]
	assert.Equal(t, models.MarkerEnd, last.ID)
	assert.Equal(t, 45.0, last.At)

	// Starting again past the cap is a no-op.
	require.NoError(t, s.StartClock())
	_, running = s.Elapsed()
	assert.False(t, running)
}

func TestResetClockWipesOnlyCurrentSample(t *testing.T) {
	s := mustStart(t, tdsTest())

	require.NoError(t, s.StartClock())
	tick(s, 1.0)
	require.NoError(t, s.MarkDominant(21))
	require.NoError(t, s.StopClock())

	_, err := s.Advance()
	require.NoError(t, err)

	require.NoError(t, s.StartClock())
	tick(s, 2.0)
	require.NoError(t, s.MarkDominant(22))
	require.NoError(t, s.ResetClock())

	elapsed, running := s.Elapsed()
	assert.Zero(t, elapsed)
	assert.False(t, running)
	assert.Empty(t, s.Snapshot().DominanceLog)

	r, err := s.Advance()
	require.NoError(t, err)
	require.NotNil(t, r)

	// The first sample's sealed log survived the reset of the second.
	require.Contains(t, r.DominanceLogs, "270")
	assert.Equal(t, []string{models.MarkerStart, "21", models.MarkerEnd}, eventIDs(r.DominanceLogs["270"]))
	assert.NotContains(t, r.DominanceLogs, "885")
}

func TestAdvanceSealsAnOpenLog(t *testing.T) {
	s := mustStart(t, tdsTest())

	require.NoError(t, s.StartClock())
	tick(s, 2.5)
	require.NoError(t, s.MarkDominant(21))

	// Advancing without pressing stop must not carry an open log forward.
	_, err := s.Advance()
	require.NoError(t, err)

	require.NoError(t, s.StartClock())
	tick(s, 1.0)
	require.NoError(t, s.MarkDominant(22))

	r, err := s.Advance()
	require.NoError(t, err)
	require.NotNil(t, r)

	first := r.DominanceLogs["270"]
	assert.Equal(t, models.MarkerEnd, first[len(first)-1].ID)
	assert.Equal(t, 2.5, first[len(first)-1].At)

	// Completion force-closes the last sample's log too.
	second := r.DominanceLogs["885"]
	assert.Equal(t, models.MarkerEnd, second[len(second)-1].ID)
}

func TestTDSUntastedSampleHasNoLog(t *testing.T) {
	s := mustStart(t, tdsTest())

	_, err := s.Advance()
	require.NoError(t, err)
	require.NoError(t, s.StartClock())
	tick(s, 1.0)
	require.NoError(t, s.MarkDominant(21))

	r, err := s.Advance()
	require.NoError(t, err)
	assert.NotContains(t, r.DominanceLogs, "270")
	assert.Contains(t, r.DominanceLogs, "885")
}

func TestTimeIntensitySamplesOnCadence(t *testing.T) {
	s := mustStart(t, tiTest())

	require.NoError(t, s.StartClock())
	require.NoError(t, s.SetIntensity(40))
	tick(s, 0.5)
	tick(s, 0.3)
	require.NoError(t, s.SetIntensity(70))
	tick(s, 0.2)

	log := s.Snapshot().IntensityLog
	require.Len(t, log, 2)
	assert.Equal(t, 0.5, log[0].At)
	assert.Equal(t, 40.0, log[0].Value)
	assert.Equal(t, 1.0, log[1].At)
	assert.Equal(t, 70.0, log[1].Value)
	assert.Equal(t, "31", log[0].AttributeID)
}

func TestSetIntensityRequiresRunningClock(t *testing.T) {
	s := mustStart(t, tiTest())
	assert.ErrorIs(t, s.SetIntensity(50), ErrClockNotRunning)

	require.NoError(t, s.StartClock())
	require.NoError(t, s.SetIntensity(150))
	tick(s, 0.5)

	log := s.Snapshot().IntensityLog
	require.Len(t, log, 1)
	assert.Equal(t, 100.0, log[0].Value, "intensity clamps to 0-100")
}

func TestClockActionsRejectedOnUntimedMethods(t *testing.T) {
	s := mustStart(t, qdaTest())
	assert.ErrorIs(t, s.StartClock(), ErrWrongMethod)
	assert.ErrorIs(t, s.StopClock(), ErrWrongMethod)
	assert.ErrorIs(t, s.ResetClock(), ErrWrongMethod)
	assert.ErrorIs(t, s.MarkDominant(11), ErrWrongMethod)
	assert.ErrorIs(t, s.SetIntensity(10), ErrWrongMethod)
}
