package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/nicolippi7-boop/sensory-lab-sub000/internal/config"
	"github.com/nicolippi7-boop/sensory-lab-sub000/internal/session"
)

func TestSessionTuningReadsConfiguredKnobs(t *testing.T) {
	tuning := sessionTuning(config.SessionConfig{
		DefaultDurationSeconds: 45,
		ClockTickMillis:        200,
		IntensityTickMillis:    250,
	})

	assert.Equal(t, 45*time.Second, tuning.DefaultDuration)
	assert.Equal(t, 200*time.Millisecond, tuning.ClockTick)
	assert.Equal(t, 250*time.Millisecond, tuning.IntensityTick)
}

func TestSessionTuningFallsBackForUnsetKnobs(t *testing.T) {
	tuning := sessionTuning(config.SessionConfig{IdleReapMinutes: 120})
	assert.Equal(t, session.DefaultTuning(), tuning)
}
