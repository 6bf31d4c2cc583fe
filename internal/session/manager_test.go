package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestManagerStartReplacesExistingRun(t *testing.T) {
	m := NewManager(testTuning(), zap.NewNop())

	first, err := m.Start("key", qdaTest(), "Judge 1", nil)
	require.NoError(t, err)
	second, err := m.Start("key", qdaTest(), "Judge 1", nil)
	require.NoError(t, err)

	got, ok := m.Get("key")
	require.True(t, ok)
	assert.Same(t, second, got)

	// The replaced run was exited, not leaked.
	assert.ErrorIs(t, first.Rate("417", 11, 10), ErrClosed)
}

func TestManagerEndIsIdempotent(t *testing.T) {
	m := NewManager(testTuning(), zap.NewNop())

	s, err := m.Start("key", qdaTest(), "Judge 1", nil)
	require.NoError(t, err)

	m.End("key")
	m.End("key")

	_, ok := m.Get("key")
	assert.False(t, ok)
	assert.ErrorIs(t, s.Rate("417", 11, 10), ErrClosed)
}

func TestManagerReapsIdleRuns(t *testing.T) {
	m := NewManager(testTuning(), zap.NewNop())

	idle, err := m.Start("idle", qdaTest(), "Judge 1", nil)
	require.NoError(t, err)
	idle.mu.Lock()
	idle.lastActivity = time.Now().Add(-3 * time.Hour)
	idle.mu.Unlock()

	active, err := m.Start("active", qdaTest(), "Judge 2", nil)
	require.NoError(t, err)

	m.reap(2 * time.Hour)

	_, ok := m.Get("idle")
	assert.False(t, ok)
	got, ok := m.Get("active")
	require.True(t, ok)
	assert.Same(t, active, got)
	assert.ErrorIs(t, idle.Rate("417", 11, 10), ErrClosed)
}
