package session

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/nicolippi7-boop/sensory-lab-sub000/internal/models"
)

// Manager tracks the active run per browser session key. One judge cookie
// session maps to at most one run; starting a new run replaces (and exits)
// any previous one.
type Manager struct {
	mu     sync.Mutex
	runs   map[string]*Session
	tuning Tuning
	log    *zap.Logger
}

func NewManager(tuning Tuning, log *zap.Logger) *Manager {
	return &Manager{
		runs:   make(map[string]*Session),
		tuning: tuning,
		log:    log,
	}
}

// Start creates a run for the given key, tearing down any run already bound
// to it.
func (m *Manager) Start(key string, test models.Test, judge string, vocab []string) (*Session, error) {
	s, err := New(test, judge, vocab, m.tuning, m.log)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	if old, ok := m.runs[key]; ok {
		old.Exit()
	}
	m.runs[key] = s
	m.mu.Unlock()
	return s, nil
}

// Get returns the active run for a key.
func (m *Manager) Get(key string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.runs[key]
	return s, ok
}

// End exits and removes the run for a key.
func (m *Manager) End(key string) {
	m.mu.Lock()
	s, ok := m.runs[key]
	delete(m.runs, key)
	m.mu.Unlock()
	if ok {
		s.Exit()
	}
}

// StartReaper launches a background sweep that exits runs idle past maxIdle,
// so an abandoned browser tab cannot leave a ticking clock behind. The
// returned function stops the sweep.
func (m *Manager) StartReaper(interval, maxIdle time.Duration) func() {
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				m.reap(maxIdle)
			}
		}
	}()
	return func() { close(done) }
}

func (m *Manager) reap(maxIdle time.Duration) {
	cutoff := time.Now().Add(-maxIdle)

	m.mu.Lock()
	var stale []*Session
	for key, s := range m.runs {
		if s.LastActivity().Before(cutoff) {
			stale = append(stale, s)
			delete(m.runs, key)
		}
	}
	m.mu.Unlock()

	for _, s := range stale {
		s.Exit()
		m.log.Info("Reaped idle session", zap.String("run_id", s.ID()))
	}
}
