package session

import (
	"math"
	"time"

	"github.com/nicolippi7-boop/sensory-lab-sub000/internal/models"
)

// The elapsed-time clock shared by TDS and Time-Intensity. It is started and
// stopped manually, ticks on a fixed real-time interval, and auto-stops at
// the test's configured duration. The ticker goroutine takes the session
// lock per tick, so clock state and judge actions never interleave.

// round1 pins an elapsed time to the 0.1s clock granularity, so accumulated
// float ticks store cleanly.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// StartClock starts (or resumes) the elapsed-time clock for the current
// sample. The first start of a TDS log records the START marker at time 0;
// resuming a stopped log reopens it by dropping its END marker.
func (s *Session) StartClock() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkRunning(); err != nil {
		return err
	}
	if !s.test.Method.Timed() {
		return ErrWrongMethod
	}
	if s.cur.running || s.cur.elapsed >= s.duration() {
		return nil
	}

	code := s.currentSample().Code
	if s.test.Method == models.MethodTDS {
		log := s.draft.dominance[code]
		hasStart := false
		kept := log[:0]
		for _, e := range log {
			if e.ID == models.MarkerStart {
				hasStart = true
			}
			if e.ID == models.MarkerEnd {
				continue
			}
			kept = append(kept, e)
		}
		log = kept
		if !hasStart {
			log = append(log, models.TimedEvent{At: 0, ID: models.MarkerStart})
		}
		s.draft.dominance[code] = log
	}

	s.cur.running = true
	done := make(chan struct{})
	s.cur.stop = done
	go s.runTicker(done)
	return nil
}

// runTicker drives the clock at the configured tick until stopped.
func (s *Session) runTicker(done chan struct{}) {
	ticker := time.NewTicker(s.tuning.ClockTick)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			s.mu.Lock()
			s.advanceClock(s.tuning.ClockTick.Seconds())
			s.mu.Unlock()
		}
	}
}

// advanceClock moves elapsed time forward by dt seconds: it takes the
// periodic intensity samples and enforces the duration cap. Exposed to tests
// through tick injection; production ticks arrive from runTicker.
func (s *Session) advanceClock(dt float64) {
	if s.state != StateRunning || !s.cur.running {
		return
	}
	s.cur.elapsed = round1(s.cur.elapsed + dt)

	if s.test.Method == models.MethodTimeIntensity {
		interval := s.tuning.IntensityTick.Seconds()
		s.cur.sinceSample += dt
		for s.cur.sinceSample >= interval-1e-9 {
			s.cur.sinceSample -= interval
			code := s.currentSample().Code
			s.draft.intensity[code] = append(s.draft.intensity[code], models.IntensitySample{
				At:          s.cur.elapsed,
				Value:       s.cur.intensityValue,
				AttributeID: s.cur.trackedAttr,
			})
		}
	}

	// Reaching the cap auto-stops the clock.
	if s.cur.elapsed >= s.duration() {
		s.cur.elapsed = s.duration()
		s.stopClockLocked()
	}
}

// StopClock stops the clock and closes the current TDS log.
func (s *Session) StopClock() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkRunning(); err != nil {
		return err
	}
	if !s.test.Method.Timed() {
		return ErrWrongMethod
	}
	s.stopClockLocked()
	return nil
}

// stopClockLocked cancels the ticker and, for TDS, seals the current
// sample's log: START backfilled at 0 if missing, END appended at the
// current elapsed time if absent and the clock ever moved.
func (s *Session) stopClockLocked() {
	if !s.test.Method.Timed() {
		return
	}
	s.stopTickerLocked()
	if !s.cur.running {
		return
	}
	s.cur.running = false
	if s.test.Method == models.MethodTDS {
		s.closeDominanceLocked(s.currentSample().Code, s.cur.elapsed)
	}
}

// stopTickerLocked cancels the background tick goroutine, if any. Must run
// on every teardown path so no orphaned ticker outlives its session.
func (s *Session) stopTickerLocked() {
	if s.cur.stop != nil {
		close(s.cur.stop)
		s.cur.stop = nil
	}
}

// closeDominanceLocked seals one dominance log. Idempotent: at most one
// START, at most one END, nothing appended for a log that never ran.
func (s *Session) closeDominanceLocked(code string, at float64) {
	log := s.draft.dominance[code]
	if len(log) == 0 || at <= 0 {
		return
	}
	hasStart, hasEnd := false, false
	for _, e := range log {
		switch e.ID {
		case models.MarkerStart:
			hasStart = true
		case models.MarkerEnd:
			hasEnd = true
		}
	}
	if !hasStart {
		log = append([]models.TimedEvent{{At: 0, ID: models.MarkerStart}}, log...)
	}
	if !hasEnd {
		log = append(log, models.TimedEvent{At: round1(at), ID: models.MarkerEnd})
	}
	s.draft.dominance[code] = log
}

// ResetClock wipes the current sample's log and clock state. Prior samples'
// logs are untouched; the destructive-action confirmation happens at the UI
// boundary.
func (s *Session) ResetClock() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkRunning(); err != nil {
		return err
	}
	if !s.test.Method.Timed() {
		return ErrWrongMethod
	}
	code := s.currentSample().Code
	s.resetTransientLocked()
	delete(s.draft.dominance, code)
	delete(s.draft.intensity, code)
	return nil
}

// Elapsed reports the clock's position and whether it is running.
func (s *Session) Elapsed() (float64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cur.elapsed, s.cur.running
}
