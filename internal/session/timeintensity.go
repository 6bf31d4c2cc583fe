package session

import (
	"github.com/nicolippi7-boop/sensory-lab-sub000/internal/models"
)

// tiCollector: time-intensity. While the clock runs, the current intensity
// value is sampled on a fixed cadence and tagged with the tracked attribute.
// The tracked attribute defaults to the test's first attribute per sample;
// switching it mid-run does not retroactively retag earlier entries.
type tiCollector struct{}

func (tiCollector) init(*Session)            {}
func (tiCollector) canAdvance(*Session) bool { return true }

func (tiCollector) finalize(s *Session, r *models.Result) {
	if len(s.draft.intensity) == 0 {
		return
	}
	logs := make(map[string][]models.IntensitySample, len(s.draft.intensity))
	for code, log := range s.draft.intensity {
		logs[code] = append([]models.IntensitySample(nil), log...)
	}
	r.IntensityLogs = logs
}

// SetIntensity adjusts the live 0-100 intensity value. It is only
// adjustable while the clock runs; frozen otherwise.
func (s *Session) SetIntensity(value float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkRunning(); err != nil {
		return err
	}
	if s.test.Method != models.MethodTimeIntensity {
		return ErrWrongMethod
	}
	if !s.cur.running {
		return ErrClockNotRunning
	}
	s.cur.intensityValue = models.ScaleContinuous0to100.Clamp(value)
	return nil
}

// TrackAttribute switches which attribute subsequent samples are tagged
// with.
func (s *Session) TrackAttribute(attributeID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkRunning(); err != nil {
		return err
	}
	if s.test.Method != models.MethodTimeIntensity {
		return ErrWrongMethod
	}
	if _, ok := s.attribute(attributeID); !ok {
		return ErrUnknownAttribute
	}
	s.cur.trackedAttr = attrKey(attributeID)
	return nil
}
