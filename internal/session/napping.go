package session

import (
	"github.com/nicolippi7-boop/sensory-lab-sub000/internal/models"
)

// nappingCollector: projective mapping. Every sample must be placed on the
// 2D map before the judge can advance; coordinates are normalized to
// [0,100] on both axes regardless of the client's map size.
type nappingCollector struct{}

func (nappingCollector) init(*Session) {}

func (nappingCollector) canAdvance(s *Session) bool {
	for _, sm := range s.order {
		if _, ok := s.draft.coords[sm.Code]; !ok {
			return false
		}
	}
	return true
}

func (nappingCollector) finalize(s *Session, r *models.Result) {
	if len(s.draft.coords) == 0 {
		return
	}
	coords := make(map[string]models.Point, len(s.draft.coords))
	for code, p := range s.draft.coords {
		coords[code] = p
	}
	r.Coordinates = coords
}

func clamp01To100(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// PlaceSample records a click at pixel offset (x,y) inside a map of the
// given size, normalized to (100*x/w, 100*y/h) and clamped to bounds.
func (s *Session) PlaceSample(code string, x, y, w, h float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkRunning(); err != nil {
		return err
	}
	if s.test.Method != models.MethodNapping {
		return ErrWrongMethod
	}
	if !s.sampleInOrder(code) {
		return ErrUnknownSample
	}
	if w <= 0 || h <= 0 {
		return ErrBadStep
	}
	s.draft.coords[code] = models.Point{
		X: clamp01To100(100 * x / w),
		Y: clamp01To100(100 * y / h),
	}
	return nil
}
