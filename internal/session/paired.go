package session

import (
	"github.com/nicolippi7-boop/sensory-lab-sub000/internal/models"
)

// pairedCollector: a single preference pick among the working sample set.
// Advancing is blocked until the judge has picked.
type pairedCollector struct{}

func (pairedCollector) init(*Session) {}

func (pairedCollector) canAdvance(s *Session) bool {
	return s.draft.pairedSelection != ""
}

func (pairedCollector) finalize(s *Session, r *models.Result) {
	if s.draft.pairedSelection != "" {
		sel := s.draft.pairedSelection
		r.PairedSelection = &sel
	}
}

// SelectSample records the paired-comparison preference.
func (s *Session) SelectSample(code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkRunning(); err != nil {
		return err
	}
	if s.test.Method != models.MethodPaired {
		return ErrWrongMethod
	}
	if !s.sampleInOrder(code) {
		return ErrUnknownSample
	}
	s.draft.pairedSelection = code
	return nil
}
