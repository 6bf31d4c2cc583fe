package session

import (
	"github.com/nicolippi7-boop/sensory-lab-sub000/internal/models"
)

// rataCollector: rate-all-that-apply. Marking an attribute applicable seeds
// its intensity at 50; clearing writes 0, which downstream aggregation
// treats as not-selected. Intensity adjustments go through Rate.
type rataCollector struct{}

func (rataCollector) init(*Session)            {}
func (rataCollector) canAdvance(*Session) bool { return true }

func (rataCollector) finalize(s *Session, r *models.Result) {
	r.Ratings = s.stringRatings()
}

// ToggleApplicable marks or clears one RATA cell.
func (s *Session) ToggleApplicable(code string, attributeID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkRunning(); err != nil {
		return err
	}
	if s.test.Method != models.MethodRATA {
		return ErrWrongMethod
	}
	if !s.sampleInOrder(code) {
		return ErrUnknownSample
	}
	if _, ok := s.attribute(attributeID); !ok {
		return ErrUnknownAttribute
	}

	key := PairKey{Sample: code, Attr: attrKey(attributeID)}
	if s.draft.ratings[key] > 0 {
		s.draft.ratings[key] = 0
	} else {
		s.draft.ratings[key] = 50
	}
	return nil
}
