package session

import (
	"github.com/nicolippi7-boop/sensory-lab-sub000/internal/models"
)

// qdaCollector: one rating per (sample, attribute), scale taken from each
// attribute's declaration. Every cell is pre-filled with the scale baseline
// so an untouched slider still yields a stored rating.
type qdaCollector struct{}

func (qdaCollector) init(s *Session) {
	for _, sm := range s.order {
		for _, a := range s.test.Attributes {
			s.draft.ratings[PairKey{Sample: sm.Code, Attr: attrKey(a.ID)}] = a.Scale.Default()
		}
	}
}

// Advancing is not gated on touched ratings; the pre-filled defaults make
// every cell well-defined either way.
func (qdaCollector) canAdvance(*Session) bool { return true }

func (qdaCollector) finalize(s *Session, r *models.Result) {
	r.Ratings = s.stringRatings()
}
