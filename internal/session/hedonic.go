package session

import (
	"github.com/nicolippi7-boop/sensory-lab-sub000/internal/models"
)

// hedonicCollector: 1-9 liking ratings, every cell pre-filled at the neutral
// midpoint of 5.
type hedonicCollector struct{}

func (hedonicCollector) init(s *Session) {
	for _, sm := range s.order {
		for _, a := range s.test.Attributes {
			s.draft.ratings[PairKey{Sample: sm.Code, Attr: attrKey(a.ID)}] = 5
		}
	}
}

func (hedonicCollector) canAdvance(*Session) bool { return true }

func (hedonicCollector) finalize(s *Session, r *models.Result) {
	r.Ratings = s.stringRatings()
}
