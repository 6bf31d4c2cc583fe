package session

import (
	"github.com/nicolippi7-boop/sensory-lab-sub000/internal/models"
)

// collector is the per-method behavior behind the shared session controller:
// pre-filling scale defaults into the draft, deciding whether the judge may
// advance from the current step, and writing the method's fields - and only
// those - into the final result record.
type collector interface {
	init(s *Session)
	canAdvance(s *Session) bool
	finalize(s *Session, r *models.Result)
}

// collectorFor selects the collector variant for a method tag. Adding a
// twelfth method means adding a case here and a file next to the others.
func collectorFor(m models.Method) collector {
	switch m {
	case models.MethodQDA:
		return qdaCollector{}
	case models.MethodHedonic:
		return hedonicCollector{}
	case models.MethodCATA:
		return cataCollector{}
	case models.MethodRATA:
		return rataCollector{}
	case models.MethodFlashProfile:
		return flashCollector{}
	case models.MethodTriangle:
		return triangleCollector{}
	case models.MethodPaired:
		return pairedCollector{}
	case models.MethodSorting:
		return sortingCollector{}
	case models.MethodNapping:
		return nappingCollector{}
	case models.MethodTDS:
		return tdsCollector{}
	case models.MethodTimeIntensity:
		return tiCollector{}
	}
	// New() rejects unknown methods before this is ever reached.
	return qdaCollector{}
}

// Rate records one numeric rating for a (sample, attribute) cell. It backs
// the QDA, Hedonic and RATA intensity sliders; Flash Profile ratings go
// through RateFlash because their attributes are vocabulary labels.
func (s *Session) Rate(code string, attributeID uint, value float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkRunning(); err != nil {
		return err
	}

	switch s.test.Method {
	case models.MethodQDA, models.MethodHedonic, models.MethodRATA:
	default:
		return ErrWrongMethod
	}
	if !s.sampleInOrder(code) {
		return ErrUnknownSample
	}
	attr, ok := s.attribute(attributeID)
	if !ok {
		return ErrUnknownAttribute
	}

	switch s.test.Method {
	case models.MethodQDA:
		value = attr.Scale.Clamp(value)
	case models.MethodHedonic:
		// 1-9 liking scale regardless of the attribute's declared scale
		value = models.ScaleContinuous1to9.Clamp(value)
	case models.MethodRATA:
		value = models.ScaleContinuous0to100.Clamp(value)
	}

	s.draft.ratings[PairKey{Sample: code, Attr: attrKey(attributeID)}] = value
	return nil
}
