package session

import (
	"strings"

	"github.com/nicolippi7-boop/sensory-lab-sub000/internal/models"
)

// flashCollector: the judge builds a free-text vocabulary, associates words
// with samples and rates them 0-100. The vocabulary outlives the session
// (persisted per test by the caller); ratings live in the draft like any
// other pair-keyed response.
type flashCollector struct{}

func (flashCollector) init(*Session)            {}
func (flashCollector) canAdvance(*Session) bool { return true }

func (flashCollector) finalize(s *Session, r *models.Result) {
	r.Ratings = s.stringRatings()
}

// Vocabulary returns the session's current Flash Profile word list.
func (s *Session) Vocabulary() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.vocab...)
}

func (s *Session) hasWord(label string) bool {
	for _, w := range s.vocab {
		if w == label {
			return true
		}
	}
	return false
}

// AddFlashWord appends a word to the vocabulary. The caller persists the
// updated list; duplicates and blank words are rejected quietly.
func (s *Session) AddFlashWord(label string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkRunning(); err != nil {
		return err
	}
	if s.test.Method != models.MethodFlashProfile {
		return ErrWrongMethod
	}
	label = strings.TrimSpace(label)
	if label == "" {
		return ErrEmptyDescription
	}
	if !s.hasWord(label) {
		s.vocab = append(s.vocab, label)
	}
	return nil
}

// RemoveFlashWord drops a word and every rating that referenced it.
func (s *Session) RemoveFlashWord(label string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkRunning(); err != nil {
		return err
	}
	if s.test.Method != models.MethodFlashProfile {
		return ErrWrongMethod
	}
	for i, w := range s.vocab {
		if w == label {
			s.vocab = append(s.vocab[:i], s.vocab[i+1:]...)
			break
		}
	}
	for key := range s.draft.ratings {
		if key.Attr == label {
			delete(s.draft.ratings, key)
		}
	}
	return nil
}

// AssociateFlash attaches a vocabulary word to a sample, seeding its rating
// at the 50 midpoint if the judge has not rated it yet.
func (s *Session) AssociateFlash(code, label string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkRunning(); err != nil {
		return err
	}
	if s.test.Method != models.MethodFlashProfile {
		return ErrWrongMethod
	}
	if !s.sampleInOrder(code) {
		return ErrUnknownSample
	}
	if !s.hasWord(label) {
		return ErrUnknownAttribute
	}
	key := PairKey{Sample: code, Attr: label}
	if _, ok := s.draft.ratings[key]; !ok {
		s.draft.ratings[key] = 50
	}
	return nil
}

// DissociateFlash detaches a word from a sample, removing its rating.
func (s *Session) DissociateFlash(code, label string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkRunning(); err != nil {
		return err
	}
	if s.test.Method != models.MethodFlashProfile {
		return ErrWrongMethod
	}
	delete(s.draft.ratings, PairKey{Sample: code, Attr: label})
	return nil
}

// RateFlash adjusts the 0-100 intensity of an associated word.
func (s *Session) RateFlash(code, label string, value float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkRunning(); err != nil {
		return err
	}
	if s.test.Method != models.MethodFlashProfile {
		return ErrWrongMethod
	}
	if !s.sampleInOrder(code) {
		return ErrUnknownSample
	}
	key := PairKey{Sample: code, Attr: label}
	if _, ok := s.draft.ratings[key]; !ok {
		return ErrUnknownAttribute
	}
	s.draft.ratings[key] = models.ScaleContinuous0to100.Clamp(value)
	return nil
}
