package session

import (
	"sort"

	"github.com/nicolippi7-boop/sensory-lab-sub000/internal/models"
)

// cataCollector: check-all-that-apply. A composite key is either in the
// selection set or absent; there is no pre-fill because absence means "not
// applicable".
type cataCollector struct{}

func (cataCollector) init(*Session)       {}
func (cataCollector) canAdvance(*Session) bool { return true }

func (cataCollector) finalize(s *Session, r *models.Result) {
	if len(s.draft.checks) == 0 {
		return
	}
	keys := make([]string, 0, len(s.draft.checks))
	for k := range s.draft.checks {
		keys = append(keys, k.String())
	}
	sort.Strings(keys)
	r.Selections = keys
}

// ToggleCheck flips set membership of one (sample, attribute) cell.
func (s *Session) ToggleCheck(code string, attributeID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkRunning(); err != nil {
		return err
	}
	if s.test.Method != models.MethodCATA {
		return ErrWrongMethod
	}
	if !s.sampleInOrder(code) {
		return ErrUnknownSample
	}
	if _, ok := s.attribute(attributeID); !ok {
		return ErrUnknownAttribute
	}

	key := PairKey{Sample: code, Attr: attrKey(attributeID)}
	if s.draft.checks[key] {
		delete(s.draft.checks, key)
	} else {
		s.draft.checks[key] = true
	}
	return nil
}
