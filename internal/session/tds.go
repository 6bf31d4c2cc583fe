package session

import (
	"github.com/nicolippi7-boop/sensory-lab-sub000/internal/models"
)

// tdsCollector: temporal dominance of sensations. Events are input-driven
// only - one entry per attribute click while the clock runs - framed by the
// START/END markers the clock writes.
type tdsCollector struct{}

func (tdsCollector) init(*Session)            {}
func (tdsCollector) canAdvance(*Session) bool { return true }

func (tdsCollector) finalize(s *Session, r *models.Result) {
	// A judge who finishes without pressing stop leaves the last log open;
	// completion force-closes it at the current elapsed time.
	s.closeDominanceLocked(s.currentSample().Code, s.cur.elapsed)

	if len(s.draft.dominance) == 0 {
		return
	}
	logs := make(map[string][]models.TimedEvent, len(s.draft.dominance))
	for code, log := range s.draft.dominance {
		logs[code] = append([]models.TimedEvent(nil), log...)
	}
	r.DominanceLogs = logs
}

// MarkDominant records that an attribute became the dominant sensation at
// the current elapsed time. Requires a running clock.
func (s *Session) MarkDominant(attributeID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkRunning(); err != nil {
		return err
	}
	if s.test.Method != models.MethodTDS {
		return ErrWrongMethod
	}
	if !s.cur.running {
		return ErrClockNotRunning
	}
	if _, ok := s.attribute(attributeID); !ok {
		return ErrUnknownAttribute
	}

	id := attrKey(attributeID)
	code := s.currentSample().Code
	s.draft.dominance[code] = append(s.draft.dominance[code], models.TimedEvent{
		At: s.cur.elapsed,
		ID: id,
	})
	s.cur.dominantAttr = id
	return nil
}
