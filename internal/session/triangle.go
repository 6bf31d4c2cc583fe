package session

import (
	"strings"
	"time"

	"github.com/nicolippi7-boop/sensory-lab-sub000/internal/models"
)

// TriangleStep is one state of the guided disambiguation flow. The steps are
// strictly ordered; backward navigation is allowed and preserves everything
// the judge already entered.
type TriangleStep string

const (
	StepSelection TriangleStep = "selection"
	StepForced    TriangleStep = "forced_response"
	StepDetails   TriangleStep = "details"
	StepConfirm   TriangleStep = "confirm"
)

// triangleCollector: the triangle protocol evaluates one comparison set per
// session and finalizes from its confirm step, never through the generic
// advance path.
type triangleCollector struct{}

func (triangleCollector) init(*Session)            {}
func (triangleCollector) canAdvance(*Session) bool { return false }

func (triangleCollector) finalize(s *Session, r *models.Result) {
	if s.draft.triangleSelection != "" {
		sel := s.draft.triangleSelection
		r.TriangleSelection = &sel
	}
	resp := s.draft.triangle
	if resp.IsForcedResponse {
		// A guessed pick carries no meaningful detail.
		resp = models.TriangleResponse{IsForcedResponse: true}
	} else {
		resp.Description = strings.TrimSpace(resp.Description)
	}
	r.TriangleResponse = &resp
}

// TriangleStepNow reports the flow's current step.
func (s *Session) TriangleStepNow() TriangleStep {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cur.triangleStep
}

func (s *Session) triangleGuard() error {
	if err := s.checkRunning(); err != nil {
		return err
	}
	if s.test.Method != models.MethodTriangle {
		return ErrWrongMethod
	}
	return nil
}

// TriangleSelect picks the sample perceived as different. Only valid in the
// selection step.
func (s *Session) TriangleSelect(code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.triangleGuard(); err != nil {
		return err
	}
	if s.cur.triangleStep != StepSelection {
		return ErrBadStep
	}
	if !s.sampleInOrder(code) {
		return ErrUnknownSample
	}
	s.draft.triangleSelection = code
	return nil
}

// TriangleForced records whether the pick was a confident perception or a
// forced guess, and advances: a forced response skips the details step.
func (s *Session) TriangleForced(forced bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.triangleGuard(); err != nil {
		return err
	}
	if s.cur.triangleStep != StepForced {
		return ErrBadStep
	}
	s.draft.triangle.IsForcedResponse = forced
	if forced {
		s.cur.triangleStep = StepConfirm
	} else {
		s.cur.triangleStep = StepDetails
	}
	return nil
}

// TriangleDetails records the sensory channel, the free-text description and
// the 1-4 intensity of the perceived difference.
func (s *Session) TriangleDetails(channel, description string, intensity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.triangleGuard(); err != nil {
		return err
	}
	if s.cur.triangleStep != StepDetails {
		return ErrBadStep
	}
	if channel != models.ChannelAroma && channel != models.ChannelTaste {
		return ErrBadStep
	}
	if intensity < 1 || intensity > 4 {
		return ErrBadStep
	}
	s.draft.triangle.SensoryCategoryType = channel
	s.draft.triangle.Description = description
	s.draft.triangle.Intensity = intensity
	return nil
}

// TriangleNext moves the flow forward. From selection it requires a picked
// sample; from details it requires a non-empty trimmed description. The
// forced step advances through TriangleForced instead, because the
// declaration itself decides the branch.
func (s *Session) TriangleNext() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.triangleGuard(); err != nil {
		return err
	}
	switch s.cur.triangleStep {
	case StepSelection:
		if s.draft.triangleSelection == "" {
			return ErrNoSelection
		}
		s.cur.triangleStep = StepForced
	case StepDetails:
		if strings.TrimSpace(s.draft.triangle.Description) == "" {
			return ErrEmptyDescription
		}
		s.cur.triangleStep = StepConfirm
	default:
		return ErrBadStep
	}
	return nil
}

// TriangleBack navigates one step backward without resetting anything. From
// the confirm summary it returns to details, or straight to the forced step
// when the response was a guess.
func (s *Session) TriangleBack() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.triangleGuard(); err != nil {
		return err
	}
	switch s.cur.triangleStep {
	case StepForced:
		s.cur.triangleStep = StepSelection
	case StepDetails:
		s.cur.triangleStep = StepForced
	case StepConfirm:
		if s.draft.triangle.IsForcedResponse {
			s.cur.triangleStep = StepForced
		} else {
			s.cur.triangleStep = StepDetails
		}
	default:
		return ErrBadStep
	}
	return nil
}

// ConfirmTriangle finalizes the run from the confirm step. The triangle
// flow does not progress through remaining samples: one comparison set is
// the whole session.
func (s *Session) ConfirmTriangle() (*models.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state {
	case StateComplete:
		return s.result, nil
	case StateClosed:
		return nil, ErrClosed
	}
	s.lastActivity = time.Now()
	if s.test.Method != models.MethodTriangle {
		return nil, ErrWrongMethod
	}
	if s.cur.triangleStep != StepConfirm {
		return nil, ErrBadStep
	}
	return s.finalizeLocked(), nil
}
