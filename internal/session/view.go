package session

import (
	"github.com/nicolippi7-boop/sensory-lab-sub000/internal/models"
)

// SampleView is what a judge sees of a sample: the blinding code, nothing
// else.
type SampleView struct {
	Code string `json:"code"`
}

// View is a read-only snapshot of the run for the client. Re-reading it
// never mutates anything - in particular it never reshuffles the order.
type View struct {
	RunID        string             `json:"runId"`
	TestID       uint               `json:"testId"`
	TestName     string             `json:"testName"`
	Method       models.Method      `json:"method"`
	Instructions string             `json:"instructions,omitempty"`
	Judge        string             `json:"judge"`
	State        State              `json:"state"`
	Index        int                `json:"index"`
	Total        int                `json:"total"`
	Sample       SampleView         `json:"sample"`
	Samples      []SampleView       `json:"samples"`
	Attributes   []models.Attribute `json:"attributes"`
	CanAdvance   bool               `json:"canAdvance"`

	Ratings    map[string]float64 `json:"ratings,omitempty"`
	Checks     []string           `json:"checks,omitempty"`
	Vocabulary []string           `json:"vocabulary,omitempty"`

	TriangleStep      TriangleStep             `json:"triangleStep,omitempty"`
	TriangleSelection string                   `json:"triangleSelection,omitempty"`
	Triangle          *models.TriangleResponse `json:"triangle,omitempty"`

	PairedSelection string `json:"pairedSelection,omitempty"`

	Groups      []string          `json:"groups,omitempty"`
	Assignments map[string]string `json:"assignments,omitempty"`

	Placements map[string]models.Point `json:"placements,omitempty"`

	ClockRunning    bool                     `json:"clockRunning"`
	Elapsed         float64                  `json:"elapsed"`
	Duration        float64                  `json:"duration"`
	Intensity       float64                  `json:"intensity"`
	TrackedAttr     string                   `json:"trackedAttribute,omitempty"`
	DominantAttr    string                   `json:"dominantAttribute,omitempty"`
	DominanceLog    []models.TimedEvent      `json:"dominanceLog,omitempty"`
	IntensityLog    []models.IntensitySample `json:"intensityLog,omitempty"`
}

// Snapshot renders the current run state for the client.
func (s *Session) Snapshot() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := View{
		RunID:        s.id,
		TestID:       s.test.ID,
		TestName:     s.test.Name,
		Method:       s.test.Method,
		Instructions: s.test.Instructions,
		Judge:        s.judge,
		State:        s.state,
		Index:        s.index,
		Total:        s.lastIndex() + 1,
		Attributes:   s.test.Attributes,
		ClockRunning: s.cur.running,
		Elapsed:      s.cur.elapsed,
	}

	v.Samples = make([]SampleView, len(s.order))
	for i, sm := range s.order {
		v.Samples[i] = SampleView{Code: sm.Code}
	}
	v.Sample = SampleView{Code: s.currentSample().Code}

	if s.state == StateRunning {
		v.CanAdvance = s.collector.canAdvance(s)
	}

	switch s.test.Method {
	case models.MethodQDA, models.MethodHedonic, models.MethodRATA, models.MethodFlashProfile:
		v.Ratings = s.stringRatings()
		if s.test.Method == models.MethodFlashProfile {
			v.Vocabulary = append([]string(nil), s.vocab...)
		}
	case models.MethodCATA:
		for k := range s.draft.checks {
			v.Checks = append(v.Checks, k.String())
		}
	case models.MethodTriangle:
		v.TriangleStep = s.cur.triangleStep
		v.TriangleSelection = s.draft.triangleSelection
		tr := s.draft.triangle
		v.Triangle = &tr
	case models.MethodPaired:
		v.PairedSelection = s.draft.pairedSelection
	case models.MethodSorting:
		v.Groups = append([]string(nil), s.groups...)
		v.Assignments = make(map[string]string, len(s.draft.groups))
		for code, g := range s.draft.groups {
			v.Assignments[code] = g
		}
	case models.MethodNapping:
		v.Placements = make(map[string]models.Point, len(s.draft.coords))
		for code, p := range s.draft.coords {
			v.Placements[code] = p
		}
	case models.MethodTDS:
		v.Duration = s.duration()
		v.DominantAttr = s.cur.dominantAttr
		v.DominanceLog = append([]models.TimedEvent(nil), s.draft.dominance[s.currentSample().Code]...)
	case models.MethodTimeIntensity:
		v.Duration = s.duration()
		v.Intensity = s.cur.intensityValue
		v.TrackedAttr = s.cur.trackedAttr
		v.IntensityLog = append([]models.IntensitySample(nil), s.draft.intensity[s.currentSample().Code]...)
	}

	return v
}
