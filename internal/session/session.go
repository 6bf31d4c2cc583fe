package session

import (
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nicolippi7-boop/sensory-lab-sub000/internal/models"
)

// Session errors. Handlers map these to 4xx responses; none of them are
// fatal and none leave the session in an invalid intermediate state.
var (
	ErrClosed           = errors.New("session has been exited")
	ErrComplete         = errors.New("session is already complete")
	ErrIncomplete       = errors.New("required responses are missing for the current step")
	ErrWrongMethod      = errors.New("action does not apply to this test method")
	ErrUnknownSample    = errors.New("sample code is not part of this session")
	ErrUnknownAttribute = errors.New("attribute is not part of this test")
	ErrUnknownGroup     = errors.New("group is not defined")
	ErrClockNotRunning  = errors.New("clock is not running")
	ErrTriangleFlow     = errors.New("triangle sessions finalize through their confirm step")
	ErrBadStep          = errors.New("action is not valid in the current step")
	ErrNoSelection      = errors.New("no sample selected")
	ErrEmptyDescription = errors.New("description must not be empty")
)

// State is the controller state of a judge run.
type State string

const (
	StateRunning  State = "running"
	StateComplete State = "complete"
	StateClosed   State = "closed"
)

// Tuning carries the run-time knobs of the timed logger and session defaults.
type Tuning struct {
	DefaultDuration time.Duration
	ClockTick       time.Duration
	IntensityTick   time.Duration
}

// DefaultTuning matches the observed protocol granularity: a 0.1s clock,
// 0.5s intensity sampling, 60s cap.
func DefaultTuning() Tuning {
	return Tuning{
		DefaultDuration: 60 * time.Second,
		ClockTick:       100 * time.Millisecond,
		IntensityTick:   500 * time.Millisecond,
	}
}

// PairKey identifies one (sample, attribute) response cell. Attr is an
// attribute id rendered as a string for regular attributes, or a vocabulary
// label for Flash Profile. Keys are only flattened to the stored
// "sampleCode_attributeId" form when the result record is built.
type PairKey struct {
	Sample string
	Attr   string
}

func (k PairKey) String() string { return k.Sample + "_" + k.Attr }

func attrKey(id uint) string { return strconv.FormatUint(uint64(id), 10) }

// draft accumulates the judge's answers across the whole run. Only the maps
// relevant to the test's method are ever touched.
type draft struct {
	ratings   map[PairKey]float64
	checks    map[PairKey]bool
	groups    map[string]string
	coords    map[string]models.Point
	dominance map[string][]models.TimedEvent
	intensity map[string][]models.IntensitySample

	triangleSelection string
	triangle          models.TriangleResponse
	pairedSelection   string
}

// transient is the per-sample UI state. It is rebuilt wholesale on every
// advance so nothing can leak from one sample into the next.
type transient struct {
	triangleStep TriangleStep

	running     bool
	elapsed     float64
	sinceSample float64
	stop        chan struct{}

	intensityValue float64
	trackedAttr    string
	dominantAttr   string
}

// Session is one judge's run of one test: the working sample order, the
// current position, the accumulating draft result and the per-sample
// transient state. All methods are safe for concurrent use; the clock ticker
// goroutine shares the same lock as the HTTP handlers.
type Session struct {
	mu sync.Mutex

	id        string
	test      models.Test
	judge     string
	order     []models.Sample
	collector collector
	tuning    Tuning
	log       *zap.Logger

	state State
	index int

	draft  draft
	cur    transient
	groups []string
	vocab  []string

	result       *models.Result
	lastActivity time.Time
}

// New starts a run: it fixes the working order (reshuffling happens here and
// nowhere else), builds the draft skeleton with the method's pre-filled
// defaults and enters RUNNING at sample index 0.
func New(test models.Test, judge string, vocab []string, tuning Tuning, log *zap.Logger) (*Session, error) {
	judge = strings.TrimSpace(judge)
	if judge == "" {
		return nil, errors.New("judge name must not be empty")
	}
	if !test.Method.Valid() {
		return nil, errors.New("unknown test method: " + string(test.Method))
	}
	if len(test.Samples) == 0 {
		return nil, errors.New("test has no samples")
	}
	if tuning.ClockTick <= 0 {
		tuning = DefaultTuning()
	}

	s := &Session{
		id:        uuid.NewString(),
		test:      test,
		judge:     judge,
		order:     workingOrder(test.Samples, test.Randomize),
		collector: collectorFor(test.Method),
		tuning:    tuning,
		log:       log,
		state:     StateRunning,
		vocab:     append([]string(nil), vocab...),
		draft: draft{
			ratings:   make(map[PairKey]float64),
			checks:    make(map[PairKey]bool),
			groups:    make(map[string]string),
			coords:    make(map[string]models.Point),
			dominance: make(map[string][]models.TimedEvent),
			intensity: make(map[string][]models.IntensitySample),
		},
		lastActivity: time.Now(),
	}
	s.collector.init(s)
	s.resetTransientLocked()

	log.Info("Session started",
		zap.String("run_id", s.id),
		zap.Uint("test_id", test.ID),
		zap.String("method", string(test.Method)),
		zap.String("judge", judge),
		zap.Int("samples", len(s.order)),
	)
	return s, nil
}

// ID returns the run identifier.
func (s *Session) ID() string { return s.id }

// TestID returns the definition this run evaluates.
func (s *Session) TestID() uint { return s.test.ID }

// LastActivity reports when the judge last interacted with the run.
func (s *Session) LastActivity() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActivity
}

// duration is the clock cap in seconds for timed methods.
func (s *Session) duration() float64 {
	if s.test.DurationSeconds > 0 {
		return float64(s.test.DurationSeconds)
	}
	return s.tuning.DefaultDuration.Seconds()
}

// lastIndex is the final sample index before completion. Whole-set methods
// present every sample on one screen, so they have a single step.
func (s *Session) lastIndex() int {
	if s.test.Method.WholeSet() {
		return 0
	}
	return len(s.order) - 1
}

func (s *Session) currentSample() models.Sample {
	return s.order[s.index]
}

func (s *Session) sampleInOrder(code string) bool {
	for _, sm := range s.order {
		if sm.Code == code {
			return true
		}
	}
	return false
}

func (s *Session) attribute(id uint) (models.Attribute, bool) {
	for _, a := range s.test.Attributes {
		if a.ID == id {
			return a, true
		}
	}
	return models.Attribute{}, false
}

// checkRunning is the common precondition of every mutator.
func (s *Session) checkRunning() error {
	switch s.state {
	case StateComplete:
		return ErrComplete
	case StateClosed:
		return ErrClosed
	}
	s.lastActivity = time.Now()
	return nil
}

// resetTransientLocked rebuilds all per-sample state: selection, clock,
// elapsed time, dominant marker, intensity, tracked attribute, triangle
// step. Called on entry and on every advance.
func (s *Session) resetTransientLocked() {
	s.stopTickerLocked()
	s.cur = transient{triangleStep: StepSelection}
	if s.test.Method == models.MethodTimeIntensity && len(s.test.Attributes) > 0 {
		s.cur.trackedAttr = attrKey(s.test.Attributes[0].ID)
	}
}

// Advance moves to the next sample, or finalizes the run when the judge is
// on the last one. A completed session returns its result again, so a failed
// persistence write can be retried without re-entering answers.
func (s *Session) Advance() (*models.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case StateComplete:
		return s.result, nil
	case StateClosed:
		return nil, ErrClosed
	}
	s.lastActivity = time.Now()

	if s.test.Method == models.MethodTriangle {
		return nil, ErrTriangleFlow
	}
	if !s.collector.canAdvance(s) {
		return nil, ErrIncomplete
	}

	// Advancing always tears the clock down; stopping closes the current
	// dominance log so no sample ever carries an open log forward.
	s.stopClockLocked()

	if s.index < s.lastIndex() {
		s.index++
		s.resetTransientLocked()
		return nil, nil
	}
	return s.finalizeLocked(), nil
}

// finalizeLocked synthesizes the immutable result record exactly once.
func (s *Session) finalizeLocked() *models.Result {
	r := &models.Result{
		ID:          uuid.NewString(),
		TestID:      s.test.ID,
		JudgeName:   s.judge,
		SubmittedAt: time.Now(),
	}
	s.collector.finalize(s, r)
	s.state = StateComplete
	s.result = r

	s.log.Info("Session complete",
		zap.String("run_id", s.id),
		zap.String("result_id", r.ID),
		zap.Uint("test_id", s.test.ID),
		zap.String("judge", s.judge),
	)
	return r
}

// Result returns the finalized record of a completed run, or nil.
func (s *Session) Result() *models.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

// Exit discards the run without emitting a result and cancels any running
// clock. The irrecoverable-loss confirmation happens at the UI boundary;
// Exit itself is idempotent.
func (s *Session) Exit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateClosed {
		return
	}
	s.stopTickerLocked()
	s.state = StateClosed
	s.log.Info("Session exited", zap.String("run_id", s.id), zap.String("judge", s.judge))
}

// stringRatings flattens the pair-keyed rating map to the stored composite
// string key form.
func (s *Session) stringRatings() map[string]float64 {
	if len(s.draft.ratings) == 0 {
		return nil
	}
	out := make(map[string]float64, len(s.draft.ratings))
	for k, v := range s.draft.ratings {
		out[k.String()] = v
	}
	return out
}
