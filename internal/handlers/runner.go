package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nicolippi7-boop/sensory-lab-sub000/internal/models"
	"github.com/nicolippi7-boop/sensory-lab-sub000/internal/repository"
	"github.com/nicolippi7-boop/sensory-lab-sub000/internal/session"
	"github.com/nicolippi7-boop/sensory-lab-sub000/internal/utils"
)

const runKeySessionKey = "run_key"

// RunnerHandler drives a judge's guided session. Every mutation returns the
// fresh snapshot so the client renders exactly what the core holds.
type RunnerHandler struct {
	log *zap.Logger
	mgr *session.Manager

	// Flash vocabulary write-through, swapped out in tests.
	addVocab    func(ctx context.Context, testID uint, label string) error
	removeVocab func(ctx context.Context, testID uint, label string) error
}

func NewRunnerHandler(log *zap.Logger, mgr *session.Manager) *RunnerHandler {
	return &RunnerHandler{
		log:         log,
		mgr:         mgr,
		addVocab:    repository.AddVocabularyWord,
		removeVocab: repository.RemoveVocabularyWord,
	}
}

// runKey pins the judge's browser session to one run.
func (h *RunnerHandler) runKey(c *gin.Context) (string, error) {
	sess := sessions.Default(c)
	if key, ok := sess.Get(runKeySessionKey).(string); ok && key != "" {
		return key, nil
	}
	key, err := utils.GenerateSecureToken(24)
	if err != nil {
		return "", err
	}
	sess.Set(runKeySessionKey, key)
	if err := sess.Save(); err != nil {
		return "", err
	}
	return key, nil
}

func (h *RunnerHandler) current(c *gin.Context) (*session.Session, bool) {
	key, err := h.runKey(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not resolve session"})
		return nil, false
	}
	s, ok := h.mgr.Get(key)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no active session"})
		return nil, false
	}
	return s, true
}

// respondError maps core errors to HTTP statuses. Input gating failures are
// 409/422, never 5xx: the session is always left in a valid state.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, session.ErrClosed):
		c.JSON(http.StatusGone, gin.H{"error": err.Error()})
	case errors.Is(err, session.ErrComplete):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, session.ErrIncomplete),
		errors.Is(err, session.ErrNoSelection),
		errors.Is(err, session.ErrEmptyDescription),
		errors.Is(err, session.ErrClockNotRunning),
		errors.Is(err, session.ErrBadStep),
		errors.Is(err, session.ErrTriangleFlow):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	}
}

func (h *RunnerHandler) respond(c *gin.Context, s *session.Session) {
	c.JSON(http.StatusOK, s.Snapshot())
}

type startRequest struct {
	TestID uint   `json:"testId" binding:"required"`
	Judge  string `json:"judge" binding:"required"`
}

// Start begins a run: the sample order is fixed here, once. Re-reading the
// snapshot never reshuffles; starting again does.
func (h *RunnerHandler) Start(c *gin.Context) {
	var req startRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !utils.IsValidJudgeName(req.Judge) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid judge name"})
		return
	}

	test, err := repository.GetTest(c.Request.Context(), req.TestID)
	if err == repository.ErrTestNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "test not found"})
		return
	}
	if err != nil {
		h.log.Error("Failed to load test for run", zap.Error(err), zap.Uint("test_id", req.TestID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load test"})
		return
	}
	if test.Status != models.StatusActive {
		c.JSON(http.StatusConflict, gin.H{"error": "test is closed"})
		return
	}

	var vocab []string
	if test.Method == models.MethodFlashProfile {
		vocab, err = repository.GetVocabulary(c.Request.Context(), test.ID)
		if err != nil {
			h.log.Error("Failed to load flash vocabulary", zap.Error(err), zap.Uint("test_id", test.ID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load vocabulary"})
			return
		}
	}

	key, err := h.runKey(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not resolve session"})
		return
	}
	s, err := h.mgr.Start(key, *test, req.Judge, vocab)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.respond(c, s)
}

// Snapshot returns the current run state without mutating anything.
func (h *RunnerHandler) Snapshot(c *gin.Context) {
	s, ok := h.current(c)
	if !ok {
		return
	}
	h.respond(c, s)
}

// Exit discards the run. The irrecoverable-loss confirmation happens in the
// client before this is called.
func (h *RunnerHandler) Exit(c *gin.Context) {
	key, err := h.runKey(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not resolve session"})
		return
	}
	h.mgr.End(key)
	c.Status(http.StatusNoContent)
}

// saveResult persists a finalized record. On failure the session keeps the
// result so the judge can retry without re-entering answers.
func (h *RunnerHandler) saveResult(c *gin.Context, key string, r *models.Result) {
	if err := repository.SaveResult(c.Request.Context(), r); err != nil {
		h.log.Error("Failed to persist result", zap.Error(err), zap.String("result_id", r.ID))
		c.JSON(http.StatusBadGateway, gin.H{
			"error": "result could not be saved; your answers are kept, try again",
			"retry": true,
		})
		return
	}
	h.mgr.End(key)
	c.JSON(http.StatusOK, gin.H{"complete": true, "resultId": r.ID})
}

// Advance moves to the next sample or completes the run.
func (h *RunnerHandler) Advance(c *gin.Context) {
	key, err := h.runKey(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not resolve session"})
		return
	}
	s, ok := h.mgr.Get(key)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no active session"})
		return
	}

	result, err := s.Advance()
	if err != nil {
		respondError(c, err)
		return
	}
	if result != nil {
		h.saveResult(c, key, result)
		return
	}
	h.respond(c, s)
}

// Submit retries persistence of an already-completed run.
func (h *RunnerHandler) Submit(c *gin.Context) {
	key, err := h.runKey(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not resolve session"})
		return
	}
	s, ok := h.mgr.Get(key)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no active session"})
		return
	}
	result := s.Result()
	if result == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "session is not complete"})
		return
	}
	h.saveResult(c, key, result)
}

type rateRequest struct {
	Sample    string  `json:"sample" binding:"required"`
	Attribute uint    `json:"attribute" binding:"required"`
	Value     float64 `json:"value"`
}

func (h *RunnerHandler) Rate(c *gin.Context) {
	var req rateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s, ok := h.current(c)
	if !ok {
		return
	}
	if err := s.Rate(req.Sample, req.Attribute, req.Value); err != nil {
		respondError(c, err)
		return
	}
	h.respond(c, s)
}

type cellRequest struct {
	Sample    string `json:"sample" binding:"required"`
	Attribute uint   `json:"attribute" binding:"required"`
}

func (h *RunnerHandler) ToggleCheck(c *gin.Context) {
	var req cellRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s, ok := h.current(c)
	if !ok {
		return
	}
	if err := s.ToggleCheck(req.Sample, req.Attribute); err != nil {
		respondError(c, err)
		return
	}
	h.respond(c, s)
}

func (h *RunnerHandler) ToggleApplicable(c *gin.Context) {
	var req cellRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s, ok := h.current(c)
	if !ok {
		return
	}
	if err := s.ToggleApplicable(req.Sample, req.Attribute); err != nil {
		respondError(c, err)
		return
	}
	h.respond(c, s)
}

type selectRequest struct {
	Sample string `json:"sample" binding:"required"`
}

func (h *RunnerHandler) Select(c *gin.Context) {
	var req selectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s, ok := h.current(c)
	if !ok {
		return
	}
	if err := s.SelectSample(req.Sample); err != nil {
		respondError(c, err)
		return
	}
	h.respond(c, s)
}
