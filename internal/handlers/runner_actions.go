package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type flashWordRequest struct {
	Label string `json:"label" binding:"required"`
}

// AddFlashWord grows the session vocabulary and writes the word through to
// the shared test vocabulary so other judges see it on their next start.
func (h *RunnerHandler) AddFlashWord(c *gin.Context) {
	var req flashWordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s, ok := h.current(c)
	if !ok {
		return
	}
	if err := s.AddFlashWord(req.Label); err != nil {
		respondError(c, err)
		return
	}
	if err := h.addVocab(c.Request.Context(), s.TestID(), req.Label); err != nil {
		h.log.Warn("Failed to persist vocabulary word", zap.Error(err), zap.String("label", req.Label))
	}
	h.respond(c, s)
}

// RemoveFlashWord drops the word from the session and from the shared test
// vocabulary, so it stays gone for later sessions.
func (h *RunnerHandler) RemoveFlashWord(c *gin.Context) {
	var req flashWordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s, ok := h.current(c)
	if !ok {
		return
	}
	if err := s.RemoveFlashWord(req.Label); err != nil {
		respondError(c, err)
		return
	}
	if err := h.removeVocab(c.Request.Context(), s.TestID(), req.Label); err != nil {
		h.log.Warn("Failed to remove vocabulary word", zap.Error(err), zap.String("label", req.Label))
	}
	h.respond(c, s)
}

type flashCellRequest struct {
	Sample string `json:"sample" binding:"required"`
	Label  string `json:"label" binding:"required"`
}

func (h *RunnerHandler) AssociateFlash(c *gin.Context) {
	var req flashCellRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s, ok := h.current(c)
	if !ok {
		return
	}
	if err := s.AssociateFlash(req.Sample, req.Label); err != nil {
		respondError(c, err)
		return
	}
	h.respond(c, s)
}

func (h *RunnerHandler) DissociateFlash(c *gin.Context) {
	var req flashCellRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s, ok := h.current(c)
	if !ok {
		return
	}
	if err := s.DissociateFlash(req.Sample, req.Label); err != nil {
		respondError(c, err)
		return
	}
	h.respond(c, s)
}

type flashRateRequest struct {
	Sample string  `json:"sample" binding:"required"`
	Label  string  `json:"label" binding:"required"`
	Value  float64 `json:"value"`
}

func (h *RunnerHandler) RateFlash(c *gin.Context) {
	var req flashRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s, ok := h.current(c)
	if !ok {
		return
	}
	if err := s.RateFlash(req.Sample, req.Label, req.Value); err != nil {
		respondError(c, err)
		return
	}
	h.respond(c, s)
}

func (h *RunnerHandler) TriangleSelect(c *gin.Context) {
	var req selectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s, ok := h.current(c)
	if !ok {
		return
	}
	if err := s.TriangleSelect(req.Sample); err != nil {
		respondError(c, err)
		return
	}
	h.respond(c, s)
}

type triangleForcedRequest struct {
	Forced *bool `json:"forced" binding:"required"`
}

func (h *RunnerHandler) TriangleForced(c *gin.Context) {
	var req triangleForcedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s, ok := h.current(c)
	if !ok {
		return
	}
	if err := s.TriangleForced(*req.Forced); err != nil {
		respondError(c, err)
		return
	}
	h.respond(c, s)
}

type triangleDetailsRequest struct {
	Channel     string `json:"channel" binding:"required"`
	Description string `json:"description"`
	Intensity   int    `json:"intensity" binding:"required,min=1,max=4"`
}

func (h *RunnerHandler) TriangleDetails(c *gin.Context) {
	var req triangleDetailsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s, ok := h.current(c)
	if !ok {
		return
	}
	if err := s.TriangleDetails(req.Channel, req.Description, req.Intensity); err != nil {
		respondError(c, err)
		return
	}
	h.respond(c, s)
}

func (h *RunnerHandler) TriangleNext(c *gin.Context) {
	s, ok := h.current(c)
	if !ok {
		return
	}
	if err := s.TriangleNext(); err != nil {
		respondError(c, err)
		return
	}
	h.respond(c, s)
}

func (h *RunnerHandler) TriangleBack(c *gin.Context) {
	s, ok := h.current(c)
	if !ok {
		return
	}
	if err := s.TriangleBack(); err != nil {
		respondError(c, err)
		return
	}
	h.respond(c, s)
}

// TriangleConfirm finalizes the discrimination run from the confirm step and
// persists it, with the same retry semantics as Advance.
func (h *RunnerHandler) TriangleConfirm(c *gin.Context) {
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
	result, err := s.ConfirmTriangle()
	if err != nil {
		respondError(c, err)
		return
	}
	h.saveResult(c, key, result)
}

type groupRequest struct {
	Name string `json:"name" binding:"required"`
}

func (h *RunnerHandler) AddGroup(c *gin.Context) {
	var req groupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s, ok := h.current(c)
	if !ok {
		return
	}
	if err := s.AddGroup(req.Name); err != nil {
		respondError(c, err)
		return
	}
	h.respond(c, s)
}

func (h *RunnerHandler) RemoveGroup(c *gin.Context) {
	var req groupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s, ok := h.current(c)
	if !ok {
		return
	}
	if err := s.RemoveGroup(req.Name); err != nil {
		respondError(c, err)
		return
	}
	h.respond(c, s)
}

type assignRequest struct {
	Sample string `json:"sample" binding:"required"`
	Group  string `json:"group" binding:"required"`
}

func (h *RunnerHandler) AssignGroup(c *gin.Context) {
	var req assignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s, ok := h.current(c)
	if !ok {
		return
	}
	if err := s.AssignGroup(req.Sample, req.Group); err != nil {
		respondError(c, err)
		return
	}
	h.respond(c, s)
}

type placeRequest struct {
	Sample string  `json:"sample" binding:"required"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width" binding:"required,gt=0"`
	Height float64 `json:"height" binding:"required,gt=0"`
}

// Place records a sample position on the napping sheet. Coordinates arrive
// in client pixels along with the sheet size; the core normalizes to 0..100.
func (h *RunnerHandler) Place(c *gin.Context) {
	var req placeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s, ok := h.current(c)
	if !ok {
		return
	}
	if err := s.PlaceSample(req.Sample, req.X, req.Y, req.Width, req.Height); err != nil {
		respondError(c, err)
		return
	}
	h.respond(c, s)
}

func (h *RunnerHandler) ClockStart(c *gin.Context) {
	s, ok := h.current(c)
	if !ok {
		return
	}
	if err := s.StartClock(); err != nil {
		respondError(c, err)
		return
	}
	h.respond(c, s)
}

func (h *RunnerHandler) ClockStop(c *gin.Context) {
	s, ok := h.current(c)
	if !ok {
		return
	}
	if err := s.StopClock(); err != nil {
		respondError(c, err)
		return
	}
	h.respond(c, s)
}

// ClockReset wipes the current sample's timed answers so the judge can
// retaste and start over.
func (h *RunnerHandler) ClockReset(c *gin.Context) {
	s, ok := h.current(c)
	if !ok {
		return
	}
	if err := s.ResetClock(); err != nil {
		respondError(c, err)
		return
	}
	h.respond(c, s)
}

type attributeActionRequest struct {
	Attribute uint `json:"attribute" binding:"required"`
}

func (h *RunnerHandler) MarkDominant(c *gin.Context) {
	var req attributeActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s, ok := h.current(c)
	if !ok {
		return
	}
	if err := s.MarkDominant(req.Attribute); err != nil {
		respondError(c, err)
		return
	}
	h.respond(c, s)
}

type intensityRequest struct {
	Value float64 `json:"value"`
}

func (h *RunnerHandler) SetIntensity(c *gin.Context) {
	var req intensityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s, ok := h.current(c)
	if !ok {
		return
	}
	if err := s.SetIntensity(req.Value); err != nil {
		respondError(c, err)
		return
	}
	h.respond(c, s)
}

func (h *RunnerHandler) TrackAttribute(c *gin.Context) {
	var req attributeActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s, ok := h.current(c)
	if !ok {
		return
	}
	if err := s.TrackAttribute(req.Attribute); err != nil {
		respondError(c, err)
		return
	}
	h.respond(c, s)
}
