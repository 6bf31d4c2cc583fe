package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nicolippi7-boop/sensory-lab-sub000/internal/models"
	"github.com/nicolippi7-boop/sensory-lab-sub000/internal/repository"
)

// TestsHandler is the panel leader's CRUD surface over test definitions.
type TestsHandler struct {
	log *zap.Logger
}

func NewTestsHandler(log *zap.Logger) *TestsHandler {
	return &TestsHandler{log: log}
}

type sampleRequest struct {
	Code string `json:"code" binding:"required,samplecode"`
	Name string `json:"name" binding:"required"`
}

type attributeRequest struct {
	Name           string   `json:"name" binding:"required"`
	Description    string   `json:"description"`
	Scale          string   `json:"scale" binding:"omitempty,scalekind"`
	AnchorLeft     string   `json:"anchorLeft"`
	AnchorRight    string   `json:"anchorRight"`
	ReferenceValue *float64 `json:"referenceValue"`
	ReferenceLabel string   `json:"referenceLabel"`
}

type testRequest struct {
	Name            string             `json:"name" binding:"required"`
	Method          string             `json:"method" binding:"required,method"`
	Instructions    string             `json:"instructions"`
	DurationSeconds int                `json:"durationSeconds" binding:"omitempty,min=1,max=3600"`
	Randomize       bool               `json:"randomize"`
	CorrectSample   string             `json:"correctSample"`
	Samples         []sampleRequest    `json:"samples" binding:"required,min=1,dive"`
	Attributes      []attributeRequest `json:"attributes" binding:"dive"`
}

func (req *testRequest) toModel() (*models.Test, string) {
	t := &models.Test{
		Name:            req.Name,
		Method:          models.Method(req.Method),
		Status:          models.StatusActive,
		Instructions:    req.Instructions,
		DurationSeconds: req.DurationSeconds,
		Randomize:       req.Randomize,
		CorrectSample:   req.CorrectSample,
	}

	codes := make(map[string]bool, len(req.Samples))
	for i, s := range req.Samples {
		if codes[s.Code] {
			return nil, "duplicate sample code: " + s.Code
		}
		codes[s.Code] = true
		t.Samples = append(t.Samples, models.Sample{Position: i, Code: s.Code, Name: s.Name})
	}
	if t.CorrectSample != "" && !codes[t.CorrectSample] {
		return nil, "correctSample must be one of the sample codes"
	}

	for i, a := range req.Attributes {
		scale := models.Scale(a.Scale)
		if scale == "" {
			scale = models.ScaleContinuous0to100
		}
		t.Attributes = append(t.Attributes, models.Attribute{
			Position:       i,
			Name:           a.Name,
			Description:    a.Description,
			Scale:          scale,
			AnchorLeft:     a.AnchorLeft,
			AnchorRight:    a.AnchorRight,
			ReferenceValue: a.ReferenceValue,
			ReferenceLabel: a.ReferenceLabel,
		})
	}
	return t, ""
}

func testID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid test id"})
		return 0, false
	}
	return uint(id), true
}

func (h *TestsHandler) Create(c *gin.Context) {
	var req testRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	t, problem := req.toModel()
	if problem != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": problem})
		return
	}

	if err := repository.CreateTest(c.Request.Context(), t); err != nil {
		h.log.Error("Failed to create test", zap.Error(err), zap.String("name", t.Name))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create test"})
		return
	}
	c.JSON(http.StatusCreated, t)
}

func (h *TestsHandler) List(c *gin.Context) {
	tests, err := repository.ListTests(c.Request.Context())
	if err != nil {
		h.log.Error("Failed to list tests", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list tests"})
		return
	}
	c.JSON(http.StatusOK, tests)
}

func (h *TestsHandler) Get(c *gin.Context) {
	id, ok := testID(c)
	if !ok {
		return
	}
	t, err := repository.GetTest(c.Request.Context(), id)
	if err == repository.ErrTestNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "test not found"})
		return
	}
	if err != nil {
		h.log.Error("Failed to load test", zap.Error(err), zap.Uint("test_id", id))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load test"})
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *TestsHandler) Update(c *gin.Context) {
	id, ok := testID(c)
	if !ok {
		return
	}
	if _, err := repository.GetTest(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "test not found"})
		return
	}

	var req testRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	t, problem := req.toModel()
	if problem != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": problem})
		return
	}
	t.ID = id

	if err := repository.UpdateTest(c.Request.Context(), t); err != nil {
		h.log.Error("Failed to update test", zap.Error(err), zap.Uint("test_id", id))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update test"})
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *TestsHandler) Close(c *gin.Context) {
	id, ok := testID(c)
	if !ok {
		return
	}
	err := repository.CloseTest(c.Request.Context(), id)
	if err == repository.ErrTestNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "test not found"})
		return
	}
	if err != nil {
		h.log.Error("Failed to close test", zap.Error(err), zap.Uint("test_id", id))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not close test"})
		return
	}
	c.Status(http.StatusNoContent)
}

// Delete removes a test and all of its results. The client asks the leader
// to confirm before calling this.
func (h *TestsHandler) Delete(c *gin.Context) {
	id, ok := testID(c)
	if !ok {
		return
	}
	if err := repository.DeleteTest(c.Request.Context(), id); err != nil {
		h.log.Error("Failed to delete test", zap.Error(err), zap.Uint("test_id", id))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete test"})
		return
	}
	c.Status(http.StatusNoContent)
}

// ListVocabulary returns the shared Flash Profile word list of a test.
func (h *TestsHandler) ListVocabulary(c *gin.Context) {
	id, ok := testID(c)
	if !ok {
		return
	}
	vocab, err := repository.GetVocabulary(c.Request.Context(), id)
	if err != nil {
		h.log.Error("Failed to load vocabulary", zap.Error(err), zap.Uint("test_id", id))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load vocabulary"})
		return
	}
	if vocab == nil {
		vocab = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"vocabulary": vocab})
}

// RemoveVocabularyWord lets the leader curate the shared word list. Sessions
// already running keep their in-memory copy.
func (h *TestsHandler) RemoveVocabularyWord(c *gin.Context) {
	id, ok := testID(c)
	if !ok {
		return
	}
	label := c.Query("label")
	if label == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "label query parameter is required"})
		return
	}
	if err := repository.RemoveVocabularyWord(c.Request.Context(), id, label); err != nil {
		h.log.Error("Failed to remove vocabulary word", zap.Error(err),
			zap.Uint("test_id", id), zap.String("label", label))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not remove vocabulary word"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *TestsHandler) ListResults(c *gin.Context) {
	id, ok := testID(c)
	if !ok {
		return
	}
	results, err := repository.ListResults(c.Request.Context(), id)
	if err != nil {
		h.log.Error("Failed to list results", zap.Error(err), zap.Uint("test_id", id))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list results"})
		return
	}
	c.JSON(http.StatusOK, results)
}

// DeleteResults clears a test's submissions; confirmation-gated client-side.
func (h *TestsHandler) DeleteResults(c *gin.Context) {
	id, ok := testID(c)
	if !ok {
		return
	}
	if err := repository.DeleteResultsByTest(c.Request.Context(), id); err != nil {
		h.log.Error("Failed to delete results", zap.Error(err), zap.Uint("test_id", id))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete results"})
		return
	}
	c.Status(http.StatusNoContent)
}
