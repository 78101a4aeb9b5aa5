package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"vibehouse/internal/model"
	"vibehouse/internal/service"

	"github.com/gin-gonic/gin"
)

// VibeHandler handles vibe submission and evaluation requests
type VibeHandler struct {
	designService *service.DesignService
}

// NewVibeHandler creates a new vibe handler
func NewVibeHandler(designService *service.DesignService) *VibeHandler {
	return &VibeHandler{designService: designService}
}

// Submit handles POST /api/v1/projects/:project_id/vibe
func (h *VibeHandler) Submit(c *gin.Context) {
	var req model.VibeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	req.ProjectID = c.Param("project_id")

	response, err := h.designService.Submit(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

// SubmitStream handles POST /api/v1/projects/:project_id/vibe/stream - SSE streaming generation
func (h *VibeHandler) SubmitStream(c *gin.Context) {
	var req model.VibeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	req.ProjectID = c.Param("project_id")

	// Create flusher for SSE
	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Streaming not supported"})
		return
	}

	// Headers are written with the first event so that validation
	// failures can still answer with a plain JSON status.
	started := false
	emit := func(event string, data any) error {
		if !started {
			setSSEHeaders(c)
			started = true
		}
		sendSSE(c, event, data)
		flusher.Flush()
		return c.Request.Context().Err()
	}

	response, err := h.designService.SubmitStream(c.Request.Context(), &req, emit)
	if err != nil {
		if !started {
			respondError(c, err)
			return
		}
		_ = emit("error", map[string]any{"error": err.Error()})
		return
	}

	// Send final results
	_ = emit("results", response)

	// Send done event
	_ = emit("done", nil)
}

// Parse handles POST /api/v1/vibe/parse
func (h *VibeHandler) Parse(c *gin.Context) {
	var req model.ParseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, h.designService.ParseVibe(req.VibeDescription))
}

// Preview handles POST /api/v1/vibe/preview
func (h *VibeHandler) Preview(c *gin.Context) {
	var req model.PreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	response, err := h.designService.Preview(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// Similar handles POST /api/v1/vibe/similar
func (h *VibeHandler) Similar(c *gin.Context) {
	var req model.SimilarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	response, err := h.designService.SimilarProjects(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func setSSEHeaders(c *gin.Context) {
	c.Header("Content-Type", "text/event-stream; charset=utf-8")
	c.Header("Cache-Control", "no-cache, no-store, must-revalidate")
	c.Header("Pragma", "no-cache")
	c.Header("Expires", "0")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
}

// sendSSE sends a Server-Sent Event
func sendSSE(c *gin.Context, event string, data any) {
	if data != nil {
		jsonData, err := json.Marshal(data)
		if err != nil {
			fmt.Fprintf(c.Writer, "event: error\ndata: {\"error\": \"JSON marshal failed\"}\n\n")
			return
		}
		fmt.Fprintf(c.Writer, "event: %s\ndata: %s\n\n", event, string(jsonData))
	} else {
		fmt.Fprintf(c.Writer, "event: %s\ndata: {}\n\n", event)
	}
}
