package handler

import (
	"net/http"
	"strings"

	"vibehouse/internal/model"
	"vibehouse/internal/service"

	"github.com/gin-gonic/gin"
)

// DesignHandler handles stored design artifacts of a project
type DesignHandler struct {
	designService *service.DesignService
}

// NewDesignHandler creates a new design handler
func NewDesignHandler(designService *service.DesignService) *DesignHandler {
	return &DesignHandler{designService: designService}
}

// List handles GET /api/v1/projects/:project_id/designs
func (h *DesignHandler) List(c *gin.Context) {
	artifactType := model.ArtifactType(strings.TrimSpace(c.Query("type")))
	if artifactType != "" && !artifactType.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid artifact type: " + string(artifactType)})
		return
	}

	response, err := h.designService.ListDesigns(c.Request.Context(), c.Param("project_id"), artifactType)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// Get handles GET /api/v1/projects/:project_id/designs/:design_id
func (h *DesignHandler) Get(c *gin.Context) {
	artifact, err := h.designService.GetDesign(c.Request.Context(), c.Param("project_id"), c.Param("design_id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, artifact)
}

// Select handles POST /api/v1/projects/:project_id/designs/:design_id/select
func (h *DesignHandler) Select(c *gin.Context) {
	artifact, err := h.designService.SelectDesign(c.Request.Context(), c.Param("project_id"), c.Param("design_id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, artifact)
}
