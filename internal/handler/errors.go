package handler

import (
	"errors"
	"net/http"

	"vibehouse/internal/repository"
	"vibehouse/internal/service"

	"github.com/gin-gonic/gin"
)

// statusFor maps service and repository errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrEmptyVibe),
		errors.Is(err, service.ErrMissingProject),
		errors.Is(err, repository.ErrNotFloorPlan):
		return http.StatusBadRequest
	case errors.Is(err, repository.ErrArtifactNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}
