package handler

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts all endpoints on router
func RegisterRoutes(router *gin.Engine, vibe *VibeHandler, designs *DesignHandler, health *HealthHandler) {
	router.GET("/health", health.Health)
	router.GET("/version", health.Version)

	// API routes
	apiV1 := router.Group("/api/v1")
	{
		// Project endpoints
		project := apiV1.Group("/projects/:project_id")
		project.POST("/vibe", vibe.Submit)
		project.POST("/vibe/stream", vibe.SubmitStream) // Streaming generation
		project.GET("/designs", designs.List)
		project.GET("/designs/:design_id", designs.Get)
		project.POST("/designs/:design_id/select", designs.Select)

		// Stateless vibe endpoints
		apiV1.POST("/vibe/parse", vibe.Parse)
		apiV1.POST("/vibe/preview", vibe.Preview)
		apiV1.POST("/vibe/similar", vibe.Similar)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(404, gin.H{"error": "API endpoint not found"})
	})
}
