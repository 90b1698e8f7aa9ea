package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterAllRoutes answers health checks locally and forwards the API to
// the BFF after identity resolution.
func RegisterAllRoutes(r *gin.Engine, identity, forward gin.HandlerFunc) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "api-gateway"})
	})

	api := r.Group("/api/v1", identity)
	api.Any("/*any", forward)
}
