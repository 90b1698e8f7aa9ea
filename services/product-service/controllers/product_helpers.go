package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/solartech/storefront/services/common/errors"
	"go.uber.org/zap"
)

// handleServiceError renders a service error with its mapped status.
func handleServiceError(c *gin.Context, log *zap.Logger, err error) {
	apperrors.Respond(c, log, err)
}

// badRequest renders a query or body parsing failure.
func badRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}
