package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/solartech/storefront/services/common/errors"
	"github.com/solartech/storefront/services/common/pagination"
	"github.com/solartech/storefront/services/notification-service/models"
	"github.com/solartech/storefront/services/notification-service/services"
	"go.uber.org/zap"
)

const defaultLogLimit = 20

type NotificationController struct {
	service services.NotificationService
	logger  *zap.Logger
}

func NewNotificationController(svc services.NotificationService, logger *zap.Logger) *NotificationController {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationController{service: svc, logger: logger}
}

// GetNotificationLogs lists delivery logs, newest first, filtered by
// user_id, type and status.
func (nc *NotificationController) GetNotificationLogs(c *gin.Context) {
	page, err := pagination.Parse(c, defaultLogLimit)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	logs, total, err := nc.service.GetLogs(c.Request.Context(), models.NotificationFilter{
		UserID: c.Query("user_id"),
		Type:   c.Query("type"),
		Status: c.Query("status"),
		Page:   page.Page,
		Limit:  page.Limit,
	})
	if err != nil {
		apperrors.Respond(c, nc.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"notifications": logs,
		"meta":          pagination.NewMeta(page, total),
	})
}
