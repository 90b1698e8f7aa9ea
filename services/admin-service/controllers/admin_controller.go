package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/solartech/storefront/services/admin-service/models"
	apperrors "github.com/solartech/storefront/services/common/errors"
	"github.com/solartech/storefront/services/common/pagination"
	usermodels "github.com/solartech/storefront/services/user-service/models"
	"go.uber.org/zap"
)

const defaultCustomerLimit = 10

type AdminServiceAPI interface {
	Dashboard(ctx context.Context) (*models.Dashboard, error)
	Analytics(ctx context.Context, period string) (*models.Analytics, error)
	ListCustomers(ctx context.Context, filter models.CustomerFilter) ([]usermodels.User, error)
	GetCustomer(ctx context.Context, id string) (*models.CustomerDetail, error)
	UpdateCustomerStatus(ctx context.Context, id, status string) (*usermodels.User, error)
	CustomerStats(ctx context.Context) (*models.CustomerStats, error)
}

type SettingsServiceAPI interface {
	GetSettings(ctx context.Context) (*models.StoreSettings, error)
	UpdateSettings(ctx context.Context, req models.SettingsUpdate) (*models.StoreSettings, error)
	UpdateNotifications(ctx context.Context, n models.NotificationSettings) (*models.StoreSettings, error)
}

type AdminController struct {
	service  AdminServiceAPI
	settings SettingsServiceAPI
	logger   *zap.Logger
}

func NewAdminController(service AdminServiceAPI, settings SettingsServiceAPI, logger *zap.Logger) *AdminController {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdminController{service: service, settings: settings, logger: logger}
}

func (ac *AdminController) Dashboard(c *gin.Context) {
	d, err := ac.service.Dashboard(c.Request.Context())
	if err != nil {
		apperrors.Respond(c, ac.logger, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (ac *AdminController) Analytics(c *gin.Context) {
	a, err := ac.service.Analytics(c.Request.Context(), c.Query("period"))
	if err != nil {
		apperrors.Respond(c, ac.logger, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (ac *AdminController) ListCustomers(c *gin.Context) {
	page, err := pagination.Parse(c, defaultCustomerLimit)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	customers, err := ac.service.ListCustomers(c.Request.Context(), models.CustomerFilter{
		Search: c.Query("search"),
		Status: c.Query("status"),
	})
	if err != nil {
		apperrors.Respond(c, ac.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"customers": pagination.Slice(customers, page),
		"meta":      pagination.NewMeta(page, int64(len(customers))),
	})
}

func (ac *AdminController) GetCustomer(c *gin.Context) {
	customer, err := ac.service.GetCustomer(c.Request.Context(), c.Param("id"))
	if err != nil {
		apperrors.Respond(c, ac.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"customer": customer})
}

func (ac *AdminController) UpdateCustomerStatus(c *gin.Context) {
	var req usermodels.StatusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Status is required"})
		return
	}
	customer, err := ac.service.UpdateCustomerStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		apperrors.Respond(c, ac.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Customer status updated", "customer": customer})
}

func (ac *AdminController) CustomerStats(c *gin.Context) {
	stats, err := ac.service.CustomerStats(c.Request.Context())
	if err != nil {
		apperrors.Respond(c, ac.logger, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (ac *AdminController) GetSettings(c *gin.Context) {
	settings, err := ac.settings.GetSettings(c.Request.Context())
	if err != nil {
		apperrors.Respond(c, ac.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

func (ac *AdminController) UpdateSettings(c *gin.Context) {
	var req models.SettingsUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
		return
	}
	settings, err := ac.settings.UpdateSettings(c.Request.Context(), req)
	if err != nil {
		apperrors.Respond(c, ac.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Settings saved successfully!", "settings": settings})
}

func (ac *AdminController) UpdateNotifications(c *gin.Context) {
	var req models.NotificationSettings
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
		return
	}
	settings, err := ac.settings.UpdateNotifications(c.Request.Context(), req)
	if err != nil {
		apperrors.Respond(c, ac.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notification preferences saved", "settings": settings})
}
