package controllers

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	apperrors "github.com/solartech/storefront/services/common/errors"
	"github.com/solartech/storefront/services/common/pagination"
	"github.com/solartech/storefront/services/order-service/models"
	"github.com/solartech/storefront/services/order-service/repository"
	"go.uber.org/zap"
)

// filterFromQuery reads ?search (or ?q) and ?status. "all" means no status
// filter.
func filterFromQuery(c *gin.Context) repository.OrderFilter {
	search := c.Query("search")
	if search == "" {
		search = c.Query("q")
	}
	status := strings.ToLower(strings.TrimSpace(c.Query("status")))
	if status == "all" {
		status = ""
	}
	return repository.OrderFilter{Search: search, Status: status}
}

// GetAllOrders lists every order for the admin table.
func (oc *OrderController) GetAllOrders(c *gin.Context) {
	page, err := pagination.Parse(c, defaultOrderLimit)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	orders, total, err := oc.service.ListOrders(c.Request.Context(), filterFromQuery(c), page.Page, page.Limit)
	if err != nil {
		apperrors.Respond(c, oc.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders, "meta": pagination.NewMeta(page, total)})
}

// GetOrder accepts an order ID or order number.
func (oc *OrderController) GetOrder(c *gin.Context) {
	order, err := oc.service.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		apperrors.Respond(c, oc.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}

func (oc *OrderController) UpdateStatus(c *gin.Context) {
	var req models.StatusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	order, err := oc.service.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		apperrors.Respond(c, oc.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Order %s status updated.", order.OrderNumber),
		"order":   order,
	})
}

// ExportOrders streams the filtered orders as a CSV attachment.
func (oc *OrderController) ExportOrders(c *gin.Context) {
	var buf bytes.Buffer
	if err := oc.service.ExportOrdersCSV(c.Request.Context(), filterFromQuery(c), &buf); err != nil {
		apperrors.Respond(c, oc.logger, err)
		return
	}

	filename := fmt.Sprintf("orders-%s.csv", time.Now().UTC().Format("20060102"))
	oc.logger.Info("Orders exported", zap.Int("bytes", buf.Len()))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}
