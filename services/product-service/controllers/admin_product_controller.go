package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/solartech/storefront/services/product-service/services"
	"go.uber.org/zap"
)

// AdminProductController serves the admin product management endpoints.
type AdminProductController struct {
	*ProductController
	thresholds ThresholdSource
}

// NewAdminProductController wraps ctrl. thresholds may be nil, in which case
// DefaultLowStockLimit applies.
func NewAdminProductController(ctrl *ProductController, thresholds ThresholdSource) *AdminProductController {
	return &AdminProductController{ProductController: ctrl, thresholds: thresholds}
}

func (ctrl *AdminProductController) ListProducts(c *gin.Context) {
	params, err := ctrl.validator.ParseAdminParams(c)
	if err != nil {
		badRequest(c, err)
		return
	}

	ctx, cancel := ctrl.context(c)
	defer cancel()

	list, err := ctrl.service.AdminListProducts(ctx, params)
	if err != nil {
		handleServiceError(c, ctrl.logger, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (ctrl *AdminProductController) GetProduct(c *gin.Context) {
	ctx, cancel := ctrl.context(c)
	defer cancel()

	product, err := ctrl.service.AdminGetProduct(ctx, c.Param("id"))
	if err != nil {
		handleServiceError(c, ctrl.logger, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (ctrl *AdminProductController) CreateProduct(c *gin.Context) {
	var req services.ProductCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	ctx, cancel := ctrl.context(c)
	defer cancel()

	product, err := ctrl.service.CreateProduct(ctx, req)
	if err != nil {
		handleServiceError(c, ctrl.logger, err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

func (ctrl *AdminProductController) UpdateProduct(c *gin.Context) {
	var req services.ProductUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	ctx, cancel := ctrl.context(c)
	defer cancel()

	product, err := ctrl.service.UpdateProduct(ctx, c.Param("id"), req)
	if err != nil {
		handleServiceError(c, ctrl.logger, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (ctrl *AdminProductController) DeleteProduct(c *gin.Context) {
	ctx, cancel := ctrl.context(c)
	defer cancel()

	if err := ctrl.service.DeleteProduct(ctx, c.Param("id")); err != nil {
		handleServiceError(c, ctrl.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}

// BulkAction deletes, activates or deactivates the selected products.
func (ctrl *AdminProductController) BulkAction(c *gin.Context) {
	var req services.BulkActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	ctx, cancel := ctrl.context(c)
	defer cancel()

	result, err := ctrl.service.BulkAction(ctx, req)
	if err != nil {
		handleServiceError(c, ctrl.logger, err)
		return
	}
	ctrl.logger.Info("Bulk action applied", zap.String("action", req.Action), zap.Int("selected", len(req.IDs)))
	c.JSON(http.StatusOK, result)
}

func (ctrl *AdminProductController) AdjustStock(c *gin.Context) {
	var req services.StockAdjustment
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	ctx, cancel := ctrl.context(c)
	defer cancel()

	product, err := ctrl.service.AdjustStock(ctx, c.Param("id"), req)
	if err != nil {
		handleServiceError(c, ctrl.logger, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// LowStock lists products at or below ?threshold, defaulting to the store
// setting.
func (ctrl *AdminProductController) LowStock(c *gin.Context) {
	ctx, cancel := ctrl.context(c)
	defer cancel()

	def := DefaultLowStockLimit
	if ctrl.thresholds != nil {
		def = ctrl.thresholds.LowStockThreshold(ctx)
	}
	threshold, err := ctrl.validator.ParseLimit(c, "threshold", def)
	if err != nil {
		badRequest(c, err)
		return
	}

	products, err := ctrl.service.LowStock(ctx, threshold)
	if err != nil {
		handleServiceError(c, ctrl.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"threshold": threshold, "products": products})
}
