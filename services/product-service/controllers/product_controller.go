package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ProductController serves the storefront catalog endpoints.
type ProductController struct {
	service   ProductServiceAPI
	validator *RequestValidator
	logger    *zap.Logger
	timeout   time.Duration
}

func NewProductController(service ProductServiceAPI, logger *zap.Logger) *ProductController {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductController{
		service:   service,
		validator: NewRequestValidator(),
		logger:    logger,
		timeout:   DefaultContextTimeout,
	}
}

func (ctrl *ProductController) context(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), ctrl.timeout)
}

// GetProducts lists active products with filters, sorting and pagination.
func (ctrl *ProductController) GetProducts(c *gin.Context) {
	params, err := ctrl.validator.ParseListParams(c)
	if err != nil {
		badRequest(c, err)
		return
	}

	ctx, cancel := ctrl.context(c)
	defer cancel()

	list, err := ctrl.service.ListProducts(ctx, params)
	if err != nil {
		handleServiceError(c, ctrl.logger, err)
		return
	}

	ctrl.logger.Debug("Products fetched",
		zap.Int("page", params.Page.Page),
		zap.Int("limit", params.Page.Limit),
		zap.Int64("total", list.Meta.Total),
	)
	c.JSON(http.StatusOK, list)
}

// GetProduct accepts either a product ID or its slug.
func (ctrl *ProductController) GetProduct(c *gin.Context) {
	ctx, cancel := ctrl.context(c)
	defer cancel()

	product, err := ctrl.service.GetProduct(ctx, c.Param("id"))
	if err != nil {
		handleServiceError(c, ctrl.logger, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (ctrl *ProductController) GetFeatured(c *gin.Context) {
	limit, err := ctrl.validator.ParseLimit(c, "limit", DefaultFeaturedLimit)
	if err != nil {
		badRequest(c, err)
		return
	}

	ctx, cancel := ctrl.context(c)
	defer cancel()

	products, err := ctrl.service.FeaturedProducts(ctx, limit)
	if err != nil {
		handleServiceError(c, ctrl.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

func (ctrl *ProductController) GetRelated(c *gin.Context) {
	limit, err := ctrl.validator.ParseLimit(c, "limit", DefaultRelatedLimit)
	if err != nil {
		badRequest(c, err)
		return
	}

	ctx, cancel := ctrl.context(c)
	defer cancel()

	products, err := ctrl.service.RelatedProducts(ctx, c.Param("id"), limit)
	if err != nil {
		handleServiceError(c, ctrl.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}
