package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/solartech/storefront/services/common/pagination"
	"github.com/solartech/storefront/services/shipping-service/services"
)

// ShippingController handles HTTP requests for shipping operations.
type ShippingController struct {
	shippingService services.ShippingService
}

func NewShippingController(svc services.ShippingService) *ShippingController {
	return &ShippingController{shippingService: svc}
}

// GetMethods handles GET /shipping/methods
func (sc *ShippingController) GetMethods(ctx *gin.Context) {
	methods, svcErr := sc.shippingService.Methods(ctx.Request.Context())
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"methods": methods})
}

// GetQuote handles GET /shipping/quote?subtotal=&method=. Without a method
// every enabled method is quoted.
func (sc *ShippingController) GetQuote(ctx *gin.Context) {
	subtotal, err := decimal.NewFromString(ctx.DefaultQuery("subtotal", "0"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid subtotal"})
		return
	}

	if method := ctx.Query("method"); method != "" {
		quote, svcErr := sc.shippingService.Quote(ctx.Request.Context(), subtotal, method)
		if svcErr != nil {
			ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
			return
		}
		ctx.JSON(http.StatusOK, quote)
		return
	}

	quotes, svcErr := sc.shippingService.QuoteAll(ctx.Request.Context(), subtotal)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"quotes": quotes})
}

// TrackShipment handles GET /shipping/track/:tracking_code
func (sc *ShippingController) TrackShipment(ctx *gin.Context) {
	trackingCode := ctx.Param("tracking_code")
	if trackingCode == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Tracking code is required"})
		return
	}

	status, svcErr := sc.shippingService.TrackShipment(ctx.Request.Context(), trackingCode)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, status)
}

// ListShipments handles GET /admin/shipments
func (sc *ShippingController) ListShipments(ctx *gin.Context) {
	page, err := pagination.Parse(ctx, 10)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	shipments, total, svcErr := sc.shippingService.ListShipments(ctx.Request.Context(), page.Page, page.Limit)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"shipments": shipments,
		"meta":      pagination.NewMeta(page, total),
	})
}
