package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/solartech/storefront/services/shipping-service/controllers"
)

// RegisterShippingRoutes sets up all shipping-related routes.
func RegisterShippingRoutes(public, authed, admin *gin.RouterGroup, sc *controllers.ShippingController) {
	public.GET("/shipping/methods", sc.GetMethods)
	public.GET("/shipping/quote", sc.GetQuote)

	authed.GET("/shipping/track/:tracking_code", sc.TrackShipment)

	admin.GET("/shipments", sc.ListShipments)
}
