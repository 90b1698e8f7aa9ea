package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/solartech/storefront/services/order-service/controllers"
)

// RegisterOrderRoutes mounts checkout and account order routes on authed and
// order management on admin.
func RegisterOrderRoutes(authed, admin *gin.RouterGroup, oc *controllers.OrderController) {
	checkout := authed.Group("/checkout")
	checkout.POST("", oc.PlaceOrder)
	checkout.POST("/:id/pay", oc.PayOrder)
	checkout.POST("/:id/cancel", oc.CancelOrder)

	account := authed.Group("/account/orders")
	account.GET("", oc.GetOrders)
	account.GET("/:id", oc.GetOrderByID)

	orders := admin.Group("/orders")
	orders.GET("", oc.GetAllOrders)
	orders.GET("/export", oc.ExportOrders)
	orders.GET("/:id", oc.GetOrder)
	orders.PUT("/:id/status", oc.UpdateStatus)
}
