package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/solartech/storefront/services/cart-service/controllers"
)

// RegisterCartRoutes mounts the cart on an authenticated group.
func RegisterCartRoutes(authed *gin.RouterGroup, cc *controllers.CartController) {
	cart := authed.Group("/cart")
	{
		cart.GET("", cc.GetCart)
		cart.DELETE("", cc.ClearCart)
		cart.GET("/count", cc.GetCount)
		cart.POST("/items", cc.AddItem)
		cart.PUT("/items/:productId", cc.UpdateItem)
		cart.DELETE("/items/:productId", cc.RemoveItem)
		cart.POST("/promo", cc.ApplyPromo)
		cart.DELETE("/promo", cc.RemovePromo)
	}
}
