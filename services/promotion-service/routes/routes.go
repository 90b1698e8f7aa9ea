package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/solartech/storefront/services/promotion-service/controllers"
)

// RegisterCouponRoutes sets up the customer validate endpoint on authed and
// coupon management on admin.
func RegisterCouponRoutes(authed, admin *gin.RouterGroup, cc *controllers.CouponController) {
	authed.POST("/coupons/validate", cc.ValidateCoupon)

	adminRoutes := admin.Group("/coupons")
	adminRoutes.POST("", cc.CreateCoupon)
	adminRoutes.GET("", cc.ListCoupons)
	adminRoutes.GET("/:code", cc.GetCoupon)
	adminRoutes.PUT("/:code", cc.UpdateCoupon)
	adminRoutes.DELETE("/:code", cc.DeactivateCoupon)
}
