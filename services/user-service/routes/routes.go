package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/solartech/storefront/services/user-service/controllers"
)

// RegisterAuthRoutes mounts /auth on public. Extra middleware, such as a
// stricter rate limit, applies to the auth group only.
func RegisterAuthRoutes(public *gin.RouterGroup, ac *controllers.AuthController, mw ...gin.HandlerFunc) {
	authGroup := public.Group("/auth", mw...)
	{
		authGroup.POST("/register", ac.Register)
		authGroup.POST("/login", ac.Login)
		authGroup.POST("/logout", ac.Logout)
		authGroup.POST("/refresh", ac.Refresh)
		authGroup.POST("/forgot-password", ac.ForgotPassword)
		authGroup.POST("/reset-password", ac.ResetPassword)
	}
}

// RegisterAccountRoutes accepts a RouterGroup which already applies auth
// middleware.
func RegisterAccountRoutes(authed *gin.RouterGroup, ac *controllers.AuthController, acc *controllers.AccountController) {
	account := authed.Group("/account")
	{
		account.GET("/profile", acc.GetProfile)
		account.PUT("/profile", acc.UpdateProfile)
		account.PUT("/password", ac.ChangePassword)

		account.GET("/addresses", acc.ListAddresses)
		account.POST("/addresses", acc.AddAddress)
		account.PUT("/addresses/:id", acc.UpdateAddress)
		account.DELETE("/addresses/:id", acc.DeleteAddress)
		account.PUT("/addresses/:id/default", acc.SetDefaultAddress)

		account.GET("/payment-methods", acc.ListPaymentMethods)
		account.POST("/payment-methods", acc.AddPaymentMethod)
		account.DELETE("/payment-methods/:id", acc.DeletePaymentMethod)
		account.PUT("/payment-methods/:id/default", acc.SetDefaultPaymentMethod)

		account.GET("/wishlist", acc.GetWishlist)
		account.POST("/wishlist/:productId", acc.AddToWishlist)
		account.DELETE("/wishlist/:productId", acc.RemoveFromWishlist)
		account.POST("/wishlist/:productId/toggle", acc.ToggleWishlist)
	}
}
