package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/solartech/storefront/services/bff-service/controllers"
)

// RegisterRoutes mounts the aggregated page endpoints.
func RegisterRoutes(r *gin.Engine, public, authed *gin.RouterGroup, ctrl *controllers.BFFController) {
	r.GET("/health", ctrl.Health)
	public.GET("/home", ctrl.Home)
	authed.GET("/account/overview", ctrl.AccountOverview)
}
