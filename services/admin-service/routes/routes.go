package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/solartech/storefront/services/admin-service/controllers"
)

// RegisterAdminRoutes accepts a RouterGroup which already requires the admin
// role.
func RegisterAdminRoutes(admin *gin.RouterGroup, ac *controllers.AdminController) {
	admin.GET("/dashboard", ac.Dashboard)
	admin.GET("/analytics", ac.Analytics)

	customers := admin.Group("/customers")
	{
		customers.GET("", ac.ListCustomers)
		customers.GET("/stats", ac.CustomerStats)
		customers.GET("/:id", ac.GetCustomer)
		customers.PUT("/:id/status", ac.UpdateCustomerStatus)
	}

	settings := admin.Group("/settings")
	{
		settings.GET("", ac.GetSettings)
		settings.PUT("", ac.UpdateSettings)
		settings.PUT("/notifications", ac.UpdateNotifications)
	}
}
