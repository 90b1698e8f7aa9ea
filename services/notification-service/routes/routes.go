package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/solartech/storefront/services/notification-service/controllers"
)

// RegisterRoutes mounts the log endpoint on a group that already requires
// the admin role.
func RegisterRoutes(admin *gin.RouterGroup, controller *controllers.NotificationController) {
	admin.GET("/notifications", controller.GetNotificationLogs)
}
