package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/solartech/storefront/services/payment-service/controllers"
)

// RegisterPaymentRoutes mounts the admin payment endpoints. Charges are only
// initiated by the order service.
func RegisterPaymentRoutes(admin *gin.RouterGroup, pc *controllers.PaymentController) {
	payments := admin.Group("/payments")
	payments.GET("", pc.ListPayments)
	payments.GET("/:id", pc.GetPayment)
	payments.POST("/:id/confirm", pc.ConfirmTransfer)
}
