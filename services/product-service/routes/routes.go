package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/solartech/storefront/services/product-service/controllers"
)

// RegisterProductRoutes mounts the public catalog endpoints on rg.
func RegisterProductRoutes(rg *gin.RouterGroup, ctrl *controllers.ProductController) {
	productRoutes := rg.Group("/products")
	{
		productRoutes.GET("", ctrl.GetProducts)
		productRoutes.GET("/featured", ctrl.GetFeatured)
		productRoutes.GET("/filters", ctrl.GetFilters)
		productRoutes.GET("/:id", ctrl.GetProduct)
		productRoutes.GET("/:id/related", ctrl.GetRelated)
	}
	rg.GET("/categories", ctrl.GetCategories)
}

// RegisterAdminRoutes mounts product management on an admin-only group.
func RegisterAdminRoutes(admin *gin.RouterGroup, ctrl *controllers.AdminProductController) {
	productRoutes := admin.Group("/products")
	{
		productRoutes.GET("", ctrl.ListProducts)
		productRoutes.POST("", ctrl.CreateProduct)
		productRoutes.POST("/bulk", ctrl.BulkAction)
		productRoutes.GET("/low-stock", ctrl.LowStock)
		productRoutes.GET("/upload-url", ctrl.GetUploadURL)
		productRoutes.POST("/upload-url", ctrl.GetUploadURL)
		productRoutes.GET("/:id", ctrl.GetProduct)
		productRoutes.PUT("/:id", ctrl.UpdateProduct)
		productRoutes.DELETE("/:id", ctrl.DeleteProduct)
		productRoutes.PATCH("/:id/stock", ctrl.AdjustStock)
	}
}
