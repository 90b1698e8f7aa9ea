package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/solartech/storefront/services/product-service/services"
	"go.uber.org/zap"
)

// GetUploadURL returns a presigned S3 PUT URL for a product image. Parameters
// come from the JSON body or, for GET, the query string.
func (ctrl *AdminProductController) GetUploadURL(c *gin.Context) {
	var req services.UploadRequest
	var err error
	if c.Request.Method == http.MethodGet {
		err = c.ShouldBindQuery(&req)
	} else {
		err = c.ShouldBindJSON(&req)
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid upload request"})
		return
	}
	req.SKU = strings.TrimSpace(req.SKU)
	req.ContentType = strings.ToLower(strings.TrimSpace(req.ContentType))
	if req.ContentType == "image/jpg" {
		req.ContentType = "image/jpeg"
	}

	ctx, cancel := ctrl.context(c)
	defer cancel()

	upload, err := ctrl.service.GenerateUploadURL(ctx, req)
	if err != nil {
		handleServiceError(c, ctrl.logger, err)
		return
	}

	ctrl.logger.Info("Presigned upload issued", zap.String("sku", req.SKU), zap.String("key", upload.Key))
	c.JSON(http.StatusOK, gin.H{
		"upload_url": upload.UploadURL,
		"method":     http.MethodPut,
		"key":        upload.Key,
		"public_url": upload.PublicURL,
		"headers":    upload.Headers,
	})
}
