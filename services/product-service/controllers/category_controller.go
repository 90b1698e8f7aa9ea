package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetCategories returns the fixed category list with product counts.
func (ctrl *ProductController) GetCategories(c *gin.Context) {
	ctx, cancel := ctrl.context(c)
	defer cancel()

	categories, err := ctrl.service.Categories(ctx)
	if err != nil {
		handleServiceError(c, ctrl.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// GetFilters returns the facets for the storefront filter sidebar.
func (ctrl *ProductController) GetFilters(c *gin.Context) {
	ctx, cancel := ctrl.context(c)
	defer cancel()

	meta, err := ctrl.service.FilterMetadata(ctx)
	if err != nil {
		handleServiceError(c, ctrl.logger, err)
		return
	}
	c.JSON(http.StatusOK, meta)
}
