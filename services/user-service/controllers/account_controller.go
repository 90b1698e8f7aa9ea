package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/solartech/storefront/services/common/errors"
	productmodels "github.com/solartech/storefront/services/product-service/models"
	"github.com/solartech/storefront/services/user-service/models"
	"go.uber.org/zap"
)

// AccountServiceAPI is the account area surface the handlers need.
type AccountServiceAPI interface {
	GetProfile(ctx context.Context, userID string) (*models.User, error)
	UpdateProfile(ctx context.Context, userID string, req models.ProfileUpdate) (*models.User, error)

	ListAddresses(ctx context.Context, userID string) ([]models.Address, error)
	AddAddress(ctx context.Context, userID string, in models.AddressInput) (*models.Address, error)
	UpdateAddress(ctx context.Context, userID, id string, in models.AddressInput) (*models.Address, error)
	DeleteAddress(ctx context.Context, userID, id string) error
	SetDefaultAddress(ctx context.Context, userID, id string) error

	ListPaymentMethods(ctx context.Context, userID string) ([]models.PaymentMethod, error)
	AddPaymentMethod(ctx context.Context, userID string, in models.PaymentMethodInput) (*models.PaymentMethod, error)
	DeletePaymentMethod(ctx context.Context, userID, id string) error
	SetDefaultPaymentMethod(ctx context.Context, userID, id string) error

	Wishlist(ctx context.Context, userID string) ([]productmodels.Product, error)
	AddToWishlist(ctx context.Context, userID, productID string) error
	RemoveFromWishlist(ctx context.Context, userID, productID string) error
	ToggleWishlist(ctx context.Context, userID, productID string) (bool, error)
}

type AccountController struct {
	service AccountServiceAPI
	logger  *zap.Logger
}

func NewAccountController(service AccountServiceAPI, logger *zap.Logger) *AccountController {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AccountController{service: service, logger: logger}
}

// GetProfile returns the logged-in user's profile
func (ac *AccountController) GetProfile(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	user, err := ac.service.GetProfile(c.Request.Context(), userID)
	if err != nil {
		apperrors.Respond(c, ac.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (ac *AccountController) UpdateProfile(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req models.ProfileUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload", "details": err.Error()})
		return
	}
	user, err := ac.service.UpdateProfile(c.Request.Context(), userID, req)
	if err != nil {
		apperrors.Respond(c, ac.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Profile updated", "user": user})
}

func (ac *AccountController) ListAddresses(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	list, err := ac.service.ListAddresses(c.Request.Context(), userID)
	if err != nil {
		apperrors.Respond(c, ac.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"addresses": list})
}

func (ac *AccountController) AddAddress(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var in models.AddressInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please fill out all address fields.", "details": err.Error()})
		return
	}
	address, err := ac.service.AddAddress(c.Request.Context(), userID, in)
	if err != nil {
		apperrors.Respond(c, ac.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Address created successfully", "address": address})
}

func (ac *AccountController) UpdateAddress(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var in models.AddressInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please fill out all address fields.", "details": err.Error()})
		return
	}
	address, err := ac.service.UpdateAddress(c.Request.Context(), userID, c.Param("id"), in)
	if err != nil {
		apperrors.Respond(c, ac.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Address updated", "address": address})
}

func (ac *AccountController) DeleteAddress(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	if err := ac.service.DeleteAddress(c.Request.Context(), userID, c.Param("id")); err != nil {
		apperrors.Respond(c, ac.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Address deleted"})
}

func (ac *AccountController) SetDefaultAddress(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	if err := ac.service.SetDefaultAddress(c.Request.Context(), userID, c.Param("id")); err != nil {
		apperrors.Respond(c, ac.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Default address updated"})
}

func (ac *AccountController) ListPaymentMethods(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	list, err := ac.service.ListPaymentMethods(c.Request.Context(), userID)
	if err != nil {
		apperrors.Respond(c, ac.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"paymentMethods": list})
}

func (ac *AccountController) AddPaymentMethod(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var in models.PaymentMethodInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please enter valid payment details.", "details": err.Error()})
		return
	}
	method, err := ac.service.AddPaymentMethod(c.Request.Context(), userID, in)
	if err != nil {
		apperrors.Respond(c, ac.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Payment method added", "paymentMethod": method})
}

func (ac *AccountController) DeletePaymentMethod(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	if err := ac.service.DeletePaymentMethod(c.Request.Context(), userID, c.Param("id")); err != nil {
		apperrors.Respond(c, ac.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Payment method removed"})
}

func (ac *AccountController) SetDefaultPaymentMethod(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	if err := ac.service.SetDefaultPaymentMethod(c.Request.Context(), userID, c.Param("id")); err != nil {
		apperrors.Respond(c, ac.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Default payment method updated"})
}

func (ac *AccountController) GetWishlist(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	products, err := ac.service.Wishlist(c.Request.Context(), userID)
	if err != nil {
		apperrors.Respond(c, ac.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products, "count": len(products)})
}

func (ac *AccountController) AddToWishlist(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	if err := ac.service.AddToWishlist(c.Request.Context(), userID, c.Param("productId")); err != nil {
		apperrors.Respond(c, ac.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Added to wishlist", "inWishlist": true})
}

func (ac *AccountController) RemoveFromWishlist(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	if err := ac.service.RemoveFromWishlist(c.Request.Context(), userID, c.Param("productId")); err != nil {
		apperrors.Respond(c, ac.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Removed from wishlist", "inWishlist": false})
}

func (ac *AccountController) ToggleWishlist(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	saved, err := ac.service.ToggleWishlist(c.Request.Context(), userID, c.Param("productId"))
	if err != nil {
		apperrors.Respond(c, ac.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"inWishlist": saved})
}
