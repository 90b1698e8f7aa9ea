package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	apperrors "github.com/solartech/storefront/services/common/errors"
	"github.com/solartech/storefront/services/common/middleware"
	"github.com/solartech/storefront/services/user-service/models"
	"github.com/solartech/storefront/services/user-service/services"
	"go.uber.org/zap"
)

// AuthServiceAPI is the auth surface the handlers need.
type AuthServiceAPI interface {
	Register(ctx context.Context, req models.RegisterRequest) (*services.Session, error)
	Login(ctx context.Context, req models.LoginRequest) (*services.Session, error)
	Refresh(ctx context.Context, refreshToken string) (*services.Session, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, req models.ResetPasswordRequest) error
	ChangePassword(ctx context.Context, userID string, req models.ChangePasswordRequest) error
}

// CookieConfig controls the token cookies set on login.
type CookieConfig struct {
	Domain     string
	Secure     bool
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

type AuthController struct {
	service AuthServiceAPI
	cookies CookieConfig
	logger  *zap.Logger
}

func NewAuthController(service AuthServiceAPI, cookies CookieConfig, logger *zap.Logger) *AuthController {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthController{service: service, cookies: cookies, logger: logger}
}

func (ac *AuthController) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
		return
	}
	session, err := ac.service.Register(c.Request.Context(), req)
	if err != nil {
		apperrors.Respond(c, ac.logger, err)
		return
	}
	ac.respondSession(c, http.StatusCreated, "Account created successfully", session)
}

func (ac *AuthController) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
		return
	}
	session, err := ac.service.Login(c.Request.Context(), req)
	if err != nil {
		apperrors.Respond(c, ac.logger, err)
		return
	}
	ac.respondSession(c, http.StatusOK, "Logged in", session)
}

// Refresh reads the refresh token from the body or, failing that, the
// refresh cookie.
func (ac *AuthController) Refresh(c *gin.Context) {
	var req models.RefreshRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
			return
		}
	}
	if req.RefreshToken == "" {
		req.RefreshToken, _ = c.Cookie(middleware.RefreshTokenCookie)
	}
	if req.RefreshToken == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Refresh token required"})
		return
	}

	session, err := ac.service.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		ac.clearCookies(c)
		apperrors.Respond(c, ac.logger, err)
		return
	}
	ac.respondSession(c, http.StatusOK, "Token refreshed", session)
}

func (ac *AuthController) Logout(c *gin.Context) {
	ac.clearCookies(c)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

func (ac *AuthController) ForgotPassword(c *gin.Context) {
	var req models.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
		return
	}
	if err := ac.service.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		apperrors.Respond(c, ac.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "If an account exists for that email, a reset link has been sent."})
}

func (ac *AuthController) ResetPassword(c *gin.Context) {
	var req models.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
		return
	}
	if req.Token == "" {
		req.Token = c.Query("token")
	}
	if err := ac.service.ResetPassword(c.Request.Context(), req); err != nil {
		apperrors.Respond(c, ac.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Your password has been reset. You can now log in."})
}

func (ac *AuthController) ChangePassword(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req models.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
		return
	}
	if err := ac.service.ChangePassword(c.Request.Context(), userID, req); err != nil {
		apperrors.Respond(c, ac.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password changed successfully!"})
}

func (ac *AuthController) respondSession(c *gin.Context, status int, message string, s *services.Session) {
	ac.setCookie(c, middleware.AccessTokenCookie, s.Tokens.AccessToken, ac.cookies.AccessTTL)
	ac.setCookie(c, middleware.RefreshTokenCookie, s.Tokens.RefreshToken, ac.cookies.RefreshTTL)
	c.JSON(status, gin.H{
		"message":       message,
		"user":          s.User,
		"access_token":  s.Tokens.AccessToken,
		"refresh_token": s.Tokens.RefreshToken,
		"expires_at":    s.Tokens.ExpiresAt,
	})
}

func (ac *AuthController) setCookie(c *gin.Context, name, value string, ttl time.Duration) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, value, int(ttl.Seconds()), "/", ac.cookies.Domain, ac.cookies.Secure, true)
}

func (ac *AuthController) clearCookies(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AccessTokenCookie, "", -1, "/", ac.cookies.Domain, ac.cookies.Secure, true)
	c.SetCookie(middleware.RefreshTokenCookie, "", -1, "/", ac.cookies.Domain, ac.cookies.Secure, true)
}

func currentUser(c *gin.Context) (string, bool) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return "", false
	}
	return userID, true
}
