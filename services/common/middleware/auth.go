package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/solartech/storefront/services/common/auth"
)

const (
	UserContextKey  = "userID"
	RoleContextKey  = "role"
	EmailContextKey = "email"

	AccessTokenCookie  = "access_token"
	RefreshTokenCookie = "refresh_token"
)

// TokenParser validates access tokens.
type TokenParser interface {
	ParseAndValidateToken(tokenStr, expectedType string) (*auth.Claims, error)
}

// AuthMiddleware resolves the caller from a bearer token or the access token
// cookie. When trustGateway is set, identity headers injected by an upstream
// gateway (X-User-ID, X-User-Role, X-User-Email) are accepted as well.
func AuthMiddleware(tokens TokenParser, trustGateway bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if trustGateway {
			if userID := c.GetHeader("X-User-ID"); userID != "" {
				role := c.GetHeader("X-User-Role")
				if role == "" {
					role = auth.RoleCustomer
				}
				setIdentity(c, userID, role, c.GetHeader("X-User-Email"))
				c.Next()
				return
			}
		}

		token := bearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		claims, err := tokens.ParseAndValidateToken(token, auth.TokenTypeAccess)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}
		setIdentity(c, claims.Subject, claims.Role, claims.Email)
		c.Next()
	}
}

// AdminOnly must run after AuthMiddleware.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(RoleContextKey) != auth.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			return
		}
		c.Next()
	}
}

func GetUserID(c *gin.Context) (string, error) {
	if id := c.GetString(UserContextKey); id != "" {
		return id, nil
	}
	return "", errors.New("user ID not found in context")
}

func setIdentity(c *gin.Context, userID, role, email string) {
	c.Set(UserContextKey, userID)
	c.Set(RoleContextKey, role)
	c.Set(EmailContextKey, email)
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	if cookie, err := c.Cookie(AccessTokenCookie); err == nil {
		return cookie
	}
	return ""
}
