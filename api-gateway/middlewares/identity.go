package middlewares

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/solartech/storefront/services/common/auth"
	"github.com/solartech/storefront/services/common/middleware"
)

// Identity headers the gateway asserts to the BFF. Clients may never set
// them directly.
const (
	HeaderUserID    = "X-User-ID"
	HeaderUserRole  = "X-User-Role"
	HeaderUserEmail = "X-User-Email"
)

// Identity strips client-supplied identity headers and, when the request
// carries a valid access token, replaces them with the token's claims.
// Requests without a token pass through anonymously; an invalid token is
// rejected.
func Identity(tokens middleware.TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Request.Header
		h.Del(HeaderUserID)
		h.Del(HeaderUserRole)
		h.Del(HeaderUserEmail)

		token := accessToken(c)
		if token == "" {
			c.Next()
			return
		}

		claims, err := tokens.ParseAndValidateToken(token, auth.TokenTypeAccess)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		h.Set(HeaderUserID, claims.Subject)
		h.Set(HeaderUserRole, claims.Role)
		h.Set(HeaderUserEmail, claims.Email)
		c.Next()
	}
}

func accessToken(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	if cookie, err := c.Cookie(middleware.AccessTokenCookie); err == nil {
		return cookie
	}
	return ""
}
