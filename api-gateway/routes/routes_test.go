package routes_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/solartech/storefront/api-gateway/middlewares"
	"github.com/solartech/storefront/api-gateway/routes"
	"github.com/solartech/storefront/api-gateway/utils"
	"github.com/solartech/storefront/services/common/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type seen struct {
	Path   string `json:"path"`
	Query  string `json:"query"`
	UserID string `json:"userId"`
	Role   string `json:"role"`
}

func setup(t *testing.T) (*gin.Engine, *auth.TokenService) {
	t.Helper()
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(seen{
			Path:   r.URL.Path,
			Query:  r.URL.RawQuery,
			UserID: r.Header.Get(middlewares.HeaderUserID),
			Role:   r.Header.Get(middlewares.HeaderUserRole),
		})
	}))
	t.Cleanup(upstream.Close)

	target, err := url.Parse(upstream.URL)
	require.NoError(t, err)
	tokens, err := auth.NewTokenService("test-secret", time.Minute, time.Hour)
	require.NoError(t, err)

	r := gin.New()
	routes.RegisterAllRoutes(r, middlewares.Identity(tokens), utils.NewForwarder(target, zap.NewNop()))
	return r, tokens
}

func get(t *testing.T, r http.Handler, path string, headers map[string]string) (*httptest.ResponseRecorder, seen) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var s seen
	if w.Code == http.StatusOK && w.Header().Get("Content-Type") == "application/json" {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &s))
	}
	return w, s
}

func TestHealthIsLocal(t *testing.T) {
	r, _ := setup(t)
	w, _ := get(t, r, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "api-gateway")
}

func TestForwardsPathAndQuery(t *testing.T) {
	r, _ := setup(t)
	w, s := get(t, r, "/api/v1/products?category=Inverters&page=2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "/api/v1/products", s.Path)
	assert.Equal(t, "category=Inverters&page=2", s.Query)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestStripsSpoofedIdentity(t *testing.T) {
	r, _ := setup(t)
	_, s := get(t, r, "/api/v1/admin/dashboard", map[string]string{
		middlewares.HeaderUserID:   "ADMIN-001",
		middlewares.HeaderUserRole: "admin",
	})
	assert.Empty(t, s.UserID)
	assert.Empty(t, s.Role)
}

func TestInjectsIdentityFromToken(t *testing.T) {
	r, tokens := setup(t)
	pair, err := tokens.GenerateTokenPair("CUST-002", "sarah.johnson@email.com", auth.RoleCustomer)
	require.NoError(t, err)

	_, s := get(t, r, "/api/v1/account/profile", map[string]string{
		"Authorization": "Bearer " + pair.AccessToken,
	})
	assert.Equal(t, "CUST-002", s.UserID)
	assert.Equal(t, auth.RoleCustomer, s.Role)

	// Refresh tokens are not accepted as access tokens.
	w, _ := get(t, r, "/api/v1/account/profile", map[string]string{
		"Authorization": "Bearer " + pair.RefreshToken,
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRejectsInvalidToken(t *testing.T) {
	r, _ := setup(t)
	w, _ := get(t, r, "/api/v1/cart", map[string]string{"Authorization": "Bearer not-a-jwt"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUpstreamDown(t *testing.T) {
	target, err := url.Parse("http://127.0.0.1:1")
	require.NoError(t, err)
	tokens, err := auth.NewTokenService("test-secret", time.Minute, time.Hour)
	require.NoError(t, err)
	r := gin.New()
	routes.RegisterAllRoutes(r, middlewares.Identity(tokens), utils.NewForwarder(target, zap.NewNop()))

	w, _ := get(t, r, "/api/v1/products", nil)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.JSONEq(t, `{"error":"service unreachable"}`, w.Body.String())
}
