package controllers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/solartech/storefront/services/bff-service/controllers"
	"github.com/solartech/storefront/services/bff-service/routes"
	apperrors "github.com/solartech/storefront/services/common/errors"
	"github.com/solartech/storefront/services/common/middleware"
	ordermodels "github.com/solartech/storefront/services/order-service/models"
	productmodels "github.com/solartech/storefront/services/product-service/models"
	usermodels "github.com/solartech/storefront/services/user-service/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeCatalog struct{ categoriesErr error }

func (f fakeCatalog) FeaturedProducts(context.Context, int) ([]productmodels.Product, error) {
	return []productmodels.Product{{ID: "1", Name: "SolarMax Pro 400W Solar Panel"}}, nil
}

func (f fakeCatalog) Categories(context.Context) ([]productmodels.Category, error) {
	return nil, f.categoriesErr
}

type fakeAccount struct{}

func (fakeAccount) GetProfile(_ context.Context, userID string) (*usermodels.User, error) {
	if userID != "CUST-001" {
		return nil, apperrors.NotFound("User not found")
	}
	return &usermodels.User{ID: userID, Name: "John Smith"}, nil
}

func (fakeAccount) ListUserOrders(_ context.Context, userID string, page, limit int) ([]ordermodels.Order, int64, error) {
	return []ordermodels.Order{{OrderNumber: "10001", UserID: userID}}, 7, nil
}

func (fakeAccount) Count(context.Context, string) (int, error) { return 3, nil }

func setupRouter(catalog controllers.Catalog) *gin.Engine {
	acct := fakeAccount{}
	ctrl := controllers.NewBFFController(catalog, acct, acct, acct, nil)

	r := gin.New()
	api := r.Group("/api/v1")
	authed := api.Group("", func(c *gin.Context) {
		if id := c.GetHeader("X-User-ID"); id != "" {
			c.Set(middleware.UserContextKey, id)
		}
		c.Next()
	})
	routes.RegisterRoutes(r, api, authed, ctrl)
	return r
}

func get(r http.Handler, path, userID string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHome(t *testing.T) {
	w := get(setupRouter(fakeCatalog{}), "/api/v1/home", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "SolarMax Pro 400W")

	w = get(setupRouter(fakeCatalog{categoriesErr: apperrors.Internal(assert.AnError)}), "/api/v1/home", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestAccountOverview(t *testing.T) {
	r := setupRouter(fakeCatalog{})

	w := get(r, "/api/v1/account/overview", "CUST-001")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"cartCount":3`)
	assert.Contains(t, w.Body.String(), `"orderCount":7`)
	assert.Contains(t, w.Body.String(), "John Smith")

	w = get(r, "/api/v1/account/overview", "CUST-404")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = get(r, "/api/v1/account/overview", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
