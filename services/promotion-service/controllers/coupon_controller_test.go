package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/solartech/storefront/services/promotion-service/controllers"
	"github.com/solartech/storefront/services/promotion-service/models"
	"github.com/solartech/storefront/services/promotion-service/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// --- Mock CouponService ---

type mockCouponService struct {
	createFn   func(ctx context.Context, req *models.CreateCouponRequest) (*models.Coupon, *services.ServiceError)
	validateFn func(ctx context.Context, req *models.ValidateCouponRequest) (*models.ValidateCouponResponse, *services.ServiceError)
	getFn      func(ctx context.Context, code string) (*models.Coupon, *services.ServiceError)
	updateFn   func(ctx context.Context, code string, req *models.UpdateCouponRequest) (*models.Coupon, *services.ServiceError)
	deactFn    func(ctx context.Context, code string) *services.ServiceError
	listFn     func(ctx context.Context, page, limit int) ([]models.Coupon, int64, *services.ServiceError)
}

func (m *mockCouponService) CreateCoupon(ctx context.Context, req *models.CreateCouponRequest) (*models.Coupon, *services.ServiceError) {
	return m.createFn(ctx, req)
}
func (m *mockCouponService) ValidateCoupon(ctx context.Context, req *models.ValidateCouponRequest) (*models.ValidateCouponResponse, *services.ServiceError) {
	return m.validateFn(ctx, req)
}
func (m *mockCouponService) RedeemCoupon(ctx context.Context, code string) (*models.Coupon, *services.ServiceError) {
	return nil, nil
}
func (m *mockCouponService) GetCoupon(ctx context.Context, code string) (*models.Coupon, *services.ServiceError) {
	return m.getFn(ctx, code)
}
func (m *mockCouponService) UpdateCoupon(ctx context.Context, code string, req *models.UpdateCouponRequest) (*models.Coupon, *services.ServiceError) {
	return m.updateFn(ctx, code, req)
}
func (m *mockCouponService) DeactivateCoupon(ctx context.Context, code string) *services.ServiceError {
	return m.deactFn(ctx, code)
}
func (m *mockCouponService) ListCoupons(ctx context.Context, page, limit int) ([]models.Coupon, int64, *services.ServiceError) {
	return m.listFn(ctx, page, limit)
}

// --- Helpers ---

func setupRouter(svc services.CouponService) *gin.Engine {
	r := gin.New()
	cc := controllers.NewCouponController(svc)

	r.POST("/coupons", cc.CreateCoupon)
	r.POST("/coupons/validate", cc.ValidateCoupon)
	r.GET("/coupons/:code", cc.GetCoupon)
	r.PUT("/coupons/:code", cc.UpdateCoupon)
	r.DELETE("/coupons/:code", cc.DeactivateCoupon)
	r.GET("/coupons", cc.ListCoupons)
	return r
}

func doJSON(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// --- Tests ---

func TestController_CreateCoupon_Success(t *testing.T) {
	svc := &mockCouponService{
		createFn: func(_ context.Context, req *models.CreateCouponRequest) (*models.Coupon, *services.ServiceError) {
			return &models.Coupon{ID: uuid.New(), Code: req.Code, Type: req.Type, Value: req.Value, Active: true}, nil
		},
	}
	w := doJSON(setupRouter(svc), http.MethodPost, "/coupons", map[string]any{
		"code": "NEW10", "type": "percentage", "value": 10, "usage_limit": 50,
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotNil(t, resp["coupon"])
}

func TestController_CreateCoupon_BadRequest(t *testing.T) {
	r := setupRouter(&mockCouponService{})

	w := doJSON(r, http.MethodPost, "/coupons", map[string]any{"code": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodPost, "/coupons", map[string]any{"code": "FLAT5", "type": "freeshipping", "value": 5})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestController_CreateCoupon_Conflict(t *testing.T) {
	svc := &mockCouponService{
		createFn: func(context.Context, *models.CreateCouponRequest) (*models.Coupon, *services.ServiceError) {
			return nil, &services.ServiceError{StatusCode: http.StatusConflict, Message: "Coupon code already exists"}
		},
	}
	w := doJSON(setupRouter(svc), http.MethodPost, "/coupons", map[string]any{"code": "SOLAR20", "type": "percentage", "value": 20})

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.JSONEq(t, `{"error":"Coupon code already exists"}`, w.Body.String())
}

func TestController_ValidateCoupon_Valid(t *testing.T) {
	svc := &mockCouponService{
		validateFn: func(_ context.Context, req *models.ValidateCouponRequest) (*models.ValidateCouponResponse, *services.ServiceError) {
			return &models.ValidateCouponResponse{
				Valid:          true,
				Code:           req.Code,
				Type:           models.CouponTypePercentage,
				DiscountAmount: 10.0,
			}, nil
		},
	}
	w := doJSON(setupRouter(svc), http.MethodPost, "/coupons/validate", map[string]any{"code": "SAVE10", "cart_total": 100.0})

	assert.Equal(t, http.StatusOK, w.Code)
	var resp models.ValidateCouponResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Valid)
	assert.Equal(t, 10.0, resp.DiscountAmount)
}

func TestController_GetCoupon(t *testing.T) {
	svc := &mockCouponService{
		getFn: func(_ context.Context, code string) (*models.Coupon, *services.ServiceError) {
			if code == "GHOST" {
				return nil, &services.ServiceError{StatusCode: http.StatusNotFound, Message: "Coupon not found"}
			}
			return &models.Coupon{ID: uuid.New(), Code: code, Type: models.CouponTypeFixed, Value: 20, Active: true}, nil
		},
	}
	r := setupRouter(svc)

	assert.Equal(t, http.StatusNotFound, doJSON(r, http.MethodGet, "/coupons/GHOST", nil).Code)
	assert.Equal(t, http.StatusOK, doJSON(r, http.MethodGet, "/coupons/FLAT20", nil).Code)
}

func TestController_UpdateCoupon(t *testing.T) {
	var got *models.UpdateCouponRequest
	svc := &mockCouponService{
		updateFn: func(_ context.Context, code string, req *models.UpdateCouponRequest) (*models.Coupon, *services.ServiceError) {
			got = req
			return &models.Coupon{Code: code, Value: *req.Value}, nil
		},
	}
	w := doJSON(setupRouter(svc), http.MethodPut, "/coupons/SOLAR20", map[string]any{"value": 25})

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, got)
	assert.Equal(t, 25.0, *got.Value)
	assert.Nil(t, got.Active)
}

func TestController_DeactivateCoupon(t *testing.T) {
	svc := &mockCouponService{
		deactFn: func(_ context.Context, code string) *services.ServiceError {
			if code == "GHOST" {
				return &services.ServiceError{StatusCode: http.StatusNotFound, Message: "Coupon not found"}
			}
			return nil
		},
	}
	r := setupRouter(svc)

	assert.Equal(t, http.StatusOK, doJSON(r, http.MethodDelete, "/coupons/SAVE10", nil).Code)
	assert.Equal(t, http.StatusNotFound, doJSON(r, http.MethodDelete, "/coupons/GHOST", nil).Code)
}

func TestController_ListCoupons(t *testing.T) {
	var gotPage, gotLimit int
	svc := &mockCouponService{
		listFn: func(_ context.Context, page, limit int) ([]models.Coupon, int64, *services.ServiceError) {
			gotPage, gotLimit = page, limit
			return []models.Coupon{
				{ID: uuid.New(), Code: "A", Type: models.CouponTypeFixed, Value: 5, Active: true},
				{ID: uuid.New(), Code: "B", Type: models.CouponTypePercentage, Value: 10, Active: true},
			}, 12, nil
		},
	}
	r := setupRouter(svc)

	w := doJSON(r, http.MethodGet, "/coupons?page=2&limit=5", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, gotPage)
	assert.Equal(t, 5, gotLimit)

	var resp struct {
		Coupons []models.Coupon `json:"coupons"`
		Meta    struct {
			TotalPages int  `json:"total_pages"`
			HasMore    bool `json:"has_more"`
		} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Coupons, 2)
	assert.Equal(t, 3, resp.Meta.TotalPages)
	assert.True(t, resp.Meta.HasMore)

	assert.Equal(t, http.StatusBadRequest, doJSON(r, http.MethodGet, "/coupons?page=zero", nil).Code)
}
