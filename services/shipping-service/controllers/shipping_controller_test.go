package controllers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/solartech/storefront/services/shipping-service/controllers"
	"github.com/solartech/storefront/services/shipping-service/models"
	"github.com/solartech/storefront/services/shipping-service/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockShippingService struct {
	lastSubtotal decimal.Decimal
	lastMethod   string
	quoteErr     *services.ServiceError
	trackErr     *services.ServiceError
}

func (m *mockShippingService) Methods(context.Context) ([]models.ShippingMethod, *services.ServiceError) {
	return models.DefaultShippingMethods(), nil
}

func (m *mockShippingService) Quote(_ context.Context, subtotal decimal.Decimal, methodID string) (*models.Quote, *services.ServiceError) {
	m.lastSubtotal, m.lastMethod = subtotal, methodID
	if m.quoteErr != nil {
		return nil, m.quoteErr
	}
	return &models.Quote{MethodID: methodID, Cost: 99.99}, nil
}

func (m *mockShippingService) QuoteAll(_ context.Context, subtotal decimal.Decimal) ([]models.Quote, *services.ServiceError) {
	m.lastSubtotal = subtotal
	return []models.Quote{{MethodID: "standard"}, {MethodID: "express"}}, nil
}

func (m *mockShippingService) CreateShipment(context.Context, *models.ShipmentRequest) (*models.Shipment, *services.ServiceError) {
	return &models.Shipment{}, nil
}

func (m *mockShippingService) TrackShipment(_ context.Context, code string) (*models.TrackingStatus, *services.ServiceError) {
	if m.trackErr != nil {
		return nil, m.trackErr
	}
	return &models.TrackingStatus{TrackingCode: code, Status: models.ShipmentStatusInTransit}, nil
}

func (m *mockShippingService) ListShipments(_ context.Context, page, limit int) ([]models.Shipment, int64, *services.ServiceError) {
	return []models.Shipment{{OrderID: "o1"}}, 1, nil
}

func setupRouter(svc services.ShippingService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	c := controllers.NewShippingController(svc)

	r.GET("/shipping/methods", c.GetMethods)
	r.GET("/shipping/quote", c.GetQuote)
	r.GET("/shipping/track/:tracking_code", c.TrackShipment)
	r.GET("/admin/shipments", c.ListShipments)
	return r
}

func get(r http.Handler, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestGetMethods(t *testing.T) {
	w := get(setupRouter(&mockShippingService{}), "/shipping/methods")

	assert.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Methods []models.ShippingMethod `json:"methods"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Methods, 3)
}

func TestGetQuote_SingleMethod(t *testing.T) {
	svc := &mockShippingService{}
	w := get(setupRouter(svc), "/shipping/quote?subtotal=120.50&method=express")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "express", svc.lastMethod)
	assert.True(t, svc.lastSubtotal.Equal(decimal.RequireFromString("120.50")))
}

func TestGetQuote_AllMethods(t *testing.T) {
	w := get(setupRouter(&mockShippingService{}), "/shipping/quote?subtotal=10")

	assert.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Quotes []models.Quote `json:"quotes"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Quotes, 2)
}

func TestGetQuote_Errors(t *testing.T) {
	svc := &mockShippingService{quoteErr: &services.ServiceError{StatusCode: http.StatusBadRequest, Message: "Unknown shipping method"}}
	r := setupRouter(svc)

	w := get(r, "/shipping/quote?subtotal=abc")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = get(r, "/shipping/quote?subtotal=10&method=drone")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Unknown shipping method"}`, w.Body.String())
}

func TestTrackShipment(t *testing.T) {
	svc := &mockShippingService{}
	r := setupRouter(svc)

	w := get(r, "/shipping/track/STF123")
	assert.Equal(t, http.StatusOK, w.Code)
	var status models.TrackingStatus
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.Equal(t, "STF123", status.TrackingCode)

	svc.trackErr = &services.ServiceError{StatusCode: http.StatusNotFound, Message: "Shipment not found"}
	w = get(r, "/shipping/track/STF404")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListShipments(t *testing.T) {
	w := get(setupRouter(&mockShippingService{}), "/admin/shipments?page=1&limit=5")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":1`)
}
