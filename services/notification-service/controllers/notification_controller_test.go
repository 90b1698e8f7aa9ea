package controllers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/solartech/storefront/services/common/events"
	"github.com/solartech/storefront/services/notification-service/controllers"
	"github.com/solartech/storefront/services/notification-service/models"
	"github.com/solartech/storefront/services/notification-service/routes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeService struct {
	filter models.NotificationFilter
}

func (f *fakeService) ProcessEvent(context.Context, events.Event) error { return nil }

func (f *fakeService) GetLogs(_ context.Context, filter models.NotificationFilter) ([]models.NotificationLog, int64, error) {
	f.filter = filter
	return []models.NotificationLog{{ID: 7, Type: models.TypeWelcome, Status: models.StatusSent}}, 41, nil
}

func TestGetNotificationLogs(t *testing.T) {
	svc := &fakeService{}
	r := gin.New()
	routes.RegisterRoutes(r.Group("/api/v1/admin"), controllers.NewNotificationController(svc, nil))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/notifications?user_id=CUST-001&status=sent&page=2", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.NotificationFilter{UserID: "CUST-001", Status: "sent", Page: 2, Limit: 20}, svc.filter)
	assert.Contains(t, w.Body.String(), `"total_pages":3`)
	assert.Contains(t, w.Body.String(), `"type":"welcome"`)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/admin/notifications?limit=abc", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
