package services

import (
	"context"
	"errors"
	"testing"
	"time"

	adminmodels "github.com/solartech/storefront/services/admin-service/models"
	"github.com/solartech/storefront/services/common/events"
	"github.com/solartech/storefront/services/notification-service/models"
	"github.com/solartech/storefront/services/notification-service/repository"
	"github.com/solartech/storefront/services/notification-service/sender"
	ordermodels "github.com/solartech/storefront/services/order-service/models"
	usermodels "github.com/solartech/storefront/services/user-service/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockMailer struct{ mock.Mock }

func (m *MockMailer) Send(ctx context.Context, msg models.Message) (sender.SendResult, error) {
	args := m.Called(ctx, msg)
	return args.Get(0).(sender.SendResult), args.Error(1)
}

type fixedPrefs struct {
	settings adminmodels.NotificationSettings
	err      error
}

func (p fixedPrefs) Notifications(context.Context) (adminmodels.NotificationSettings, error) {
	return p.settings, p.err
}

func newService(t *testing.T, mailer sender.Mailer, prefs Preferences) (NotificationService, *repository.MemoryNotificationRepository) {
	t.Helper()
	repo := repository.NewMemoryNotificationRepository(0)
	svc, err := NewNotificationService(repo, mailer, prefs, Options{MaxAttempts: 3}, nil)
	require.NoError(t, err)
	return svc, repo
}

func mustEvent(t *testing.T, eventType string, payload any) events.Event {
	t.Helper()
	evt, err := events.New(eventType, payload)
	require.NoError(t, err)
	return evt
}

func allLogs(t *testing.T, repo repository.NotificationRepository) []models.NotificationLog {
	t.Helper()
	logs, _, err := repo.GetLogs(context.Background(), models.NotificationFilter{Limit: 100})
	require.NoError(t, err)
	return logs
}

func TestProcessEvent_OrderPlaced(t *testing.T) {
	mailer := sender.NewLogMailer(nil, 0)
	svc, repo := newService(t, mailer, fixedPrefs{settings: adminmodels.DefaultSettings().Notifications})

	evt := mustEvent(t, events.OrderPlaced, ordermodels.OrderEvent{
		OrderNumber:   "10042",
		UserID:        "CUST-001",
		CustomerName:  "John Smith",
		Email:         "john.smith@email.com",
		PaymentStatus: ordermodels.PaymentAwaitingTransfer,
		ItemCount:     2,
		Total:         1299,
	})
	require.NoError(t, svc.ProcessEvent(context.Background(), evt))

	outbox := mailer.Outbox()
	require.Len(t, outbox, 1)
	assert.Equal(t, "john.smith@email.com", outbox[0].To)
	assert.Equal(t, "Order #10042 confirmed", outbox[0].Subject)
	assert.Contains(t, outbox[0].HTML, "$1,299.00")
	assert.Contains(t, outbox[0].HTML, "bank transfer")

	logs := allLogs(t, repo)
	require.Len(t, logs, 1)
	assert.Equal(t, models.StatusSent, logs[0].Status)
	assert.Equal(t, evt.ID, logs[0].EventID)
	assert.Equal(t, models.TypeOrderConfirmation, logs[0].Type)
	assert.NotEmpty(t, logs[0].MessageID)
}

func TestProcessEvent_StatusChangeIncludesTracking(t *testing.T) {
	mailer := sender.NewLogMailer(nil, 0)
	svc, _ := newService(t, mailer, nil)

	evt := mustEvent(t, events.OrderStatusChanged, ordermodels.OrderEvent{
		OrderNumber:  "10042",
		Email:        "john.smith@email.com",
		Status:       ordermodels.StatusShipped,
		TrackingCode: "1Z999AA10123456784",
	})
	require.NoError(t, svc.ProcessEvent(context.Background(), evt))

	outbox := mailer.Outbox()
	require.Len(t, outbox, 1)
	assert.Equal(t, "Order #10042 is shipped", outbox[0].Subject)
	assert.Contains(t, outbox[0].HTML, "1Z999AA10123456784")
}

func TestProcessEvent_PreferencesGateDelivery(t *testing.T) {
	mailer := new(MockMailer)
	prefs := fixedPrefs{settings: adminmodels.NotificationSettings{OrderNotifications: false, CustomerEmails: false}}
	svc, repo := newService(t, mailer, prefs)
	ctx := context.Background()

	require.NoError(t, svc.ProcessEvent(ctx, mustEvent(t, events.OrderPlaced, ordermodels.OrderEvent{Email: "a@example.com"})))
	require.NoError(t, svc.ProcessEvent(ctx, mustEvent(t, events.UserRegistered, usermodels.UserEvent{Email: "b@example.com"})))

	// Password resets ignore the toggles.
	mailer.On("Send", mock.Anything, mock.MatchedBy(func(m models.Message) bool {
		return m.To == "c@example.com"
	})).Return(sender.SendResult{MessageID: "m-1"}, nil).Once()
	require.NoError(t, svc.ProcessEvent(ctx, mustEvent(t, events.PasswordResetRequested, usermodels.PasswordResetEvent{
		Email:     "c@example.com",
		ResetURL:  "https://shop.example.com/reset-password?token=abc",
		ExpiresAt: time.Now().Add(time.Hour),
	})))

	mailer.AssertExpectations(t)
	statuses := map[string]string{}
	for _, l := range allLogs(t, repo) {
		statuses[l.Type] = l.Status
	}
	assert.Equal(t, map[string]string{
		models.TypeOrderConfirmation: models.StatusSkipped,
		models.TypeWelcome:           models.StatusSkipped,
		models.TypePasswordReset:     models.StatusSent,
	}, statuses)
}

func TestProcessEvent_PreferenceErrorStillSends(t *testing.T) {
	mailer := sender.NewLogMailer(nil, 0)
	svc, _ := newService(t, mailer, fixedPrefs{err: errors.New("table unavailable")})

	require.NoError(t, svc.ProcessEvent(context.Background(), mustEvent(t, events.UserRegistered, usermodels.UserEvent{
		Name: "Jane", Email: "jane@example.com",
	})))
	require.Len(t, mailer.Outbox(), 1)
	assert.Equal(t, "Welcome to SolarTech", mailer.Outbox()[0].Subject)
}

func TestProcessEvent_RetriesThenLogsFailure(t *testing.T) {
	mailer := new(MockMailer)
	mailer.On("Send", mock.Anything, mock.Anything).Return(sender.SendResult{}, errors.New("connection refused")).Times(3)
	svc, repo := newService(t, mailer, nil)

	require.NoError(t, svc.ProcessEvent(context.Background(), mustEvent(t, events.OrderCancelled, ordermodels.OrderEvent{
		Email: "a@example.com", Status: ordermodels.StatusCancelled,
	})))

	mailer.AssertNumberOfCalls(t, "Send", 3)
	logs := allLogs(t, repo)
	require.Len(t, logs, 1)
	assert.Equal(t, models.StatusFailed, logs[0].Status)
	assert.Equal(t, 2, logs[0].RetryCount)
	assert.Equal(t, "connection refused", logs[0].Error)
}

func TestProcessEvent_RetrySucceeds(t *testing.T) {
	mailer := new(MockMailer)
	mailer.On("Send", mock.Anything, mock.Anything).Return(sender.SendResult{}, errors.New("timeout")).Once()
	mailer.On("Send", mock.Anything, mock.Anything).Return(sender.SendResult{MessageID: "m-2"}, nil).Once()
	svc, repo := newService(t, mailer, nil)

	require.NoError(t, svc.ProcessEvent(context.Background(), mustEvent(t, events.UserRegistered, usermodels.UserEvent{Email: "a@example.com"})))

	logs := allLogs(t, repo)
	require.Len(t, logs, 1)
	assert.Equal(t, models.StatusSent, logs[0].Status)
	assert.Equal(t, "m-2", logs[0].MessageID)
	assert.Empty(t, logs[0].Error)
}

func TestProcessEvent_Rejects(t *testing.T) {
	mailer := new(MockMailer)
	svc, repo := newService(t, mailer, nil)
	ctx := context.Background()

	err := svc.ProcessEvent(ctx, mustEvent(t, events.CouponRedeemed, map[string]string{"code": "SOLAR10"}))
	assert.ErrorIs(t, err, ErrUnsupportedEvent)

	err = svc.ProcessEvent(ctx, events.Event{Type: events.OrderPlaced, Payload: []byte(`"not an object"`)})
	assert.ErrorIs(t, err, ErrMalformedEvent)

	// No recipient: nothing to send or log.
	require.NoError(t, svc.ProcessEvent(ctx, mustEvent(t, events.OrderPlaced, ordermodels.OrderEvent{OrderNumber: "1"})))
	assert.Empty(t, allLogs(t, repo))
	mailer.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}
