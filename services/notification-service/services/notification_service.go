package services

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"time"

	adminmodels "github.com/solartech/storefront/services/admin-service/models"
	"github.com/solartech/storefront/services/common/events"
	"github.com/solartech/storefront/services/common/money"
	"github.com/solartech/storefront/services/notification-service/models"
	"github.com/solartech/storefront/services/notification-service/repository"
	"github.com/solartech/storefront/services/notification-service/sender"
	ordermodels "github.com/solartech/storefront/services/order-service/models"
	usermodels "github.com/solartech/storefront/services/user-service/models"
	"go.uber.org/zap"
)

//go:embed templates/*.html
var templateFS embed.FS

var (
	ErrUnsupportedEvent = errors.New("unsupported event type")
	ErrMalformedEvent   = errors.New("malformed event payload")
)

// Preferences reports which e-mail categories the store has switched on.
type Preferences interface {
	Notifications(ctx context.Context) (adminmodels.NotificationSettings, error)
}

type NotificationService interface {
	ProcessEvent(ctx context.Context, event events.Event) error
	GetLogs(ctx context.Context, filter models.NotificationFilter) ([]models.NotificationLog, int64, error)
}

type Options struct {
	StoreName   string
	MaxAttempts int           // default 3
	RetryDelay  time.Duration // grows linearly per attempt
}

// notice is one rendered e-mail plus the bookkeeping needed to log it.
type notice struct {
	kind    string
	userID  string
	to      string
	subject string
	data    any
	// category gates delivery on a store preference; nil always sends.
	category func(adminmodels.NotificationSettings) bool
}

type notificationService struct {
	repo      repository.NotificationRepository
	mailer    sender.Mailer
	prefs     Preferences
	templates *template.Template
	opts      Options
	logger    *zap.Logger
}

func NewNotificationService(
	repo repository.NotificationRepository,
	mailer sender.Mailer,
	prefs Preferences,
	opts Options,
	logger *zap.Logger,
) (NotificationService, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	if opts.MaxAttempts < 1 {
		opts.MaxAttempts = 3
	}
	if opts.StoreName == "" {
		opts.StoreName = "SolarTech"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &notificationService{
		repo:      repo,
		mailer:    mailer,
		prefs:     prefs,
		templates: tmpl,
		opts:      opts,
		logger:    logger,
	}, nil
}

func orderNotices(n adminmodels.NotificationSettings) bool    { return n.OrderNotifications }
func customerNotices(n adminmodels.NotificationSettings) bool { return n.CustomerEmails }

// ProcessEvent renders and sends the e-mail for event. Delivery failures are
// recorded in the log rather than returned; decode failures and unknown types
// are returned.
func (s *notificationService) ProcessEvent(ctx context.Context, event events.Event) error {
	n, err := s.noticeFor(event)
	if err != nil {
		return err
	}
	if n.to == "" {
		s.logger.Warn("Missing recipient, skipping notification",
			zap.String("event_id", event.ID),
			zap.String("event_type", event.Type),
		)
		return nil
	}

	entry := &models.NotificationLog{
		EventID:   event.ID,
		UserID:    n.userID,
		Recipient: n.to,
		Type:      n.kind,
		Channel:   models.ChannelEmail,
		Subject:   n.subject,
	}

	if n.category != nil && !s.enabled(ctx, n.category) {
		entry.Status = models.StatusSkipped
		s.save(ctx, entry)
		return nil
	}

	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, n.kind+".html", n.data); err != nil {
		return fmt.Errorf("template render failed: %w", err)
	}

	s.sendWithRetry(ctx, models.Message{To: n.to, Subject: n.subject, HTML: body.String()}, entry)
	return nil
}

func (s *notificationService) noticeFor(event events.Event) (notice, error) {
	switch event.Type {
	case events.OrderPlaced:
		var p ordermodels.OrderEvent
		if err := event.Decode(&p); err != nil {
			return notice{}, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
		}
		return notice{
			kind:     models.TypeOrderConfirmation,
			userID:   p.UserID,
			to:       p.Email,
			subject:  fmt.Sprintf("Order #%s confirmed", p.OrderNumber),
			data:     s.orderData(p),
			category: orderNotices,
		}, nil

	case events.OrderStatusChanged, events.OrderCancelled:
		var p ordermodels.OrderEvent
		if err := event.Decode(&p); err != nil {
			return notice{}, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
		}
		return notice{
			kind:     models.TypeOrderStatus,
			userID:   p.UserID,
			to:       p.Email,
			subject:  fmt.Sprintf("Order #%s is %s", p.OrderNumber, p.Status),
			data:     s.orderData(p),
			category: orderNotices,
		}, nil

	case events.PasswordResetRequested:
		var p usermodels.PasswordResetEvent
		if err := event.Decode(&p); err != nil {
			return notice{}, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
		}
		return notice{
			kind:    models.TypePasswordReset,
			userID:  p.UserID,
			to:      p.Email,
			subject: "Reset your password",
			data: map[string]any{
				"Name":      p.Name,
				"ResetURL":  p.ResetURL,
				"ExpiresAt": p.ExpiresAt.UTC().Format("Jan 2, 2006 15:04 MST"),
				"StoreName": s.opts.StoreName,
			},
		}, nil

	case events.UserRegistered:
		var p usermodels.UserEvent
		if err := event.Decode(&p); err != nil {
			return notice{}, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
		}
		return notice{
			kind:     models.TypeWelcome,
			userID:   p.UserID,
			to:       p.Email,
			subject:  "Welcome to " + s.opts.StoreName,
			data:     map[string]any{"Name": p.Name, "StoreName": s.opts.StoreName},
			category: customerNotices,
		}, nil
	}
	return notice{}, fmt.Errorf("%w: %s", ErrUnsupportedEvent, event.Type)
}

func (s *notificationService) orderData(p ordermodels.OrderEvent) map[string]any {
	return map[string]any{
		"CustomerName":  p.CustomerName,
		"OrderNumber":   p.OrderNumber,
		"ItemCount":     p.ItemCount,
		"Total":         money.Format(p.Total),
		"Status":        p.Status,
		"PaymentStatus": p.PaymentStatus,
		"TrackingCode":  p.TrackingCode,
		"StoreName":     s.opts.StoreName,
	}
}

// enabled sends when preferences cannot be read.
func (s *notificationService) enabled(ctx context.Context, category func(adminmodels.NotificationSettings) bool) bool {
	if s.prefs == nil {
		return true
	}
	prefs, err := s.prefs.Notifications(ctx)
	if err != nil {
		s.logger.Warn("Failed to read notification preferences", zap.Error(err))
		return true
	}
	return category(prefs)
}

func (s *notificationService) sendWithRetry(ctx context.Context, msg models.Message, entry *models.NotificationLog) {
	var lastErr error
	for attempt := 0; attempt < s.opts.MaxAttempts; attempt++ {
		if attempt > 0 {
			entry.RetryCount = attempt
			select {
			case <-ctx.Done():
				lastErr = ctx.Err()
			case <-time.After(time.Duration(attempt) * s.opts.RetryDelay):
			}
			if ctx.Err() != nil {
				break
			}
		}

		result, err := s.mailer.Send(ctx, msg)
		if err == nil {
			lastErr = nil
			entry.MessageID = result.MessageID
			break
		}
		lastErr = err
		s.logger.Warn("Send attempt failed",
			zap.String("type", entry.Type),
			zap.Int("attempt", attempt+1),
			zap.Error(err),
		)
	}

	entry.Status = models.StatusSent
	if lastErr != nil {
		entry.Status = models.StatusFailed
		entry.Error = lastErr.Error()
	}

	s.logger.Info("Notification processed",
		zap.String("type", entry.Type),
		zap.String("status", entry.Status),
		zap.String("message_id", entry.MessageID),
	)
	s.save(ctx, entry)
}

func (s *notificationService) save(ctx context.Context, entry *models.NotificationLog) {
	if err := s.repo.SaveLog(context.WithoutCancel(ctx), entry); err != nil {
		s.logger.Error("Failed to save notification log", zap.Error(err))
	}
}

func (s *notificationService) GetLogs(ctx context.Context, filter models.NotificationFilter) ([]models.NotificationLog, int64, error) {
	return s.repo.GetLogs(ctx, filter)
}
