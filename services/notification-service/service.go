// Package notificationservice wires transactional e-mail: templates, the
// mailer, delivery logs and the event subscriptions that trigger them.
package notificationservice

import (
	"context"
	"errors"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/gin-gonic/gin"
	awspkg "github.com/solartech/storefront/pkg/aws"
	"github.com/solartech/storefront/services/common/database"
	"github.com/solartech/storefront/services/common/events"
	"github.com/solartech/storefront/services/notification-service/consumer"
	"github.com/solartech/storefront/services/notification-service/controllers"
	"github.com/solartech/storefront/services/notification-service/models"
	"github.com/solartech/storefront/services/notification-service/repository"
	"github.com/solartech/storefront/services/notification-service/routes"
	"github.com/solartech/storefront/services/notification-service/sender"
	"github.com/solartech/storefront/services/notification-service/services"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Subscriptions lists the events that produce an e-mail.
var Subscriptions = []string{
	events.OrderPlaced,
	events.OrderStatusChanged,
	events.OrderCancelled,
	events.PasswordResetRequested,
	events.UserRegistered,
}

type Deps struct {
	Logger      *zap.Logger
	Preferences services.Preferences
	AWS         *sdkaws.Config // required when Config.QueueURL is set
}

type Module struct {
	Service services.NotificationService
	// Outbox holds simulated deliveries when SMTP is not configured.
	Outbox *sender.LogMailer

	controller *controllers.NotificationController
	consumer   *awspkg.SQSConsumer
	logger     *zap.Logger
	db         *gorm.DB
}

func New(ctx context.Context, cfg Config, deps Deps) (*Module, error) {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("notification-service")
	m := &Module{logger: logger}

	var repo repository.NotificationRepository
	if cfg.DatabaseURL != "" {
		db, err := database.ConnectPostgres(ctx, cfg.DatabaseURL, logger, &models.NotificationLog{})
		if err != nil {
			return nil, err
		}
		repo, m.db = repository.NewGormNotificationRepository(db), db
	} else {
		repo = repository.NewMemoryNotificationRepository(cfg.LogLimit)
	}

	var mailer sender.Mailer
	if cfg.SMTPHost != "" {
		smtpSender, err := sender.NewSMTPSender(sender.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
		})
		if err != nil {
			return nil, err
		}
		mailer = smtpSender
		logger.Info("Sending e-mail via SMTP", zap.String("host", cfg.SMTPHost))
	} else {
		m.Outbox = sender.NewLogMailer(logger, cfg.LogLimit)
		mailer = m.Outbox
	}

	svc, err := services.NewNotificationService(repo, mailer, deps.Preferences, services.Options{
		StoreName:   cfg.StoreName,
		MaxAttempts: cfg.MaxAttempts,
		RetryDelay:  cfg.RetryDelay,
	}, logger)
	if err != nil {
		return nil, err
	}
	m.Service = svc
	m.controller = controllers.NewNotificationController(svc, logger)

	if cfg.QueueURL != "" {
		if deps.AWS == nil {
			return nil, errors.New("notification queue configured without AWS config")
		}
		m.consumer = awspkg.NewSQSConsumer(*deps.AWS, cfg.QueueURL, logger)
	}
	return m, nil
}

// Subscribe handles events in process. Use it when events are not routed
// through the queue, otherwise every e-mail is sent twice.
func (m *Module) Subscribe(bus *events.Bus) {
	for _, eventType := range Subscriptions {
		bus.Subscribe(eventType, m.Service.ProcessEvent)
	}
}

// Consuming reports whether a queue consumer is configured.
func (m *Module) Consuming() bool {
	return m.consumer != nil
}

// StartConsumer polls the queue until ctx is cancelled. It returns
// immediately when no queue is configured.
func (m *Module) StartConsumer(ctx context.Context) error {
	if m.consumer == nil {
		return nil
	}
	err := m.consumer.StartPolling(ctx, consumer.Handler(m.Service, m.logger))
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (m *Module) RegisterRoutes(admin *gin.RouterGroup) {
	routes.RegisterRoutes(admin, m.controller)
}

func (m *Module) Close() error {
	return database.Close(m.db)
}
