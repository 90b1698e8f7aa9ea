package sender

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/solartech/storefront/services/notification-service/models"
	"go.uber.org/zap"
)

type SendResult struct {
	MessageID string
	SentAt    time.Time
}

// Mailer delivers one e-mail.
type Mailer interface {
	Send(ctx context.Context, msg models.Message) (SendResult, error)
}

// LogMailer simulates delivery: messages are logged and kept in an outbox
// instead of leaving the process.
type LogMailer struct {
	logger *zap.Logger

	mu     sync.Mutex
	outbox []models.Message
	limit  int
}

// NewLogMailer keeps at most limit messages; older ones are dropped first.
func NewLogMailer(logger *zap.Logger, limit int) *LogMailer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogMailer{logger: logger, limit: limit}
}

func (m *LogMailer) Send(ctx context.Context, msg models.Message) (SendResult, error) {
	if err := ctx.Err(); err != nil {
		return SendResult{}, err
	}
	if msg.To == "" {
		return SendResult{}, fmt.Errorf("missing recipient")
	}

	m.mu.Lock()
	m.outbox = append(m.outbox, msg)
	if m.limit > 0 && len(m.outbox) > m.limit {
		m.outbox = m.outbox[len(m.outbox)-m.limit:]
	}
	m.mu.Unlock()

	result := SendResult{MessageID: "log-" + uuid.NewString(), SentAt: time.Now().UTC()}
	m.logger.Info("Email delivered (simulated)",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.String("message_id", result.MessageID),
	)
	return result, nil
}

// Outbox returns the retained messages, oldest first.
func (m *LogMailer) Outbox() []models.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.Message(nil), m.outbox...)
}
