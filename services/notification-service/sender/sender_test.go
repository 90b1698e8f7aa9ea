package sender

import (
	"context"
	"testing"

	"github.com/solartech/storefront/services/notification-service/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogMailer_KeepsRecentMessages(t *testing.T) {
	m := NewLogMailer(nil, 2)
	ctx := context.Background()

	for _, to := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		res, err := m.Send(ctx, models.Message{To: to, Subject: "hi"})
		require.NoError(t, err)
		assert.NotEmpty(t, res.MessageID)
	}

	outbox := m.Outbox()
	require.Len(t, outbox, 2)
	assert.Equal(t, "b@example.com", outbox[0].To)
	assert.Equal(t, "c@example.com", outbox[1].To)
}

func TestLogMailer_Errors(t *testing.T) {
	m := NewLogMailer(nil, 0)

	_, err := m.Send(context.Background(), models.Message{Subject: "no recipient"})
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = m.Send(ctx, models.Message{To: "a@example.com"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, m.Outbox())
}

func TestNewSMTPSender_RequiresHostAndSender(t *testing.T) {
	_, err := NewSMTPSender(SMTPConfig{Port: "587", From: "shop@example.com"})
	assert.Error(t, err)

	_, err = NewSMTPSender(SMTPConfig{Host: "smtp.example.com", Port: "587"})
	assert.Error(t, err)

	s, err := NewSMTPSender(SMTPConfig{Host: "smtp.example.com", Port: "587", Username: "shop@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "shop@example.com", s.cfg.From)
}
