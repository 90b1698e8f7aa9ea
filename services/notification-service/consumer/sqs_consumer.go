// Package consumer turns queued SNS notifications into e-mails.
package consumer

import (
	"context"
	"encoding/json"
	"errors"

	awspkg "github.com/solartech/storefront/pkg/aws"
	"github.com/solartech/storefront/services/common/events"
	"github.com/solartech/storefront/services/notification-service/services"
	"go.uber.org/zap"
)

// snsEnvelope is the wrapper SNS adds when fanning out to SQS without raw
// message delivery.
type snsEnvelope struct {
	Type    string `json:"Type"`
	Message string `json:"Message"`
}

// Handler adapts svc to an SQS message handler. Messages that can never be
// processed return nil so the queue drops them; other failures are returned
// and the message becomes visible again.
func Handler(svc services.NotificationService, logger *zap.Logger) awspkg.MessageHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(ctx context.Context, body string) error {
		event, err := decode(body)
		if err != nil {
			logger.Error("Dropping unparseable message", zap.Error(err))
			return nil
		}

		err = svc.ProcessEvent(ctx, event)
		switch {
		case err == nil:
			return nil
		case errors.Is(err, services.ErrUnsupportedEvent):
			logger.Debug("Ignoring event", zap.String("event_type", event.Type))
			return nil
		case errors.Is(err, services.ErrMalformedEvent):
			logger.Error("Dropping malformed event",
				zap.String("event_id", event.ID),
				zap.String("event_type", event.Type),
				zap.Error(err),
			)
			return nil
		}
		return err
	}
}

func decode(body string) (events.Event, error) {
	var envelope snsEnvelope
	if err := json.Unmarshal([]byte(body), &envelope); err != nil {
		return events.Event{}, err
	}
	raw := body
	if envelope.Message != "" {
		raw = envelope.Message
	}

	var event events.Event
	if err := json.Unmarshal([]byte(raw), &event); err != nil {
		return events.Event{}, err
	}
	if event.Type == "" {
		return events.Event{}, errors.New("event has no type")
	}
	return event, nil
}
