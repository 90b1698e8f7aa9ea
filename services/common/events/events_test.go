package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type orderPayload struct {
	OrderNumber string `json:"order_number"`
}

func TestBus_DispatchesByType(t *testing.T) {
	bus := NewBus(zap.NewNop())

	var got []string
	bus.Subscribe(OrderPlaced, func(ctx context.Context, e Event) error {
		return errors.New("first handler fails")
	})
	bus.Subscribe(OrderPlaced, func(ctx context.Context, e Event) error {
		var p orderPayload
		require.NoError(t, e.Decode(&p))
		got = append(got, p.OrderNumber)
		return nil
	})

	placed, err := New(OrderPlaced, orderPayload{OrderNumber: "48213"})
	require.NoError(t, err)
	require.NoError(t, bus.Publish(context.Background(), placed))

	other, err := New(OrderCancelled, orderPayload{OrderNumber: "11111"})
	require.NoError(t, err)
	require.NoError(t, bus.Publish(context.Background(), other))

	assert.Equal(t, []string{"48213"}, got)
}

type recordingSNS struct {
	topic, eventType string
	body             []byte
}

func (r *recordingSNS) Publish(ctx context.Context, topicArn, eventType string, message []byte) error {
	r.topic, r.eventType, r.body = topicArn, eventType, message
	return nil
}

func TestSNSPublisher_SendsEnvelope(t *testing.T) {
	sns := &recordingSNS{}
	pub := NewSNSPublisher(sns, "arn:aws:sns:us-east-1:000000000000:storefront")

	e, err := New(PasswordResetRequested, map[string]string{"email": "emily.davis@email.com"})
	require.NoError(t, err)
	require.NoError(t, pub.Publish(context.Background(), e))

	assert.Equal(t, PasswordResetRequested, sns.eventType)
	var decoded Event
	require.NoError(t, json.Unmarshal(sns.body, &decoded))
	assert.Equal(t, e.ID, decoded.ID)
	assert.JSONEq(t, `{"email":"emily.davis@email.com"}`, string(decoded.Payload))
}

type failingPublisher struct{ calls int }

func (f *failingPublisher) Publish(context.Context, Event) error {
	f.calls++
	return errors.New("topic unavailable")
}

func TestTee_PublishesToAll(t *testing.T) {
	bus := NewBus(zap.NewNop())
	delivered := 0
	bus.Subscribe(UserRegistered, func(context.Context, Event) error {
		delivered++
		return nil
	})
	failing := &failingPublisher{}

	e, err := New(UserRegistered, map[string]string{"email": "a@example.com"})
	require.NoError(t, err)

	err = Tee{failing, bus}.Publish(context.Background(), e)
	assert.EqualError(t, err, "topic unavailable")
	assert.Equal(t, 1, failing.calls)
	assert.Equal(t, 1, delivered)
}
