package providers

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/solartech/storefront/services/shipping-service/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulatedCarrier_CreateLabel(t *testing.T) {
	c := NewSimulatedCarrier("https://track.solartech.test", nil)

	info, err := c.CreateLabel(context.Background(), models.ShipmentRequest{OrderID: "o1"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(info.TrackingCode, "STF"))
	assert.Len(t, info.TrackingCode, 13)
	assert.Equal(t, "https://track.solartech.test/"+info.TrackingCode, info.TrackingURL)
}

func TestSimulatedCarrier_StatusFollowsElapsedTime(t *testing.T) {
	now := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)
	c := NewSimulatedCarrier("", nil)
	c.now = func() time.Time { return now }

	cases := []struct {
		shippedAt time.Time
		want      string
	}{
		{now.Add(-10 * time.Minute), models.ShipmentStatusCreated},
		{now.Add(-24 * time.Hour), models.ShipmentStatusInTransit},
		{now.Add(-96 * time.Hour), models.ShipmentStatusDelivered},
	}
	for _, tc := range cases {
		status, err := c.TrackShipment(context.Background(), "STF1", tc.shippedAt)
		require.NoError(t, err)
		assert.Equal(t, tc.want, status.Status)
	}
}

func TestSimulatedCarrier_HonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewSimulatedCarrier("", nil).CreateLabel(ctx, models.ShipmentRequest{})
	assert.ErrorIs(t, err, context.Canceled)
}
