package providers

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/solartech/storefront/services/common/latency"
	"github.com/solartech/storefront/services/shipping-service/models"
)

const simulatedCarrier = "SolarTech Freight"

// SimulatedCarrier issues tracking codes locally and derives the parcel
// status from the time since the label was created.
type SimulatedCarrier struct {
	trackingBaseURL string
	latency         *latency.Simulator
	now             func() time.Time
}

func NewSimulatedCarrier(trackingBaseURL string, sim *latency.Simulator) *SimulatedCarrier {
	return &SimulatedCarrier{
		trackingBaseURL: trackingBaseURL,
		latency:         sim,
		now:             time.Now,
	}
}

func (c *SimulatedCarrier) CreateLabel(ctx context.Context, req models.ShipmentRequest) (models.TrackingInfo, error) {
	if err := c.latency.Wait(ctx, latency.Default); err != nil {
		return models.TrackingInfo{}, err
	}
	n, err := rand.Int(rand.Reader, big.NewInt(1e10))
	if err != nil {
		return models.TrackingInfo{}, fmt.Errorf("generate tracking code: %w", err)
	}
	code := fmt.Sprintf("STF%010d", n.Int64())
	return models.TrackingInfo{
		Carrier:      simulatedCarrier,
		TrackingCode: code,
		TrackingURL:  c.trackingBaseURL + "/" + code,
	}, nil
}

func (c *SimulatedCarrier) TrackShipment(ctx context.Context, trackingCode string, shippedAt time.Time) (models.TrackingStatus, error) {
	if err := c.latency.Wait(ctx, latency.Default); err != nil {
		return models.TrackingStatus{}, err
	}
	now := c.now()
	elapsed := now.Sub(shippedAt)

	status := models.TrackingStatus{
		TrackingCode: trackingCode,
		Carrier:      simulatedCarrier,
		UpdatedAt:    now.UTC(),
	}
	switch {
	case elapsed < time.Hour:
		status.Status = models.ShipmentStatusCreated
		status.Location = "Origin facility"
	case elapsed < 72*time.Hour:
		status.Status = models.ShipmentStatusInTransit
		status.Location = "Regional hub"
	default:
		status.Status = models.ShipmentStatusDelivered
		status.Location = "Destination"
	}
	return status, nil
}
