package providers

import (
	"context"
	"time"

	"github.com/solartech/storefront/services/shipping-service/models"
)

// Carrier is a parcel carrier integration.
type Carrier interface {
	// CreateLabel books a shipment and returns its tracking details.
	CreateLabel(ctx context.Context, req models.ShipmentRequest) (models.TrackingInfo, error)

	// TrackShipment returns the status of a parcel labelled at shippedAt.
	TrackShipment(ctx context.Context, trackingCode string, shippedAt time.Time) (models.TrackingStatus, error)
}
