// Package latency simulates the network round trips the storefront UI was
// built against. Every mock operation waits its nominal delay, scaled by a
// process-wide factor, before resolving.
package latency

import (
	"context"
	"time"
)

const (
	ProductList   = 500 * time.Millisecond
	ProductDetail = 300 * time.Millisecond
	Auth          = 1000 * time.Millisecond
	PlaceOrder    = 1200 * time.Millisecond
	Payment       = 2000 * time.Millisecond
	Default       = 200 * time.Millisecond
)

// Simulator applies scaled delays. A nil *Simulator never waits.
type Simulator struct {
	scale float64
}

// New returns a simulator. scale 1 reproduces the nominal delays, 0 disables
// them.
func New(scale float64) *Simulator {
	if scale < 0 {
		scale = 0
	}
	return &Simulator{scale: scale}
}

// Wait blocks for the scaled duration d or until ctx is done.
func (s *Simulator) Wait(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	scaled := s.Scaled(d)
	if scaled <= 0 {
		return nil
	}

	timer := time.NewTimer(scaled)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Scaled returns d after applying the scale factor.
func (s *Simulator) Scaled(d time.Duration) time.Duration {
	if s == nil {
		return 0
	}
	return time.Duration(float64(d) * s.scale)
}
