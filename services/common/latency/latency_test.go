package latency

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWait_ZeroScaleReturnsImmediately(t *testing.T) {
	start := time.Now()
	assert.NoError(t, New(0).Wait(context.Background(), Payment))
	assert.Less(t, time.Since(start), 50*time.Millisecond)

	var nilSim *Simulator
	assert.NoError(t, nilSim.Wait(context.Background(), Payment))
}

func TestWait_HonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := New(1).Wait(ctx, Payment)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestWait_AlreadyCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, New(0).Wait(ctx, ProductList), context.Canceled)
}

func TestScaled(t *testing.T) {
	assert.Equal(t, 250*time.Millisecond, New(0.5).Scaled(ProductList))
	assert.Equal(t, time.Duration(0), New(-3).Scaled(ProductList))
}
