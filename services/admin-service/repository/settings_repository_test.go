package repository

import (
	"context"
	"testing"

	"github.com/solartech/storefront/services/admin-service/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySettingsRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemorySettingsRepository(nil)

	_, err := repo.Get(ctx)
	assert.ErrorIs(t, err, ErrSettingsNotFound)

	s := models.DefaultSettings()
	require.NoError(t, repo.Save(ctx, &s))

	got, err := repo.Get(ctx)
	require.NoError(t, err)
	got.StoreName = "Changed"
	*got.ShippingMethods[0].FreeOver = 1

	again, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "SolarTech", again.StoreName)
	assert.Equal(t, 500.0, *again.ShippingMethods[0].FreeOver)
}
