package repository_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/solartech/storefront/services/promotion-service/models"
	"github.com/solartech/storefront/services/promotion-service/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newSQLiteRepository(t *testing.T) repository.CouponRepository {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Coupon{}))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return repository.NewGormCouponRepository(db)
}

// forEachRepository runs fn against both the gorm and the in-memory store.
func forEachRepository(t *testing.T, fn func(t *testing.T, repo repository.CouponRepository)) {
	t.Run("gorm", func(t *testing.T) { fn(t, newSQLiteRepository(t)) })
	t.Run("memory", func(t *testing.T) { fn(t, repository.NewMemoryCouponRepository()) })
}

func TestRepository_CreateAndFind(t *testing.T) {
	forEachRepository(t, func(t *testing.T, repo repository.CouponRepository) {
		ctx := context.Background()
		coupon := &models.Coupon{Code: "save10", Type: models.CouponTypePercentage, Value: 10, Active: true}
		require.NoError(t, repo.Create(ctx, coupon))
		assert.NotEqual(t, uuid.Nil, coupon.ID)

		found, err := repo.FindByCode(ctx, "Save10")
		require.NoError(t, err)
		assert.Equal(t, "SAVE10", found.Code)
		assert.Equal(t, coupon.ID, found.ID)

		err = repo.Create(ctx, &models.Coupon{Code: "SAVE10", Type: models.CouponTypeFixed, Value: 5, Active: true})
		assert.ErrorIs(t, err, repository.ErrDuplicateCode)

		_, err = repo.FindByCode(ctx, "NOPE")
		assert.ErrorIs(t, err, repository.ErrCouponNotFound)
	})
}

func TestRepository_IncrementUsedCountHonoursLimit(t *testing.T) {
	forEachRepository(t, func(t *testing.T, repo repository.CouponRepository) {
		ctx := context.Background()
		require.NoError(t, repo.Create(ctx, &models.Coupon{Code: "ONCE", Type: models.CouponTypeFixed, Value: 5, UsageLimit: 1, Active: true}))

		c, err := repo.IncrementUsedCount(ctx, "once")
		require.NoError(t, err)
		assert.Equal(t, 1, c.UsedCount)

		_, err = repo.IncrementUsedCount(ctx, "ONCE")
		assert.ErrorIs(t, err, repository.ErrUsageLimitReached)

		_, err = repo.IncrementUsedCount(ctx, "MISSING")
		assert.ErrorIs(t, err, repository.ErrCouponNotFound)
	})
}

func TestRepository_UpdateAndDeactivate(t *testing.T) {
	forEachRepository(t, func(t *testing.T, repo repository.CouponRepository) {
		ctx := context.Background()
		coupon := &models.Coupon{Code: "SPRING", Type: models.CouponTypePercentage, Value: 15, Active: true}
		require.NoError(t, repo.Create(ctx, coupon))

		coupon.Value = 25
		coupon.MinOrderValue = 100
		require.NoError(t, repo.Update(ctx, coupon))
		found, err := repo.FindByCode(ctx, "SPRING")
		require.NoError(t, err)
		assert.Equal(t, 25.0, found.Value)
		assert.Equal(t, 100.0, found.MinOrderValue)

		require.NoError(t, repo.Deactivate(ctx, "spring"))
		found, err = repo.FindByCode(ctx, "SPRING")
		require.NoError(t, err)
		assert.False(t, found.Active)

		_, err = repo.IncrementUsedCount(ctx, "SPRING")
		assert.ErrorIs(t, err, repository.ErrCouponNotFound)

		assert.ErrorIs(t, repo.Deactivate(ctx, "MISSING"), repository.ErrCouponNotFound)
		assert.ErrorIs(t, repo.Update(ctx, &models.Coupon{ID: uuid.New(), Code: "MISSING"}), repository.ErrCouponNotFound)
	})
}

func TestRepository_FindAllAndSeed(t *testing.T) {
	forEachRepository(t, func(t *testing.T, repo repository.CouponRepository) {
		ctx := context.Background()

		n, err := repository.Seed(ctx, repo, models.SeedCoupons())
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		n, err = repository.Seed(ctx, repo, models.SeedCoupons())
		require.NoError(t, err)
		assert.Zero(t, n)

		page, total, err := repo.FindAll(ctx, 1, 1)
		require.NoError(t, err)
		assert.EqualValues(t, 2, total)
		assert.Len(t, page, 1)

		page, _, err = repo.FindAll(ctx, 3, 1)
		require.NoError(t, err)
		assert.Empty(t, page)
	})
}
