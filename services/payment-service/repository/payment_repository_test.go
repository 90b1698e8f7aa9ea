package repository_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/solartech/storefront/services/payment-service/models"
	"github.com/solartech/storefront/services/payment-service/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newSQLiteRepository(t *testing.T) repository.PaymentRepository {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Payment{}))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return repository.NewGormPaymentRepository(db)
}

func forEachRepository(t *testing.T, fn func(t *testing.T, repo repository.PaymentRepository)) {
	t.Run("gorm", func(t *testing.T) { fn(t, newSQLiteRepository(t)) })
	t.Run("memory", func(t *testing.T) { fn(t, repository.NewMemoryPaymentRepository()) })
}

func payment(orderID, status, ref string) *models.Payment {
	return &models.Payment{
		OrderID:   orderID,
		UserID:    "user-1",
		Amount:    64798,
		Currency:  "usd",
		Method:    models.MethodCard,
		Status:    status,
		Reference: ref,
	}
}

func TestRepository_CreateAndFind(t *testing.T) {
	forEachRepository(t, func(t *testing.T, repo repository.PaymentRepository) {
		ctx := context.Background()
		p := payment("order-1", models.StatusSucceeded, "ch_1")
		require.NoError(t, repo.Create(ctx, p))
		assert.NotEqual(t, uuid.Nil, p.ID)

		found, err := repo.FindByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(64798), found.Amount)
		assert.Equal(t, "ch_1", found.Reference)

		_, err = repo.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, repository.ErrPaymentNotFound)
	})
}

func TestRepository_FindByOrderID(t *testing.T) {
	forEachRepository(t, func(t *testing.T, repo repository.PaymentRepository) {
		ctx := context.Background()
		first := payment("order-1", models.StatusFailed, "ch_a")
		require.NoError(t, repo.Create(ctx, first))
		time.Sleep(5 * time.Millisecond)
		second := payment("order-1", models.StatusSucceeded, "ch_b")
		require.NoError(t, repo.Create(ctx, second))
		require.NoError(t, repo.Create(ctx, payment("order-2", models.StatusSucceeded, "ch_c")))

		found, err := repo.FindByOrderID(ctx, "order-1")
		require.NoError(t, err)
		require.Len(t, found, 2)
		assert.Equal(t, second.ID, found[0].ID)
		assert.Equal(t, first.ID, found[1].ID)

		found, err = repo.FindByOrderID(ctx, "order-9")
		require.NoError(t, err)
		assert.Empty(t, found)
	})
}

func TestRepository_UpdateStatus(t *testing.T) {
	forEachRepository(t, func(t *testing.T, repo repository.PaymentRepository) {
		ctx := context.Background()
		p := payment("order-1", models.StatusAwaitingTransfer, "bt_1")
		p.Method = models.MethodBank
		require.NoError(t, repo.Create(ctx, p))

		require.NoError(t, repo.UpdateStatus(ctx, p.ID, models.StatusSucceeded, time.Now()))
		found, err := repo.FindByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, models.StatusSucceeded, found.Status)
		assert.NotNil(t, found.SucceededAt)

		err = repo.UpdateStatus(ctx, uuid.New(), models.StatusSucceeded, time.Now())
		assert.ErrorIs(t, err, repository.ErrPaymentNotFound)
	})
}
