package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/solartech/storefront/services/user-service/models"
)

// RedisResetTokenRepository keeps reset tokens under password_reset:<token>,
// expiring with the token itself.
type RedisResetTokenRepository struct {
	client *redis.Client
	now    func() time.Time
}

func NewRedisResetTokenRepository(client *redis.Client) *RedisResetTokenRepository {
	return &RedisResetTokenRepository{client: client, now: time.Now}
}

func (r *RedisResetTokenRepository) getKey(token string) string {
	return fmt.Sprintf("password_reset:%s", token)
}

func (r *RedisResetTokenRepository) SaveResetToken(ctx context.Context, token models.ResetToken) error {
	ttl := token.ExpiresAt.Sub(r.now())
	if ttl <= 0 {
		return nil
	}
	data, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("encode reset token: %w", err)
	}
	if err := r.client.Set(ctx, r.getKey(token.Token), data, ttl).Err(); err != nil {
		return fmt.Errorf("save reset token: %w", err)
	}
	return nil
}

func (r *RedisResetTokenRepository) TakeResetToken(ctx context.Context, token string) (*models.ResetToken, error) {
	data, err := r.client.GetDel(ctx, r.getKey(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrTokenNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("take reset token: %w", err)
	}

	var t models.ResetToken
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("decode reset token: %w", err)
	}
	return &t, nil
}
