package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	ProductListCachePrefix = "products:v:"
	CacheVersionKey        = "products:version"
	DefaultCacheTTL        = 10 * time.Minute
)

// ListCache caches storefront listings. GetList reports the cache version it
// read under, and SetList stores under that version, so a list computed
// across an Invalidate lands in a generation no reader will look at.
// Version 0 means the version is unknown and SetList skips the write.
type ListCache interface {
	GetList(ctx context.Context, key string) (list *ProductList, version int64, ok bool)
	SetList(ctx context.Context, version int64, key string, list *ProductList)
	Invalidate(ctx context.Context) error
}

// CacheManager is the Redis ListCache. Keys embed a version counter, so
// invalidation is a single INCR and stale entries expire on their own.
type CacheManager struct {
	redis  *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewCacheManager(client *redis.Client, ttl time.Duration, logger *zap.Logger) *CacheManager {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &CacheManager{redis: client, ttl: ttl, logger: logger}
}

func (cm *CacheManager) GetList(ctx context.Context, key string) (*ProductList, int64, bool) {
	version, err := cm.version(ctx)
	if err != nil {
		cm.logger.Warn("Failed to read product cache version", zap.Error(err))
		return nil, 0, false
	}

	cached, err := cm.redis.Get(ctx, cm.listKey(version, key)).Bytes()
	if err != nil {
		return nil, version, false
	}

	var list ProductList
	if err := json.Unmarshal(cached, &list); err != nil {
		cm.logger.Warn("Failed to unmarshal cached product list", zap.Error(err))
		return nil, version, false
	}
	return &list, version, true
}

// SetList writes in the background so the response is not delayed.
func (cm *CacheManager) SetList(_ context.Context, version int64, key string, list *ProductList) {
	if version <= 0 {
		return
	}
	payload, err := json.Marshal(list)
	if err != nil {
		cm.logger.Warn("Failed to marshal product list for cache", zap.Error(err))
		return
	}

	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := cm.redis.Set(bgCtx, cm.listKey(version, key), payload, cm.ttl).Err(); err != nil {
			cm.logger.Warn("Failed to cache product list", zap.Error(err))
		}
	}()
}

func (cm *CacheManager) Invalidate(ctx context.Context) error {
	newVersion, err := cm.redis.Incr(ctx, CacheVersionKey).Result()
	if err != nil {
		return fmt.Errorf("failed to invalidate cache: %w", err)
	}
	cm.logger.Info("Product cache invalidated", zap.Int64("new_version", newVersion))
	return nil
}

func (cm *CacheManager) version(ctx context.Context) (int64, error) {
	raw, err := cm.redis.Get(ctx, CacheVersionKey).Result()
	if errors.Is(err, redis.Nil) {
		if err := cm.redis.SetNX(ctx, CacheVersionKey, 1, 0).Err(); err != nil {
			return 0, err
		}
		return 1, nil
	}
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(raw, 10, 64)
}

func (cm *CacheManager) listKey(version int64, key string) string {
	return ProductListCachePrefix + strconv.FormatInt(version, 10) + ":" + key
}
