package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/Milan-Bhingradiya/sweet-shop-management-system/internal/models"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	keyCategories    = "catalog:categories"
	keyProductPrefix = "catalog:product:"
)

// CatalogCache хранит список категорий и карточки товаров в Redis в виде JSON.
// Ошибки Redis только логируются: источник истины всегда база.
type CatalogCache struct {
	rdb *RedisClient
	ttl time.Duration
	log *zap.Logger
}

func NewCatalogCache(rdb *RedisClient, ttl time.Duration, log *zap.Logger) *CatalogCache {
	return &CatalogCache{rdb: rdb, ttl: ttl, log: log}
}

func productKey(id int) string { return keyProductPrefix + strconv.Itoa(id) }

func (c *CatalogCache) get(ctx context.Context, key string, dst any) bool {
	raw, err := c.rdb.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn("cache get failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		c.log.Warn("cache entry is corrupted", zap.String("key", key), zap.Error(err))
		_ = c.rdb.Del(ctx, key)
		return false
	}
	return true
}

func (c *CatalogCache) set(ctx context.Context, key string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		c.log.Warn("cache marshal failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.rdb.Set(ctx, key, raw, c.ttl); err != nil {
		c.log.Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}
}

func (c *CatalogCache) del(ctx context.Context, keys ...string) {
	if err := c.rdb.Del(ctx, keys...); err != nil {
		c.log.Warn("cache invalidation failed", zap.Strings("keys", keys), zap.Error(err))
	}
}

func (c *CatalogCache) GetCategories(ctx context.Context) ([]models.Category, bool) {
	var list []models.Category
	if !c.get(ctx, keyCategories, &list) {
		return nil, false
	}
	return list, true
}

func (c *CatalogCache) SetCategories(ctx context.Context, list []models.Category) {
	c.set(ctx, keyCategories, list)
}

func (c *CatalogCache) InvalidateCategories(ctx context.Context) {
	c.del(ctx, keyCategories)
}

func (c *CatalogCache) GetProduct(ctx context.Context, id int) (*models.Product, bool) {
	var p models.Product
	if !c.get(ctx, productKey(id), &p) {
		return nil, false
	}
	return &p, true
}

func (c *CatalogCache) SetProduct(ctx context.Context, p *models.Product) {
	c.set(ctx, productKey(p.ID), p)
}

func (c *CatalogCache) InvalidateProducts(ctx context.Context, ids ...int) {
	if len(ids) == 0 {
		return
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = productKey(id)
	}
	c.del(ctx, keys...)
}

func (c *CatalogCache) InvalidateAllProducts(ctx context.Context) {
	n, err := c.rdb.DelByPattern(ctx, keyProductPrefix+"*")
	if err != nil {
		c.log.Warn("cache invalidation failed", zap.String("pattern", keyProductPrefix+"*"), zap.Error(err))
		return
	}
	c.log.Debug("product cache flushed", zap.Int("keys", n))
}
