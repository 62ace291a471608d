package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/fieldbooks/fieldbooks-billing-service/internal/config"
	"github.com/fieldbooks/fieldbooks-billing-service/internal/models"
)

const (
	workOrderKeyPrefix = "workorder:"
	invoiceKeyPrefix   = "invoice:"
	rateTableKey       = "rates:table"

	defaultCacheTTL = 5 * time.Minute
	defaultRateTTL  = time.Hour
)

// RedisDocumentCache implements DocumentCache using Redis.
type RedisDocumentCache struct {
	client  *redis.Client
	ttl     time.Duration
	rateTTL time.Duration
	logger  *logrus.Entry
}

// NewRedisDocumentCache creates a Redis-backed document cache.
func NewRedisDocumentCache(cfg config.RedisConfig, logger *logrus.Logger) *RedisDocumentCache {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ttl := cfg.TTL
	if ttl == 0 {
		ttl = defaultCacheTTL
	}
	rateTTL := cfg.RateTTL
	if rateTTL == 0 {
		rateTTL = defaultRateTTL
	}

	return &RedisDocumentCache{
		client:  client,
		ttl:     ttl,
		rateTTL: rateTTL,
		logger:  logger.WithField("component", "document-cache"),
	}
}

// GetWorkOrder retrieves a cached work order; a miss is (nil, nil).
func (c *RedisDocumentCache) GetWorkOrder(ctx context.Context, id string) (*models.WorkOrder, error) {
	var workOrder models.WorkOrder
	ok, err := c.get(ctx, workOrderKeyPrefix+id, &workOrder)
	if err != nil || !ok {
		return nil, err
	}
	return &workOrder, nil
}

// SetWorkOrder caches a work order.
func (c *RedisDocumentCache) SetWorkOrder(ctx context.Context, workOrder *models.WorkOrder) error {
	return c.set(ctx, workOrderKeyPrefix+workOrder.ID, workOrder, c.ttl)
}

// DeleteWorkOrder evicts a work order.
func (c *RedisDocumentCache) DeleteWorkOrder(ctx context.Context, id string) error {
	return c.client.Del(ctx, workOrderKeyPrefix+id).Err()
}

// GetInvoice retrieves a cached invoice; a miss is (nil, nil).
func (c *RedisDocumentCache) GetInvoice(ctx context.Context, id string) (*models.Invoice, error) {
	var invoice models.Invoice
	ok, err := c.get(ctx, invoiceKeyPrefix+id, &invoice)
	if err != nil || !ok {
		return nil, err
	}
	return &invoice, nil
}

// SetInvoice caches an invoice.
func (c *RedisDocumentCache) SetInvoice(ctx context.Context, invoice *models.Invoice) error {
	return c.set(ctx, invoiceKeyPrefix+invoice.ID, invoice, c.ttl)
}

// DeleteInvoice evicts an invoice.
func (c *RedisDocumentCache) DeleteInvoice(ctx context.Context, id string) error {
	return c.client.Del(ctx, invoiceKeyPrefix+id).Err()
}

// GetRateTable retrieves the cached rate-table snapshot; a miss is (nil, nil).
func (c *RedisDocumentCache) GetRateTable(ctx context.Context) (*models.RateTable, error) {
	var table models.RateTable
	ok, err := c.get(ctx, rateTableKey, &table)
	if err != nil || !ok {
		return nil, err
	}
	return &table, nil
}

// SetRateTable caches the rate-table snapshot with the longer reference TTL.
func (c *RedisDocumentCache) SetRateTable(ctx context.Context, table models.RateTable) error {
	return c.set(ctx, rateTableKey, table, c.rateTTL)
}

// InvalidateRateTable evicts the rate-table snapshot after a rate change.
func (c *RedisDocumentCache) InvalidateRateTable(ctx context.Context) error {
	return c.client.Del(ctx, rateTableKey).Err()
}

func (c *RedisDocumentCache) get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		c.logger.WithField("key", key).Debug("Cache miss")
		return false, nil
	}
	if err != nil {
		c.logger.WithFields(logrus.Fields{
			"key":   key,
			"error": err.Error(),
		}).Error("Cache get error")
		return false, err
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, err
	}

	c.logger.WithField("key", key).Debug("Cache hit")
	return true, nil
}

func (c *RedisDocumentCache) set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		c.logger.WithFields(logrus.Fields{
			"key":   key,
			"error": err.Error(),
		}).Error("Cache set error")
		return err
	}

	return nil
}
