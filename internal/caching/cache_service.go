package caching

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"salonstock/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type CacheService interface {
	// Stock item caching
	GetStockItem(ctx context.Context, itemID uuid.UUID) (*models.StockItem, error)
	SetStockItem(ctx context.Context, item *models.StockItem, ttl time.Duration) error
	DeleteStockItem(ctx context.Context, itemID uuid.UUID) error

	// Inventory stats caching
	GetInventoryStats(ctx context.Context) (*models.InventoryStats, error)
	SetInventoryStats(ctx context.Context, stats *models.InventoryStats, ttl time.Duration) error
	DeleteInventoryStats(ctx context.Context) error

	// Active alert list caching
	GetActiveAlerts(ctx context.Context) ([]*models.LowStockAlert, error)
	SetActiveAlerts(ctx context.Context, alerts []*models.LowStockAlert, ttl time.Duration) error
	DeleteActiveAlerts(ctx context.Context) error

	InvalidateAll(ctx context.Context) error
}

type redisCacheService struct {
	client *redis.Client
}

func NewRedisCacheService(addr, password string, db int) CacheService {
	parsedAddr := addr
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		if hostPort := strings.TrimPrefix(strings.TrimPrefix(addr, "redis://"), "rediss://"); hostPort != addr {
			parsedAddr = hostPort
		}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     parsedAddr,
		Password: password,
		DB:       db,
	})

	if pingErr := client.Ping(context.Background()).Err(); pingErr != nil {
		log.Printf("WARN: Redis ping failed on initialization: %v (address: %s)", pingErr, parsedAddr)
	}

	return &redisCacheService{client: client}
}

func itemKey(itemID uuid.UUID) string {
	return fmt.Sprintf("salonstock:item:%s", itemID.String())
}

const (
	statsKey  = "salonstock:stats"
	alertsKey = "salonstock:alerts:active"
)

func (r *redisCacheService) GetStockItem(ctx context.Context, itemID uuid.UUID) (*models.StockItem, error) {
	data, err := r.client.Get(ctx, itemKey(itemID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var item models.StockItem
	if err := json.Unmarshal(data, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *redisCacheService) SetStockItem(ctx context.Context, item *models.StockItem, ttl time.Duration) error {
	data, err := json.Marshal(item)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, itemKey(item.ID), data, ttl).Err()
}

func (r *redisCacheService) DeleteStockItem(ctx context.Context, itemID uuid.UUID) error {
	return r.client.Del(ctx, itemKey(itemID)).Err()
}

func (r *redisCacheService) GetInventoryStats(ctx context.Context) (*models.InventoryStats, error) {
	data, err := r.client.Get(ctx, statsKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var stats models.InventoryStats
	if err := json.Unmarshal(data, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (r *redisCacheService) SetInventoryStats(ctx context.Context, stats *models.InventoryStats, ttl time.Duration) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, statsKey, data, ttl).Err()
}

func (r *redisCacheService) DeleteInventoryStats(ctx context.Context) error {
	return r.client.Del(ctx, statsKey).Err()
}

func (r *redisCacheService) GetActiveAlerts(ctx context.Context) ([]*models.LowStockAlert, error) {
	data, err := r.client.Get(ctx, alertsKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var alerts []*models.LowStockAlert
	if err := json.Unmarshal(data, &alerts); err != nil {
		return nil, err
	}
	return alerts, nil
}

func (r *redisCacheService) SetActiveAlerts(ctx context.Context, alerts []*models.LowStockAlert, ttl time.Duration) error {
	data, err := json.Marshal(alerts)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, alertsKey, data, ttl).Err()
}

func (r *redisCacheService) DeleteActiveAlerts(ctx context.Context) error {
	return r.client.Del(ctx, alertsKey).Err()
}

func (r *redisCacheService) InvalidateAll(ctx context.Context) error {
	keys, err := r.client.Keys(ctx, "salonstock:*").Result()
	if err != nil {
		return err
	}
	if len(keys) > 0 {
		return r.client.Del(ctx, keys...).Err()
	}
	return nil
}
