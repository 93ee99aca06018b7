package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dean3213321/inventory-pos/internal/backend"
	"github.com/dean3213321/inventory-pos/internal/domain"
)

const (
	productsKey = "inventory:products"
	buyersKey   = "inventory:buyers"
)

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{
		client:  client,
		baseTTL: 5 * time.Minute,
	}
}

type RedisCache struct {
	client  *redis.Client
	baseTTL time.Duration
}

func (r RedisCache) GetProducts(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	if err := r.get(ctx, productsKey, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (r RedisCache) SetProducts(ctx context.Context, products []domain.Product) error {
	return r.set(ctx, productsKey, products)
}

func (r RedisCache) GetBuyers(ctx context.Context) ([]backend.BuyerRecord, error) {
	var buyers []backend.BuyerRecord
	if err := r.get(ctx, buyersKey, &buyers); err != nil {
		return nil, err
	}
	return buyers, nil
}

func (r RedisCache) SetBuyers(ctx context.Context, buyers []backend.BuyerRecord) error {
	return r.set(ctx, buyersKey, buyers)
}

func (r RedisCache) DeleteProducts(ctx context.Context) error {
	if err := r.client.Del(ctx, productsKey).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func (r RedisCache) get(ctx context.Context, key string, out any) error {
	data, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrCacheMiss
	}
	if err != nil {
		return fmt.Errorf("redis get failed: %w", err)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("unmarshal %s failed: %w", key, err)
	}
	return nil
}

func (r RedisCache) set(ctx context.Context, key string, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal %s failed: %w", key, err)
	}

	// jitter spreads expirations so both listings do not refetch at once
	jitter := time.Duration(rand.Intn(60)) * time.Second
	if err := r.client.Set(ctx, key, payload, r.baseTTL+jitter).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}
