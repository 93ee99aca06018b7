package cache

import (
	"context"
	"errors"
	"log"

	"golang.org/x/sync/singleflight"

	"github.com/dean3213321/inventory-pos/internal/backend"
	"github.com/dean3213321/inventory-pos/internal/domain"
)

// ListSource is the backend slice the catalog reads through to.
type ListSource interface {
	GetProducts(ctx context.Context) ([]domain.Product, error)
	ListBuyers(ctx context.Context) ([]backend.BuyerRecord, error)
}

// Catalog is a read-through view of the product and buyer listings. Cache
// failures degrade to the backend; concurrent misses for the same listing
// collapse into one fetch.
type Catalog struct {
	source ListSource
	cache  ListCache
	sfg    singleflight.Group // Prevents cache stampede
}

func NewCatalog(source ListSource, cache ListCache) *Catalog {
	return &Catalog{
		source: source,
		cache:  cache,
	}
}

func (c *Catalog) Products(ctx context.Context) ([]domain.Product, error) {
	v, err, _ := c.sfg.Do(productsKey, func() (interface{}, error) {
		products, err := c.cache.GetProducts(ctx)
		if err == nil {
			return products, nil
		}
		if !errors.Is(err, ErrCacheMiss) {
			log.Printf("cache get error: %v", err) // log cache error but continue
		}

		products, err = c.source.GetProducts(ctx)
		if err != nil {
			return nil, err
		}

		go func() {
			if errSet := c.cache.SetProducts(context.Background(), products); errSet != nil {
				log.Printf("cache set error: %v", errSet)
			}
		}()

		return products, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.Product), nil
}

func (c *Catalog) Buyers(ctx context.Context) ([]backend.BuyerRecord, error) {
	v, err, _ := c.sfg.Do(buyersKey, func() (interface{}, error) {
		buyers, err := c.cache.GetBuyers(ctx)
		if err == nil {
			return buyers, nil
		}
		if !errors.Is(err, ErrCacheMiss) {
			log.Printf("cache get error: %v", err)
		}

		buyers, err = c.source.ListBuyers(ctx)
		if err != nil {
			return nil, err
		}

		go func() {
			if errSet := c.cache.SetBuyers(context.Background(), buyers); errSet != nil {
				log.Printf("cache set error: %v", errSet)
			}
		}()

		return buyers, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]backend.BuyerRecord), nil
}

// InvalidateProducts drops the cached product listing after a product
// mutation so the next session sees fresh stock.
func (c *Catalog) InvalidateProducts(ctx context.Context) {
	if err := c.cache.DeleteProducts(ctx); err != nil {
		log.Printf("cache invalidate error: %v", err)
	}
}
