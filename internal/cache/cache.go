package cache

import (
	"context"
	"errors"

	"github.com/dean3213321/inventory-pos/internal/backend"
	"github.com/dean3213321/inventory-pos/internal/domain"
)

// ListCache holds the two backend listings read at session start: the
// product snapshot source and the existing-buyers dropdown.
type ListCache interface {
	GetProducts(ctx context.Context) ([]domain.Product, error)
	SetProducts(ctx context.Context, products []domain.Product) error
	GetBuyers(ctx context.Context) ([]backend.BuyerRecord, error)
	SetBuyers(ctx context.Context, buyers []backend.BuyerRecord) error
	DeleteProducts(ctx context.Context) error
}

var ErrCacheMiss = errors.New("cache miss")
