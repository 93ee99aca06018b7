package backend

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dean3213321/inventory-pos/internal/domain"
)

// ProductInput is the payload for product create/update.
type ProductInput struct {
	Name         string  `json:"product_name"`
	Quantity     int     `json:"quantity"`
	SellingPrice float64 `json:"selling_price"`
}

// GetProducts returns the full product list with on-hand quantities.
func (c *Client) GetProducts(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	if err := c.call(ctx, http.MethodGet, "/api/Products", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// GetTotalSupplies returns the dashboard total-supplies aggregate.
func (c *Client) GetTotalSupplies(ctx context.Context) (int, error) {
	var result struct {
		TotalSupplies int `json:"totalSupplies"`
	}
	if err := c.call(ctx, http.MethodGet, "/api/Products/total", nil, &result); err != nil {
		return 0, err
	}
	return result.TotalSupplies, nil
}

// GetLowStockCount returns the low-stock aggregate.
func (c *Client) GetLowStockCount(ctx context.Context) (int, error) {
	var result struct {
		LowStockItems int `json:"lowStockItems"`
	}
	if err := c.call(ctx, http.MethodGet, "/api/Products/low-stock", nil, &result); err != nil {
		return 0, err
	}
	return result.LowStockItems, nil
}

func (c *Client) CreateProduct(ctx context.Context, input ProductInput) error {
	return c.call(ctx, http.MethodPost, "/api/Products", input, nil)
}

func (c *Client) UpdateProduct(ctx context.Context, id int64, input ProductInput) error {
	return c.call(ctx, http.MethodPut, fmt.Sprintf("/api/Products/%d", id), input, nil)
}

func (c *Client) DeleteProduct(ctx context.Context, id int64) error {
	return c.call(ctx, http.MethodDelete, fmt.Sprintf("/api/Products/%d", id), nil, nil)
}
