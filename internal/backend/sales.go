package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/dean3213321/inventory-pos/internal/domain"
)

const (
	decrementAttempts = 3
	decrementBackoff  = 500 * time.Millisecond
)

// SalesRecord is a row from the sales-history listing.
type SalesRecord struct {
	SaleID      int64     `json:"sale_id"`
	BuyerName   string    `json:"buyer_name"`
	ProductName string    `json:"product_name"`
	Quantity    int       `json:"quantity"`
	SaleDate    time.Time `json:"sale_date"`
}

// TopSoldItem is a dashboard aggregate entry.
type TopSoldItem struct {
	ProductName   string `json:"product_name"`
	TotalQuantity int    `json:"total_quantity"`
}

// DecrementStock subtracts the committed cart quantities from backend stock.
// The caller's idempotency key is sent on every attempt so retries after a
// transport failure cannot double-decrement.
func (c *Client) DecrementStock(ctx context.Context, lines []domain.ReceiptLine, idempotencyKey string) error {
	var lastErr error
	for attempt := 1; attempt <= decrementAttempts; attempt++ {
		req, err := c.newRequest(ctx, http.MethodPut, "/api/Dashboard/subitemquantity", lines)
		if err != nil {
			return err
		}
		req.Header.Set("Idempotency-Key", idempotencyKey)

		resp, err := c.do(req)
		if err == nil {
			defer resp.Body.Close()
			if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
				return nil
			}
			// 4xx is not retryable
			return decodeAPIError(resp)
		}

		lastErr = err
		if attempt < decrementAttempts {
			log.Printf("stock decrement attempt %d failed: %v", attempt, err)
			select {
			case <-time.After(time.Duration(attempt) * decrementBackoff):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	return fmt.Errorf("stock decrement failed after %d attempts: %w", decrementAttempts, lastErr)
}

// AppendSalesRecord writes the sales-history record for a committed receipt.
// The backend's duplicate-buyer conflict maps to ErrDuplicateSalesRecord.
func (c *Client) AppendSalesRecord(ctx context.Context, receipt domain.Receipt) error {
	body := struct {
		BuyerName   string               `json:"buyerName"`
		ItemsBought []domain.ReceiptLine `json:"itemsBought"`
		Tag         string               `json:"rfid,omitempty"`
	}{
		BuyerName:   receipt.BuyerName,
		ItemsBought: receipt.Lines,
		Tag:         receipt.BuyerTag,
	}

	err := c.call(ctx, http.MethodPost, "/api/Dashboard/sales", body, nil)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Message == duplicateRecordMessage {
			return fmt.Errorf("%w: %q", ErrDuplicateSalesRecord, receipt.BuyerName)
		}
		return err
	}
	return nil
}

// GetSalesHistory returns the full sales-history listing.
func (c *Client) GetSalesHistory(ctx context.Context) ([]SalesRecord, error) {
	var result struct {
		SalesHistory []SalesRecord `json:"salesHistory"`
	}
	if err := c.call(ctx, http.MethodGet, "/api/Sales/SalesHistory", nil, &result); err != nil {
		return nil, err
	}
	return result.SalesHistory, nil
}

// GetBuyerHistory returns the sales history for one buyer.
func (c *Client) GetBuyerHistory(ctx context.Context, buyerName string) ([]SalesRecord, error) {
	path := "/api/Sales/BuyerHistory?buyerName=" + url.QueryEscape(buyerName)

	var result struct {
		SalesHistory []SalesRecord `json:"salesHistory"`
	}
	if err := c.call(ctx, http.MethodGet, path, nil, &result); err != nil {
		return nil, err
	}
	return result.SalesHistory, nil
}

// GetTopSoldItems returns the dashboard top-sold aggregate.
func (c *Client) GetTopSoldItems(ctx context.Context) ([]TopSoldItem, error) {
	var items []TopSoldItem
	if err := c.call(ctx, http.MethodGet, "/api/Dashboard/gettopsolditems", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// GetRevenue returns the revenue aggregate for a period. The report shape is
// owned by the backend, so it is passed through untouched.
func (c *Client) GetRevenue(ctx context.Context, period string) (json.RawMessage, error) {
	path := "/api/Dashboard/revenue?period=" + url.QueryEscape(period)

	var raw json.RawMessage
	if err := c.call(ctx, http.MethodGet, path, nil, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}
