package backend

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/dean3213321/inventory-pos/internal/domain"
)

// BuyerRecord is an entry from the existing-buyers dropdown.
type BuyerRecord struct {
	BuyerID   int64  `json:"buyer_id"`
	FirstName string `json:"fname"`
	LastName  string `json:"lname"`
}

// User is a row on the admin users page.
type User struct {
	FirstName string `json:"fname"`
	LastName  string `json:"lname"`
	Email     string `json:"email"`
	Position  string `json:"position"`
}

// LookupBuyerTag resolves a scanned tag to a buyer identity and position.
// An unknown tag maps to ErrBuyerNotFound.
func (c *Client) LookupBuyerTag(ctx context.Context, tag string) (domain.Buyer, error) {
	body := map[string]string{"rfid": tag}

	var result struct {
		FirstName string `json:"fname"`
		LastName  string `json:"lname"`
		Position  string `json:"position"`
	}

	err := c.call(ctx, http.MethodPost, "/api/Dashboard/getname", body, &result)
	if err != nil {
		// only a 404 means the tag is unknown; other client errors such as a
		// rejected request body keep their APIError identity
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			return domain.Buyer{}, fmt.Errorf("%w: tag %q", ErrBuyerNotFound, tag)
		}
		return domain.Buyer{}, err
	}

	return domain.Buyer{
		Tag:       tag,
		FirstName: result.FirstName,
		LastName:  result.LastName,
		Position:  result.Position,
	}, nil
}

// ListBuyers fetches the existing-buyers dropdown entries.
func (c *Client) ListBuyers(ctx context.Context) ([]BuyerRecord, error) {
	var buyers []BuyerRecord
	if err := c.call(ctx, http.MethodGet, "/api/Dashboard/Buyerdropdown", nil, &buyers); err != nil {
		return nil, err
	}
	return buyers, nil
}

// ListUsers fetches the admin users listing.
func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	var users []User
	if err := c.call(ctx, http.MethodGet, "/api/Users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}
