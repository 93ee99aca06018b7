package backend

import (
	"context"
	"net/http"
)

// Supplier mirrors a supplier record on the backend.
type Supplier struct {
	ID            int64   `json:"id,omitempty"`
	CompanyName   string  `json:"companyName"`
	ItemsProvided string  `json:"itemsProvided"`
	Address       string  `json:"address"`
	PhoneNumber   string  `json:"phoneNumber"`
	Email         string  `json:"email"`
	Rating        float64 `json:"rating"`
}

func (c *Client) ListSuppliers(ctx context.Context) ([]Supplier, error) {
	var suppliers []Supplier
	if err := c.call(ctx, http.MethodGet, "/api/Supplier", nil, &suppliers); err != nil {
		return nil, err
	}
	return suppliers, nil
}

func (c *Client) AddSupplier(ctx context.Context, supplier Supplier) (Supplier, error) {
	var created Supplier
	if err := c.call(ctx, http.MethodPost, "/api/addSupplier", supplier, &created); err != nil {
		return Supplier{}, err
	}
	return created, nil
}
