package domain

// Product mirrors a product record owned by the inventory backend.
// Quantity is the on-hand stock at fetch time; the checkout session keeps
// its own remaining counter and never writes this struct.
type Product struct {
	ID           int64   `json:"id"`
	Name         string  `json:"product_name"`
	SellingPrice float64 `json:"selling_price"`
	Quantity     int     `json:"quantity"`
}
