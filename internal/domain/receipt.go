package domain

import "time"

// ReceiptLine is a cart line frozen at commit time.
type ReceiptLine struct {
	ProductID   int64   `json:"id"`
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"price"`
	LineTotal   float64 `json:"totalPrice"`
}

// Receipt is the immutable snapshot of buyer + cart captured when a commit
// starts. It is what gets rendered, journaled and submitted to the backend.
type Receipt struct {
	BuyerName  string        `json:"buyer_name"`
	BuyerTag   string        `json:"rfid,omitempty"`
	Lines      []ReceiptLine `json:"lines"`
	GrandTotal float64       `json:"grand_total"`
	Currency   string        `json:"currency"`
	CapturedAt time.Time     `json:"captured_at"`
}
