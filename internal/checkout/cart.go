package checkout

import (
	"sync"
	"time"

	"github.com/dean3213321/inventory-pos/internal/domain"
)

// AddStatus is the outcome of an add attempt. The original flow rejected
// over-limit adds silently; an explicit status lets callers decide whether
// to surface feedback.
type AddStatus string

const (
	AddAdded           AddStatus = "ADDED"
	AddMerged          AddStatus = "MERGED"
	AddUnknownProduct  AddStatus = "UNKNOWN_PRODUCT"
	AddInvalidQuantity AddStatus = "INVALID_QUANTITY"
	AddOutOfStock      AddStatus = "OUT_OF_STOCK"
	AddExceedsStock    AddStatus = "EXCEEDS_ORIGINAL_STOCK"
	AddNoSelection     AddStatus = "NO_SELECTION"
)

type AddResult struct {
	Status AddStatus
	Line   CartLine // state of the affected line after an accepted add
}

func (r AddResult) Accepted() bool {
	return r.Status == AddAdded || r.Status == AddMerged
}

// CartLine is one product held in the cart. At most one line exists per
// product; repeated adds merge quantities.
type CartLine struct {
	Product   domain.Product
	Quantity  int
	UnitPrice float64
}

func (l CartLine) Total() float64 {
	return float64(l.Quantity) * l.UnitPrice
}

// Cart accumulates product selections against a stock snapshot taken at
// session start. The remaining counter per product always equals the
// snapshot quantity minus the quantities held in cart lines. A session's
// cart can be hit by concurrent requests, so mu serializes every access.
type Cart struct {
	mu        sync.Mutex
	pricing   domain.PricingClass
	products  map[int64]domain.Product
	lines     map[int64]*CartLine
	order     []int64 // insertion order is display order
	remaining map[int64]int

	selected int64 // 0 means no selection
	pending  int
}

func NewCart(products []domain.Product, pricing domain.PricingClass) *Cart {
	c := &Cart{
		pricing:   pricing,
		products:  make(map[int64]domain.Product, len(products)),
		lines:     make(map[int64]*CartLine),
		remaining: make(map[int64]int, len(products)),
		pending:   1,
	}
	for _, p := range products {
		c.products[p.ID] = p
		c.remaining[p.ID] = p.Quantity
	}
	return c
}

// Remaining returns the units of a product still selectable in this session.
func (c *Cart) Remaining(productID int64) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remaining[productID]
}

// Products returns the session's product snapshot in no particular order.
func (c *Cart) Products() []domain.Product {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]domain.Product, 0, len(c.products))
	for _, p := range c.products {
		out = append(out, p)
	}
	return out
}

// SelectProduct marks a product as the active candidate and resets the
// pending quantity to 1. It returns the quantity upper bound, which is the
// product's current remaining count.
func (c *Cart) SelectProduct(productID int64) (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.products[productID]; !ok {
		return 0, false
	}
	c.selected = productID
	c.pending = 1
	return c.remaining[productID], true
}

// SetQuantity clamps n into [1, remaining-for-selected-product] and stores
// it. Out-of-range input is clamped, never an error.
func (c *Cart) SetQuantity(n int) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.selected == 0 {
		return c.pending
	}
	bound := c.remaining[c.selected]
	if bound < 1 {
		bound = 1
	}
	if n < 1 {
		n = 1
	}
	if n > bound {
		n = bound
	}
	c.pending = n
	return c.pending
}

// PendingTotal is the display price for the current selection and pending
// quantity, zero for free-class buyers.
func (c *Cart) PendingTotal() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	product, ok := c.products[c.selected]
	if !ok {
		return 0
	}
	return domain.UnitPriceFor(c.pricing, product) * float64(c.pending)
}

// AddToCart adds the selected product at the pending quantity and resets
// the selection on success.
func (c *Cart) AddToCart() AddResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.selected == 0 {
		return AddResult{Status: AddNoSelection}
	}
	result := c.add(c.selected, c.pending)
	if result.Accepted() {
		c.selected = 0
		c.pending = 1
	}
	return result
}

// Add is the cart's transition function. It merges into an existing line or
// appends a new one, re-deriving the unit price from the session's pricing
// class, and decrements the remaining counter by the added quantity. An add
// that would push a line past the product's original on-hand quantity is
// rejected whole, never partially applied.
func (c *Cart) Add(productID int64, qty int) AddResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.add(productID, qty)
}

func (c *Cart) add(productID int64, qty int) AddResult {
	product, ok := c.products[productID]
	if !ok {
		return AddResult{Status: AddUnknownProduct}
	}
	if qty < 1 {
		return AddResult{Status: AddInvalidQuantity}
	}

	remaining := c.remaining[productID]
	if remaining == 0 {
		return AddResult{Status: AddOutOfStock}
	}
	// held + remaining == original on-hand, so exceeding remaining is
	// exactly exceeding the original stock
	if qty > remaining {
		return AddResult{Status: AddExceedsStock}
	}

	unitPrice := domain.UnitPriceFor(c.pricing, product)

	line, exists := c.lines[productID]
	status := AddAdded
	if exists {
		line.Quantity += qty
		line.UnitPrice = unitPrice
		status = AddMerged
	} else {
		line = &CartLine{Product: product, Quantity: qty, UnitPrice: unitPrice}
		c.lines[productID] = line
		c.order = append(c.order, productID)
	}

	c.remaining[productID] = remaining - qty
	return AddResult{Status: status, Line: *line}
}

// RemoveFromCart deletes the line for a product and restores its quantity
// to the remaining counter. Removing an absent product is a no-op.
func (c *Cart) RemoveFromCart(productID int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	line, ok := c.lines[productID]
	if !ok {
		return false
	}
	delete(c.lines, productID)
	for i, id := range c.order {
		if id == productID {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	c.remaining[productID] += line.Quantity
	return true
}

// Lines returns the cart lines in insertion order.
func (c *Cart) Lines() []CartLine {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]CartLine, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, *c.lines[id])
	}
	return out
}

func (c *Cart) Empty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lines) == 0
}

// Total is the grand total, derived from the lines on every call.
func (c *Cart) Total() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.total()
}

func (c *Cart) total() float64 {
	var total float64
	for _, line := range c.lines {
		total += line.Total()
	}
	return total
}

// Snapshot freezes the cart into an immutable receipt for the given buyer.
func (c *Cart) Snapshot(buyer domain.Buyer) domain.Receipt {
	c.mu.Lock()
	defer c.mu.Unlock()

	lines := make([]domain.ReceiptLine, 0, len(c.order))
	for _, id := range c.order {
		l := c.lines[id]
		lines = append(lines, domain.ReceiptLine{
			ProductID:   l.Product.ID,
			ProductName: l.Product.Name,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			LineTotal:   l.Total(),
		})
	}
	return domain.Receipt{
		BuyerName:  buyer.DisplayName(),
		BuyerTag:   buyer.Tag,
		Lines:      lines,
		GrandTotal: c.total(),
		Currency:   "PHP",
		CapturedAt: time.Now(),
	}
}
