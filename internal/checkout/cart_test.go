package checkout

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dean3213321/inventory-pos/internal/domain"
)

func testProducts() []domain.Product {
	return []domain.Product{
		{ID: 1, Name: "Bond Paper", SellingPrice: 5.00, Quantity: 10},
		{ID: 2, Name: "Ballpen", SellingPrice: 12.00, Quantity: 3},
		{ID: 3, Name: "Stapler", SellingPrice: 150.00, Quantity: 0},
	}
}

func TestCart_AddAndMerge(t *testing.T) {
	cart := NewCart(testProducts(), domain.PricingStandard)

	result := cart.Add(1, 3)
	require.Equal(t, AddAdded, result.Status)
	assert.Equal(t, 3, result.Line.Quantity)
	assert.Equal(t, 15.00, result.Line.Total())
	assert.Equal(t, 7, cart.Remaining(1))

	result = cart.Add(1, 4)
	require.Equal(t, AddMerged, result.Status)
	assert.Equal(t, 7, result.Line.Quantity)
	assert.Equal(t, 35.00, result.Line.Total())
	assert.Equal(t, 3, cart.Remaining(1))

	// one line per product, even after a merge
	require.Len(t, cart.Lines(), 1)
	assert.Equal(t, 35.00, cart.Total())
}

func TestCart_AddExceedingRemainingIsRejectedWhole(t *testing.T) {
	cart := NewCart(testProducts(), domain.PricingStandard)

	require.True(t, cart.Add(1, 7).Accepted())
	require.Equal(t, 3, cart.Remaining(1))

	result := cart.Add(1, 8)
	assert.Equal(t, AddExceedsStock, result.Status)
	assert.False(t, result.Accepted())

	// a rejected add changes nothing
	assert.Equal(t, 3, cart.Remaining(1))
	require.Len(t, cart.Lines(), 1)
	assert.Equal(t, 7, cart.Lines()[0].Quantity)
}

func TestCart_AddOutOfStock(t *testing.T) {
	cart := NewCart(testProducts(), domain.PricingStandard)

	result := cart.Add(3, 1)
	assert.Equal(t, AddOutOfStock, result.Status)

	// draining a product in-session makes later adds out of stock too
	require.True(t, cart.Add(2, 3).Accepted())
	result = cart.Add(2, 1)
	assert.Equal(t, AddOutOfStock, result.Status)
}

func TestCart_AddUnknownProductAndInvalidQuantity(t *testing.T) {
	cart := NewCart(testProducts(), domain.PricingStandard)

	assert.Equal(t, AddUnknownProduct, cart.Add(99, 1).Status)
	assert.Equal(t, AddInvalidQuantity, cart.Add(1, 0).Status)
	assert.Equal(t, AddInvalidQuantity, cart.Add(1, -5).Status)
}

func TestCart_RemoveRestoresRemaining(t *testing.T) {
	cart := NewCart(testProducts(), domain.PricingStandard)

	require.True(t, cart.Add(1, 3).Accepted())
	require.True(t, cart.Add(2, 2).Accepted())
	require.Equal(t, 7, cart.Remaining(1))

	assert.True(t, cart.RemoveFromCart(1))
	assert.Equal(t, 10, cart.Remaining(1))
	require.Len(t, cart.Lines(), 1)
	assert.Equal(t, int64(2), cart.Lines()[0].Product.ID)

	// the full original quantity is selectable again
	result := cart.Add(1, 10)
	assert.True(t, result.Accepted())
	assert.Equal(t, 0, cart.Remaining(1))
}

func TestCart_RemoveAbsentIsNoOp(t *testing.T) {
	cart := NewCart(testProducts(), domain.PricingStandard)

	require.True(t, cart.Add(1, 2).Accepted())
	assert.False(t, cart.RemoveFromCart(2))
	assert.False(t, cart.RemoveFromCart(99))
	assert.Len(t, cart.Lines(), 1)
	assert.Equal(t, 8, cart.Remaining(1))
}

func TestCart_SelectAndClampQuantity(t *testing.T) {
	cart := NewCart(testProducts(), domain.PricingStandard)

	bound, ok := cart.SelectProduct(2)
	require.True(t, ok)
	assert.Equal(t, 3, bound)

	assert.Equal(t, 3, cart.SetQuantity(50))
	assert.Equal(t, 1, cart.SetQuantity(0))
	assert.Equal(t, 1, cart.SetQuantity(-3))
	assert.Equal(t, 2, cart.SetQuantity(2))

	_, ok = cart.SelectProduct(99)
	assert.False(t, ok)
}

func TestCart_SelectionResetsAfterAdd(t *testing.T) {
	cart := NewCart(testProducts(), domain.PricingStandard)

	_, ok := cart.SelectProduct(1)
	require.True(t, ok)
	cart.SetQuantity(4)
	assert.Equal(t, 20.00, cart.PendingTotal())

	result := cart.AddToCart()
	require.True(t, result.Accepted())
	assert.Equal(t, 4, result.Line.Quantity)

	// selection is cleared, a second AddToCart has nothing to add
	assert.Equal(t, AddNoSelection, cart.AddToCart().Status)
}

func TestCart_FreePricingZeroesEveryLine(t *testing.T) {
	cart := NewCart(testProducts(), domain.PricingFree)

	require.True(t, cart.Add(1, 3).Accepted())
	require.True(t, cart.Add(2, 2).Accepted())

	for _, line := range cart.Lines() {
		assert.Equal(t, 0.0, line.UnitPrice)
		assert.Equal(t, 0.0, line.Total())
	}
	assert.Equal(t, 0.0, cart.Total())

	// stock accounting is unaffected by pricing
	assert.Equal(t, 7, cart.Remaining(1))
	assert.Equal(t, 1, cart.Remaining(2))
}

func TestCart_LinesKeepInsertionOrder(t *testing.T) {
	cart := NewCart(testProducts(), domain.PricingStandard)

	require.True(t, cart.Add(2, 1).Accepted())
	require.True(t, cart.Add(1, 1).Accepted())
	require.True(t, cart.Add(2, 1).Accepted()) // merge keeps position

	lines := cart.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, int64(2), lines[0].Product.ID)
	assert.Equal(t, int64(1), lines[1].Product.ID)
}

func TestCart_Snapshot(t *testing.T) {
	cart := NewCart(testProducts(), domain.PricingStandard)
	require.True(t, cart.Add(1, 2).Accepted())
	require.True(t, cart.Add(2, 1).Accepted())

	buyer := domain.Buyer{FirstName: "Jane", LastName: "Cruz", Tag: "0012345"}
	receipt := cart.Snapshot(buyer)

	assert.Equal(t, "Jane Cruz", receipt.BuyerName)
	assert.Equal(t, "0012345", receipt.BuyerTag)
	assert.Equal(t, "PHP", receipt.Currency)
	assert.False(t, receipt.CapturedAt.IsZero())
	require.Len(t, receipt.Lines, 2)
	assert.Equal(t, "Bond Paper", receipt.Lines[0].ProductName)
	assert.Equal(t, 10.00, receipt.Lines[0].LineTotal)
	assert.Equal(t, 22.00, receipt.GrandTotal)

	// mutating the cart afterwards does not touch the snapshot
	cart.RemoveFromCart(1)
	assert.Len(t, receipt.Lines, 2)
	assert.Equal(t, 22.00, receipt.GrandTotal)
}

func TestCart_ConcurrentAccessKeepsStockInvariant(t *testing.T) {
	products := []domain.Product{
		{ID: 1, Name: "Bond Paper", SellingPrice: 5.00, Quantity: 400},
		{ID: 2, Name: "Ballpen", SellingPrice: 12.00, Quantity: 400},
	}
	cart := NewCart(products, domain.PricingStandard)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			productID := int64(g%2 + 1)
			for i := 0; i < 50; i++ {
				switch i % 4 {
				case 0, 1:
					cart.Add(productID, 1)
				case 2:
					cart.RemoveFromCart(productID)
				case 3:
					cart.Lines()
					cart.Remaining(productID)
					cart.Total()
				}
			}
		}(g)
	}
	wg.Wait()

	// held + remaining must still equal the original on-hand quantity
	held := map[int64]int{}
	for _, line := range cart.Lines() {
		held[line.Product.ID] = line.Quantity
	}
	for _, p := range products {
		total := held[p.ID] + cart.Remaining(p.ID)
		assert.Equal(t, p.Quantity, total, "product %d", p.ID)
	}
}

func TestCart_Empty(t *testing.T) {
	cart := NewCart(testProducts(), domain.PricingStandard)
	assert.True(t, cart.Empty())

	require.True(t, cart.Add(1, 1).Accepted())
	assert.False(t, cart.Empty())

	cart.RemoveFromCart(1)
	assert.True(t, cart.Empty())
}
