package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/dean3213321/inventory-pos/internal/backend"
)

// WriteBuyerHistory writes a buyer's sales history in the download format
// the sales page produced: a buyer header, a blank line, then
// "Items Bought,Date" rows with the quantity in parentheses.
func WriteBuyerHistory(w io.Writer, buyerName string, records []backend.SalesRecord) error {
	if _, err := fmt.Fprintf(w, "Buyer: %s\n\n", buyerName); err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Items Bought", "Date"}); err != nil {
		return err
	}

	for _, record := range records {
		item := "No items"
		if record.ProductName != "" {
			item = fmt.Sprintf("%s (%d)", record.ProductName, record.Quantity)
		}
		date := "No date"
		if !record.SaleDate.IsZero() {
			date = record.SaleDate.Format("1/2/2006")
		}
		if err := cw.Write([]string{item, date}); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
