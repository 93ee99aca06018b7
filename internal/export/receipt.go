package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dean3213321/inventory-pos/internal/domain"
)

// FileRenderer writes the receipt artifact as a plain-text file named after
// the buyer, the way the browser flow downloaded a per-buyer image.
type FileRenderer struct {
	dir string
}

func NewFileRenderer(dir string) *FileRenderer {
	return &FileRenderer{dir: dir}
}

func (r *FileRenderer) Render(receipt domain.Receipt) error {
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create receipt dir: %w", err)
	}

	name := strings.ReplaceAll(receipt.BuyerName, " ", "_") + "_receipt_inventory.txt"
	path := filepath.Join(r.dir, name)

	if err := os.WriteFile(path, []byte(FormatReceipt(receipt)), 0o644); err != nil {
		return fmt.Errorf("failed to write receipt artifact: %w", err)
	}
	return nil
}

// FormatReceipt renders the receipt the way the modal displayed it: buyer
// line, item table, grand total.
func FormatReceipt(receipt domain.Receipt) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Buyer: %s\n", receipt.BuyerName)
	if receipt.BuyerTag != "" {
		fmt.Fprintf(&b, "RFID: %s\n", receipt.BuyerTag)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "%-24s %5s %12s %12s\n", "Product", "Qty", "Price", "Total")
	for _, line := range receipt.Lines {
		fmt.Fprintf(&b, "%-24s %5d %12s %12s\n",
			line.ProductName,
			line.Quantity,
			peso(line.UnitPrice),
			peso(line.LineTotal),
		)
	}

	b.WriteString("\n")
	fmt.Fprintf(&b, "Grand Total: %s\n", peso(receipt.GrandTotal))
	return b.String()
}

func peso(amount float64) string {
	return fmt.Sprintf("₱%.2f", amount)
}
