package domain

// PricingClass determines the unit price applied to cart lines.
type PricingClass string

const (
	PricingStandard PricingClass = "STANDARD"
	PricingFree     PricingClass = "FREE"
)

// freePositions are the staff positions that receive zero-priced items.
var freePositions = map[string]struct{}{
	"Student":  {},
	"Gatepass": {},
	"Intern":   {},
}

// Buyer is the resolved identity for a checkout session. Tag and Position
// are empty for manually entered buyers.
type Buyer struct {
	Tag       string `json:"rfid,omitempty"`
	FirstName string `json:"fname"`
	LastName  string `json:"lname"`
	Position  string `json:"position,omitempty"`
}

// PricingClassFor derives the pricing class from a buyer position.
// An unknown or empty position always pays the unit price.
func PricingClassFor(position string) PricingClass {
	if _, ok := freePositions[position]; ok {
		return PricingFree
	}
	return PricingStandard
}

func (b Buyer) PricingClass() PricingClass {
	return PricingClassFor(b.Position)
}

// DisplayName joins the name parts, falling back to "Guest" when the buyer
// was entered with no name at all.
func (b Buyer) DisplayName() string {
	switch {
	case b.FirstName == "" && b.LastName == "":
		return "Guest"
	case b.LastName == "":
		return b.FirstName
	case b.FirstName == "":
		return b.LastName
	default:
		return b.FirstName + " " + b.LastName
	}
}

// UnitPriceFor is the pure pricing function: free-class buyers get every
// line at zero, everyone else pays the product's selling price.
func UnitPriceFor(class PricingClass, product Product) float64 {
	if class == PricingFree {
		return 0
	}
	return product.SellingPrice
}
