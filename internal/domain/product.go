package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// DefaultMarginRate is applied to new products unless staff overrides it.
	DefaultMarginRate = decimal.NewFromFloat(0.30)

	// VATRate is the fixed value-added tax applied on top of wholesale prices.
	VATRate = decimal.NewFromFloat(0.06)

	one = decimal.NewFromInt(1)
)

// Product is a catalog entry offered to wholesale customers.
type Product struct {
	ID                  int
	Name                string
	Description         string
	UnitCost            decimal.Decimal
	MarginRate          decimal.Decimal
	MinimumQuantity     int
	UnitWeight          decimal.Decimal
	RetailPriceOverride *decimal.Decimal
	Active              bool
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// WholesalePrice computes cost scaled by one plus the margin rate.
func WholesalePrice(cost, margin decimal.Decimal) (decimal.Decimal, error) {
	if cost.IsNegative() {
		return decimal.Zero, &ValidationError{Field: "unit_cost", Message: "unit cost must not be negative"}
	}
	if margin.IsNegative() {
		return decimal.Zero, &ValidationError{Field: "margin_rate", Message: "margin rate must not be negative"}
	}
	return RoundMoney(cost.Mul(one.Add(margin))), nil
}

// RetailPrice computes the wholesale price scaled by one plus the VAT rate.
func RetailPrice(cost, margin, vat decimal.Decimal) (decimal.Decimal, error) {
	if vat.IsNegative() {
		return decimal.Zero, &ValidationError{Field: "vat_rate", Message: "vat rate must not be negative"}
	}
	wholesale, err := WholesalePrice(cost, margin)
	if err != nil {
		return decimal.Zero, err
	}
	return RoundMoney(wholesale.Mul(one.Add(vat))), nil
}

// WholesalePrice returns the product's price to the ordering customer
// before VAT.
func (p *Product) WholesalePrice() decimal.Decimal {
	price, err := WholesalePrice(p.UnitCost, p.MarginRate)
	if err != nil {
		return decimal.Zero
	}
	return price
}

// RetailPrice returns the price charged per unit, honoring a manual
// override when staff has set one.
func (p *Product) RetailPrice() decimal.Decimal {
	if p.RetailPriceOverride != nil {
		return RoundMoney(*p.RetailPriceOverride)
	}
	price, err := RetailPrice(p.UnitCost, p.MarginRate, VATRate)
	if err != nil {
		return decimal.Zero
	}
	return price
}

// RetailPricePerKg derives the per-kilogram retail price from the unit
// weight. Zero when no weight is recorded.
func (p *Product) RetailPricePerKg() decimal.Decimal {
	if p.UnitWeight.IsZero() {
		return decimal.Zero
	}
	return RoundMoney(p.RetailPrice().Div(p.UnitWeight))
}

// Validate applies catalog business rules.
func (p *Product) Validate() error {
	var errs ValidationErrors

	if p.Name == "" {
		errs = append(errs, ValidationError{Field: "name", Message: "name is required"})
	}
	if p.UnitCost.IsNegative() {
		errs = append(errs, ValidationError{Field: "unit_cost", Message: "unit cost must not be negative"})
	}
	if p.MarginRate.IsNegative() {
		errs = append(errs, ValidationError{Field: "margin_rate", Message: "margin rate must not be negative"})
	}
	if p.MinimumQuantity < 1 {
		errs = append(errs, ValidationError{Field: "minimum_quantity", Message: "minimum quantity must be at least 1"})
	}
	if p.UnitWeight.IsNegative() {
		errs = append(errs, ValidationError{Field: "unit_weight", Message: "unit weight must not be negative"})
	}
	if p.RetailPriceOverride != nil && p.RetailPriceOverride.IsNegative() {
		errs = append(errs, ValidationError{Field: "retail_price_override", Message: "override price must not be negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (p *Product) String() string {
	if p.UnitWeight.IsZero() {
		return fmt.Sprintf("%s - no weight set", p.Name)
	}
	return fmt.Sprintf("%s - %skg", p.Name, p.UnitWeight)
}
