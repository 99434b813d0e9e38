package order

import (
	"invoicing/internal/core/domain/model/kernel"
	"invoicing/internal/pkg/errs"
)

// TaxLine is the accumulated tax amount for one tax-rate identifier on an
// order. An order holds at most one TaxLine per distinct rate identifier.
type TaxLine struct {
	rateID string
	amount kernel.Money
}

// NewTaxLine creates a tax line for the given rate identifier.
// The rate identifier must be non-empty.
func NewTaxLine(rateID string, amount kernel.Money) (TaxLine, error) {
	if rateID == "" {
		return TaxLine{}, errs.NewValueIsRequiredError("tax rate identifier")
	}

	return TaxLine{rateID: rateID, amount: amount}, nil
}

// RateID returns the tax-rate identifier.
func (t TaxLine) RateID() string {
	return t.rateID
}

// Amount returns the accumulated tax amount for the rate.
func (t TaxLine) Amount() kernel.Money {
	return t.amount
}
