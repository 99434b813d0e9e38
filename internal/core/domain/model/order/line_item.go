package order

import (
	"fmt"

	"invoicing/internal/core/domain/model/kernel"
	"invoicing/internal/pkg/errs"
)

// LineItem is one purchasable entry on an order together with its price
// breakdown. It is an immutable value object; amounts are recorded, not
// derived, so a line may legitimately carry zero tax while the order holds
// aggregated tax lines (the synthesized lines of a merge do exactly that).
type LineItem struct {
	name        string
	quantity    int
	taxClass    string
	subtotal    kernel.Money
	total       kernel.Money
	subtotalTax kernel.Money
	totalTax    kernel.Money
	productID   *kernel.UUID
}

// NewLineItem creates a validated line item.
// The name must be non-empty and the quantity positive; monetary amounts are
// recorded as supplied.
func NewLineItem(
	name string,
	quantity int,
	taxClass string,
	subtotal, total, subtotalTax, totalTax kernel.Money,
	productID *kernel.UUID,
) (LineItem, error) {
	if name == "" {
		return LineItem{}, errs.NewValueIsRequiredError("line item name")
	}
	if quantity <= 0 {
		return LineItem{}, errs.NewValueIsInvalidErrorWithCause(
			"quantity is invalid", fmt.Errorf("%d is not greater than 0", quantity))
	}
	if productID != nil {
		if err := productID.Validate(); err != nil {
			return LineItem{}, err
		}
	}

	return LineItem{
		name:        name,
		quantity:    quantity,
		taxClass:    taxClass,
		subtotal:    subtotal,
		total:       total,
		subtotalTax: subtotalTax,
		totalTax:    totalTax,
		productID:   productID,
	}, nil
}

// Name returns the line item's display name.
func (li LineItem) Name() string {
	return li.name
}

// Quantity returns the purchased quantity.
func (li LineItem) Quantity() int {
	return li.quantity
}

// TaxClass returns the tax-class reference, empty when untaxed.
func (li LineItem) TaxClass() string {
	return li.taxClass
}

// Subtotal returns the pre-discount line amount.
func (li LineItem) Subtotal() kernel.Money {
	return li.subtotal
}

// Total returns the final line amount.
func (li LineItem) Total() kernel.Money {
	return li.total
}

// SubtotalTax returns the tax recorded against the subtotal.
func (li LineItem) SubtotalTax() kernel.Money {
	return li.subtotalTax
}

// TotalTax returns the tax recorded against the total.
func (li LineItem) TotalTax() kernel.Money {
	return li.totalTax
}

// ProductID returns the referenced product, or nil for synthesized lines.
func (li LineItem) ProductID() *kernel.UUID {
	return li.productID
}
