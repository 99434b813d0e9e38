package commands

import (
	"errors"

	"invoicing/internal/core/domain/model/kernel"
	"invoicing/internal/core/domain/model/order"
	"invoicing/internal/pkg/guard"
)

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// CreateOrderCommand represents a request to register a new order.
// Encapsulates the customer reference, contact records, line items, and
// per-rate tax lines of the order to create.
//
// Example:
//
//	orderID := kernel.NewUUID()
//	cmd, err := NewCreateOrderCommand(orderID, nil, billing, shipping, items, taxes)
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//
//	handler := NewCreateOrderCommandHandler(uowFactory)
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("failed to create order: %w", err)
//	}
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID    kernel.UUID
	customerID *kernel.UUID
	billing    order.Address
	shipping   order.Address
	lineItems  []order.LineItem
	taxLines   []order.TaxLine

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand creates a command to register a new order.
// Validates that the order ID is valid and the customer reference, when
// present, is a valid UUID. Line items and tax lines arrive pre-validated
// by their own constructors; either list may be empty.
func NewCreateOrderCommand(
	orderID kernel.UUID,
	customerID *kernel.UUID,
	billing order.Address,
	shipping order.Address,
	lineItems []order.LineItem,
	taxLines []order.TaxLine,
) (CreateOrderCommand, error) {
	orderCommand := CreateOrderCommand{
		billing:   billing,
		shipping:  shipping,
		lineItems: lineItems,
		taxLines:  taxLines,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		orderCommand.setOrderID(orderID),
		orderCommand.setCustomerID(customerID),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return orderCommand, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrCreateOrderCommandIsNotConstructed if validation fails.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

// OrderID returns the unique identifier for the order.
func (c CreateOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// CustomerID returns the optional customer reference.
func (c CreateOrderCommand) CustomerID() *kernel.UUID {
	return c.customerID
}

// Billing returns the billing contact record.
func (c CreateOrderCommand) Billing() order.Address {
	return c.billing
}

// Shipping returns the shipping contact record.
func (c CreateOrderCommand) Shipping() order.Address {
	return c.shipping
}

// LineItems returns the order's line items.
func (c CreateOrderCommand) LineItems() []order.LineItem {
	return c.lineItems
}

// TaxLines returns the order's per-rate tax lines.
func (c CreateOrderCommand) TaxLines() []order.TaxLine {
	return c.taxLines
}

func (c *CreateOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *CreateOrderCommand) setCustomerID(customerID *kernel.UUID) error {
	if customerID != nil {
		if err := customerID.Validate(); err != nil {
			return err
		}
	}

	c.customerID = customerID
	return nil
}
