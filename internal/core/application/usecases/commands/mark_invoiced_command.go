package commands

import (
	"errors"

	"invoicing/internal/core/domain/model/kernel"
	"invoicing/internal/pkg/guard"
)

var ErrMarkInvoicedCommandIsNotConstructed = errors.New(
	"MarkInvoicedCommand must be created via NewMarkInvoicedCommand constructor",
)

// MarkInvoicedCommand represents a request to mark an aggregate order as billed.
type MarkInvoicedCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewMarkInvoicedCommand creates a command to mark the given aggregate as invoiced.
func NewMarkInvoicedCommand(orderID kernel.UUID) (MarkInvoicedCommand, error) {
	invoiceCommand := MarkInvoicedCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := invoiceCommand.setOrderID(orderID); err != nil {
		return MarkInvoicedCommand{}, err
	}

	return invoiceCommand, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrMarkInvoicedCommandIsNotConstructed if validation fails.
func (c MarkInvoicedCommand) Validate() error {
	return c.guard.Validate(ErrMarkInvoicedCommandIsNotConstructed)
}

// OrderID returns the aggregate order's unique identifier.
func (c MarkInvoicedCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c *MarkInvoicedCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}
