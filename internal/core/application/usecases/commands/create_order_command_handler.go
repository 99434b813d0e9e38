package commands

import (
	"context"
	"time"

	"invoicing/internal/core/domain/model/order"
)

// CreateOrderCommandHandler handles the business logic for order creation.
// Creates new orders in Pending status with their lines, tax lines, and
// recalculated totals.
type CreateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewCreateOrderCommandHandler creates a handler for order creation operations.
// Requires an OrderUoWFactory for transactional persistence.
func NewCreateOrderCommandHandler(uowFactory OrderUoWFactory) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the order creation command.
// Builds the aggregate from the command's field set, recalculates totals, and
// uses a transaction to ensure the order is properly persisted or rolled back.
func (h *CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	newOrder, err := order.NewOrder(cmd.OrderID(), time.Now(), cmd.CustomerID(), cmd.Billing(), cmd.Shipping())
	if err != nil {
		return err
	}

	for _, li := range cmd.LineItems() {
		newOrder.AddLineItem(li)
	}
	for _, tl := range cmd.TaxLines() {
		if err = newOrder.ApplyTaxLine(tl); err != nil {
			return err
		}
	}
	newOrder.RecalculateTotals()

	orderRepo := uow.OrderRepository()
	if err = orderRepo.Add(ctx, newOrder); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	return nil
}
