package commands

import (
	"context"

	"invoicing/internal/core/domain/services"
)

// MarkInvoicedCommandHandler handles the business logic for billing an
// aggregate order. Only aggregates can be invoiced; the tracking policy
// decides whether the flag rides on metadata or on the status.
type MarkInvoicedCommandHandler struct {
	uowFactory OrderUoWFactory
	policy     services.TrackingPolicy
}

// NewMarkInvoicedCommandHandler creates a handler for invoicing operations.
func NewMarkInvoicedCommandHandler(
	uowFactory OrderUoWFactory,
	policy services.TrackingPolicy,
) MarkInvoicedCommandHandler {
	return MarkInvoicedCommandHandler{
		uowFactory: uowFactory,
		policy:     policy,
	}
}

// Handle processes the invoicing command.
// Loads the aggregate, applies the invoiced mark per the tracking policy, and
// persists the change transactionally.
func (h *MarkInvoicedCommandHandler) Handle(ctx context.Context, cmd MarkInvoicedCommand) error {
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

	orderRepo := uow.OrderRepository()
	aggregate, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	if err = h.policy.MarkInvoiced(aggregate); err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	return nil
}
