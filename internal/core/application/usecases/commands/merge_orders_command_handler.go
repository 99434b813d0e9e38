package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"invoicing/internal/core/domain/model/kernel"
	"invoicing/internal/core/domain/model/order"
	"invoicing/internal/core/domain/services"
)

// ErrSourceAlreadyMerged is returned when one of the requested source orders
// was already consumed by an earlier merge. The check runs inside the merge
// transaction, before anything is written.
var ErrSourceAlreadyMerged = errors.New("source order has already been merged")

// MergeOrdersResult reports the outcome of a successful merge: the ID of the
// created aggregate order and the consumed sources in input order.
type MergeOrdersResult struct {
	TargetID  kernel.UUID
	SourceIDs []kernel.UUID
}

// MergeOrdersCommandHandler handles the business logic for merging orders.
// It loads the requested sources, runs the OrderMerger to stage the aggregate
// in memory, then persists the target and the flagged sources in one
// transaction. A failure at any step leaves no partial state behind.
type MergeOrdersCommandHandler struct {
	uowFactory OrderUoWFactory
	merger     services.OrderMerger
	policy     services.TrackingPolicy
}

// NewMergeOrdersCommandHandler creates a handler for merge operations.
// Requires an OrderUoWFactory for transactional persistence, the OrderMerger
// domain service, and the active tracking policy.
func NewMergeOrdersCommandHandler(
	uowFactory OrderUoWFactory,
	merger services.OrderMerger,
	policy services.TrackingPolicy,
) MergeOrdersCommandHandler {
	return MergeOrdersCommandHandler{
		uowFactory: uowFactory,
		merger:     merger,
		policy:     policy,
	}
}

// Handle processes the merge command.
//
// Within a single transaction: fetches every source in the requested order,
// rejects sources that are missing or already merged, computes the merge
// draft, creates the aggregate target, flags target and sources per the
// tracking policy, and persists everything. Store errors propagate unchanged.
//
// Returns:
//   - MergeOrdersResult: the target ID and consumed source IDs
//   - error: errs.ObjectNotFoundError when a source is missing,
//     ErrSourceAlreadyMerged when a source was consumed earlier, or any
//     validation/persistence error
func (h *MergeOrdersCommandHandler) Handle(ctx context.Context, cmd MergeOrdersCommand) (MergeOrdersResult, error) {
	if err := cmd.Validate(); err != nil {
		return MergeOrdersResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return MergeOrdersResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()

	sources := make([]*order.Order, 0, len(cmd.SourceIDs()))
	for _, id := range cmd.SourceIDs() {
		src, err := orderRepo.Get(ctx, id)
		if err != nil {
			return MergeOrdersResult{}, err
		}
		if src.IsMerged() {
			return MergeOrdersResult{}, fmt.Errorf("%w: %s", ErrSourceAlreadyMerged, id)
		}
		sources = append(sources, src)
	}

	draft, err := h.merger.Merge(sources)
	if err != nil {
		return MergeOrdersResult{}, err
	}

	target, err := order.NewOrder(kernel.NewUUID(), time.Now(), nil, order.Address{}, order.Address{})
	if err != nil {
		return MergeOrdersResult{}, err
	}
	if err = draft.ApplyTo(target); err != nil {
		return MergeOrdersResult{}, err
	}
	if err = h.policy.MarkTargetAggregate(target, draft.SourceIDs); err != nil {
		return MergeOrdersResult{}, err
	}

	for _, src := range sources {
		if err = h.policy.MarkSourceMerged(src, target.ID()); err != nil {
			return MergeOrdersResult{}, err
		}
		if err = orderRepo.Update(ctx, src); err != nil {
			return MergeOrdersResult{}, err
		}
	}

	if err = orderRepo.Add(ctx, target); err != nil {
		return MergeOrdersResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return MergeOrdersResult{}, err
	}

	return MergeOrdersResult{
		TargetID:  target.ID(),
		SourceIDs: draft.SourceIDs,
	}, nil
}
