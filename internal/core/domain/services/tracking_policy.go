package services

import (
	"fmt"

	"invoicing/internal/core/domain/model/kernel"
	"invoicing/internal/core/domain/model/order"
	"invoicing/internal/pkg/errs"
)

// TrackingStrategy selects how consumed and aggregate orders are tracked.
type TrackingStrategy string

const (
	// TrackingMetadata is the canonical strategy: statuses stay untouched and
	// the merged/aggregate/invoiced flags ride on order metadata. It composes
	// with any host status machine.
	TrackingMetadata TrackingStrategy = "metadata"

	// TrackingStatus transitions orders through the Merged, Aggregated, and
	// Invoiced statuses directly instead of flagging metadata.
	TrackingStatus TrackingStrategy = "status"
)

// Validate checks that the strategy is one of the two supported values.
func (s TrackingStrategy) Validate() error {
	if s != TrackingMetadata && s != TrackingStatus {
		return errs.NewValueIsInvalidErrorWithCause(
			"tracking strategy is invalid",
			fmt.Errorf("%q is not a supported tracking strategy", string(s)),
		)
	}
	return nil
}

// TrackingPolicy applies one chosen tracking strategy to orders touched by the
// merge workflow. Exactly one strategy is active at a time; the two are never
// mixed ambiguously.
//
// Regardless of strategy, the merged_into and merged_from link annotations are
// always recorded: they are references needed to detect orphaned sources, not
// state flags, and have no status-machine equivalent.
type TrackingPolicy struct {
	strategy TrackingStrategy
}

// NewTrackingPolicy creates a policy for the given strategy.
func NewTrackingPolicy(strategy TrackingStrategy) (TrackingPolicy, error) {
	if err := strategy.Validate(); err != nil {
		return TrackingPolicy{}, err
	}

	return TrackingPolicy{strategy: strategy}, nil
}

// Strategy returns the active tracking strategy.
func (p TrackingPolicy) Strategy() TrackingStrategy {
	return p.strategy
}

// MarkSourceMerged marks a source order as consumed by the merge that produced
// targetID. Under the metadata strategy the merged flag is set; under the
// status strategy the order transitions to Merged.
func (p TrackingPolicy) MarkSourceMerged(src *order.Order, targetID kernel.UUID) error {
	if p.strategy == TrackingStatus {
		if err := src.ToMerged(); err != nil {
			return err
		}
		return src.SetMetadata(order.MetaMergedInto, targetID.String())
	}

	return src.MarkMerged(targetID)
}

// MarkTargetAggregate marks a freshly created target order as the aggregate
// produced from sourceIDs.
func (p TrackingPolicy) MarkTargetAggregate(target *order.Order, sourceIDs []kernel.UUID) error {
	if p.strategy == TrackingStatus {
		if err := target.ToAggregated(); err != nil {
			return err
		}
		return target.RecordMergedFrom(sourceIDs)
	}

	return target.MarkAggregate(sourceIDs)
}

// MarkInvoiced marks an aggregate order as billed.
func (p TrackingPolicy) MarkInvoiced(target *order.Order) error {
	if p.strategy == TrackingStatus {
		return target.ToInvoiced()
	}

	return target.MarkInvoiced()
}
