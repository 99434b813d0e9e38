package order

import (
	"fmt"

	"invoicing/internal/pkg/errs"
)

// Status represents the lifecycle state of an order.
//
// The host's own statuses are Pending, Processing, and Completed. The merge
// workflow inserts three statuses immediately after Pending: Merged for source
// orders consumed by a merge, Aggregated for the synthetic target order, and
// Invoiced once an aggregate has been billed. These extra statuses are only
// traversed when the status tracking strategy is selected; the canonical
// metadata strategy leaves statuses untouched.
//
// State transitions driven by this package:
//
//	Pending ──> Merged                 (source consumed by a merge)
//	Pending ──> Aggregated ──> Invoiced (aggregate target lifecycle)
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Pending is the initial status of every order.
	Pending

	// Merged marks a source order that has been consumed by a merge.
	Merged

	// Aggregated marks a synthetic target order produced by a merge.
	Aggregated

	// Invoiced marks an aggregate order that has been billed.
	Invoiced

	// Processing is the host's in-fulfilment status.
	Processing

	// Completed is the host's final status for fulfilled orders.
	Completed
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:    "Unknown",
		Pending:    "Pending",
		Merged:     "Merged",
		Aggregated: "Aggregated",
		Invoiced:   "Invoiced",
		Processing: "Processing",
		Completed:  "Completed",
	}
}

func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // Unknown is intentionally excluded as it's invalid
	return map[Status]string{
		Pending:    "Pending",
		Merged:     "Merged",
		Aggregated: "Aggregated",
		Invoiced:   "Invoiced",
		Processing: "Processing",
		Completed:  "Completed",
	}
}

// Validate checks if the Status value is valid.
// Unknown (0) and any out-of-range values are invalid.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the human-readable name of the status.
// Implements fmt.Stringer and is safe to call on any Status value.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// ValidateMerge checks whether an order in this status may be consumed by a merge.
// Orders already consumed (Merged) or produced by a merge (Aggregated, Invoiced)
// cannot be merged again.
func (s Status) ValidateMerge() error {
	if err := s.Validate(); err != nil {
		return err
	}
	if s == Merged || s == Aggregated || s == Invoiced {
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to merge", s.String()),
		)
	}
	return nil
}

// Merge transitions the status to Merged.
//
// Valid from any host status that has not yet been through the merge workflow.
// Returns (0, error) if the order was already merged, aggregated, or invoiced.
func (s Status) Merge() (Status, error) {
	if err := s.ValidateMerge(); err != nil {
		return 0, err
	}

	return Merged, nil
}

// Aggregate transitions the status to Aggregated.
//
// Valid transitions:
//   - Pending -> Aggregated
//
// Only freshly created target orders become aggregates; orders that entered
// fulfilment or the merge workflow are rejected.
func (s Status) Aggregate() (Status, error) {
	if s != Pending {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to aggregate", s.String()),
		)
	}

	return Aggregated, nil
}

// Invoice transitions the status to Invoiced.
//
// Valid transitions:
//   - Aggregated -> Invoiced
//
// Any other starting status is rejected: only aggregate orders are billed.
func (s Status) Invoice() (Status, error) {
	if s != Aggregated {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to invoice", s.String()),
		)
	}

	return Invoiced, nil
}
