package commands

import (
	"errors"

	"invoicing/internal/core/domain/model/kernel"
	"invoicing/internal/pkg/guard"
)

var (
	ErrMergeOrdersCommandIsNotConstructed = errors.New(
		"MergeOrdersCommand must be created via NewMergeOrdersCommand constructor",
	)

	// ErrInsufficientSources is returned when fewer than two distinct source
	// order IDs are supplied. The command refuses to construct, so a rejected
	// merge performs zero reads and writes.
	ErrInsufficientSources = errors.New("at least two distinct source order IDs are required")
)

// MergeOrdersCommand represents a request to merge N source orders into one
// aggregate order for consolidated invoicing. The order of IDs matters: it
// decides the address tie-break and the sequence of synthesized line items.
//
// Example:
//
//	cmd, err := NewMergeOrdersCommand([]kernel.UUID{idA, idB})
//	if err != nil {
//	    return fmt.Errorf("invalid merge request: %w", err)
//	}
//
//	handler := NewMergeOrdersCommandHandler(uowFactory, merger, policy)
//	result, err := handler.Handle(ctx, cmd)
type MergeOrdersCommand struct { //nolint:recvcheck //using for validation
	sourceIDs []kernel.UUID

	guard guard.ConstructorGuard
}

// NewMergeOrdersCommand creates a command to merge the given source orders.
// Validates every ID and requires at least two distinct IDs; duplicates are
// dropped, keeping the first occurrence, so each source is merged exactly
// once. Returns ErrInsufficientSources when fewer than two distinct IDs
// remain.
func NewMergeOrdersCommand(sourceIDs []kernel.UUID) (MergeOrdersCommand, error) {
	mergeCommand := MergeOrdersCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := mergeCommand.setSourceIDs(sourceIDs); err != nil {
		return MergeOrdersCommand{}, err
	}

	return mergeCommand, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrMergeOrdersCommandIsNotConstructed if validation fails.
func (c MergeOrdersCommand) Validate() error {
	return c.guard.Validate(ErrMergeOrdersCommandIsNotConstructed)
}

// SourceIDs returns the source order IDs in the order they were supplied.
func (c MergeOrdersCommand) SourceIDs() []kernel.UUID {
	ids := make([]kernel.UUID, len(c.sourceIDs))
	copy(ids, c.sourceIDs)
	return ids
}

func (c *MergeOrdersCommand) setSourceIDs(sourceIDs []kernel.UUID) error {
	seen := make(map[kernel.UUID]struct{}, len(sourceIDs))
	distinct := make([]kernel.UUID, 0, len(sourceIDs))
	for _, id := range sourceIDs {
		if err := id.Validate(); err != nil {
			return err
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		distinct = append(distinct, id)
	}

	if len(distinct) < 2 {
		return ErrInsufficientSources
	}

	c.sourceIDs = distinct
	return nil
}
