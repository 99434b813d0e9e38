package ports

import (
	"context"

	"invoicing/internal/core/domain/model/kernel"
	"invoicing/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
// Provides methods for storing, retrieving, and querying order entities
// based on their merge-tracking state.
type OrderRepository interface {
	// Add persists a new order aggregate to storage.
	// The order must be valid and not already exist in the repository.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate.
	// The order must exist in the repository and be valid.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate by its unique identifier.
	// Returns the complete order with its lines, tax lines, and metadata.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// FindMerged retrieves all orders flagged as consumed by a merge,
	// under either tracking strategy. Used by the reconciliation job to
	// detect sources whose aggregate target has gone missing.
	FindMerged(ctx context.Context) ([]*order.Order, error)
}
