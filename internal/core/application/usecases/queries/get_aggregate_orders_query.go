package queries

import (
	"errors"
	"time"

	"invoicing/internal/core/domain/model/kernel"
	"invoicing/internal/pkg/guard"
)

var ErrGetAggregateOrdersQueryIsNotConstructed = errors.New(
	"GetAggregateOrdersQuery must be created via NewGetAggregateOrdersQuery constructor",
)

// GetAggregateOrdersQuery retrieves all aggregate orders produced by merges.
// This backs the "Invoice Orders" list view: every order flagged as an
// aggregate, with its billing state.
//
// Example:
//
//	query := NewGetAggregateOrdersQuery()
//	handler := NewGetAggregateOrdersQueryHandler(db)
//
//	aggregates, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to list aggregate orders: %w", err)
//	}
type GetAggregateOrdersQuery struct {
	guard guard.ConstructorGuard
}

// NewGetAggregateOrdersQuery creates a query to retrieve aggregate orders.
// This is a parameterless query that fetches all merge targets.
func NewGetAggregateOrdersQuery() GetAggregateOrdersQuery {
	return GetAggregateOrdersQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetAggregateOrdersQueryIsNotConstructed if validation fails.
func (q GetAggregateOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetAggregateOrdersQueryIsNotConstructed)
}

// GetAggregateOrdersQueryResponse represents one aggregate order in the list.
type GetAggregateOrdersQueryResponse struct {
	ID        kernel.UUID
	CreatedAt time.Time
	Total     kernel.Money
	Invoiced  bool
}
