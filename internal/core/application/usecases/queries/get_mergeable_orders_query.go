package queries

import (
	"errors"
	"time"

	"invoicing/internal/core/domain/model/kernel"
	"invoicing/internal/pkg/guard"
)

var ErrGetMergeableOrdersQueryIsNotConstructed = errors.New(
	"GetMergeableOrdersQuery must be created via NewGetMergeableOrdersQuery constructor",
)

// GetMergeableOrdersQuery retrieves all non-aggregate orders, the candidates
// for the merge picker. Already consumed orders stay in the list carrying the
// Merged flag so the UI can badge them instead of hiding them.
type GetMergeableOrdersQuery struct {
	guard guard.ConstructorGuard
}

// NewGetMergeableOrdersQuery creates a query to retrieve merge candidates.
func NewGetMergeableOrdersQuery() GetMergeableOrdersQuery {
	return GetMergeableOrdersQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetMergeableOrdersQueryIsNotConstructed if validation fails.
func (q GetMergeableOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetMergeableOrdersQueryIsNotConstructed)
}

// GetMergeableOrdersQueryResponse represents one merge candidate in the list.
// Merged marks orders already consumed by an earlier merge.
type GetMergeableOrdersQueryResponse struct {
	ID        kernel.UUID
	CreatedAt time.Time
	Total     kernel.Money
	Merged    bool
}
