// Package queries contains read-only operations over the order store.
// Implements the Query side of the CQRS architecture: handlers run raw SQL
// against the database and return plain response structs, bypassing the
// aggregate reconstruction done by repositories.
package queries

import (
	"context"
	"time"

	"invoicing/internal/core/domain/model/kernel"
	"invoicing/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GetAggregateOrdersQueryHandler retrieves aggregate orders from the database.
// An order qualifies when it carries the aggregate metadata flag or sits in
// the Aggregated/Invoiced status, so both tracking strategies are covered.
type GetAggregateOrdersQueryHandler struct {
	db *gorm.DB
}

// NewGetAggregateOrdersQueryHandler creates a handler for aggregate order queries.
// Requires a GORM database connection for query execution.
func NewGetAggregateOrdersQueryHandler(db *gorm.DB) GetAggregateOrdersQueryHandler {
	return GetAggregateOrdersQueryHandler{db: db}
}

// Handle executes the query to retrieve all aggregate orders.
// Results are sorted by creation time, newest first, matching the list view.
func (h GetAggregateOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetAggregateOrdersQuery,
) ([]GetAggregateOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	aggregates := make([]GetAggregateOrdersQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			o.id,
			o.created_at,
			o.total,
			(EXISTS (
				SELECT 1 FROM order_metadata mi
				WHERE mi.order_id = o.id AND mi.meta_key = ? AND mi.meta_value = ?
			) OR o.status = ?) AS invoiced
		FROM orders o
		WHERE EXISTS (
			SELECT 1 FROM order_metadata ma
			WHERE ma.order_id = o.id AND ma.meta_key = ? AND ma.meta_value = ?
		) OR o.status IN (?, ?)
		ORDER BY o.created_at DESC, o.id
	`, order.MetaInvoiced, "true", order.Invoiced,
		order.MetaAggregate, "true", order.Aggregated, order.Invoiced).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var resp GetAggregateOrdersQueryResponse
		var id uuid.UUID
		var createdAt time.Time
		var total decimal.Decimal
		var invoiced bool

		if err = rows.Scan(&id, &createdAt, &total, &invoiced); err != nil {
			return nil, err
		}

		orderID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}

		resp.ID = orderID
		resp.CreatedAt = createdAt
		resp.Total = kernel.NewMoney(total)
		resp.Invoiced = invoiced
		aggregates = append(aggregates, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return aggregates, nil
}
