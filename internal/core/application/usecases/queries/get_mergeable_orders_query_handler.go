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

// GetMergeableOrdersQueryHandler retrieves merge candidates from the database.
// Aggregate orders are excluded; consumed sources remain listed with the
// Merged flag set so the UI can badge them.
type GetMergeableOrdersQueryHandler struct {
	db *gorm.DB
}

// NewGetMergeableOrdersQueryHandler creates a handler for merge candidate queries.
// Requires a GORM database connection for query execution.
func NewGetMergeableOrdersQueryHandler(db *gorm.DB) GetMergeableOrdersQueryHandler {
	return GetMergeableOrdersQueryHandler{db: db}
}

// Handle executes the query to retrieve all merge candidates.
// Results are sorted by creation time, newest first.
func (h GetMergeableOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetMergeableOrdersQuery,
) ([]GetMergeableOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	candidates := make([]GetMergeableOrdersQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			o.id,
			o.created_at,
			o.total,
			(EXISTS (
				SELECT 1 FROM order_metadata mm
				WHERE mm.order_id = o.id AND mm.meta_key = ? AND mm.meta_value = ?
			) OR o.status = ?) AS merged
		FROM orders o
		WHERE NOT EXISTS (
			SELECT 1 FROM order_metadata ma
			WHERE ma.order_id = o.id AND ma.meta_key = ? AND ma.meta_value = ?
		) AND o.status NOT IN (?, ?)
		ORDER BY o.created_at DESC, o.id
	`, order.MetaMerged, "true", order.Merged,
		order.MetaAggregate, "true", order.Aggregated, order.Invoiced).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var resp GetMergeableOrdersQueryResponse
		var id uuid.UUID
		var createdAt time.Time
		var total decimal.Decimal
		var merged bool

		if err = rows.Scan(&id, &createdAt, &total, &merged); err != nil {
			return nil, err
		}

		orderID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}

		resp.ID = orderID
		resp.CreatedAt = createdAt
		resp.Total = kernel.NewMoney(total)
		resp.Merged = merged
		candidates = append(candidates, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return candidates, nil
}
