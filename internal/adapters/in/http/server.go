// Package http provides the inbound HTTP adapter: an echo server exposing the
// administrative order-merge surface over the application's command and query
// handlers.
package http

import (
	"errors"
	"net/http"
	"time"

	"invoicing/internal/core/application/usecases/commands"
	"invoicing/internal/core/application/usecases/queries"
	"invoicing/internal/core/domain/model/kernel"
	"invoicing/internal/core/domain/model/order"
	"invoicing/internal/core/domain/services"
	"invoicing/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Error is the JSON error envelope returned by every failing endpoint.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Address carries the contact records of an order in requests and responses.
type Address struct {
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Company   string `json:"company,omitempty"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Address1  string `json:"address_1,omitempty"`
	Address2  string `json:"address_2,omitempty"`
	City      string `json:"city,omitempty"`
	State     string `json:"state,omitempty"`
	Postcode  string `json:"postcode,omitempty"`
	Country   string `json:"country,omitempty"`
}

// LineItem carries one order line in the create-order request.
// Monetary fields are decimal strings.
type LineItem struct {
	Name        string  `json:"name"`
	Quantity    int     `json:"quantity"`
	TaxClass    string  `json:"tax_class,omitempty"`
	Subtotal    string  `json:"subtotal"`
	Total       string  `json:"total"`
	SubtotalTax string  `json:"subtotal_tax,omitempty"`
	TotalTax    string  `json:"total_tax,omitempty"`
	ProductID   *string `json:"product_id,omitempty"`
}

// TaxLine carries one per-rate tax line in the create-order request.
type TaxLine struct {
	RateID string `json:"rate_id"`
	Amount string `json:"amount"`
}

// NewOrder is the request body for POST /api/v1/orders.
type NewOrder struct {
	CustomerID *string    `json:"customer_id,omitempty"`
	Billing    Address    `json:"billing"`
	Shipping   Address    `json:"shipping"`
	LineItems  []LineItem `json:"line_items"`
	TaxLines   []TaxLine  `json:"tax_lines,omitempty"`
}

// CreatedOrder is the response body for POST /api/v1/orders.
type CreatedOrder struct {
	ID string `json:"id"`
}

// MergeRequest is the request body for POST /api/v1/orders/merge.
type MergeRequest struct {
	OrderIDs []string `json:"order_ids"`
}

// MergeResponse reports a completed merge: the created aggregate and the
// consumed sources in input order.
type MergeResponse struct {
	TargetID  string   `json:"target_id"`
	SourceIDs []string `json:"source_ids"`
}

// AggregateOrder is one row of GET /api/v1/orders/aggregates.
type AggregateOrder struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Total     string    `json:"total"`
	Invoiced  bool      `json:"invoiced"`
}

// MergeableOrder is one row of GET /api/v1/orders/mergeable.
type MergeableOrder struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Total     string    `json:"total"`
	Merged    bool      `json:"merged"`
}

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	createOrderHandler  commands.CreateOrderCommandHandler
	mergeOrdersHandler  commands.MergeOrdersCommandHandler
	markInvoicedHandler commands.MarkInvoicedCommandHandler

	// Query handlers
	getAggregateOrdersHandler queries.GetAggregateOrdersQueryHandler
	getMergeableOrdersHandler queries.GetMergeableOrdersQueryHandler
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	createOrderHandler commands.CreateOrderCommandHandler,
	mergeOrdersHandler commands.MergeOrdersCommandHandler,
	markInvoicedHandler commands.MarkInvoicedCommandHandler,
	getAggregateOrdersHandler queries.GetAggregateOrdersQueryHandler,
	getMergeableOrdersHandler queries.GetMergeableOrdersQueryHandler,
) *Server {
	return &Server{
		createOrderHandler:        createOrderHandler,
		mergeOrdersHandler:        mergeOrdersHandler,
		markInvoicedHandler:       markInvoicedHandler,
		getAggregateOrdersHandler: getAggregateOrdersHandler,
		getMergeableOrdersHandler: getMergeableOrdersHandler,
	}
}

// RegisterRoutes attaches all order-merge endpoints to the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.POST("/api/v1/orders", s.CreateOrder)
	e.POST("/api/v1/orders/merge", s.MergeOrders)
	e.POST("/api/v1/orders/:id/invoice", s.InvoiceOrder)
	e.GET("/api/v1/orders/aggregates", s.GetAggregateOrders)
	e.GET("/api/v1/orders/mergeable", s.GetMergeableOrders)
	e.GET("/health", s.Health)
}

// CreateOrder handles POST /api/v1/orders - registers a new order.
func (s *Server) CreateOrder(ctx echo.Context) error {
	var newOrder NewOrder
	if err := ctx.Bind(&newOrder); err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	customerID, err := parseOptionalUUID(newOrder.CustomerID)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid customer ID: " + err.Error(),
		})
	}

	lineItems, err := lineItemsToDomain(newOrder.LineItems)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid line item: " + err.Error(),
		})
	}

	taxLines, err := taxLinesToDomain(newOrder.TaxLines)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid tax line: " + err.Error(),
		})
	}

	orderID := kernel.NewUUID()
	cmd, err := commands.NewCreateOrderCommand(
		orderID,
		customerID,
		addressToDomain(newOrder.Billing),
		addressToDomain(newOrder.Shipping),
		lineItems,
		taxLines,
	)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid order data: " + err.Error(),
		})
	}

	if handleErr := s.createOrderHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return ctx.JSON(http.StatusInternalServerError, Error{
			Code:    http.StatusInternalServerError,
			Message: "Failed to create order",
		})
	}

	return ctx.JSON(http.StatusCreated, CreatedOrder{ID: orderID.String()})
}

// MergeOrders handles POST /api/v1/orders/merge - merges the given source
// orders into a new aggregate order.
func (s *Server) MergeOrders(ctx echo.Context) error {
	var req MergeRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	sourceIDs := make([]kernel.UUID, 0, len(req.OrderIDs))
	for _, raw := range req.OrderIDs {
		id, err := kernel.UUIDFromString(raw)
		if err != nil {
			return ctx.JSON(http.StatusBadRequest, Error{
				Code:    http.StatusBadRequest,
				Message: "Invalid order ID: " + raw,
			})
		}
		sourceIDs = append(sourceIDs, id)
	}

	cmd, err := commands.NewMergeOrdersCommand(sourceIDs)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: err.Error(),
		})
	}

	result, err := s.mergeOrdersHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return ctx.JSON(mergeErrorStatus(err), Error{
			Code:    mergeErrorStatus(err),
			Message: err.Error(),
		})
	}

	ids := make([]string, len(result.SourceIDs))
	for i, id := range result.SourceIDs {
		ids[i] = id.String()
	}

	return ctx.JSON(http.StatusCreated, MergeResponse{
		TargetID:  result.TargetID.String(),
		SourceIDs: ids,
	})
}

// InvoiceOrder handles POST /api/v1/orders/:id/invoice - flags an aggregate
// order as billed.
func (s *Server) InvoiceOrder(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid order ID",
		})
	}

	cmd, err := commands.NewMarkInvoicedCommand(orderID)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: err.Error(),
		})
	}

	if err := s.markInvoicedHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		switch {
		case errors.Is(err, errs.ErrObjectNotFound):
			return ctx.JSON(http.StatusNotFound, Error{
				Code:    http.StatusNotFound,
				Message: err.Error(),
			})
		case errors.Is(err, errs.ErrValueIsInvalid):
			return ctx.JSON(http.StatusConflict, Error{
				Code:    http.StatusConflict,
				Message: err.Error(),
			})
		default:
			return ctx.JSON(http.StatusInternalServerError, Error{
				Code:    http.StatusInternalServerError,
				Message: "Failed to invoice order",
			})
		}
	}

	return ctx.NoContent(http.StatusNoContent)
}

// GetAggregateOrders handles GET /api/v1/orders/aggregates - lists all merge
// targets with their billing state.
func (s *Server) GetAggregateOrders(ctx echo.Context) error {
	query := queries.NewGetAggregateOrdersQuery()

	aggregates, err := s.getAggregateOrdersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, Error{
			Code:    http.StatusInternalServerError,
			Message: "Failed to retrieve aggregate orders",
		})
	}

	response := make([]AggregateOrder, len(aggregates))
	for i, a := range aggregates {
		response[i] = AggregateOrder{
			ID:        a.ID.String(),
			CreatedAt: a.CreatedAt,
			Total:     a.Total.String(),
			Invoiced:  a.Invoiced,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// GetMergeableOrders handles GET /api/v1/orders/mergeable - lists merge
// candidates, badging orders already consumed by an earlier merge.
func (s *Server) GetMergeableOrders(ctx echo.Context) error {
	query := queries.NewGetMergeableOrdersQuery()

	candidates, err := s.getMergeableOrdersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, Error{
			Code:    http.StatusInternalServerError,
			Message: "Failed to retrieve merge candidates",
		})
	}

	response := make([]MergeableOrder, len(candidates))
	for i, c := range candidates {
		response[i] = MergeableOrder{
			ID:        c.ID.String(),
			CreatedAt: c.CreatedAt,
			Total:     c.Total.String(),
			Merged:    c.Merged,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// Health handles GET /health - liveness probe.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// mergeErrorStatus maps merge failures onto HTTP status codes: missing
// sources are 404, already-consumed sources are 409, everything else 500.
func mergeErrorStatus(err error) int {
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, commands.ErrSourceAlreadyMerged) || errors.Is(err, order.ErrOrderAlreadyMerged):
		return http.StatusConflict
	case errors.Is(err, services.ErrNotEnoughSources) || errors.Is(err, commands.ErrInsufficientSources):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func parseOptionalUUID(raw *string) (*kernel.UUID, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}

	id, err := kernel.UUIDFromString(*raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func addressToDomain(a Address) order.Address {
	return order.Address{
		FirstName: a.FirstName,
		LastName:  a.LastName,
		Company:   a.Company,
		Email:     a.Email,
		Phone:     a.Phone,
		Address1:  a.Address1,
		Address2:  a.Address2,
		City:      a.City,
		State:     a.State,
		Postcode:  a.Postcode,
		Country:   a.Country,
	}
}

func lineItemsToDomain(items []LineItem) ([]order.LineItem, error) {
	lineItems := make([]order.LineItem, 0, len(items))
	for _, item := range items {
		subtotal, err := kernel.NewMoneyFromString(item.Subtotal)
		if err != nil {
			return nil, err
		}
		total, err := kernel.NewMoneyFromString(item.Total)
		if err != nil {
			return nil, err
		}
		subtotalTax, err := optionalMoney(item.SubtotalTax)
		if err != nil {
			return nil, err
		}
		totalTax, err := optionalMoney(item.TotalTax)
		if err != nil {
			return nil, err
		}
		productID, err := parseOptionalUUID(item.ProductID)
		if err != nil {
			return nil, err
		}

		li, err := order.NewLineItem(
			item.Name, item.Quantity, item.TaxClass, subtotal, total, subtotalTax, totalTax, productID)
		if err != nil {
			return nil, err
		}
		lineItems = append(lineItems, li)
	}
	return lineItems, nil
}

func taxLinesToDomain(lines []TaxLine) ([]order.TaxLine, error) {
	taxLines := make([]order.TaxLine, 0, len(lines))
	for _, line := range lines {
		amount, err := kernel.NewMoneyFromString(line.Amount)
		if err != nil {
			return nil, err
		}

		tl, err := order.NewTaxLine(line.RateID, amount)
		if err != nil {
			return nil, err
		}
		taxLines = append(taxLines, tl)
	}
	return taxLines, nil
}

func optionalMoney(raw string) (kernel.Money, error) {
	if raw == "" {
		return kernel.ZeroMoney(), nil
	}
	return kernel.NewMoneyFromString(raw)
}
