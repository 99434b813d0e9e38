// Package orderrepo provides data transfer objects and mapping functions for order persistence.
// This package implements the repository pattern for the order domain aggregate, handling
// the conversion between domain entities and database representations.
package orderrepo

import (
	"time"

	"invoicing/internal/core/domain/model/kernel"
	"invoicing/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderDTO represents the database structure for persisting order aggregates.
// Line items, tax lines, and metadata live in child tables keyed by order ID
// and are loaded and saved together with the parent row.
type OrderDTO struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey"`
	CreatedAt  time.Time  `gorm:"index"`
	CustomerID *uuid.UUID `gorm:"type:uuid;index"`
	Status     int        `gorm:"index"`

	Billing  AddressDTO `gorm:"embedded;embeddedPrefix:billing_"`
	Shipping AddressDTO `gorm:"embedded;embeddedPrefix:shipping_"`

	Subtotal decimal.Decimal `gorm:"type:numeric"`
	Total    decimal.Decimal `gorm:"type:numeric"`

	LineItems []LineItemDTO `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	TaxLines  []TaxLineDTO  `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Metadata  []MetadataDTO `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for order entities.
// Overrides GORM's default naming convention to use "orders".
func (OrderDTO) TableName() string {
	return "orders"
}

// AddressDTO represents the embedded billing or shipping contact columns
// within the order table.
type AddressDTO struct {
	FirstName string
	LastName  string
	Company   string
	Email     string
	Phone     string
	Address1  string
	Address2  string
	City      string
	State     string
	Postcode  string
	Country   string
}

// LineItemDTO represents one order line in the order_line_items table.
// Position preserves the line sequence, which carries meaning for merge
// targets: one line per source, in merge input order.
type LineItemDTO struct {
	ID          uint      `gorm:"primaryKey;autoIncrement"`
	OrderID     uuid.UUID `gorm:"type:uuid;index"`
	Position    int
	Name        string
	Quantity    int
	TaxClass    string
	Subtotal    decimal.Decimal `gorm:"type:numeric"`
	Total       decimal.Decimal `gorm:"type:numeric"`
	SubtotalTax decimal.Decimal `gorm:"type:numeric"`
	TotalTax    decimal.Decimal `gorm:"type:numeric"`
	ProductID   *uuid.UUID      `gorm:"type:uuid"`
}

// TableName specifies the database table name for order line items.
func (LineItemDTO) TableName() string {
	return "order_line_items"
}

// TaxLineDTO represents one per-rate tax line in the order_tax_lines table.
type TaxLineDTO struct {
	ID       uint            `gorm:"primaryKey;autoIncrement"`
	OrderID  uuid.UUID       `gorm:"type:uuid;index"`
	Position int
	RateID   string          `gorm:"column:rate_id"`
	Amount   decimal.Decimal `gorm:"type:numeric"`
}

// TableName specifies the database table name for order tax lines.
func (TaxLineDTO) TableName() string {
	return "order_tax_lines"
}

// MetadataDTO represents one key-value annotation in the order_metadata table.
// The merge workflow's tracking flags (merged, aggregate, invoiced) and link
// annotations (merged_into, merged_from) are stored here.
type MetadataDTO struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	OrderID   uuid.UUID `gorm:"type:uuid;index;uniqueIndex:idx_order_meta_key"`
	MetaKey   string    `gorm:"column:meta_key;uniqueIndex:idx_order_meta_key"`
	MetaValue string    `gorm:"column:meta_value"`
}

// TableName specifies the database table name for order metadata.
func (MetadataDTO) TableName() string {
	return "order_metadata"
}

// fromDomain converts an order domain aggregate to its database representation.
func fromDomain(aggregate *order.Order) OrderDTO {
	var customerID *uuid.UUID
	if id := aggregate.Customer(); id != nil {
		raw := id.Bytes()
		customerID = &raw
	}

	dto := OrderDTO{
		ID:         aggregate.ID().Bytes(),
		CreatedAt:  aggregate.CreatedAt(),
		CustomerID: customerID,
		Status:     int(aggregate.Status()),
		Billing:    addressFromDomain(aggregate.BillingAddress()),
		Shipping:   addressFromDomain(aggregate.ShippingAddress()),
		Subtotal:   aggregate.Subtotal().Decimal(),
		Total:      aggregate.Total().Decimal(),
	}

	for i, li := range aggregate.LineItems() {
		var productID *uuid.UUID
		if id := li.ProductID(); id != nil {
			raw := id.Bytes()
			productID = &raw
		}

		dto.LineItems = append(dto.LineItems, LineItemDTO{
			OrderID:     dto.ID,
			Position:    i,
			Name:        li.Name(),
			Quantity:    li.Quantity(),
			TaxClass:    li.TaxClass(),
			Subtotal:    li.Subtotal().Decimal(),
			Total:       li.Total().Decimal(),
			SubtotalTax: li.SubtotalTax().Decimal(),
			TotalTax:    li.TotalTax().Decimal(),
			ProductID:   productID,
		})
	}

	for i, tl := range aggregate.TaxLines() {
		dto.TaxLines = append(dto.TaxLines, TaxLineDTO{
			OrderID:  dto.ID,
			Position: i,
			RateID:   tl.RateID(),
			Amount:   tl.Amount().Decimal(),
		})
	}

	for key, value := range aggregate.Metadata() {
		dto.Metadata = append(dto.Metadata, MetadataDTO{
			OrderID:   dto.ID,
			MetaKey:   key,
			MetaValue: value,
		})
	}

	return dto
}

// toDomain converts a database DTO to an order domain aggregate.
// Reconstructs the complete aggregate including lines, tax lines, totals, and
// metadata using RestoreOrder. Child rows must be preloaded in position order.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	var customerID *kernel.UUID
	if dto.CustomerID != nil {
		cID, customerErr := kernel.UUIDFromBytes((*dto.CustomerID)[:])
		if customerErr != nil {
			return nil, customerErr
		}

		customerID = &cID
	}

	lineItems := make([]order.LineItem, 0, len(dto.LineItems))
	for _, liDTO := range dto.LineItems {
		var productID *kernel.UUID
		if liDTO.ProductID != nil {
			pID, productErr := kernel.UUIDFromBytes((*liDTO.ProductID)[:])
			if productErr != nil {
				return nil, productErr
			}

			productID = &pID
		}

		li, liErr := order.NewLineItem(
			liDTO.Name,
			liDTO.Quantity,
			liDTO.TaxClass,
			kernel.NewMoney(liDTO.Subtotal),
			kernel.NewMoney(liDTO.Total),
			kernel.NewMoney(liDTO.SubtotalTax),
			kernel.NewMoney(liDTO.TotalTax),
			productID,
		)
		if liErr != nil {
			return nil, liErr
		}
		lineItems = append(lineItems, li)
	}

	taxLines := make([]order.TaxLine, 0, len(dto.TaxLines))
	for _, tlDTO := range dto.TaxLines {
		tl, tlErr := order.NewTaxLine(tlDTO.RateID, kernel.NewMoney(tlDTO.Amount))
		if tlErr != nil {
			return nil, tlErr
		}
		taxLines = append(taxLines, tl)
	}

	metadata := make(map[string]string, len(dto.Metadata))
	for _, mDTO := range dto.Metadata {
		metadata[mDTO.MetaKey] = mDTO.MetaValue
	}

	return order.RestoreOrder(
		id,
		dto.CreatedAt,
		customerID,
		order.Status(dto.Status),
		addressToDomain(dto.Billing),
		addressToDomain(dto.Shipping),
		lineItems,
		taxLines,
		kernel.NewMoney(dto.Subtotal),
		kernel.NewMoney(dto.Total),
		metadata,
	)
}

func addressFromDomain(a order.Address) AddressDTO {
	return AddressDTO{
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

func addressToDomain(dto AddressDTO) order.Address {
	return order.Address{
		FirstName: dto.FirstName,
		LastName:  dto.LastName,
		Company:   dto.Company,
		Email:     dto.Email,
		Phone:     dto.Phone,
		Address1:  dto.Address1,
		Address2:  dto.Address2,
		City:      dto.City,
		State:     dto.State,
		Postcode:  dto.Postcode,
		Country:   dto.Country,
	}
}
