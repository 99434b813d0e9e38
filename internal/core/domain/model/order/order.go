package order

import (
	"errors"
	"strings"
	"time"

	"invoicing/internal/core/domain/model/kernel"
	"invoicing/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created through
	// the NewOrder constructor. This ensures all orders are properly validated.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

	// ErrDuplicateTaxRate is returned when a tax line is applied for a rate
	// identifier the order already carries. An order holds exactly one tax line
	// per distinct rate.
	ErrDuplicateTaxRate = errors.New("order already carries a tax line for this rate")

	// ErrOrderAlreadyMerged is returned when a merge tries to consume an order
	// that was already consumed by an earlier merge.
	ErrOrderAlreadyMerged = errors.New("order has already been merged")
)

// Metadata keys used by the merge workflow. Metadata is the canonical tracking
// strategy: source and target statuses stay untouched and these host-managed
// annotations carry the merge state instead.
const (
	// MetaMerged flags a source order consumed by a merge.
	MetaMerged = "merged"
	// MetaAggregate flags a synthetic target order produced by a merge.
	MetaAggregate = "aggregate"
	// MetaInvoiced flags an aggregate order that has been billed.
	MetaInvoiced = "invoiced"
	// MetaMergedInto holds, on a source order, the ID of the aggregate it was merged into.
	MetaMergedInto = "merged_into"
	// MetaMergedFrom holds, on a target order, the comma-separated source order IDs.
	MetaMergedFrom = "merged_from"
)

// metaFlagValue is the value stored for boolean metadata flags.
const metaFlagValue = "true"

// Order represents a commercial transaction record in the system. It is the
// aggregate root that manages addresses, line items, tax lines, totals, and
// merge-tracking state.
//
// Order follows these invariants:
//   - Must have a valid unique identifier and a non-zero creation time
//   - Holds at most one tax line per distinct tax-rate identifier
//   - Totals are recomputed from line items plus recorded tax lines only
//   - Can only be created through NewOrder or RestoreOrder
//
// The Order struct uses private fields to ensure encapsulation and maintains
// its invariants through validated methods.
type Order struct {
	id         kernel.UUID
	createdAt  time.Time
	customerID *kernel.UUID
	status     Status

	billing  Address
	shipping Address

	lineItems []LineItem
	taxLines  []TaxLine

	subtotal kernel.Money
	total    kernel.Money

	// metadata carries host-managed key-value annotations, e.g. the merge flags.
	metadata map[string]string

	// isConstructed ensures the order was created via NewOrder or RestoreOrder
	isConstructed bool
}

// NewOrder creates a new Order in Pending status with empty line items,
// tax lines, and totals. This is the only way to create a fresh order.
//
// Parameters:
//   - id: Unique identifier for the order (must be valid UUID)
//   - createdAt: Order creation time (must be non-zero)
//   - customerID: Optional customer reference (validated when present)
//   - billing, shipping: Contact records, either may be empty
//
// Example:
//
//	orderID := kernel.NewUUID()
//	o, err := order.NewOrder(orderID, time.Now(), nil, billing, shipping)
//	if err != nil {
//	    // Handle validation error
//	}
func NewOrder(
	id kernel.UUID,
	createdAt time.Time,
	customerID *kernel.UUID,
	billing Address,
	shipping Address,
) (*Order, error) {
	o := &Order{
		status:        Pending,
		billing:       billing,
		shipping:      shipping,
		metadata:      make(map[string]string),
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setCreatedAt(createdAt),
		o.setCustomer(customerID),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// RestoreOrder reconstructs an Order from persistence with its full field set.
// Used by repositories; all inputs are validated the same way NewOrder does,
// plus the status and every line and tax line must be valid.
func RestoreOrder(
	id kernel.UUID,
	createdAt time.Time,
	customerID *kernel.UUID,
	status Status,
	billing Address,
	shipping Address,
	lineItems []LineItem,
	taxLines []TaxLine,
	subtotal kernel.Money,
	total kernel.Money,
	metadata map[string]string,
) (*Order, error) {
	o, err := NewOrder(id, createdAt, customerID, billing, shipping)
	if err != nil {
		return nil, err
	}

	if err = status.Validate(); err != nil {
		return nil, err
	}
	o.status = status

	o.lineItems = append(o.lineItems, lineItems...)

	for _, tl := range taxLines {
		if applyErr := o.ApplyTaxLine(tl); applyErr != nil {
			return nil, applyErr
		}
	}

	o.subtotal = subtotal
	o.total = total

	for k, v := range metadata {
		o.metadata[k] = v
	}

	return o, nil
}

// Validate ensures the Order instance was properly constructed.
// Returns ErrOrderIsNotConstructed for zero-value or hand-rolled instances.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}

	return o.status.Validate()
}

// IsEqual compares two orders by their unique identifiers.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// CreatedAt returns the order's creation time.
func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

// Customer returns the associated customer's ID, nil when anonymous.
func (o *Order) Customer() *kernel.UUID {
	return o.customerID
}

// Status returns the current status of the order.
func (o *Order) Status() Status {
	return o.status
}

// BillingAddress returns the billing contact record.
func (o *Order) BillingAddress() Address {
	return o.billing
}

// ShippingAddress returns the shipping contact record.
func (o *Order) ShippingAddress() Address {
	return o.shipping
}

// LineItems returns a copy of the order's line items in insertion order.
func (o *Order) LineItems() []LineItem {
	items := make([]LineItem, len(o.lineItems))
	copy(items, o.lineItems)
	return items
}

// TaxLines returns a copy of the order's tax lines in insertion order.
func (o *Order) TaxLines() []TaxLine {
	lines := make([]TaxLine, len(o.taxLines))
	copy(lines, o.taxLines)
	return lines
}

// Subtotal returns the order subtotal as last recalculated.
func (o *Order) Subtotal() kernel.Money {
	return o.subtotal
}

// Total returns the order total as last recalculated.
func (o *Order) Total() kernel.Money {
	return o.total
}

// SetBillingAddress replaces the billing contact record.
func (o *Order) SetBillingAddress(a Address) {
	o.billing = a
}

// SetShippingAddress replaces the shipping contact record.
func (o *Order) SetShippingAddress(a Address) {
	o.shipping = a
}

// SetCustomer replaces the associated customer reference.
// A nil customer is allowed; a non-nil one must be a valid UUID.
func (o *Order) SetCustomer(customerID *kernel.UUID) error {
	return o.setCustomer(customerID)
}

// AddLineItem appends a line item to the order.
func (o *Order) AddLineItem(li LineItem) {
	o.lineItems = append(o.lineItems, li)
}

// ApplyTaxLine records the accumulated tax for one rate identifier.
// Returns ErrDuplicateTaxRate when the order already carries that rate.
func (o *Order) ApplyTaxLine(tl TaxLine) error {
	for _, existing := range o.taxLines {
		if existing.RateID() == tl.RateID() {
			return ErrDuplicateTaxRate
		}
	}

	o.taxLines = append(o.taxLines, tl)
	return nil
}

// RecalculateTotals recomputes the order's subtotal and total from its line
// items and recorded tax lines. Tax is taken as recorded on the tax lines and
// is deliberately never re-derived from rate lookups: merge targets carry tax
// aggregated from their sources, which a rate-based recomputation would destroy.
func (o *Order) RecalculateTotals() {
	subtotal := kernel.ZeroMoney()
	total := kernel.ZeroMoney()

	for _, li := range o.lineItems {
		subtotal = subtotal.Add(li.Subtotal())
		total = total.Add(li.Total())
	}

	for _, tl := range o.taxLines {
		total = total.Add(tl.Amount())
	}

	o.subtotal = subtotal
	o.total = total
}

// SetMetadata stores a host-managed key-value annotation on the order.
func (o *Order) SetMetadata(key, value string) error {
	if key == "" {
		return errs.NewValueIsRequiredError("metadata key")
	}

	o.metadata[key] = value
	return nil
}

// MetadataValue returns the annotation stored under key, if present.
func (o *Order) MetadataValue(key string) (string, bool) {
	v, ok := o.metadata[key]
	return v, ok
}

// Metadata returns a copy of all annotations on the order.
func (o *Order) Metadata() map[string]string {
	m := make(map[string]string, len(o.metadata))
	for k, v := range o.metadata {
		m[k] = v
	}
	return m
}

// MarkMerged flags the order as consumed by a merge (metadata strategy) and
// records the aggregate it was merged into. Addresses, line items, and totals
// are untouched.
func (o *Order) MarkMerged(targetID kernel.UUID) error {
	if err := targetID.Validate(); err != nil {
		return err
	}
	if err := o.status.ValidateMerge(); err != nil {
		return err
	}
	if o.IsMerged() {
		return ErrOrderAlreadyMerged
	}

	o.metadata[MetaMerged] = metaFlagValue
	o.metadata[MetaMergedInto] = targetID.String()
	return nil
}

// ToMerged transitions the order's status to Merged (status strategy).
func (o *Order) ToMerged() error {
	newStatus, err := o.status.Merge()
	if err != nil {
		return err
	}

	o.status = newStatus
	return nil
}

// MarkAggregate flags the order as a merge target (metadata strategy) and
// records the consumed source order IDs.
func (o *Order) MarkAggregate(sourceIDs []kernel.UUID) error {
	if err := o.RecordMergedFrom(sourceIDs); err != nil {
		return err
	}

	o.metadata[MetaAggregate] = metaFlagValue
	return nil
}

// RecordMergedFrom stores the consumed source order IDs under MetaMergedFrom.
// This link annotation is kept under both tracking strategies; it doubles as
// the human-readable "merged from orders" note on the target.
func (o *Order) RecordMergedFrom(sourceIDs []kernel.UUID) error {
	ids := make([]string, len(sourceIDs))
	for i, id := range sourceIDs {
		if err := id.Validate(); err != nil {
			return err
		}
		ids[i] = id.String()
	}

	o.metadata[MetaMergedFrom] = strings.Join(ids, ",")
	return nil
}

// ToAggregated transitions the order's status to Aggregated (status strategy).
func (o *Order) ToAggregated() error {
	newStatus, err := o.status.Aggregate()
	if err != nil {
		return err
	}

	o.status = newStatus
	return nil
}

// MarkInvoiced flags an aggregate order as billed (metadata strategy).
// Only aggregate orders can be invoiced.
func (o *Order) MarkInvoiced() error {
	if !o.IsAggregate() {
		return errs.NewValueIsInvalidError("only aggregate orders can be invoiced")
	}

	o.metadata[MetaInvoiced] = metaFlagValue
	return nil
}

// ToInvoiced transitions the order's status to Invoiced (status strategy).
func (o *Order) ToInvoiced() error {
	newStatus, err := o.status.Invoice()
	if err != nil {
		return err
	}

	o.status = newStatus
	return nil
}

// IsMerged reports whether the order was consumed by a merge,
// under either tracking strategy.
func (o *Order) IsMerged() bool {
	return o.metadata[MetaMerged] == metaFlagValue || o.status == Merged
}

// IsAggregate reports whether the order is a merge target,
// under either tracking strategy.
func (o *Order) IsAggregate() bool {
	return o.metadata[MetaAggregate] == metaFlagValue || o.status == Aggregated || o.status == Invoiced
}

// IsInvoiced reports whether the aggregate has been billed,
// under either tracking strategy.
func (o *Order) IsInvoiced() bool {
	return o.metadata[MetaInvoiced] == metaFlagValue || o.status == Invoiced
}

// MergedInto returns the aggregate this source order was merged into, if any.
func (o *Order) MergedInto() (kernel.UUID, bool) {
	raw, ok := o.metadata[MetaMergedInto]
	if !ok {
		return kernel.UUID{}, false
	}

	id, err := kernel.UUIDFromString(raw)
	if err != nil {
		return kernel.UUID{}, false
	}
	return id, true
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setCreatedAt(createdAt time.Time) error {
	if createdAt.IsZero() {
		return errs.NewValueIsRequiredError("order creation time")
	}
	o.createdAt = createdAt
	return nil
}

func (o *Order) setCustomer(customerID *kernel.UUID) error {
	if customerID != nil {
		if err := customerID.Validate(); err != nil {
			return err
		}
	}
	o.customerID = customerID
	return nil
}
