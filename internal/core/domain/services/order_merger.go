package services

import (
	"errors"

	"invoicing/internal/core/domain/model/kernel"
	"invoicing/internal/core/domain/model/order"
)

// ErrNotEnoughSources is returned when fewer than two source orders are handed
// to the merger. The application layer rejects this earlier; the check here
// keeps the domain service safe on its own.
var ErrNotEnoughSources = errors.New("at least two source orders are required to merge")

// lineNameDateFormat is the date-only prefix of a synthesized line name,
// e.g. "2026-03-14: #550e8400-...".
const lineNameDateFormat = "2006-01-02"

// MergeDraft is the fully accumulated field set of an aggregate target order,
// computed in memory before anything is persisted. Staging the whole result
// first means a failed merge leaves no partially written target behind.
type MergeDraft struct {
	// Billing and Shipping come from the first source (in input order) whose
	// address_1 is non-empty; all eleven fields are copied atomically.
	Billing  order.Address
	Shipping order.Address

	// LineItems holds exactly one synthesized line per source order,
	// in the same order the sources were supplied.
	LineItems []order.LineItem

	// TaxLines holds one entry per distinct tax-rate identifier seen across
	// the sources, in first-seen order, each carrying the summed amount.
	TaxLines []order.TaxLine

	// CustomerID is the customer of the last processed source order.
	CustomerID *kernel.UUID

	// Subtotal is the sum of the synthesized line totals; Total adds the
	// accumulated tax on top. Tax is never re-derived from rate lookups.
	Subtotal kernel.Money
	Total    kernel.Money

	// SourceIDs lists the consumed source orders in input order.
	SourceIDs []kernel.UUID
}

// OrderMerger is a domain service that deterministically folds a sequence of
// source orders into one MergeDraft.
//
// Business rules:
//   - Source order matters: it decides the address tie-break and the sequence
//     of synthesized line items
//   - First non-empty address_1 wins, independently for billing and shipping
//   - Tax amounts are summed per rate identifier across all sources
//   - Each source contributes exactly one line item: name is the source's
//     date-only creation date plus ": #" and the source ID, quantity is 1,
//     subtotal and total both equal the source's total, line tax is zero
//   - The last processed source's customer wins
//
// The merger only reads from its sources. Flagging them as consumed is the
// application layer's job, after the draft has been computed.
type OrderMerger struct{}

// NewOrderMerger creates a new OrderMerger instance.
func NewOrderMerger() OrderMerger {
	return OrderMerger{}
}

// Merge accumulates the given source orders, in the given order, into a draft.
//
// Returns:
//   - MergeDraft: the computed target field set
//   - error: ErrNotEnoughSources for fewer than two sources, or validation
//     errors from an unconstructed source or a malformed synthesized line
func (m OrderMerger) Merge(sources []*order.Order) (MergeDraft, error) {
	if len(sources) < 2 {
		return MergeDraft{}, ErrNotEnoughSources
	}

	var draft MergeDraft
	taxTotals := make(map[string]kernel.Money)
	taxOrder := make([]string, 0)

	for _, src := range sources {
		if err := src.Validate(); err != nil {
			return MergeDraft{}, err
		}

		if draft.Shipping.IsEmpty() {
			draft.Shipping = src.ShippingAddress()
		}
		if draft.Billing.IsEmpty() {
			draft.Billing = src.BillingAddress()
		}

		for _, tl := range src.TaxLines() {
			if _, seen := taxTotals[tl.RateID()]; !seen {
				taxOrder = append(taxOrder, tl.RateID())
			}
			taxTotals[tl.RateID()] = taxTotals[tl.RateID()].Add(tl.Amount())
		}

		line, err := m.synthesizeLine(src)
		if err != nil {
			return MergeDraft{}, err
		}
		draft.LineItems = append(draft.LineItems, line)

		draft.CustomerID = src.Customer()
		draft.SourceIDs = append(draft.SourceIDs, src.ID())
	}

	for _, rateID := range taxOrder {
		tl, err := order.NewTaxLine(rateID, taxTotals[rateID])
		if err != nil {
			return MergeDraft{}, err
		}
		draft.TaxLines = append(draft.TaxLines, tl)
	}

	draft.Subtotal = kernel.ZeroMoney()
	for _, li := range draft.LineItems {
		draft.Subtotal = draft.Subtotal.Add(li.Total())
	}

	draft.Total = draft.Subtotal
	for _, tl := range draft.TaxLines {
		draft.Total = draft.Total.Add(tl.Amount())
	}

	return draft, nil
}

// ApplyTo writes the draft onto a freshly created target order: addresses,
// customer, synthesized lines, aggregated tax lines, and recalculated totals.
func (d MergeDraft) ApplyTo(target *order.Order) error {
	if err := target.Validate(); err != nil {
		return err
	}

	target.SetBillingAddress(d.Billing)
	target.SetShippingAddress(d.Shipping)

	if err := target.SetCustomer(d.CustomerID); err != nil {
		return err
	}

	for _, li := range d.LineItems {
		target.AddLineItem(li)
	}

	for _, tl := range d.TaxLines {
		if err := target.ApplyTaxLine(tl); err != nil {
			return err
		}
	}

	target.RecalculateTotals()
	return nil
}

// synthesizeLine builds the single line item a source order contributes to the
// target: quantity 1, subtotal and total both the source's total, no line tax.
func (m OrderMerger) synthesizeLine(src *order.Order) (order.LineItem, error) {
	name := src.CreatedAt().Format(lineNameDateFormat) + ": #" + src.ID().String()

	return order.NewLineItem(
		name,
		1,
		"",
		src.Total(),
		src.Total(),
		kernel.ZeroMoney(),
		kernel.ZeroMoney(),
		nil,
	)
}
