// Package order provides domain entities and business logic for order management
// in the invoicing system. It implements the Order aggregate root with addresses,
// line items, tax lines, totals, and merge-tracking state.
//
// The package includes:
//   - Order: The aggregate root that manages order identity, monetary state, and lifecycle
//   - Address: A record of billing or shipping contact fields
//   - LineItem: One purchasable entry on an order with its price breakdown
//   - TaxLine: The accumulated tax amount for one tax-rate identifier
//   - Status: A state machine covering the host statuses plus the merge statuses
//
// Key business rules:
//   - Orders must have a valid unique identifier and creation time
//   - An order consumed by a merge is flagged merged (or transitioned to Merged)
//   - An aggregate order carries exactly one synthesized line per source order
//   - Totals are recomputed from line items and recorded tax lines; tax is never
//     re-derived from rate lookups
//
// The package follows Domain-Driven Design principles, providing rich domain
// behavior, encapsulation, and validation to ensure business rules are enforced.
package order
