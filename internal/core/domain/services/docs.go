// Package services provides domain services that orchestrate business operations
// across multiple domain entities in the invoicing system. It implements complex
// business workflows that don't naturally belong to a single aggregate root.
//
// The package includes:
//   - OrderMerger: A domain service that accumulates N source orders into the
//     field set of one aggregate target order
//   - TrackingPolicy: The configurable choice between metadata-flag and
//     status-transition tracking of merged orders
//
// Domain services coordinate between aggregates, implementing business logic that
// spans multiple bounded contexts following Domain-Driven Design principles.
package services
