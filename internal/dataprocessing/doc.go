// Package dataprocessing is the normalization and aggregation engine for lead
// analytics. It turns heterogeneous, loosely-typed CRM/spreadsheet export rows
// into canonical Lead records and computes the dashboard aggregates over them.
//
// # Architecture
//
// The package is organized into four components, leaf first:
//
//  1. Value parsers: locale-tolerant date/number/boolean parsing primitives
//  2. Column resolver: alias-table lookup over arbitrary header spellings
//  3. Normalizer: one raw row in, one canonical Lead out
//  4. Aggregation engine: funnel, classification, source journey and agent
//     ranking over an optional date-range filter
//
// # Usage
//
// Normalize a table-shaped import and aggregate it:
//
//	leads := dataprocessing.NormalizeRows(headers, rows)
//	stats := dataprocessing.Aggregate(leads, nil, dataprocessing.AggregateOptions{})
//	if stats.Status == domain.StatsNoData {
//	    // nothing in the window
//	}
//
// # Error Handling
//
// The core never fails on malformed data. Unparseable dates become nil,
// unparseable numbers become 0, missing columns fall through their alias
// chain to a deterministic default, and every ratio guards division by zero.
// The only non-OK signal is the explicit NO_DATA status on the aggregate.
//
// # Purity
//
// Everything in this package is synchronous, CPU-bound and free of shared
// state; aggregation is recomputed from scratch per call, which keeps
// re-runs idempotent for working sets in the low thousands.
package dataprocessing
