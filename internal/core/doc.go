// Package core provides the business logic for the inventory tool.
//
// This package holds all domain logic independent of any UI or storage
// engine. It can be used by the interactive session, the CLI subcommands,
// or tests without modification.
//
// # Architecture
//
//   - Field parsers: pure text-to-value conversions ([ParseQuantity],
//     [ParsePrice], [ParseDate], [ParseProductID]).
//   - Store: the persistence contract; backends live in internal/store.
//   - Reconciler: merges an inventory CSV into the store, latest date wins.
//   - Exporter: writes the catalog as a backup CSV, atomically.
//   - Service: the entry point tying the above together.
//
// # Reconciliation
//
// For each import row:
//
//  1. Parse the row; on failure record a [RowError] and move on
//  2. Look the product up by exact name
//  3. Absent: create it
//  4. Present: overwrite quantity, price and date only if the row's date is
//     strictly later than the stored date
//
// # Money
//
// Prices are stored in cents. Parsing uses exact decimals and rounds half
// away from zero; backups render cents/100 without padding ("$1.5").
//
// # Error Handling
//
// Parsers return [*ParseError]; lookups by ID return [*NotFoundError]. Use
// [MapError] to turn any error into a [UserMessage] with a support code.
package core
