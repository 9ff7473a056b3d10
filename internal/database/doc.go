// Package database provides the database abstraction layer for the
// Pesona API.
//
// This package defines the Database interface that abstracts SurrealDB
// operations, keeping the repository layer independent of the driver.
//
// # Interface Design
//
// The Database interface provides three query methods:
//   - Query: Returns multiple results (for SELECT queries returning lists)
//   - QueryOne: Returns a single result (for SELECT by ID)
//   - Execute: No return value (for CREATE/UPDATE/DELETE mutations)
//
// # Transaction Support
//
// IMPORTANT: Transactions in this package are BATCH-BASED, not
// connection-level. Queries accumulate in memory and are wrapped in
// BEGIN TRANSACTION / COMMIT TRANSACTION at commit time, executing
// atomically as one statement block. This means:
//   - No isolation between Add() calls until Commit()
//   - Rollback() simply discards accumulated queries (nothing to undo)
//   - All queries succeed or fail together at commit time
//
// The one multi-statement write in this application, creating a review
// together with its photo rows, goes through AtomicBatch, which is the
// preferred entry point. Single-statement mutations are atomic on their
// own and use Execute directly.
//
// # Error Handling
//
// Standard errors are defined for common failure cases:
//   - ErrNotFound: Record does not exist
//   - ErrDuplicate: Unique constraint violation
//   - ErrConnection: Database connection issues
//   - ErrQuery: Query execution failures
//
// Use errors.Is() to check error types:
//
//	if errors.Is(err, database.ErrNotFound) {
//	    // Handle missing record
//	}
package database
