// Package repository implements data access against SurrealDB for users,
// refresh tokens, the tourism catalog (destinations, cultural events,
// tourist packages), reviews with their photo attachments, and itineraries.
//
// Repositories return nil (not an error) when a record does not exist;
// callers decide whether absence is an error. Unique constraint violations
// surface as database.ErrDuplicate.
package repository
