// Package model defines the domain types for the Pesona tourism
// directory: user accounts, the admin-curated catalog (destinations,
// cultural events, tourist packages), and the user-generated content
// layered on top of it (reviews with photos, itineraries).
//
// The package also defines the RFC 9457 problem-details error envelope
// used by every handler; see errors.go.
package model
