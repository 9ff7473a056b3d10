// Package service contains the business logic: account registration and
// login, token issuance, catalog management, reviews with photo uploads,
// and itineraries. Services depend on repository interfaces defined in
// this package and return sentinel errors from errors.go; HTTP status
// mapping happens in the handler layer.
package service
