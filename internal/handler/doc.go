// Package handler implements the HTTP layer of the API. Handlers decode
// requests, call into the service layer, and write RFC 9457 problem
// details on failure. Route registration and middleware wiring live in
// cmd/server.
package handler
