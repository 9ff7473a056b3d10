// Package config loads application configuration from environment
// variables.
//
// Every setting has a development-friendly default, so a bare
// `go run ./cmd/server` works against a local SurrealDB. Production
// deployments are expected to call Validate() after Load(); validation
// collects every problem into a single joined error rather than
// stopping at the first one.
//
// Settings are grouped by concern: Server (HTTP), Database (SurrealDB),
// JWT (token signing keys), and Upload (review photo storage).
package config
