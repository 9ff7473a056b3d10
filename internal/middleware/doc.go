// Package middleware provides the HTTP middleware stack: request ID
// propagation, structured request logging, panic recovery, CORS, gzip
// compression, and the authentication/authorization gates.
//
// Route access comes in three tiers. Public routes take no auth
// middleware. Authenticated routes are wrapped in Auth, which rejects
// missing or invalid tokens with 401 before the handler runs. Admin
// routes are wrapped in AdminAuth, which additionally rejects
// authenticated non-admin callers with 403. Handlers behind these
// wrappers can assume the context carries valid claims.
package middleware
