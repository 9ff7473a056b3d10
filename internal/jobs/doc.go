// Package jobs contains background tasks that run outside the HTTP
// request path. Each job owns a ticker goroutine with Start and Stop;
// errors are logged and never crash the process.
package jobs
