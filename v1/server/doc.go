// Package server exposes the broker over HTTP.
//
// Routes:
//
//	GET  /            health and non-secret configuration summary
//	POST /query       run a query, see package broker for the body format
//	GET  /namespaces  per-namespace vector counts
//
// Errors are JSON objects with an "error" field. Invalid input (400) adds
// "receivedBody"; upstream failures (500/503) add "details" and "stage".
// Panics in handlers are recovered into a generic 500.
//
// Every request is traced with otelhttp and counted in the metrics
// registry. The request context is handed to the pipeline, so a client
// disconnect cancels in-flight upstream calls.
package server
