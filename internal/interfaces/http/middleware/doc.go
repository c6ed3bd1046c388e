// Package middleware provides the gin middleware of the billing API:
// CORS, request ids, security headers, body limits, request validation,
// tracing, HTTP metrics and profiling labels.
package middleware
