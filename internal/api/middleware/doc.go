// Package middleware contains the HTTP middleware specific to this service:
// request tracing and OpenTelemetry instrumentation. Generic middleware
// (request IDs, panic recovery, access logs) comes from chi.
package middleware
