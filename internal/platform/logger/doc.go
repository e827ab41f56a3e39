// Package logger provides structured logging functionality for the application.
//
// It builds JSON log/slog loggers from the server configuration and carries
// request-scoped loggers through context.Context.
package logger
