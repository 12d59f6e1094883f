// Package logger provides structured logging functionality for the application.
//
// It utilizes Go's standard library log/slog package to implement structured JSON logging
// with configurable log levels. Loggers travel on context.Context so request-scoped
// attributes such as the trace ID follow a call from the HTTP layer down to the stores.
package logger
