// Package api handles incoming HTTP requests, routing, request validation,
// and response formatting. It acts as an adapter between HTTP clients and
// the learning tracker services: every route is scoped to the authenticated
// user, and service errors are mapped to status codes and safe messages in
// errors.go.
package api
