// Package api handles incoming HTTP requests, request validation, and
// response formatting. It adapts the /api/v1 surface to the user, task, and
// label services, and owns the single mapping from internal errors to
// status codes, stable error codes, and client-safe messages.
package api
