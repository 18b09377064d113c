// Package api provides the HTTP handlers for flashcard sessions.
//
// Handlers decode and validate JSON requests, call the session service and
// write the resulting session snapshot. Service errors are mapped to status
// codes and safe messages in one place (errors.go); the detailed error is
// only logged, after redaction.
package api
