// Package testutils provides shared helpers for tests across the
// application: environment setup, configuration and card fixtures, and
// HTTP response assertions.
//
// Helper functions follow these naming conventions:
//   - Setup*: prepare process state and register cleanup
//   - Test*: build in-memory fixtures
//   - Assert*: verify conditions and fail the test otherwise
package testutils
