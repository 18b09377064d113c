// Package mocks provides hand-written test doubles for the service
// interfaces consumed by the HTTP layer.
package mocks
