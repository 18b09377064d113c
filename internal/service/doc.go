// Package service runs flashcard sessions. Each session owns a state
// machine and a single-consumer command loop; every public operation is
// queued onto that loop so manual commands and auto-play ticks apply
// strictly in arrival order.
package service
