// Package task serializes work for a single owner. A Runner drains a
// bounded TaskQueue with exactly one goroutine so commands are applied in
// arrival order, and a Repeater schedules recurring work that can be
// cancelled mid-wait.
package task
