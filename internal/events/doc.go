// Package events publishes session change notifications.
//
// Every successful session mutation, including auto-play ticks, produces a
// ChangeEvent. Handlers registered with an EventEmitter receive each event;
// the HTTP layer uses this to stream changes to connected clients.
package events
