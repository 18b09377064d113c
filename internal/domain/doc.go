// Package domain contains the core flashcard entities, value objects and
// errors shared by the matcher, the session state machine, the presentation
// sequencer and the memory game. It is independent of any transport,
// storage or asset backend.
package domain
