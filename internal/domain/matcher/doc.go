// Package matcher resolves user-typed words into flashcard assets.
//
// Asset names are normalized into tokens (extension stripped, trimmed,
// lowercased) and a word selects every token that contains it immediately
// followed by a run of digits, bounded on both sides by non-letters. This is
// the "word+number" rule: land1, my_land12, x-land3 and cat007 are flashcards
// for land and cat; island2 and land12a are not.
package matcher
