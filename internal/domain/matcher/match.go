package matcher

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/phrazzld/scry-flashcards/internal/domain"
)

// SplitWords splits a comma separated input into trimmed, lowercased,
// non-empty words.
func SplitWords(raw string) []string {
	parts := strings.Split(raw, ",")
	words := make([]string, 0, len(parts))
	for _, p := range parts {
		w := strings.ToLower(strings.TrimSpace(p))
		if w != "" {
			words = append(words, w)
		}
	}
	return words
}

// Matches reports whether token satisfies the word+number rule for word.
// Both arguments are compared case-insensitively.
func Matches(word, token string) bool {
	w := strings.ToLower(strings.TrimSpace(word))
	if w == "" {
		return false
	}
	t := strings.ToLower(token)

	for start := 0; start <= len(t)-len(w); {
		i := strings.Index(t[start:], w)
		if i < 0 {
			return false
		}
		pos := start + i
		if boundaryMatch(t, pos, len(w)) {
			return true
		}
		_, size := utf8.DecodeRuneInString(t[pos:])
		start = pos + size
	}
	return false
}

// boundaryMatch checks the occurrence of a word at t[pos:pos+n]: it must
// not follow a letter, must be followed by at least one digit, and the
// full digit run must not be followed by a letter.
func boundaryMatch(t string, pos, n int) bool {
	if pos > 0 {
		prev, _ := utf8.DecodeLastRuneInString(t[:pos])
		if unicode.IsLetter(prev) {
			return false
		}
	}
	end := pos + n
	digits := 0
	for end < len(t) && t[end] >= '0' && t[end] <= '9' {
		end++
		digits++
	}
	if digits == 0 {
		return false
	}
	if end < len(t) {
		next, _ := utf8.DecodeRuneInString(t[end:])
		if unicode.IsLetter(next) {
			return false
		}
	}
	return true
}

// Match returns the tokens that satisfy the word+number rule for word,
// in the order given.
func Match(word string, tokens []string) []string {
	var out []string
	for _, tok := range tokens {
		if Matches(word, tok) {
			out = append(out, tok)
		}
	}
	return out
}

// Resolve turns a comma separated word list into an ordered, de-duplicated
// list of assets. Results follow word order first and index order within a
// word; an asset matched by several words keeps its first position.
// An empty result is not an error.
func Resolve(rawWords string, idx *Index) []domain.AssetRecord {
	words := SplitWords(rawWords)
	if len(words) == 0 || idx == nil {
		return nil
	}

	seen := make(map[string]struct{})
	var out []domain.AssetRecord
	for _, w := range words {
		for _, tok := range Match(w, idx.tokens) {
			if _, dup := seen[tok]; dup {
				continue
			}
			seen[tok] = struct{}{}
			out = append(out, idx.records[tok])
		}
	}
	return out
}
