package matcher

import (
	"strings"

	"github.com/phrazzld/scry-flashcards/internal/domain"
)

// File is a raw listing entry as returned by an asset source.
type File struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Normalize strips the last file extension, trims whitespace and lowercases.
func Normalize(rawName string) string {
	base := rawName
	if i := strings.LastIndex(rawName, "."); i >= 0 {
		base = rawName[:i]
	}
	return strings.ToLower(strings.TrimSpace(base))
}

// Index is an immutable lookup table from normalized name to asset.
// Listing order is preserved; the first file with a given normalized
// name wins.
type Index struct {
	tokens  []string
	records map[string]domain.AssetRecord
}

// NewIndex builds an Index from a raw listing.
func NewIndex(files []File) *Index {
	idx := &Index{
		tokens:  make([]string, 0, len(files)),
		records: make(map[string]domain.AssetRecord, len(files)),
	}
	for _, f := range files {
		norm := Normalize(f.Name)
		if norm == "" {
			continue
		}
		if _, exists := idx.records[norm]; exists {
			continue
		}
		idx.tokens = append(idx.tokens, norm)
		idx.records[norm] = domain.AssetRecord{
			ID:             f.ID,
			NormalizedName: norm,
			DisplayName:    f.Name,
		}
	}
	return idx
}

// Len returns the number of distinct assets in the index.
func (idx *Index) Len() int {
	return len(idx.tokens)
}

// Tokens returns the normalized names in listing order.
func (idx *Index) Tokens() []string {
	out := make([]string, len(idx.tokens))
	copy(out, idx.tokens)
	return out
}

// Lookup returns the asset for a normalized name.
func (idx *Index) Lookup(token string) (domain.AssetRecord, bool) {
	r, ok := idx.records[token]
	return r, ok
}
