package matcher

import (
	"math/rand/v2"
	"regexp"
	"strings"
	"testing"

	"github.com/phrazzld/scry-flashcards/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		raw      string
		expected string
	}{
		{"land1.png", "land1"},
		{"  My_Land12.JPG ", "my_land12"},
		{"archive.tar.gz", "archive.tar"},
		{"noext", "noext"},
		{" Cat007 .jpeg", "cat007"},
		{".hidden", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.raw, func(t *testing.T) {
			assert.Equal(t, tc.expected, Normalize(tc.raw))
		})
	}
}

func TestMatches(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		word     string
		token    string
		expected bool
	}{
		{"land", "land1", true},
		{"land", "my_land12", true},
		{"apple", "green_apple2", true},
		{"land", "x-land3", true},
		{"land", "2land4", true},
		{"cat", "cat007", true},
		{"land", "land7_big", true},
		{"land", "land7-2", true},
		{"LAND", "land1", true},
		{"land", "island2", false},
		{"land", "landlord3", false},
		{"land", "land-12", false},
		{"land", "land12a", false},
		{"land", "land", false},
		{"apple", "apple_v2", false},
		{"land", "island2 land5", true},
		{"land", "islandland5", false},
		{"", "land1", false},
		{"  ", "land1", false},
		{"land", "éland1", false},
	}

	for _, tc := range testCases {
		t.Run(tc.word+"/"+tc.token, func(t *testing.T) {
			assert.Equal(t, tc.expected, Matches(tc.word, tc.token))
		})
	}
}

// referenceMatches is an independent formulation of the word+number rule
// over ASCII input, used to cross-check Matches on generated names.
func referenceMatches(word, token string) bool {
	re := regexp.MustCompile(`^` + regexp.QuoteMeta(word) + `([0-9]+)`)
	isLetter := func(b byte) bool { return b >= 'a' && b <= 'z' }
	for i := 0; i < len(token); i++ {
		loc := re.FindStringSubmatchIndex(token[i:])
		if loc == nil {
			continue
		}
		if i > 0 && isLetter(token[i-1]) {
			continue
		}
		end := i + loc[1]
		if end < len(token) && isLetter(token[end]) {
			continue
		}
		return true
	}
	return false
}

func TestMatchesAgreesWithReference(t *testing.T) {
	t.Parallel()

	const alphabet = "ab12_-"
	gen := func(r *rand.Rand, chars string, maxLen int) string {
		n := 1 + r.IntN(maxLen)
		var b strings.Builder
		for i := 0; i < n; i++ {
			b.WriteByte(chars[r.IntN(len(chars))])
		}
		return b.String()
	}

	r := rand.New(rand.NewPCG(7, 11))
	for i := 0; i < 5000; i++ {
		word := gen(r, "ab", 2)
		token := gen(r, alphabet, 10)
		require.Equal(t, referenceMatches(word, token), Matches(word, token),
			"word=%q token=%q", word, token)
		assert.Equal(t, Matches(word, token), len(Match(word, []string{token})) == 1)
	}
}

func TestSplitWords(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"land", "cat"}, SplitWords(" Land, cat ,, "))
	assert.Empty(t, SplitWords(""))
	assert.Empty(t, SplitWords(" , ,"))
}

func TestResolve(t *testing.T) {
	t.Parallel()

	idx := NewIndex([]File{
		{ID: "id-land1", Name: "land1.png"},
		{ID: "id-my_land12", Name: "my_land12.png"},
		{ID: "id-cat007", Name: "cat007.jpg"},
		{ID: "id-island2", Name: "island2.png"},
	})

	t.Run("scenario from word list", func(t *testing.T) {
		got := Resolve("land, cat", idx)
		names := make([]string, len(got))
		for i, r := range got {
			names[i] = r.NormalizedName
		}
		assert.Equal(t, []string{"land1", "my_land12", "cat007"}, names)
		assert.Equal(t, "cat007.jpg", got[2].DisplayName)
		assert.Equal(t, "id-cat007", got[2].ID)
	})

	t.Run("word order drives result order", func(t *testing.T) {
		got := Resolve("cat, land", idx)
		assert.Equal(t, []string{"id-cat007", "id-land1", "id-my_land12"}, domain.IDs(got))
	})

	t.Run("duplicates keep first occurrence", func(t *testing.T) {
		got := Resolve("land, my_land, land", idx)
		assert.Equal(t, []string{"id-land1", "id-my_land12"}, domain.IDs(got))
	})

	t.Run("idempotent", func(t *testing.T) {
		assert.Equal(t, Resolve("land, cat, land", idx), Resolve("land, cat, land", idx))
	})

	t.Run("no match", func(t *testing.T) {
		assert.Empty(t, Resolve("dog", idx))
		assert.Empty(t, Resolve(" , ", idx))
		assert.Empty(t, Resolve("land", nil))
	})
}

func TestNewIndexFirstNameWins(t *testing.T) {
	t.Parallel()

	idx := NewIndex([]File{
		{ID: "a", Name: "Land1.png"},
		{ID: "b", Name: "land1.jpg"},
		{ID: "c", Name: ".png"},
	})

	require.Equal(t, 1, idx.Len())
	rec, ok := idx.Lookup("land1")
	require.True(t, ok)
	assert.Equal(t, "a", rec.ID)
	assert.Equal(t, []string{"land1"}, idx.Tokens())
}
