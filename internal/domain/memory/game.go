// Package memory implements the memory matching game: a shuffled deck in
// which every sampled card appears twice, turned over two at a time.
package memory

import (
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/phrazzld/scry-flashcards/internal/domain"
)

// FlipResult describes what a single Flip did. When Judged is true the two
// Revealed indices were shown face-up together and then either matched or
// turned back over; the renderer shows them for one cycle.
type FlipResult struct {
	Revealed []int `json:"revealed"`
	Judged   bool  `json:"judged"`
	Matched  bool  `json:"matched"`
	Ignored  bool  `json:"ignored"`
}

// Game is one dealt deck and its progress.
type Game struct {
	deck    []domain.AssetRecord
	flipped []int
	matched map[int]struct{}
	tries   int
}

// BuildDeck samples pairs distinct cards from source without replacement,
// duplicates each and shuffles the result.
func BuildDeck(source []domain.AssetRecord, pairs int) (*Game, error) {
	if pairs < 1 {
		return nil, domain.NewValidationError("pairs", "must be at least 1", domain.ErrValidation)
	}
	if pairs > len(source) {
		return nil, domain.NewInsufficientCardsError(pairs, len(source))
	}

	deck := make([]domain.AssetRecord, 0, 2*pairs)
	for _, i := range rand.Perm(len(source))[:pairs] {
		deck = append(deck, source[i], source[i])
	}
	rand.Shuffle(len(deck), func(i, j int) { deck[i], deck[j] = deck[j], deck[i] })

	return &Game{
		deck:    deck,
		matched: make(map[int]struct{}, len(deck)),
	}, nil
}

// Flip turns over the card at index. Flipping a card that is already face-up
// is ignored. The second flip of a turn counts a try, records a match when
// both cards are the same asset, and clears the turn.
func (g *Game) Flip(index int) (FlipResult, error) {
	if index < 0 || index >= len(g.deck) {
		return FlipResult{}, domain.NewValidationError("index",
			fmt.Sprintf("must be between 0 and %d", len(g.deck)-1), domain.ErrValidation)
	}
	if _, done := g.matched[index]; done || slices.Contains(g.flipped, index) {
		return FlipResult{Revealed: g.Flipped(), Ignored: true}, nil
	}

	g.flipped = append(g.flipped, index)
	if len(g.flipped) < 2 {
		return FlipResult{Revealed: g.Flipped()}, nil
	}

	first, second := g.flipped[0], g.flipped[1]
	res := FlipResult{Revealed: []int{first, second}, Judged: true}
	g.tries++
	if g.deck[first].ID == g.deck[second].ID {
		g.matched[first] = struct{}{}
		g.matched[second] = struct{}{}
		res.Matched = true
	}
	g.flipped = g.flipped[:0]
	return res, nil
}

// IsComplete reports whether every card has been matched.
func (g *Game) IsComplete() bool {
	return len(g.deck) > 0 && len(g.matched) == len(g.deck)
}

// Reshuffle re-deals the same cards in a new order and resets progress.
func (g *Game) Reshuffle() {
	rand.Shuffle(len(g.deck), func(i, j int) { g.deck[i], g.deck[j] = g.deck[j], g.deck[i] })
	g.flipped = g.flipped[:0]
	g.matched = make(map[int]struct{}, len(g.deck))
	g.tries = 0
}

// Deck returns a copy of the dealt cards in board order.
func (g *Game) Deck() []domain.AssetRecord {
	return slices.Clone(g.deck)
}

// Flipped returns the indices face-up in the current turn.
func (g *Game) Flipped() []int {
	return slices.Clone(g.flipped)
}

// Matched returns the matched indices in ascending order.
func (g *Game) Matched() []int {
	out := make([]int, 0, len(g.matched))
	for i := range g.matched {
		out = append(out, i)
	}
	slices.Sort(out)
	return out
}

// IsMatched reports whether the card at index is permanently face-up.
func (g *Game) IsMatched(index int) bool {
	_, ok := g.matched[index]
	return ok
}

// Tries returns the number of completed two-card reveals.
func (g *Game) Tries() int { return g.tries }

// Pairs returns the number of distinct cards in the deck.
func (g *Game) Pairs() int { return len(g.deck) / 2 }

// MatchedPairs returns how many pairs have been found.
func (g *Game) MatchedPairs() int { return len(g.matched) / 2 }
