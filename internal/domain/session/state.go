// Package session holds the per-user flashcard state machine: the card
// list, the selection, the active mode and the presentation and memory game
// sub-states. It performs no I/O and no locking; the service layer runs
// every call on a single goroutine per session.
package session

import (
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/phrazzld/scry-flashcards/internal/domain"
	"github.com/phrazzld/scry-flashcards/internal/domain/memory"
	"github.com/phrazzld/scry-flashcards/internal/domain/present"
)

// DefaultPageSize is the number of cards per gallery page in paged view.
const DefaultPageSize = 3

// PresentOptions configures StartPresentation.
type PresentOptions struct {
	// GroupSize is 1 for single cards or 3 for the three-up view.
	GroupSize int
	// Shuffle permutes the card list before starting. The previous order
	// is restored when the presentation ends.
	Shuffle bool
	// SelectedOnly presents only the selected cards.
	SelectedOnly bool
}

// State is one user's flashcard session.
type State struct {
	mode     domain.Mode
	cards    []domain.AssetRecord
	selected map[string]struct{}

	galleryView domain.GalleryView
	page        int
	pageSize    int

	presenter *present.Sequencer
	backup    []domain.AssetRecord
	game      *memory.Game
}

// New returns an empty session on the home screen.
func New(pageSize int) *State {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	return &State{
		mode:        domain.ModeHome,
		selected:    make(map[string]struct{}),
		galleryView: domain.GalleryAll,
		pageSize:    pageSize,
	}
}

func (s *State) require(op string, modes ...domain.Mode) error {
	if slices.Contains(modes, s.mode) {
		return nil
	}
	return fmt.Errorf("%w: %s in %s", domain.ErrInvalidTransition, op, s.mode)
}

// Search replaces the card list with records, selects all of them and moves
// to the gallery. An empty result leaves the session untouched.
func (s *State) Search(records []domain.AssetRecord) error {
	if err := s.require("search", domain.ModeHome, domain.ModeGallery); err != nil {
		return err
	}
	if len(records) == 0 {
		return domain.ErrNoMatches
	}

	s.cards = dedupe(records)
	s.selected = make(map[string]struct{}, len(s.cards))
	for _, c := range s.cards {
		s.selected[c.ID] = struct{}{}
	}
	s.page = 0
	s.presenter = nil
	s.backup = nil
	s.game = nil
	s.mode = domain.ModeGallery
	return nil
}

// AddMore appends records that are not already in the card list. The
// selection is not changed. It returns the number of cards added.
func (s *State) AddMore(records []domain.AssetRecord) (int, error) {
	if err := s.require("add more", domain.ModeGallery); err != nil {
		return 0, err
	}

	known := make(map[string]struct{}, len(s.cards))
	for _, c := range s.cards {
		known[c.NormalizedName] = struct{}{}
	}
	var fresh []domain.AssetRecord
	for _, r := range records {
		if _, ok := known[r.NormalizedName]; ok {
			continue
		}
		known[r.NormalizedName] = struct{}{}
		fresh = append(fresh, r)
	}
	if len(fresh) == 0 {
		return 0, domain.ErrNoMatches
	}

	s.cards = append(s.cards, fresh...)
	return len(fresh), nil
}

// ToggleSelect includes or excludes one card. Unknown IDs are ignored.
// It reports whether the selection changed.
func (s *State) ToggleSelect(assetID string, included bool) (bool, error) {
	if err := s.require("select", domain.ModeGallery); err != nil {
		return false, err
	}
	if !s.hasCard(assetID) {
		return false, nil
	}
	_, was := s.selected[assetID]
	if included {
		s.selected[assetID] = struct{}{}
	} else {
		delete(s.selected, assetID)
	}
	return was != included, nil
}

// SelectAll selects or clears every card.
func (s *State) SelectAll(included bool) error {
	if err := s.require("select all", domain.ModeGallery); err != nil {
		return err
	}
	s.selected = make(map[string]struct{}, len(s.cards))
	if included {
		for _, c := range s.cards {
			s.selected[c.ID] = struct{}{}
		}
	}
	return nil
}

// Shuffle randomly reorders the card list. Which cards are selected does
// not change.
func (s *State) Shuffle() error {
	if err := s.require("shuffle", domain.ModeGallery); err != nil {
		return err
	}
	shuffle(s.cards)
	s.page = 0
	return nil
}

// Clear empties the session and returns to the home screen.
func (s *State) Clear() {
	if s.presenter != nil {
		s.presenter.Exit()
	}
	s.cards = nil
	s.selected = make(map[string]struct{})
	s.page = 0
	s.presenter = nil
	s.backup = nil
	s.game = nil
	s.mode = domain.ModeHome
}

// GoHome leaves whatever screen is active. The card list does not survive
// the return home.
func (s *State) GoHome() {
	s.Clear()
}

// SetGalleryView switches between the full grid and the paged view.
func (s *State) SetGalleryView(view domain.GalleryView) error {
	if err := s.require("set gallery view", domain.ModeGallery); err != nil {
		return err
	}
	if view != domain.GalleryAll && view != domain.GalleryPaged {
		return domain.NewValidationError("view", "unknown gallery view", domain.ErrValidation)
	}
	s.galleryView = view
	s.page = 0
	return nil
}

// TurnPage moves the paged gallery one page, wrapping at both ends.
func (s *State) TurnPage(dir domain.Direction) error {
	if err := s.require("turn page", domain.ModeGallery); err != nil {
		return err
	}
	if s.galleryView != domain.GalleryPaged {
		return fmt.Errorf("%w: turn page in %s view", domain.ErrInvalidTransition, s.galleryView)
	}
	s.page = domain.Wrap(s.page+int(dir), s.pageCount())
	return nil
}

// GalleryPage returns the cards visible in the gallery together with the
// zero-based page index and the page count.
func (s *State) GalleryPage() ([]domain.AssetRecord, int, int) {
	if s.galleryView != domain.GalleryPaged {
		return slices.Clone(s.cards), 0, 1
	}
	pages := s.pageCount()
	start := s.page * s.pageSize
	end := min(start+s.pageSize, len(s.cards))
	if start > end {
		start = end
	}
	return slices.Clone(s.cards[start:end]), s.page, pages
}

func (s *State) pageCount() int {
	return max(1, (len(s.cards)+s.pageSize-1)/s.pageSize)
}

// StartPresentation enters presentation mode.
func (s *State) StartPresentation(opts PresentOptions) error {
	if err := s.require("start presentation", domain.ModeGallery); err != nil {
		return err
	}

	var backup []domain.AssetRecord
	order := s.cards
	if opts.Shuffle {
		backup = slices.Clone(s.cards)
		order = slices.Clone(s.cards)
		shuffle(order)
	}

	source := order
	if opts.SelectedOnly {
		source = s.filterSelected(order)
	}

	seq, err := present.New(source, opts.GroupSize)
	if err != nil {
		return err
	}

	s.cards = order
	s.backup = backup
	s.presenter = seq
	s.mode = domain.ModePresent
	return nil
}

// Advance moves the presentation one group forward or backward.
func (s *State) Advance(dir domain.Direction) (int, error) {
	if err := s.require("advance", domain.ModePresent); err != nil {
		return 0, err
	}
	return s.presenter.Advance(dir), nil
}

// SetAutoPlay turns presentation auto-advance on or off.
func (s *State) SetAutoPlay(enabled bool, intervalSeconds int) error {
	if err := s.require("auto-play", domain.ModePresent); err != nil {
		return err
	}
	return s.presenter.SetAutoPlay(enabled, intervalSeconds)
}

// ExitPresentation stops auto-play, restores any card order stashed by a
// shuffled start and returns to the gallery.
func (s *State) ExitPresentation() error {
	if err := s.require("exit presentation", domain.ModePresent); err != nil {
		return err
	}
	s.presenter.Exit()
	if s.backup != nil {
		s.cards = s.backup
		s.backup = nil
	}
	s.presenter = nil
	s.mode = domain.ModeGallery
	return nil
}

// StartMemoryGame deals a deck of pairs cards sampled from the selection,
// or from the whole card list when nothing is selected.
func (s *State) StartMemoryGame(pairs int) error {
	if err := s.require("start memory game", domain.ModeGallery); err != nil {
		return err
	}
	source := s.filterSelected(s.cards)
	if len(source) == 0 {
		source = s.cards
	}
	game, err := memory.BuildDeck(source, pairs)
	if err != nil {
		return err
	}
	s.game = game
	s.mode = domain.ModeMemoryGame
	return nil
}

// Flip turns over one memory card.
func (s *State) Flip(index int) (memory.FlipResult, error) {
	if err := s.require("flip", domain.ModeMemoryGame); err != nil {
		return memory.FlipResult{}, err
	}
	return s.game.Flip(index)
}

// Reshuffle re-deals the memory deck and resets its progress.
func (s *State) Reshuffle() error {
	if err := s.require("reshuffle", domain.ModeMemoryGame); err != nil {
		return err
	}
	s.game.Reshuffle()
	return nil
}

// ExitMemoryGame discards the deck and returns to the gallery.
func (s *State) ExitMemoryGame() error {
	if err := s.require("exit memory game", domain.ModeMemoryGame); err != nil {
		return err
	}
	s.game = nil
	s.mode = domain.ModeGallery
	return nil
}

// Mode returns the active screen.
func (s *State) Mode() domain.Mode { return s.mode }

// Cards returns a copy of the card list.
func (s *State) Cards() []domain.AssetRecord { return slices.Clone(s.cards) }

// Selected returns the selected cards in card list order.
func (s *State) Selected() []domain.AssetRecord { return s.filterSelected(s.cards) }

// IsSelected reports whether the card with assetID is selected.
func (s *State) IsSelected(assetID string) bool {
	_, ok := s.selected[assetID]
	return ok
}

// GalleryView returns the gallery layout.
func (s *State) GalleryView() domain.GalleryView { return s.galleryView }

// Presenter returns the active presentation, or nil outside present mode.
func (s *State) Presenter() *present.Sequencer { return s.presenter }

// Game returns the active memory game, or nil outside memory_game mode.
func (s *State) Game() *memory.Game { return s.game }

func (s *State) hasCard(assetID string) bool {
	return slices.ContainsFunc(s.cards, func(c domain.AssetRecord) bool { return c.ID == assetID })
}

func (s *State) filterSelected(cards []domain.AssetRecord) []domain.AssetRecord {
	out := make([]domain.AssetRecord, 0, len(s.selected))
	for _, c := range cards {
		if _, ok := s.selected[c.ID]; ok {
			out = append(out, c)
		}
	}
	return out
}

func dedupe(records []domain.AssetRecord) []domain.AssetRecord {
	seen := make(map[string]struct{}, len(records))
	out := make([]domain.AssetRecord, 0, len(records))
	for _, r := range records {
		if _, ok := seen[r.NormalizedName]; ok {
			continue
		}
		seen[r.NormalizedName] = struct{}{}
		out = append(out, r)
	}
	return out
}

func shuffle(cards []domain.AssetRecord) {
	rand.Shuffle(len(cards), func(i, j int) { cards[i], cards[j] = cards[j], cards[i] })
}
