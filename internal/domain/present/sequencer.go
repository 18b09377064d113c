// Package present implements the presentation sequencer: cyclic navigation
// over a snapshot of the card list, single or three-up, with an auto-play
// setting that the session layer drives from a timer.
package present

import (
	"fmt"

	"github.com/phrazzld/scry-flashcards/internal/domain"
)

// Allowed group sizes and auto-play interval bounds.
const (
	GroupSingle  = 1
	GroupTriplet = 3

	MinIntervalSeconds     = 1
	MaxIntervalSeconds     = 20
	DefaultIntervalSeconds = 3
)

// Sequencer holds the presentation state for one session.
// The zero value is not usable; create one with New.
type Sequencer struct {
	cards           []domain.AssetRecord
	cursor          int
	groupSize       int
	autoPlay        bool
	intervalSeconds int
}

// New enters presentation mode over a copy of cards with the cursor at 0.
func New(cards []domain.AssetRecord, groupSize int) (*Sequencer, error) {
	if groupSize != GroupSingle && groupSize != GroupTriplet {
		return nil, domain.NewValidationError("group_size",
			fmt.Sprintf("must be %d or %d, got %d", GroupSingle, GroupTriplet, groupSize),
			domain.ErrValidation)
	}
	if len(cards) == 0 {
		return nil, domain.NewInsufficientCardsError(1, 0)
	}
	if len(cards) < groupSize {
		return nil, domain.NewInsufficientCardsError(groupSize, len(cards))
	}

	snapshot := make([]domain.AssetRecord, len(cards))
	copy(snapshot, cards)

	return &Sequencer{
		cards:           snapshot,
		groupSize:       groupSize,
		intervalSeconds: DefaultIntervalSeconds,
	}, nil
}

// Advance moves the cursor by one group in the given direction, wrapping
// around both ends.
func (s *Sequencer) Advance(dir domain.Direction) int {
	s.cursor = domain.Wrap(s.cursor+int(dir)*s.groupSize, len(s.cards))
	return s.cursor
}

// CurrentView returns the groupSize cards starting at the cursor. Near the
// end of the list the view wraps to the start.
func (s *Sequencer) CurrentView() []domain.AssetRecord {
	view := make([]domain.AssetRecord, s.groupSize)
	for i := range view {
		view[i] = s.cards[domain.Wrap(s.cursor+i, len(s.cards))]
	}
	return view
}

// SetAutoPlay turns auto-advance on or off. The interval is validated
// only when enabling.
func (s *Sequencer) SetAutoPlay(enabled bool, intervalSeconds int) error {
	if !enabled {
		s.autoPlay = false
		return nil
	}
	if intervalSeconds < MinIntervalSeconds || intervalSeconds > MaxIntervalSeconds {
		return domain.NewValidationError("interval_seconds",
			fmt.Sprintf("must be between %d and %d", MinIntervalSeconds, MaxIntervalSeconds),
			domain.ErrValidation)
	}
	s.autoPlay = true
	s.intervalSeconds = intervalSeconds
	return nil
}

// Exit stops auto-play. The caller restores any stashed card list.
func (s *Sequencer) Exit() {
	s.autoPlay = false
}

// Cursor returns the index of the first card in the current view.
func (s *Sequencer) Cursor() int { return s.cursor }

// GroupSize returns 1 or 3.
func (s *Sequencer) GroupSize() int { return s.groupSize }

// Len returns the number of cards being presented.
func (s *Sequencer) Len() int { return len(s.cards) }

// AutoPlay reports whether auto-advance is on.
func (s *Sequencer) AutoPlay() bool { return s.autoPlay }

// IntervalSeconds returns the auto-advance period.
func (s *Sequencer) IntervalSeconds() int { return s.intervalSeconds }
