package present

import (
	"fmt"
	"testing"

	"github.com/phrazzld/scry-flashcards/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cards(n int) []domain.AssetRecord {
	out := make([]domain.AssetRecord, n)
	for i := range out {
		name := fmt.Sprintf("card%d", i)
		out[i] = domain.AssetRecord{ID: "id-" + name, NormalizedName: name, DisplayName: name + ".png"}
	}
	return out
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("empty cards", func(t *testing.T) {
		_, err := New(nil, GroupSingle)
		assert.ErrorIs(t, err, domain.ErrInsufficientCards)
	})

	t.Run("triplet needs three cards", func(t *testing.T) {
		_, err := New(cards(2), GroupTriplet)
		assert.ErrorIs(t, err, domain.ErrInsufficientCards)
	})

	t.Run("invalid group size", func(t *testing.T) {
		_, err := New(cards(4), 2)
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("snapshot is independent of caller slice", func(t *testing.T) {
		in := cards(3)
		s, err := New(in, GroupSingle)
		require.NoError(t, err)
		in[0].ID = "mutated"
		assert.Equal(t, "id-card0", s.CurrentView()[0].ID)
		assert.Equal(t, 0, s.Cursor())
	})
}

func TestAdvanceWrapsAround(t *testing.T) {
	t.Parallel()

	for _, group := range []int{GroupSingle, GroupTriplet} {
		for n := group; n <= 7; n++ {
			for start := 0; start < n; start++ {
				s, err := New(cards(n), group)
				require.NoError(t, err)
				s.cursor = start

				for i := 0; i < n; i++ {
					s.Advance(domain.Forward)
					assert.GreaterOrEqual(t, s.Cursor(), 0)
					assert.Less(t, s.Cursor(), n)
				}
				assert.Equal(t, start, s.Cursor(), "forward n=%d group=%d", n, group)

				for i := 0; i < n; i++ {
					s.Advance(domain.Backward)
				}
				assert.Equal(t, start, s.Cursor(), "backward n=%d group=%d", n, group)
			}
		}
	}
}

func TestAdvanceSteps(t *testing.T) {
	t.Parallel()

	s, err := New(cards(5), GroupSingle)
	require.NoError(t, err)
	assert.Equal(t, 4, s.Advance(domain.Backward))
	assert.Equal(t, 0, s.Advance(domain.Forward))

	s, err = New(cards(5), GroupTriplet)
	require.NoError(t, err)
	assert.Equal(t, 3, s.Advance(domain.Forward))
	assert.Equal(t, 1, s.Advance(domain.Forward))
	assert.Equal(t, 3, s.Advance(domain.Backward))
}

func TestCurrentViewWraps(t *testing.T) {
	t.Parallel()

	s, err := New(cards(4), GroupTriplet)
	require.NoError(t, err)
	s.Advance(domain.Forward)

	view := s.CurrentView()
	require.Len(t, view, 3)
	assert.Equal(t, []string{"id-card3", "id-card0", "id-card1"}, domain.IDs(view))

	single, err := New(cards(2), GroupSingle)
	require.NoError(t, err)
	assert.Len(t, single.CurrentView(), 1)
}

func TestAutoPlay(t *testing.T) {
	t.Parallel()

	s, err := New(cards(3), GroupSingle)
	require.NoError(t, err)
	assert.False(t, s.AutoPlay())
	assert.Equal(t, DefaultIntervalSeconds, s.IntervalSeconds())

	assert.ErrorIs(t, s.SetAutoPlay(true, 0), domain.ErrValidation)
	assert.ErrorIs(t, s.SetAutoPlay(true, 21), domain.ErrValidation)
	assert.False(t, s.AutoPlay())

	require.NoError(t, s.SetAutoPlay(true, 20))
	assert.True(t, s.AutoPlay())
	assert.Equal(t, 20, s.IntervalSeconds())

	require.NoError(t, s.SetAutoPlay(false, 0))
	assert.False(t, s.AutoPlay())
	assert.Equal(t, 20, s.IntervalSeconds())

	require.NoError(t, s.SetAutoPlay(true, 1))
	s.Exit()
	assert.False(t, s.AutoPlay())
}
