package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/scry-flashcards/internal/domain"
	"github.com/phrazzld/scry-flashcards/internal/testutils"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	testutils.ClearConfigEnv(t)

	cmd := NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--log-level", "error"}, args...))

	err := cmd.Execute()
	return out.String(), err
}

func TestResolveCommand(t *testing.T) {
	dir := testutils.CardDir(t, "land1.png", "land2.jpg", "island3.png", "cat1.png", "notes.txt")

	t.Run("json", func(t *testing.T) {
		out, err := execute(t, "--dir", dir, "resolve", "land")
		require.NoError(t, err)

		var cards []cardOutput
		require.NoError(t, json.Unmarshal([]byte(out), &cards))
		require.Len(t, cards, 2)
		assert.Equal(t, "land1.png", cards[0].ID)
		assert.Equal(t, "land2.jpg", cards[1].ID)
		assert.Contains(t, cards[0].ThumbnailURL, "land1.png")
	})

	t.Run("text keeps word order", func(t *testing.T) {
		out, err := execute(t, "--dir", dir, "--format", "text", "resolve", "cat", "land")
		require.NoError(t, err)
		assert.Equal(t, "0\tcat1.png\tcat1.png\n1\tland1.png\tland1.png\n2\tland2.jpg\tland2.jpg\n", out)
	})

	t.Run("no matches", func(t *testing.T) {
		_, err := execute(t, "--dir", dir, "resolve", "zebra")
		assert.ErrorIs(t, err, domain.ErrNoMatches)
	})

	t.Run("blank words", func(t *testing.T) {
		_, err := execute(t, "--dir", dir, "resolve", " , ")
		assert.ErrorIs(t, err, domain.ErrNoInput)
	})

	t.Run("unknown format", func(t *testing.T) {
		_, err := execute(t, "--dir", dir, "--format", "yaml", "resolve", "land")
		assert.Error(t, err)
	})
}

func TestDeckCommand(t *testing.T) {
	dir := testutils.CardDir(t, "land1.png", "land2.png", "land3.png")

	t.Run("deals pairs", func(t *testing.T) {
		out, err := execute(t, "--dir", dir, "deck", "--pairs", "2", "land")
		require.NoError(t, err)

		var cards []cardOutput
		require.NoError(t, json.Unmarshal([]byte(out), &cards))
		require.Len(t, cards, 4)

		counts := map[string]int{}
		for _, c := range cards {
			counts[c.ID]++
		}
		assert.Len(t, counts, 2)
		for id, n := range counts {
			assert.Equal(t, 2, n, "card %s should appear twice", id)
		}
	})

	t.Run("too many pairs", func(t *testing.T) {
		_, err := execute(t, "--dir", dir, "deck", "--pairs", "4", "land")
		assert.ErrorIs(t, err, domain.ErrInsufficientCards)
	})
}

func TestMissingFolderFailsConfig(t *testing.T) {
	_, err := execute(t, "resolve", "land")
	assert.ErrorContains(t, err, "failed to load configuration")
}
