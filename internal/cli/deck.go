package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/phrazzld/scry-flashcards/internal/domain"
	"github.com/phrazzld/scry-flashcards/internal/domain/matcher"
	"github.com/phrazzld/scry-flashcards/internal/domain/memory"
)

func newDeckCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deck [words]",
		Short: "Deal a shuffled memory game deck",
		Long:  "Resolves the words, samples the requested number of pairs and prints the shuffled deck.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pairs, _ := cmd.Flags().GetInt("pairs")

			raw := strings.Join(args, ",")
			if len(matcher.SplitWords(raw)) == 0 {
				return domain.ErrNoInput
			}

			idx, catalog, err := opts.loadIndex(cmd)
			if err != nil {
				return err
			}
			records := matcher.Resolve(raw, idx)
			if len(records) == 0 {
				return domain.ErrNoMatches
			}

			game, err := memory.BuildDeck(records, pairs)
			if err != nil {
				return err
			}
			return opts.printCards(cmd.OutOrStdout(), toOutput(game.Deck(), catalog))
		},
	}

	cmd.Flags().IntP("pairs", "p", 6, "Number of distinct cards in the deck")
	return cmd
}
