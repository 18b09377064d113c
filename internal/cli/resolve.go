package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/phrazzld/scry-flashcards/internal/domain"
	"github.com/phrazzld/scry-flashcards/internal/domain/matcher"
)

func newResolveCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve [words]",
		Short: "Resolve comma separated words to flashcards",
		Long: "Prints every flashcard whose name contains one of the words followed by a number, " +
			"in word order without duplicates.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
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
			return opts.printCards(cmd.OutOrStdout(), toOutput(records, catalog))
		},
	}
}
