// Package cli implements the flashcards command line.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/phrazzld/scry-flashcards/internal/app"
	"github.com/phrazzld/scry-flashcards/internal/assets"
	"github.com/phrazzld/scry-flashcards/internal/config"
	"github.com/phrazzld/scry-flashcards/internal/domain"
	"github.com/phrazzld/scry-flashcards/internal/domain/matcher"
	"github.com/phrazzld/scry-flashcards/internal/platform/logger"
)

// options are the persistent flags shared by every command.
type options struct {
	configFile string
	dir        string
	format     string
	logLevel   string
}

// NewRootCmd builds the top-level command with all subcommands attached.
func NewRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "flashcards",
		Short: "Resolve words to flashcard images and serve study sessions",
		Long: "Resolves comma separated words to flashcard images using the word+number rule, " +
			"builds memory decks, and runs the session API server.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			switch opts.format {
			case "json", "text":
				return nil
			}
			return fmt.Errorf("unknown format %q: use json or text", opts.format)
		},
	}

	root.PersistentFlags().StringVarP(&opts.configFile, "config", "c", "",
		"Config file (default: $SCRY_CONFIG_FILE or ./config.yaml)")
	root.PersistentFlags().StringVarP(&opts.dir, "dir", "d", "",
		"Read flashcards from a local directory instead of Google Drive")
	root.PersistentFlags().StringVarP(&opts.format, "format", "f", "json", "Output format: json or text")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Override server.log_level")

	root.AddCommand(newResolveCmd(opts), newDeckCmd(opts), newServeCmd(opts))
	return root
}

// loadConfig reads configuration and applies flag overrides.
func (o *options) loadConfig(extra map[string]interface{}) (*config.Config, error) {
	overrides := map[string]interface{}{}
	if o.dir != "" {
		overrides["assets.source"] = "dir"
		overrides["assets.dir"] = o.dir
	}
	if o.logLevel != "" {
		overrides["server.log_level"] = o.logLevel
	}
	for k, v := range extra {
		overrides[k] = v
	}

	cfg, err := config.LoadWith(o.configFile, overrides)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

// newLogger writes JSON logs to the command's stderr.
func newLogger(cmd *cobra.Command, cfg *config.Config) *slog.Logger {
	return logger.SetupWithWriter(cfg.Server, cmd.ErrOrStderr())
}

// loadIndex builds the asset index for the configured folder.
func (o *options) loadIndex(cmd *cobra.Command) (*matcher.Index, *assets.Catalog, error) {
	cfg, err := o.loadConfig(nil)
	if err != nil {
		return nil, nil, err
	}
	log := newLogger(cmd, cfg)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	source, err := app.NewSource(ctx, cfg, log)
	if err != nil {
		return nil, nil, err
	}
	catalog, err := assets.NewCatalog(source, cfg.Assets, log)
	if err != nil {
		return nil, nil, err
	}
	idx, err := catalog.Index(ctx)
	if err != nil {
		return nil, nil, err
	}
	return idx, catalog, nil
}

// cardOutput is one resolved card as printed by the CLI.
type cardOutput struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	ThumbnailURL string `json:"thumbnail_url"`
}

func toOutput(records []domain.AssetRecord, catalog *assets.Catalog) []cardOutput {
	out := make([]cardOutput, len(records))
	for i, r := range records {
		out[i] = cardOutput{ID: r.ID, Name: r.DisplayName, ThumbnailURL: catalog.ThumbnailURL(r.ID)}
	}
	return out
}

// printCards writes cards as indented JSON or as tab separated lines.
func (o *options) printCards(w io.Writer, cards []cardOutput) error {
	if o.format == "text" {
		for i, c := range cards {
			if _, err := fmt.Fprintf(w, "%d\t%s\t%s\n", i, c.ID, c.Name); err != nil {
				return err
			}
		}
		return nil
	}

	b, err := json.MarshalIndent(cards, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}
