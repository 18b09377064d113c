package assets

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"

	"github.com/phrazzld/scry-flashcards/internal/config"
	"github.com/phrazzld/scry-flashcards/internal/domain"
	"github.com/phrazzld/scry-flashcards/internal/domain/matcher"
)

const (
	// cachedFolders bounds how many folder indexes are kept at once.
	cachedFolders = 16

	// listTimeout bounds one shared listing call.
	listTimeout = 2 * time.Minute
)

// Catalog resolves the configured folder into a match index, caching the
// index for the configured TTL.
type Catalog struct {
	source   Source
	folderID string
	template string
	width    int
	cache    *expirable.LRU[string, *matcher.Index]
	group    singleflight.Group
	logger   *slog.Logger
}

// NewCatalog creates a Catalog over source for the folder in cfg.
func NewCatalog(source Source, cfg config.AssetsConfig, logger *slog.Logger) (*Catalog, error) {
	if source == nil {
		return nil, domain.NewValidationError("source", "cannot be nil", domain.ErrValidation)
	}
	folder := cfg.FolderID
	if cfg.Source == "dir" {
		folder = cfg.Dir
	}
	if folder == "" {
		return nil, domain.NewValidationError("folder", "cannot be empty", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}
	ttl := time.Duration(cfg.CacheTTLSeconds) * time.Second
	if ttl <= 0 {
		ttl = 300 * time.Second
	}
	width := cfg.ThumbnailWidth
	if width <= 0 {
		width = 1000
	}
	template := cfg.ThumbnailTemplate
	if template == "" {
		template = config.DefaultThumbnailTemplate
	}

	return &Catalog{
		source:   source,
		folderID: folder,
		template: template,
		width:    width,
		cache:    expirable.NewLRU[string, *matcher.Index](cachedFolders, nil, ttl),
		logger:   logger.With(slog.String("component", "asset_catalog")),
	}, nil
}

// FolderID returns the folder this catalog lists.
func (c *Catalog) FolderID() string {
	return c.folderID
}

// Index returns the match index for the folder, listing the source only
// when the cached index is missing or expired. Concurrent misses share
// a single listing call. The shared call is detached from ctx so one
// caller giving up does not fail the others; that caller gets ctx.Err().
func (c *Catalog) Index(ctx context.Context) (*matcher.Index, error) {
	if idx, ok := c.cache.Get(c.folderID); ok {
		return idx, nil
	}

	ch := c.group.DoChan(c.folderID, func() (interface{}, error) {
		if idx, ok := c.cache.Get(c.folderID); ok {
			return idx, nil
		}
		listCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), listTimeout)
		defer cancel()

		start := time.Now()
		files, err := c.source.ListAssets(listCtx, c.folderID)
		if err != nil {
			c.logger.Error("failed to list assets",
				slog.String("folder_id", c.folderID),
				slog.String("error", err.Error()))
			return nil, fmt.Errorf("%w: %v", domain.ErrAssetSourceUnavailable, err)
		}
		idx := matcher.NewIndex(files)
		c.cache.Add(c.folderID, idx)
		c.logger.Info("asset index refreshed",
			slog.String("folder_id", c.folderID),
			slog.Int("file_count", len(files)),
			slog.Int("asset_count", idx.Len()),
			slog.Duration("elapsed", time.Since(start)))
		return idx, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*matcher.Index), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Invalidate drops the cached index so the next lookup lists the source.
func (c *Catalog) Invalidate() {
	c.cache.Purge()
}

// ThumbnailURL returns the thumbnail address for an asset at the default width.
func (c *Catalog) ThumbnailURL(assetID string) string {
	return ThumbnailURL(c.template, assetID, c.width)
}

// ThumbnailURL fills a template taking an asset ID and a pixel width.
func ThumbnailURL(template, assetID string, width int) string {
	return fmt.Sprintf(template, assetID, width)
}
