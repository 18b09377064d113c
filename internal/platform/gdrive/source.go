// Package gdrive lists flashcard images stored in a Google Drive folder.
package gdrive

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"github.com/phrazzld/scry-flashcards/internal/config"
	"github.com/phrazzld/scry-flashcards/internal/domain/matcher"
)

// DefaultPageSize is the number of files requested per listing call.
const DefaultPageSize = 200

const listFields = "nextPageToken, files(id, name)"

// Source lists image files in a Drive folder.
type Source struct {
	service  *drive.Service
	pageSize int64
	logger   *slog.Logger
}

// NewSource builds a read-only Drive client. A credentials file from cfg is
// used when set; extra client options are appended after it.
func NewSource(
	ctx context.Context,
	cfg config.AssetsConfig,
	logger *slog.Logger,
	opts ...option.ClientOption,
) (*Source, error) {
	if logger == nil {
		logger = slog.Default()
	}

	clientOpts := []option.ClientOption{option.WithScopes(drive.DriveReadonlyScope)}
	if cfg.CredentialsFile != "" {
		clientOpts = append(clientOpts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	clientOpts = append(clientOpts, opts...)

	svc, err := drive.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create drive service: %w", err)
	}

	pageSize := int64(cfg.PageSize)
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	return &Source{
		service:  svc,
		pageSize: pageSize,
		logger:   logger.With(slog.String("component", "gdrive_source")),
	}, nil
}

// FolderQuery returns the Drive search query for non-trashed images
// directly inside folderID.
func FolderQuery(folderID string) string {
	escaped := strings.ReplaceAll(folderID, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `'`, `\'`)
	return fmt.Sprintf("'%s' in parents and mimeType contains 'image/' and trashed = false", escaped)
}

// ListAssets returns every image file in the folder, following pagination.
func (s *Source) ListAssets(ctx context.Context, folderID string) ([]matcher.File, error) {
	query := FolderQuery(folderID)
	var (
		files []matcher.File
		token string
		pages int
	)
	for {
		call := s.service.Files.List().
			Q(query).
			PageSize(s.pageSize).
			Fields(listFields).
			SupportsAllDrives(true).
			IncludeItemsFromAllDrives(true).
			Context(ctx)
		if token != "" {
			call = call.PageToken(token)
		}

		resp, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("drive files.list (page %d): %w", pages+1, err)
		}
		pages++
		for _, f := range resp.Files {
			files = append(files, matcher.File{ID: f.Id, Name: f.Name})
		}

		token = resp.NextPageToken
		if token == "" {
			break
		}
	}

	s.logger.Debug("listed drive folder",
		slog.String("folder_id", folderID),
		slog.Int("pages", pages),
		slog.Int("files", len(files)))
	return files, nil
}
