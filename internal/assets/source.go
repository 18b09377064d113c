// Package assets lists flashcard images from an asset source and keeps a
// time-boxed cache of the resulting match index so that typing words does
// not hit the remote folder on every search.
package assets

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/phrazzld/scry-flashcards/internal/domain/matcher"
)

// Source lists the image files in a folder.
type Source interface {
	ListAssets(ctx context.Context, folderID string) ([]matcher.File, error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(ctx context.Context, folderID string) ([]matcher.File, error)

// ListAssets implements Source.
func (f SourceFunc) ListAssets(ctx context.Context, folderID string) ([]matcher.File, error) {
	return f(ctx, folderID)
}

// StaticSource serves fixed listings keyed by folder ID.
type StaticSource map[string][]matcher.File

// ListAssets implements Source. Unknown folders list as empty.
func (s StaticSource) ListAssets(_ context.Context, folderID string) ([]matcher.File, error) {
	files := s[folderID]
	out := make([]matcher.File, len(files))
	copy(out, files)
	return out, nil
}

// DirSource lists image files in a local directory. The folder ID is the
// directory path and each file's ID is its base name.
type DirSource struct{}

// ListAssets implements Source.
func (DirSource) ListAssets(ctx context.Context, folderID string) ([]matcher.File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(folderID)
	if err != nil {
		return nil, fmt.Errorf("read asset directory: %w", err)
	}

	files := make([]matcher.File, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !IsImageName(e.Name()) {
			continue
		}
		files = append(files, matcher.File{ID: e.Name(), Name: e.Name()})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}

// IsImageName reports whether a file name has an image MIME type.
func IsImageName(name string) bool {
	ext := filepath.Ext(name)
	if ext == "" {
		return false
	}
	return strings.HasPrefix(mime.TypeByExtension(strings.ToLower(ext)), "image/")
}
