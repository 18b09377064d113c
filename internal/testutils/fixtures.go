package testutils

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/phrazzld/scry-flashcards/internal/config"
	"github.com/phrazzld/scry-flashcards/internal/domain/matcher"
)

// TestFolderID is the Drive folder used by TestConfig.
const TestFolderID = "folder-1"

// TestConfig returns a valid configuration with every default filled in
// and a Drive source pointing at TestFolderID.
func TestConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Port: 8080, LogLevel: "debug"},
		Assets: config.AssetsConfig{
			Source:            "drive",
			FolderID:          TestFolderID,
			ThumbnailTemplate: config.DefaultThumbnailTemplate,
			ThumbnailWidth:    1000,
			CacheTTLSeconds:   300,
			PageSize:          200,
		},
		UI: config.UIConfig{
			GalleryColumns:         8,
			PageSize:               3,
			MemoryColumns:          4,
			DefaultIntervalSeconds: 3,
			DefaultPairs:           6,
			MaxPairs:               12,
		},
		Session: config.SessionConfig{IdleTTLMinutes: 60, MaxSessions: 10, QueueSize: 16},
	}
}

// TestFiles returns a listing with three "land" cards and one "cat" card.
func TestFiles() []matcher.File {
	return []matcher.File{
		{ID: "a1", Name: "land1.png"},
		{ID: "a2", Name: "land2.png"},
		{ID: "a3", Name: "land3.png"},
		{ID: "c1", Name: "cat1.jpg"},
	}
}

// CardDir creates a temporary directory holding empty files with the
// given names.
func CardDir(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o600))
	}
	return dir
}

// DiscardLogger returns a logger that drops everything.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
