package assets

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/scry-flashcards/internal/config"
	"github.com/phrazzld/scry-flashcards/internal/domain"
	"github.com/phrazzld/scry-flashcards/internal/domain/matcher"
)

func testAssetsConfig() config.AssetsConfig {
	return config.AssetsConfig{
		Source:            "drive",
		FolderID:          "folder-1",
		ThumbnailTemplate: config.DefaultThumbnailTemplate,
		ThumbnailWidth:    1000,
		CacheTTLSeconds:   300,
		PageSize:          200,
	}
}

func countingSource(calls *int32, files []matcher.File, err error) Source {
	return SourceFunc(func(_ context.Context, _ string) ([]matcher.File, error) {
		atomic.AddInt32(calls, 1)
		return files, err
	})
}

func TestNewCatalogValidation(t *testing.T) {
	t.Run("nil source", func(t *testing.T) {
		_, err := NewCatalog(nil, testAssetsConfig(), nil)
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("missing folder", func(t *testing.T) {
		cfg := testAssetsConfig()
		cfg.FolderID = ""
		_, err := NewCatalog(StaticSource{}, cfg, nil)
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("dir source uses dir", func(t *testing.T) {
		cfg := testAssetsConfig()
		cfg.Source = "dir"
		cfg.FolderID = ""
		cfg.Dir = "/tmp/cards"
		c, err := NewCatalog(DirSource{}, cfg, nil)
		require.NoError(t, err)
		assert.Equal(t, "/tmp/cards", c.FolderID())
	})
}

func TestCatalogIndexCaches(t *testing.T) {
	var calls int32
	files := []matcher.File{{ID: "1", Name: "land1.png"}, {ID: "2", Name: "cat.jpg"}}
	c, err := NewCatalog(countingSource(&calls, files, nil), testAssetsConfig(), nil)
	require.NoError(t, err)

	idx, err := c.Index(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, idx.Len())

	again, err := c.Index(context.Background())
	require.NoError(t, err)
	assert.Same(t, idx, again)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	c.Invalidate()
	_, err = c.Index(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestCatalogIndexExpires(t *testing.T) {
	var calls int32
	cfg := testAssetsConfig()
	cfg.CacheTTLSeconds = 1
	c, err := NewCatalog(countingSource(&calls, nil, nil), cfg, nil)
	require.NoError(t, err)

	_, err = c.Index(context.Background())
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		_, err := c.Index(context.Background())
		return err == nil && atomic.LoadInt32(&calls) == 2
	}, 3*time.Second, 50*time.Millisecond)
}

func TestCatalogIndexWrapsSourceFailure(t *testing.T) {
	var calls int32
	c, err := NewCatalog(countingSource(&calls, nil, errors.New("quota exceeded")), testAssetsConfig(), nil)
	require.NoError(t, err)

	idx, err := c.Index(context.Background())
	assert.Nil(t, idx)
	assert.ErrorIs(t, err, domain.ErrAssetSourceUnavailable)
	assert.Contains(t, err.Error(), "quota exceeded")

	// failures are not cached
	_, _ = c.Index(context.Background())
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestCatalogIndexSurvivesCancelledCaller(t *testing.T) {
	var calls int32
	var once sync.Once
	entered := make(chan struct{})
	release := make(chan struct{})
	files := []matcher.File{{ID: "1", Name: "land1.png"}}
	src := SourceFunc(func(ctx context.Context, _ string) ([]matcher.File, error) {
		atomic.AddInt32(&calls, 1)
		once.Do(func() { close(entered) })
		select {
		case <-release:
			return files, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	})
	c, err := NewCatalog(src, testAssetsConfig(), nil)
	require.NoError(t, err)

	ctxA, cancelA := context.WithCancel(context.Background())
	errA := make(chan error, 1)
	go func() {
		_, err := c.Index(ctxA)
		errA <- err
	}()
	<-entered

	type result struct {
		idx *matcher.Index
		err error
	}
	resB := make(chan result, 1)
	go func() {
		idx, err := c.Index(context.Background())
		resB <- result{idx, err}
	}()
	// let the second caller join the listing already in flight
	time.Sleep(50 * time.Millisecond)

	cancelA()
	select {
	case err := <-errA:
		assert.ErrorIs(t, err, context.Canceled)
		assert.NotErrorIs(t, err, domain.ErrAssetSourceUnavailable)
	case <-time.After(2 * time.Second):
		t.Fatal("cancelled caller did not return")
	}

	close(release)
	select {
	case res := <-resB:
		require.NoError(t, res.err)
		assert.Equal(t, 1, res.idx.Len())
	case <-time.After(2 * time.Second):
		t.Fatal("second caller did not return")
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestThumbnailURL(t *testing.T) {
	c, err := NewCatalog(StaticSource{}, testAssetsConfig(), nil)
	require.NoError(t, err)

	assert.Equal(t, "https://drive.google.com/thumbnail?id=abc&sz=w1000", c.ThumbnailURL("abc"))
	assert.Equal(t, "/img/abc?w=200", ThumbnailURL("/img/%s?w=%d", "abc", 200))
}

func TestStaticSource(t *testing.T) {
	src := StaticSource{"f": {{ID: "1", Name: "a.png"}}}

	files, err := src.ListAssets(context.Background(), "f")
	require.NoError(t, err)
	assert.Equal(t, []matcher.File{{ID: "1", Name: "a.png"}}, files)

	files, err = src.ListAssets(context.Background(), "missing")
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestDirSource(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"land2.png", "cat.JPG", "notes.txt", "README"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o600))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.png"), 0o700))

	files, err := DirSource{}.ListAssets(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, []matcher.File{
		{ID: "cat.JPG", Name: "cat.JPG"},
		{ID: "land2.png", Name: "land2.png"},
	}, files)

	_, err = DirSource{}.ListAssets(context.Background(), filepath.Join(dir, "nope"))
	assert.Error(t, err)
}

func TestIsImageName(t *testing.T) {
	tests := map[string]bool{
		"a.png":  true,
		"a.JPEG": true,
		"a.gif":  true,
		"a.txt":  false,
		"a":      false,
	}
	for name, want := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, want, IsImageName(name))
		})
	}
}
