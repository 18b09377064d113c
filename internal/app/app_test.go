package app

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/scry-flashcards/internal/assets"
	"github.com/phrazzld/scry-flashcards/internal/domain"
	"github.com/phrazzld/scry-flashcards/internal/domain/matcher"
	"github.com/phrazzld/scry-flashcards/internal/testutils"
)

func newTestApp(t *testing.T) *Application {
	t.Helper()
	source := assets.StaticSource{testutils.TestFolderID: testutils.TestFiles()}
	application, err := NewWithSource(testutils.TestConfig(), testutils.DiscardLogger(), source)
	require.NoError(t, err)
	t.Cleanup(application.Cleanup)
	return application
}

func TestNewSource(t *testing.T) {
	cfg := testutils.TestConfig()

	cfg.Assets.Source = "dir"
	cfg.Assets.Dir = t.TempDir()
	src, err := NewSource(context.Background(), cfg, testutils.DiscardLogger())
	require.NoError(t, err)
	assert.IsType(t, assets.DirSource{}, src)

	cfg.Assets.Source = "ftp"
	_, err = NewSource(context.Background(), cfg, testutils.DiscardLogger())
	assert.Error(t, err)
}

func TestNewWithSourceRejectsMissingFolder(t *testing.T) {
	cfg := testutils.TestConfig()
	cfg.Assets.FolderID = ""

	_, err := NewWithSource(cfg, testutils.DiscardLogger(), assets.StaticSource{})
	assert.Error(t, err)
}

func TestRouter(t *testing.T) {
	router := newTestApp(t).Router()

	t.Run("health", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "OK", w.Body.String())
	})

	t.Run("layout", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/ui", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"gallery_columns":8`)
	})

	t.Run("create session", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/sessions", nil))
		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"mode":"home"`)
	})

	t.Run("refresh assets", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/assets/refresh", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"asset_count":4}`, w.Body.String())
	})
}

func TestCatalogUsesConfiguredSource(t *testing.T) {
	application := newTestApp(t)

	idx, err := application.Catalog().Index(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"a1", "a2", "a3"}, domain.IDs(matcher.Resolve("land", idx)))
}

func TestServeShutsDownOnCancel(t *testing.T) {
	application := newTestApp(t)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- application.Serve(ctx, ln) }()

	url := "http://" + ln.Addr().String() + "/health"
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
