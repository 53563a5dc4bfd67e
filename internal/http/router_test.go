package http

import (
	nethttp "net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"feedpulse/backend/internal/handler"
	"feedpulse/backend/internal/metrics"
)

func newTestRouter(t *testing.T, staticDir string) nethttp.Handler {
	t.Helper()
	m := metrics.New()
	return NewRouter(
		handler.NewSubscriptionHandler(nil),
		handler.NewPostHandler(nil, nil),
		handler.NewIngestHandler(nil),
		m.Handler(),
		staticDir,
	)
}

func serve(h nethttp.Handler, method, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func TestRouter_Healthz(t *testing.T) {
	rec := serve(newTestRouter(t, ""), nethttp.MethodGet, "/healthz")
	require.Equal(t, nethttp.StatusOK, rec.Code)
	require.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestRouter_Metrics(t *testing.T) {
	rec := serve(newTestRouter(t, ""), nethttp.MethodGet, "/metrics")
	require.Equal(t, nethttp.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "feedpulse_ingest_posts_inserted_total")
}

func TestRouter_APIRequiresOwner(t *testing.T) {
	rec := serve(newTestRouter(t, ""), nethttp.MethodGet, "/api/posts")
	require.Equal(t, nethttp.StatusUnauthorized, rec.Code)
}

func TestRouter_StaticPlaceholders(t *testing.T) {
	dir := t.TempDir()
	imgDir := filepath.Join(dir, "assets", "img")
	require.NoError(t, os.MkdirAll(imgDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(imgDir, "favicon.png"), []byte("png"), 0o644))

	router := newTestRouter(t, dir)

	rec := serve(router, nethttp.MethodGet, "/static/assets/img/favicon.png")
	require.Equal(t, nethttp.StatusOK, rec.Code)
	require.Equal(t, "png", rec.Body.String())

	rec = serve(router, nethttp.MethodGet, "/static/assets/img/missing.png")
	require.Equal(t, nethttp.StatusNotFound, rec.Code)

	rec = serve(router, nethttp.MethodGet, "/static/../../etc/passwd")
	require.Equal(t, nethttp.StatusNotFound, rec.Code)
}

func TestRouter_Swagger(t *testing.T) {
	router := newTestRouter(t, "")

	rec := serve(router, nethttp.MethodGet, "/swagger/doc.json")
	require.Equal(t, nethttp.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"/subscriptions"`)
	require.Contains(t, rec.Body.String(), `"basePath": "/api"`)

	rec = serve(router, nethttp.MethodGet, "/swagger/index.html")
	require.Equal(t, nethttp.StatusOK, rec.Code)
}
