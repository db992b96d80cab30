package router

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"session-auth/internal/config"
	"session-auth/internal/handler"
	"session-auth/internal/metrics"
)

type panickingPinger struct{}

func (panickingPinger) Health(context.Context) error {
	panic("pool exploded")
}

func newTestRouter(pinger handler.Pinger, rec *metrics.Recorder) http.Handler {
	cfg := &config.Config{
		RequestTimeout: time.Second,
		TokenHeader:    "x-access-token",
		CORSOrigins:    []string{"*"},
	}

	return New(cfg, nil, Handlers{
		Auth:   handler.NewAuthHandler(nil),
		Admin:  handler.NewAdminHandler(nil),
		Health: handler.NewHealthHandler(pinger),
	}, rec)
}

// Not parallel: swaps the default slog logger.
func TestPanickingRequestIsLoggedAndCounted(t *testing.T) {
	var logs bytes.Buffer
	previous := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&logs, nil)))
	t.Cleanup(func() { slog.SetDefault(previous) })

	rec := metrics.New()
	r := newTestRouter(panickingPinger{}, rec)

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/ready", nil))
	require.Equal(t, http.StatusInternalServerError, resp.Code)
	assert.NotEmpty(t, resp.Header().Get("X-Request-ID"))

	out := logs.String()
	assert.Contains(t, out, `"msg":"panic recovered"`)
	assert.Contains(t, out, `"msg":"request"`)
	assert.Contains(t, out, `"status":500`)

	scrape := httptest.NewRecorder()
	r.ServeHTTP(scrape, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, err := io.ReadAll(scrape.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `session_auth_http_requests_total{method="GET",route="/ready",status="500"} 1`)
}

func TestUnknownRouteIs404(t *testing.T) {
	t.Parallel()

	resp := httptest.NewRecorder()
	newTestRouter(nil, nil).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, resp.Code)
}
