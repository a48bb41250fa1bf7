package bootstrap

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tramatch/tramatch-web/config"
	"github.com/tramatch/tramatch-web/internal/domain/nav"
	"github.com/tramatch/tramatch-web/internal/http/views"
)

func TestBuildViewRegistry_EmbeddedTemplatesParse(t *testing.T) {
	table, err := nav.NewAppTable()
	require.NoError(t, err)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	registry, err := BuildViewRegistry(&config.AppConfig{}, table, nil, logger)
	require.NoError(t, err)

	rep := views.NewPreloader(views.PreloaderOptions{Registry: registry, Logger: logger}).Run(context.Background())
	assert.Len(t, rep.Results, len(table.Views()))
	for _, res := range rep.Failed() {
		t.Errorf("view %s: %v", res.View, res.Err)
	}
	assert.Empty(t, registry.Pending())
}

func TestBuildHTTPHandler_HealthChecks(t *testing.T) {
	cfg := &config.AppConfig{}
	cfg.Observability.Metrics.Enabled = true

	h, err := BuildHTTPHandler(context.Background(), &HTTPServerConfig{
		Config: cfg,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	require.NoError(t, err)

	for _, path := range []string{"/healthz", "/metrics"} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}
