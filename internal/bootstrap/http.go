package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	tramatch "github.com/tramatch/tramatch-web"
	"github.com/tramatch/tramatch-web/config"
	"github.com/tramatch/tramatch-web/internal/domain/nav"
	httpx "github.com/tramatch/tramatch-web/internal/http"
	"github.com/tramatch/tramatch-web/internal/http/views"
	"github.com/tramatch/tramatch-web/internal/observability/metrics"
)

// TemplatesPathFromRoot is the on-disk template directory used in dev mode.
const TemplatesPathFromRoot = "frontend/templates"

// HTTPServerConfig contains configuration for HTTP server.
type HTTPServerConfig struct {
	Config      *config.AppConfig
	Services    ServiceContainer
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

type runningServer struct {
	srv   *http.Server
	errCh <-chan error
}

// startHTTPServer builds the handler and starts listening in the background.
// ctx bounds background work started by the server, such as preloading.
func startHTTPServer(ctx context.Context, cfg *HTTPServerConfig) (*runningServer, error) {
	if cfg == nil || cfg.Config == nil {
		return nil, errors.New("http server config is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	handler, err := BuildHTTPHandler(ctx, cfg)
	if err != nil {
		return nil, err
	}

	srv, errCh := startServer(logger, handler, cfg.Config.HTTP.Addr)
	return &runningServer{srv: srv, errCh: errCh}, nil
}

// BuildHTTPHandler assembles views, preloading, metrics and the router.
func BuildHTTPHandler(ctx context.Context, cfg *HTTPServerConfig) (http.Handler, error) {
	appCfg := cfg.Config
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var reg *metrics.Registry
	if appCfg.Observability.Metrics.Enabled {
		reg = metrics.New()
	}

	table, err := nav.NewAppTable()
	if err != nil {
		return nil, fmt.Errorf("route table: %w", err)
	}

	registry, err := BuildViewRegistry(appCfg, table, reg, logger)
	if err != nil {
		return nil, err
	}

	var preloader httpx.Preloader
	if appCfg.Views.PreloadEnabled {
		preloader = views.NewPreloader(views.PreloaderOptions{
			Registry:    registry,
			Delay:       appCfg.Views.PreloadDelay,
			Concurrency: appCfg.Views.PreloadConcurrency,
			Context:     ctx,
			Metrics:     reg,
			Logger:      logger,
		})
	}

	if appCfg.HTTP.CompressionEnabled {
		logger.Info("HTTP compression enabled", "level", appCfg.HTTP.CompressionLevel)
	}

	var ping func(context.Context) error
	if cfg.DB != nil {
		db, rc := cfg.DB, cfg.RedisClient
		ping = func(ctx context.Context) error {
			if err := db.PingContext(ctx); err != nil {
				return fmt.Errorf("database: %w", err)
			}
			if rc != nil {
				if err := rc.Ping(ctx).Err(); err != nil {
					return fmt.Errorf("redis: %w", err)
				}
			}
			return nil
		}
	}

	svc := cfg.Services
	return httpx.NewRouter(httpx.RouterServices{
		Auth:          svc.Auth,
		Users:         svc.Users,
		Listings:      svc.Listings,
		Notifications: svc.Notifications,
		Announcements: svc.Announcements,
		Content:       svc.Content,
		Admin:         svc.Admin,
		Table:         table,
		Views:         registry,
		Preloader:     preloader,
		Ping:          ping,
		Metrics:       reg,
		Settings:      settingRows(appCfg.Settings()),
		Compression: httpx.CompressionConfig{
			Disabled: !appCfg.HTTP.CompressionEnabled,
			Level:    appCfg.HTTP.CompressionLevel,
			MinSize:  appCfg.HTTP.CompressionMinSize,
		},
		CookieDomain: appCfg.HTTP.CookieDomain,
		BaseURL:      appCfg.HTTP.BaseURL,
		IsDev:        appCfg.IsDev,
		Logger:       logger,
	})
}

// BuildViewRegistry returns the template registry for every view in the
// route table. Dev mode reads templates from disk and reparses per request.
func BuildViewRegistry(
	cfg *config.AppConfig,
	table *nav.Table,
	reg *metrics.Registry,
	logger *slog.Logger,
) (*views.Registry, error) {
	var fsys fs.FS
	if cfg.IsDev {
		fsys = os.DirFS(TemplatesPathFromRoot)
	} else {
		sub, err := fs.Sub(tramatch.TemplateFS, TemplatesPathFromRoot)
		if err != nil {
			return nil, fmt.Errorf("template sub-filesystem: %w", err)
		}
		fsys = sub
	}

	registry, err := views.NewRegistry(views.Config{
		FS:      fsys,
		Views:   table.Views(),
		Reload:  cfg.IsDev,
		Metrics: reg,
		Logger:  logger,
	})
	if err != nil {
		return nil, fmt.Errorf("view registry: %w", err)
	}
	return registry, nil
}

func settingRows(settings []config.Setting) []httpx.SettingRow {
	rows := make([]httpx.SettingRow, 0, len(settings))
	for _, s := range settings {
		rows = append(rows, httpx.SettingRow{Name: s.Name, Value: s.Value})
	}
	return rows
}

func startServer(logger *slog.Logger, handler http.Handler, addr string) (*http.Server, <-chan error) {
	// Guard against empty addr to avoid listening on Go default
	if addr == "" {
		addr = ":8080"
	}

	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      90 * time.Second, // content generation can take a while
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting HTTP server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server failed", "error", err)
			errCh <- err
		}
	}()

	return server, errCh
}

// ShutdownConfig contains dependencies for HTTP server shutdown.
type ShutdownConfig struct {
	Context context.Context
	Server  *http.Server
	Logger  *slog.Logger
}

// ShutdownHTTPServer gracefully shuts down the HTTP server.
func ShutdownHTTPServer(cfg ShutdownConfig) error {
	if cfg.Server == nil {
		return nil
	}

	if cfg.Logger != nil {
		cfg.Logger.Info("shutting down HTTP server")
	}

	if err := cfg.Server.Shutdown(cfg.Context); err != nil {
		return err
	}

	if cfg.Logger != nil {
		cfg.Logger.Info("HTTP server stopped")
	}

	return nil
}
