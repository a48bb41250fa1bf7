package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/tramatch/tramatch-web/config"
	"github.com/tramatch/tramatch-web/internal/data"
	"github.com/tramatch/tramatch-web/internal/service"
)

const shutdownWaitTimeout = 10 * time.Second

// Repositories holds the Postgres-backed repositories.
type Repositories struct {
	Users         *data.UserRepo
	Cargo         *data.CargoRepo
	Trucks        *data.TruckRepo
	Notifications *data.NotificationRepo
	Announcements *data.AnnouncementRepo
	Stats         *data.StatsRepo
}

// NewRepositories builds every repository over one connection pool.
func NewRepositories(db *sql.DB) Repositories {
	return Repositories{
		Users:         data.NewUserRepo(db),
		Cargo:         data.NewCargoRepo(db),
		Trucks:        data.NewTruckRepo(db),
		Notifications: data.NewNotificationRepo(db),
		Announcements: data.NewAnnouncementRepo(db),
		Stats:         data.NewStatsRepo(db),
	}
}

// ServiceContainer holds all initialized services.
type ServiceContainer struct {
	Repos         Repositories
	Auth          *service.AuthService
	Users         *service.UserService
	Listings      *service.ListingService
	Notifications *service.NotificationService
	Announcements *service.AnnouncementService
	Admin         *service.AdminService
	Content       *service.ContentService
}

// ServiceDeps contains dependencies needed to create services.
type ServiceDeps struct {
	Config      *config.AppConfig
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// NewServices wires repositories into the application services.
func NewServices(ctx context.Context, deps *ServiceDeps) (ServiceContainer, error) {
	if deps == nil || deps.Config == nil || deps.DB == nil {
		return ServiceContainer{}, errors.New("services: config and database are required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cfg := deps.Config
	repos := NewRepositories(deps.DB)

	if deps.RedisClient == nil {
		return ServiceContainer{}, errors.New("services: redis client is required for sessions")
	}
	sessions := NewSessionStore(deps.RedisClient, cfg.Redis.KeyPrefix)
	auth := BuildAuthService(ctx, AuthConfig{
		Auth:     cfg.Auth,
		Sessions: sessions,
		Users:    repos.Users,
		Logger:   logger,
	})

	content, err := service.NewContentService(service.ContentServiceOptions{
		Endpoint:   cfg.Content.Endpoint,
		APIKey:     cfg.Content.APIKey,
		Model:      cfg.Content.Model,
		ResultPath: cfg.Content.ResultPath,
		Timeout:    cfg.Content.Timeout,
		Logger:     logger,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("content service: %w", err)
	}
	if !cfg.Content.IsEnabled() {
		logger.Info("content generation disabled", "reason", "AI_ENDPOINT not set")
	}

	return ServiceContainer{
		Repos: repos,
		Auth:  auth,
		Users: service.NewUserService(service.UserServiceOptions{
			Repo:          repos.Users,
			Notifications: repos.Notifications,
			Sessions:      sessions,
			Logger:        logger,
		}),
		Listings: service.NewListingService(service.ListingServiceOptions{
			Cargo:         repos.Cargo,
			Trucks:        repos.Trucks,
			Notifications: repos.Notifications,
			Logger:        logger,
		}),
		Notifications: service.NewNotificationService(service.NotificationServiceOptions{
			Repo:   repos.Notifications,
			Users:  repos.Users,
			Logger: logger,
		}),
		Announcements: service.NewAnnouncementService(service.AnnouncementServiceOptions{
			Repo: repos.Announcements,
		}),
		Admin: service.NewAdminService(service.AdminServiceOptions{
			Stats:         repos.Stats,
			Users:         repos.Users,
			Cargo:         repos.Cargo,
			MonthlyFeeYen: cfg.MonthlyFeeYen,
			Cache:         data.NewRedisCacheRepo(deps.RedisClient, data.DefaultCachePrefix),
			CacheTTL:      cfg.StatsCacheTTL,
			Logger:        logger,
		}),
		Content: content,
	}, nil
}

// RunConfig contains everything the server process needs.
type RunConfig struct {
	Config      *config.AppConfig
	Services    ServiceContainer
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// RunWithShutdown serves HTTP until SIGINT/SIGTERM or a server error, then
// drains in-flight requests.
func RunWithShutdown(cfg *RunConfig) error {
	if cfg == nil || cfg.Config == nil {
		return errors.New("run config is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	server, err := startHTTPServer(ctx, &HTTPServerConfig{
		Config:      cfg.Config,
		Services:    cfg.Services,
		DB:          cfg.DB,
		RedisClient: cfg.RedisClient,
		Logger:      logger,
	})
	if err != nil {
		return err
	}

	return waitForShutdown(shutdownConfig{
		ctx:        ctx,
		cancel:     cancel,
		errCh:      server.errCh,
		httpServer: server.srv,
		logger:     logger,
	})
}

// shutdownConfig contains dependencies for graceful shutdown.
type shutdownConfig struct {
	ctx        context.Context
	cancel     context.CancelFunc
	errCh      <-chan error
	httpServer *http.Server
	logger     *slog.Logger
}

// waitForShutdown waits for shutdown signal or server error.
func waitForShutdown(cfg shutdownConfig) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case <-quit:
		cfg.logger.Info("shutting down...")
		return gracefulStop(cfg)
	case err := <-cfg.errCh:
		cfg.logger.Error("server error", "error", err)
		if stopErr := gracefulStop(cfg); stopErr != nil {
			cfg.logger.Error("graceful stop failed", "error", stopErr)
		}
		return err
	}
}

// gracefulStop drains the HTTP server, then cancels background work such as
// the view preloader.
func gracefulStop(cfg shutdownConfig) error {
	defer cfg.cancel()
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(cfg.ctx), shutdownWaitTimeout)
	defer cancel()

	return ShutdownHTTPServer(ShutdownConfig{
		Context: shutdownCtx,
		Server:  cfg.httpServer,
		Logger:  cfg.logger,
	})
}
