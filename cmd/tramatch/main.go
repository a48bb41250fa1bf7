package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/redis/go-redis/v9"
	"github.com/tramatch/tramatch-web/config"
	"github.com/tramatch/tramatch-web/internal/bootstrap"
	"github.com/tramatch/tramatch-web/internal/domain/nav"
)

const serviceName = "tramatch"

func main() {
	ctx := context.Background()
	logger := bootstrap.InitLogger(serviceName)
	if err := run(ctx, logger); err != nil {
		logger.ErrorContext(ctx, "fatal error", "error", err)
		os.Exit(1) //nolint:forbidigo // Main entrypoint should exit with non-zero status on fatal errors.
	}
}

func run(ctx context.Context, logger *slog.Logger) error {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return err
	}
	logger = bootstrap.ConfigureLogger(os.Stdout, serviceName, cfg.Observability.Logging)
	logStartupInfo(ctx, logger, &cfg)

	infra, err := connect(ctx, &cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := infra.Close(); cerr != nil {
			logger.ErrorContext(ctx, "close infrastructure failed", "error", cerr)
		}
	}()

	if cfg.Postgres.RunMigrationsOnStart {
		if err := bootstrap.RunMigrations(ctx, infra.db, logger); err != nil {
			return err
		}
	} else {
		logger.InfoContext(ctx, "skipping database migrations on startup", "reason", "DB_RUN_MIGRATIONS_ON_START=false")
	}

	services, err := bootstrap.NewServices(ctx, &bootstrap.ServiceDeps{
		Config:      &cfg,
		DB:          infra.db,
		RedisClient: infra.redis,
		Logger:      logger,
	})
	if err != nil {
		return err
	}

	return bootstrap.RunWithShutdown(&bootstrap.RunConfig{
		Config:      &cfg,
		Services:    services,
		DB:          infra.db,
		RedisClient: infra.redis,
		Logger:      logger,
	})
}

func logStartupInfo(ctx context.Context, logger *slog.Logger, cfg *config.AppConfig) {
	routes := nav.AppRoutes()
	logger.InfoContext(ctx, "starting tramatch",
		"addr", cfg.HTTP.Addr,
		"base_url", cfg.HTTP.BaseURL,
		"dev", cfg.IsDev,
		"auth_mode", cfg.Auth.Mode,
		"db", fmt.Sprintf("%s:%d/%s", cfg.Postgres.Host, cfg.Postgres.Port, cfg.Postgres.Name),
		"routes", len(routes),
		"preload", cfg.Views.PreloadEnabled,
		"metrics", cfg.Observability.Metrics.Enabled,
		"content_generation", cfg.Content.IsEnabled(),
	)
}

// infrastructure is the listing database and the session store.
type infrastructure struct {
	db    *sql.DB
	redis redis.UniversalClient
}

func (i *infrastructure) Close() error {
	var errs []error
	if i.redis != nil {
		if err := i.redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close redis: %w", err))
		}
	}
	if i.db != nil {
		if err := i.db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close database: %w", err))
		}
	}
	return errors.Join(errs...)
}

// connect opens Postgres and then Redis. Nothing stays open on failure.
func connect(ctx context.Context, cfg *config.AppConfig, logger *slog.Logger) (*infrastructure, error) {
	infra := &infrastructure{}
	db, err := bootstrap.ConnectDB(ctx, bootstrap.DatabaseConfig{DBConfig: cfg.Postgres, Logger: logger})
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}
	infra.db = db

	client, err := bootstrap.ConnectRedis(ctx, bootstrap.DatabaseConfig{RedisConfig: cfg.Redis, Logger: logger})
	if err != nil {
		return nil, errors.Join(fmt.Errorf("connect redis: %w", err), infra.Close())
	}
	infra.redis = client
	return infra, nil
}
