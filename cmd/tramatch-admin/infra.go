package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/tramatch/tramatch-web/config"
	"github.com/tramatch/tramatch-web/internal/bootstrap"
	"github.com/tramatch/tramatch-web/internal/data"
	"github.com/tramatch/tramatch-web/internal/service"
)

var errRedisNotConfigured = errors.New("redis not configured")

// accountInfra is what the account commands need: the user repository and
// a user service that can revoke sessions when Redis is reachable.
type accountInfra struct {
	db          *sql.DB
	redisClient redis.UniversalClient
	users       *data.UserRepo
	service     *service.UserService
}

func (a *accountInfra) Close() error {
	return closeInfra(a.db, a.redisClient)
}

// withAccounts connects to Postgres and, when configured, Redis, then runs f
// under a signal-aware timeout.
func withAccounts(cmdCtx *commandContext, timeout time.Duration, f func(context.Context, *accountInfra) error) error {
	ctx, stop := signal.NotifyContext(cmdCtx.Ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	db, err := bootstrap.ConnectDB(ctx, bootstrap.DatabaseConfig{DBConfig: cmdCtx.Config.Postgres, Logger: cmdCtx.Logger})
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}

	redisClient, err := maybeConnectRedis(ctx, cmdCtx.Logger, &cmdCtx.Config.Redis)
	switch {
	case errors.Is(err, errRedisNotConfigured):
		cmdCtx.Logger.Info("no redis configuration detected; sessions will not be revoked")
	case err != nil:
		// Changes still apply; live sessions expire on their own.
		cmdCtx.Logger.Warn("redis unavailable; sessions will not be revoked", "error", err)
	}

	users := data.NewUserRepo(db)
	opts := service.UserServiceOptions{
		Repo:          users,
		Notifications: data.NewNotificationRepo(db),
		Logger:        cmdCtx.Logger,
	}
	if redisClient != nil {
		opts.Sessions = bootstrap.NewSessionStore(redisClient, cmdCtx.Config.Redis.KeyPrefix)
	}

	infra := &accountInfra{
		db:          db,
		redisClient: redisClient,
		users:       users,
		service:     service.NewUserService(opts),
	}
	defer func() {
		if cerr := infra.Close(); cerr != nil {
			cmdCtx.Logger.Warn("close infrastructure failed", "error", cerr)
		}
	}()

	return f(ctx, infra)
}

// maybeConnectRedis returns a connected client when configuration is present.
//
//nolint:ireturn // returning redis.UniversalClient keeps sentinel support flexible.
func maybeConnectRedis(ctx context.Context, logger *slog.Logger, cfg *config.RedisConfig) (redis.UniversalClient, error) {
	if !hasRedisConfig(cfg) {
		return nil, errRedisNotConfigured
	}
	client, err := bootstrap.ConnectRedis(ctx, bootstrap.DatabaseConfig{RedisConfig: *cfg, Logger: logger})
	if err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	return client, nil
}

func hasRedisConfig(cfg *config.RedisConfig) bool {
	if cfg == nil {
		return false
	}
	if cfg.UseSentinel {
		return len(cfg.SentinelNodes) > 0
	}
	return cfg.URI != ""
}

func closeInfra(db *sql.DB, redisClient redis.UniversalClient) error {
	var closeErr error
	if db != nil {
		if err := db.Close(); err != nil {
			closeErr = errors.Join(closeErr, fmt.Errorf("close db: %w", err))
		}
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			closeErr = errors.Join(closeErr, fmt.Errorf("close redis: %w", err))
		}
	}
	return closeErr
}
