package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// AppConfig is the main application configuration struct that composes
// domain-specific configuration from separate files.
//
// Configuration is loaded from environment variables using the
// github.com/caarlos0/env library. See individual domain config
// files for details on available environment variables:
//   - auth.go: password sessions and optional single sign-on
//   - database.go: Postgres and the Redis session store
//   - http.go: HTTP server configuration
//   - views.go: template loading and the background preloader
//   - content.go: the text generation endpoint behind the admin SEO/LP/media pages
//   - observability.go: logging and metrics
type AppConfig struct {
	// IsDev reads templates and static files from disk and disables caching.
	// Set DEV=true or NODE_ENV=development for development mode.
	IsDev bool `env:"DEV" envDefault:"false"`

	// MonthlyFeeYen is the subscription fee (before tax) used by the payment,
	// invoice and revenue screens.
	MonthlyFeeYen int `env:"MONTHLY_FEE_YEN" envDefault:"11000"`

	// StatsCacheTTL is how long admin report queries are cached in Redis.
	// Zero disables the cache.
	StatsCacheTTL time.Duration `env:"ADMIN_STATS_CACHE_TTL" envDefault:"30s"`

	Auth AuthConfig

	Postgres DBConfig    `envPrefix:"DB_"`
	Redis    RedisConfig `envPrefix:"REDIS_"`

	HTTP HTTPConfig

	Views ViewsConfig

	Content ContentConfig `envPrefix:"AI_"`

	Observability ObservabilityConfig
}

// Sanitize applies guardrails to configuration values loaded from env.
// This should be called after loading configuration from environment variables.
func (c *AppConfig) Sanitize() {
	c.HTTP.Sanitize()
	c.Auth.Sanitize()
	c.Views.Sanitize()
	c.Content.Sanitize()
	c.Observability.Sanitize()
	if c.MonthlyFeeYen < 0 {
		c.MonthlyFeeYen = 0
	}
	if c.StatsCacheTTL < 0 {
		c.StatsCacheTTL = 0
	}

	c.detectDevMode()
}

// detectDevMode checks both DEV and NODE_ENV environment variables.
// NODE_ENV is checked as a fallback (common in frontend tooling).
func (c *AppConfig) detectDevMode() {
	if !c.IsDev {
		nodeEnv := strings.ToLower(os.Getenv("NODE_ENV"))
		c.IsDev = nodeEnv == "development" || nodeEnv == "dev"
	}
}

// Setting is one name/value pair of the effective configuration.
type Setting struct {
	Name  string
	Value string
}

const redacted = "********"

// Settings lists the effective configuration for the read-only admin view.
// Credentials are redacted; an unset credential shows as empty.
func (c *AppConfig) Settings() []Setting {
	secret := func(v string) string {
		if v == "" {
			return ""
		}
		return redacted
	}
	return []Setting{
		{"DEV", strconv.FormatBool(c.IsDev)},
		{"HTTP_ADDR", c.HTTP.Addr},
		{"APP_BASE_URL", c.HTTP.BaseURL},
		{"APP_COOKIE_DOMAIN", c.HTTP.CookieDomain},
		{"HTTP_COMPRESSION_ENABLED", strconv.FormatBool(c.HTTP.CompressionEnabled)},
		{"HTTP_COMPRESSION_LEVEL", strconv.Itoa(c.HTTP.CompressionLevel)},
		{"DB_HOST", c.Postgres.Host},
		{"DB_NAME", c.Postgres.Name},
		{"DB_PASSWORD", secret(c.Postgres.Password)},
		{"REDIS_URI", c.Redis.URI},
		{"REDIS_PASSWORD", secret(c.Redis.Password)},
		{"AUTH_MODE", string(c.Auth.Mode)},
		{"ADMIN_GROUP", c.Auth.AdminGroup},
		{"OAUTH_CLIENT_SECRET", secret(c.Auth.OAuth.ClientSecret)},
		{"SESSION_TTL", c.Auth.SessionTTL.String()},
		{"VIEWS_PRELOAD_ENABLED", strconv.FormatBool(c.Views.PreloadEnabled)},
		{"VIEWS_PRELOAD_DELAY", c.Views.PreloadDelay.String()},
		{"VIEWS_PRELOAD_CONCURRENCY", strconv.Itoa(c.Views.PreloadConcurrency)},
		{"AI_ENDPOINT", c.Content.Endpoint},
		{"AI_API_KEY", secret(c.Content.APIKey)},
		{"AI_MODEL", c.Content.Model},
		{"AI_RESULT_PATH", c.Content.ResultPath},
		{"AI_TIMEOUT", c.Content.Timeout.String()},
		{"METRICS_ENABLED", strconv.FormatBool(c.Observability.Metrics.Enabled)},
		{"LOG_LEVEL", c.Observability.Logging.Level},
		{"LOG_FORMAT", c.Observability.Logging.Format},
		{"MONTHLY_FEE_YEN", strconv.Itoa(c.MonthlyFeeYen)},
		{"ADMIN_STATS_CACHE_TTL", c.StatsCacheTTL.String()},
	}
}
