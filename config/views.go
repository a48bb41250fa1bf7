package config

import "time"

const (
	defaultPreloadDelay       = time.Second
	defaultPreloadConcurrency = 4
	maxPreloadConcurrency     = 32
)

// ViewsConfig controls page template loading.
type ViewsConfig struct {
	// PreloadEnabled warms every view in the background after the first
	// page has been served.
	PreloadEnabled bool `env:"VIEWS_PRELOAD_ENABLED" envDefault:"true"`

	// PreloadDelay is the pause between the first render and the preload pass.
	PreloadDelay time.Duration `env:"VIEWS_PRELOAD_DELAY" envDefault:"1s"`

	// PreloadConcurrency bounds how many views parse at once.
	PreloadConcurrency int `env:"VIEWS_PRELOAD_CONCURRENCY" envDefault:"4"`
}

// Sanitize applies guardrails to view loading values.
func (v *ViewsConfig) Sanitize() {
	if v.PreloadDelay < 0 {
		v.PreloadDelay = defaultPreloadDelay
	}
	if v.PreloadConcurrency < 1 {
		v.PreloadConcurrency = defaultPreloadConcurrency
	}
	if v.PreloadConcurrency > maxPreloadConcurrency {
		v.PreloadConcurrency = maxPreloadConcurrency
	}
}
