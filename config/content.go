package config

import (
	"strings"
	"time"
)

// ContentConfig points the admin SEO/LP/media pages at a chat-completions
// style text generation endpoint. Generation is disabled while Endpoint or
// APIKey is empty.
type ContentConfig struct {
	Endpoint string `env:"ENDPOINT"`
	APIKey   string `env:"API_KEY"`
	Model    string `env:"MODEL"       envDefault:"gpt-4o-mini"`
	// ResultPath is a JMESPath expression selecting the generated text in
	// the response body.
	ResultPath string        `env:"RESULT_PATH" envDefault:"choices[0].message.content"`
	Timeout    time.Duration `env:"TIMEOUT"     envDefault:"60s"`
}

// Sanitize normalises content generation settings.
func (c *ContentConfig) Sanitize() {
	c.Endpoint = strings.TrimSpace(c.Endpoint)
	c.APIKey = strings.TrimSpace(c.APIKey)
	c.ResultPath = strings.TrimSpace(c.ResultPath)
	if c.Timeout <= 0 {
		c.Timeout = 60 * time.Second
	}
}

// IsEnabled reports whether generation can be attempted.
func (c *ContentConfig) IsEnabled() bool {
	return c.Endpoint != "" && c.APIKey != ""
}
