// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds outbound HTTP settings shared by every source adapter.
type HTTPConfig struct {
	// TimeoutSeconds bounds each adapter's call(s) to its provider (default 10).
	TimeoutSeconds int `json:"timeout_seconds" yaml:"timeout_seconds" mapstructure:"timeout_seconds"`

	// UserAgent is the User-Agent header sent with provider requests
	// (e.g. "ResearchFinder/1.0").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`

	// MaxRetries is the number of retries on HTTP 429 for providers that
	// advertise rate limits (default 2).
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`
}

// Timeout returns TimeoutSeconds as a duration.
func (c HTTPConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// SourcesConfig selects and sizes the source adapters.
type SourcesConfig struct {
	// Enabled lists adapter names to query. Empty means every registered adapter.
	Enabled []string `json:"enabled" yaml:"enabled" mapstructure:"enabled"`

	// MaxResults is the per-source result count requested from providers (default 10).
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results"`
}

// KeysConfig carries provider credentials. A missing key disables only the
// adapter that needs it.
type KeysConfig struct {
	CoreAPIKey            string `json:"core_api_key,omitempty" yaml:"core_api_key,omitempty" mapstructure:"core_api_key"`
	GoogleBooksAPIKey     string `json:"google_books_api_key,omitempty" yaml:"google_books_api_key,omitempty" mapstructure:"google_books_api_key"`
	SemanticScholarAPIKey string `json:"semantic_scholar_api_key,omitempty" yaml:"semantic_scholar_api_key,omitempty" mapstructure:"semantic_scholar_api_key"`

	// OpenAlexEmail is sent as the mailto parameter for OpenAlex's polite pool.
	OpenAlexEmail string `json:"openalex_email,omitempty" yaml:"openalex_email,omitempty" mapstructure:"openalex_email"`
}

// ServerConfig controls the HTTP endpoint.
type ServerConfig struct {
	Port int `json:"port" yaml:"port" mapstructure:"port"`

	// StaticDir, when set, is served at / for the browser UI.
	StaticDir string `json:"static_dir" yaml:"static_dir" mapstructure:"static_dir"`

	// RequestTimeout caps one whole search across all adapters (default 30s).
	RequestTimeout time.Duration `json:"request_timeout" yaml:"request_timeout" mapstructure:"request_timeout"`
}

// LoggingConfig toggles zap development output.
type LoggingConfig struct {
	Development bool `json:"development" yaml:"development" mapstructure:"development"`
}

// Config groups all settings for research-finder.
type Config struct {
	Server  ServerConfig  `json:"server" yaml:"server" mapstructure:"server"`
	HTTP    HTTPConfig    `json:"http" yaml:"http" mapstructure:"http"`
	Sources SourcesConfig `json:"sources" yaml:"sources" mapstructure:"sources"`
	Keys    KeysConfig    `json:"keys" yaml:"keys" mapstructure:"keys"`
	Logging LoggingConfig `json:"logging" yaml:"logging" mapstructure:"logging"`
}
