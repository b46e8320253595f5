// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package config loads and validates research-finder configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/pdiddy/research-finder/pkg/types"
)

// EnvPrefix prefixes every environment override, e.g.
// RESEARCH_FINDER_SOURCES_MAX_RESULTS.
const EnvPrefix = "RESEARCH_FINDER"

// legacyEnv maps config keys to the unprefixed variable names deployments
// already set. The prefixed name is checked first.
var legacyEnv = map[string]string{
	"server.port":                   "PORT",
	"keys.core_api_key":             "CORE_API_KEY",
	"keys.google_books_api_key":     "GOOGLE_BOOKS_API_KEY",
	"keys.semantic_scholar_api_key": "SEMANTIC_SCHOLAR_API_KEY",
	"keys.openalex_email":           "OPENALEX_EMAIL",
}

// Load builds a Config from defaults, an optional YAML file at path, and the
// environment, then validates it.
func Load(path string) (types.Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	for key, name := range legacyEnv {
		prefixed := EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, prefixed, name); err != nil {
			return types.Config{}, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return types.Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg types.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return types.Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return types.Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.static_dir", "")
	v.SetDefault("server.request_timeout", 30*time.Second)
	v.SetDefault("http.timeout_seconds", 10)
	v.SetDefault("http.user_agent", "ResearchFinder/1.0")
	v.SetDefault("http.max_retries", 2)
	v.SetDefault("sources.enabled", []string{})
	v.SetDefault("sources.max_results", 10)
	v.SetDefault("keys.core_api_key", "")
	v.SetDefault("keys.google_books_api_key", "")
	v.SetDefault("keys.semantic_scholar_api_key", "")
	v.SetDefault("keys.openalex_email", "")
	v.SetDefault("logging.development", false)
}

// Validate enforces required values and reasonable limits.
func Validate(c types.Config) error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535, got %d", c.Server.Port)
	}
	if c.Server.RequestTimeout <= 0 {
		return fmt.Errorf("server.request_timeout must be > 0")
	}
	if c.HTTP.TimeoutSeconds <= 0 {
		return fmt.Errorf("http.timeout_seconds must be > 0")
	}
	if c.HTTP.MaxRetries < 0 {
		return fmt.Errorf("http.max_retries must be >= 0")
	}
	if strings.TrimSpace(c.HTTP.UserAgent) == "" {
		return fmt.Errorf("http.user_agent must be set")
	}
	if c.Sources.MaxResults <= 0 {
		return fmt.Errorf("sources.max_results must be > 0")
	}
	return nil
}
