// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads API keys and credentials from a directory of plain-text files.
// Each file in the directory represents one secret: the filename is the key name and the
// file contents (trimmed) are the value.
//
// Supported key files: core-api-key, google-books-api-key, semantic-scholar-api-key, openalex-email.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/research-finder/pkg/types"
)

// Key file names recognized by Apply.
const (
	CoreAPIKey            = "core-api-key"
	GoogleBooksAPIKey     = "google-books-api-key"
	SemanticScholarAPIKey = "semantic-scholar-api-key"
	OpenAlexEmail         = "openalex-email"
)

// Load reads all files in dir and returns a map of filename to trimmed contents.
// A missing directory or missing files are not errors; Load returns an empty map.
// Unreadable files are logged as warnings but do not abort.
func Load(dir string, logger *zap.Logger) (map[string]string, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			logger.Warn("could not read secret", zap.String("name", name), zap.Error(err))
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}

// Apply fills keys left empty by config and environment from the loaded
// secrets. It returns the sorted names of the secrets it used.
func Apply(keys *types.KeysConfig, secrets map[string]string) []string {
	targets := map[string]*string{
		CoreAPIKey:            &keys.CoreAPIKey,
		GoogleBooksAPIKey:     &keys.GoogleBooksAPIKey,
		SemanticScholarAPIKey: &keys.SemanticScholarAPIKey,
		OpenAlexEmail:         &keys.OpenAlexEmail,
	}

	var used []string
	for name, dst := range targets {
		v, ok := secrets[name]
		if !ok || *dst != "" {
			continue
		}
		*dst = v
		used = append(used, name)
	}
	sort.Strings(used)
	return used
}
