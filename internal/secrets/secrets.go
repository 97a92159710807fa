// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads credentials from a directory of plain-text files.
// Each file in the directory represents one secret: the filename is the key name and the
// file contents (trimmed) are the value.
//
// Supported key files: upstream-api-key, redis-password.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/pdiddy/research-view/pkg/types"
)

// Key file names understood by Apply.
const (
	UpstreamAPIKey = "upstream-api-key"
	RedisPassword  = "redis-password"
)

// Load reads all files in dir and returns a map of filename to trimmed contents.
// A missing directory or missing files are not errors; Load returns an empty map.
// Unreadable files are logged as warnings on logger but do not abort.
func Load(dir string, logger zerolog.Logger) (map[string]string, error) {
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
			logger.Warn().Err(err).Str("secret", name).Msg("could not read secret")
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}

// Apply fills credentials in cfg that the config file left empty and
// returns the sorted names of the secrets it used.
func Apply(cfg *types.Config, secrets map[string]string) []string {
	var used []string
	fill := func(dst *string, key string) {
		if *dst != "" {
			return
		}
		if v, ok := secrets[key]; ok {
			*dst = v
			used = append(used, key)
		}
	}

	fill(&cfg.Upstream.APIKey, UpstreamAPIKey)
	fill(&cfg.Cache.RedisPassword, RedisPassword)

	sort.Strings(used)
	return used
}
