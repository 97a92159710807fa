package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, 15, cfg.Catalog.DefaultMaxResults)
	assert.Equal(t, "/static", cfg.Server.AssetBase)
	assert.Equal(t, "medium", cfg.Catalog.DefaultThreshold)
	assert.Equal(t, "none", cfg.Cache.Type)
	assert.Equal(t, 10*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, 30*time.Second, cfg.Upstream.Timeout)
	assert.Equal(t, "research-view", cfg.Upstream.UserAgent)
	assert.Equal(t, []string{"dergipark", "trdizin", "yoktez"}, cfg.View.DefaultSources)
	assert.Equal(t, "en", cfg.View.Language)
	assert.Equal(t, ".secrets", cfg.SecretsDir)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "research-view.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  address: 127.0.0.1:9000
  rate_limit: 0
cache:
  type: bbolt
  ttl: 90s
upstream:
  base_url: http://search.internal:5000
  timeout: 5s
view:
  language: tr
  default_sources: [yoktez]
`), 0o644))

	v := viper.New()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Address)
	assert.Zero(t, cfg.Server.RateLimit)
	assert.Equal(t, "bbolt", cfg.Cache.Type)
	assert.Equal(t, 90*time.Second, cfg.Cache.TTL)
	assert.Equal(t, "http://search.internal:5000", cfg.Upstream.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.Upstream.Timeout)
	assert.Equal(t, "tr", cfg.View.Language)
	assert.Equal(t, []string{"yoktez"}, cfg.View.DefaultSources)
	// Untouched keys keep their defaults.
	assert.Equal(t, "data/catalog.db", cfg.Catalog.Path)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("RESEARCH_VIEW_SERVER_ADDRESS", ":7070")
	t.Setenv("RESEARCH_VIEW_LOGGING_LEVEL", "debug")
	t.Setenv("RESEARCH_VIEW_CATALOG_DEFAULT_MAX_RESULTS", "-1")

	cfg, err := Load(viper.New())
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.Server.Address)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, -1, cfg.Catalog.DefaultMaxResults)
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		key   string
		value any
		want  string
	}{
		{"catalog.default_threshold", "extreme", "Catalog.DefaultThreshold must be one of [high medium low]"},
		{"cache.type", "memcached", "Cache.Type must be one of"},
		{"view.language", "de", "View.Language must be one of [en tr]"},
		{"view.default_sources", []string{"arxiv"}, "View.DefaultSources[0] must be one of"},
		{"logging.format", "xml", "Logging.Format"},
		{"upstream.base_url", "not a url", "Upstream.BaseURL is not a valid URL"},
		{"server.address", "", "Server.Address is required"},
		{"catalog.default_max_results", -5, "Catalog.DefaultMaxResults fails gte=-1"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			v := viper.New()
			v.Set(tt.key, tt.value)
			_, err := Load(v)
			require.Error(t, err)
			assert.True(t, strings.HasPrefix(err.Error(), "invalid config: "), err.Error())
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
