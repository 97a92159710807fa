// Package config loads research-view configuration from viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/pdiddy/research-view/pkg/types"
)

// EnvPrefix prefixes environment overrides, e.g. RESEARCH_VIEW_SERVER_ADDRESS.
const EnvPrefix = "RESEARCH_VIEW"

var validate = validator.New()

// SetDefaults registers the default for every configuration key. Keys must
// be registered for AutomaticEnv to pick them up during Unmarshal.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("secrets_dir", ".secrets")

	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 60*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.rate_limit", 10.0)
	v.SetDefault("server.rate_burst", 20)
	v.SetDefault("server.asset_base", "/static")

	v.SetDefault("catalog.path", "data/catalog.db")
	v.SetDefault("catalog.default_max_results", 15)
	v.SetDefault("catalog.default_threshold", "medium")

	v.SetDefault("cache.type", "none")
	v.SetDefault("cache.path", "data/cache.db")
	v.SetDefault("cache.redis_addr", "localhost:6379")
	v.SetDefault("cache.redis_password", "")
	v.SetDefault("cache.redis_db", 0)
	v.SetDefault("cache.ttl", 10*time.Minute)
	v.SetDefault("cache.cleanup_interval", time.Hour)

	v.SetDefault("upstream.base_url", "")
	v.SetDefault("upstream.timeout", 30*time.Second)
	v.SetDefault("upstream.user_agent", "research-view")
	v.SetDefault("upstream.max_retries", 3)
	v.SetDefault("upstream.api_key", "")

	v.SetDefault("view.language", "en")
	v.SetDefault("view.default_sources", []string{"dergipark", "trdizin", "yoktez"})

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.output", "stderr")
}

// Load applies defaults and environment overrides to v, unmarshals the
// result and validates it.
func Load(v *viper.Viper) (*types.Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg types.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks enumerations and ranges.
func Validate(cfg *types.Config) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return fmt.Errorf("validating config: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	field := strings.TrimPrefix(fe.Namespace(), "Config.")
	switch fe.Tag() {
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %q", field, fe.Param(), fmt.Sprint(fe.Value()))
	case "required":
		return field + " is required"
	case "url":
		return fmt.Sprintf("%s is not a valid URL: %q", field, fmt.Sprint(fe.Value()))
	default:
		return fmt.Sprintf("%s fails %s=%s", field, fe.Tag(), fe.Param())
	}
}
