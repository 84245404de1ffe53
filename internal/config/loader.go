package config

import (
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// envPrefix is the environment variable prefix for all service settings.
const envPrefix = "SOILADVISOR"

// newViper builds a pre-configured viper instance: YAML files, SOILADVISOR_
// env prefix, automatic env binding, and a key replacer so "llm.base_url"
// resolves from SOILADVISOR_LLM_BASE_URL.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	registerKeys(v)
	return v
}

// registerKeys declares every config key to viper. Unmarshal only decodes
// keys viper knows about, so env-only overrides are lost without this.
func registerKeys(v *viper.Viper) {
	for _, key := range []string{
		"server.port", "server.mode", "server.read_timeout", "server.write_timeout",
		"server.max_body_size", "server.shutdown_timeout",
		"llm.base_url", "llm.model", "llm.timeout", "llm.max_retries",
		"pipeline.max_retries", "pipeline.analysis_timeout",
		"log.level", "log.format", "log.output_paths",
		"metrics.enabled", "metrics.namespace",
		"metrics.enable_process_metrics", "metrics.enable_go_metrics",
	} {
		v.SetDefault(key, nil)
	}
}

// Load reads the YAML file at configPath, merges SOILADVISOR_* environment
// overrides, applies defaults for unset fields, and validates the result.
func Load(configPath string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: failed to read config file %q: %w", configPath, err)
	}

	return unmarshalAndFinalize(v)
}

// LoadFromEnv builds a Config entirely from SOILADVISOR_* environment
// variables and defaults, with no config file. This covers the common CLI
// case where the farmer-facing caller never writes a YAML file.
func LoadFromEnv() (*Config, error) {
	return unmarshalAndFinalize(newViper())
}

func unmarshalAndFinalize(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal configuration: %w", err)
	}

	ApplyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}

	return cfg, nil
}

// Watch monitors configPath and invokes onChange with each newly parsed
// Config. Intended for hot-reloading safe settings such as log level; callers
// decide which changes to apply at runtime. A change that fails to parse or
// validate is skipped so the service never adopts a broken config.
func Watch(configPath string, onChange func(*Config)) {
	v := newViper()
	v.SetConfigFile(configPath)

	// Initial read; callers should have called Load first.
	_ = v.ReadInConfig()

	v.WatchConfig()
	v.OnConfigChange(func(_ fsnotify.Event) {
		cfg, err := unmarshalAndFinalize(v)
		if err != nil {
			return
		}
		onChange(cfg)
	})
}
