// Package config loads resgen.yaml and RESGEN_* environment overrides.
package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"

	"github.com/agentic-research/resgen/internal/resource"
)

// Config is the run configuration. Command line flags override it.
type Config struct {
	Namespace       string `mapstructure:"namespace"`
	ResourceDir     string `mapstructure:"resource_dir"`
	Indent          int    `mapstructure:"indent"`
	DefaultLanguage string `mapstructure:"default_language"`
	LedgerPath      string `mapstructure:"ledger_path"`
	LogMode         string `mapstructure:"log_mode"`
}

const MaxIndent = 8

// Load reads resgen.yaml (or .yml) from dir if present. A missing file is
// not an error; defaults and environment variables still apply.
func Load(dir string) (*Config, error) {
	v := viper.New()

	v.SetDefault("namespace", resource.DefaultNamespace)
	v.SetDefault("resource_dir", "src/main/resources")
	v.SetDefault("indent", 2)
	v.SetDefault("default_language", "en_us")
	v.SetDefault("ledger_path", ".resgen/ledger.db")
	v.SetDefault("log_mode", "development")

	v.SetConfigName("resgen")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)

	v.SetEnvPrefix("RESGEN")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that would otherwise fail late in a run.
func (c *Config) Validate() error {
	if _, err := resource.Parse(c.Namespace, "x"); err != nil || c.Namespace == "" {
		return fmt.Errorf("namespace %q is not a valid resource namespace", c.Namespace)
	}
	if c.Indent < 0 || c.Indent > MaxIndent {
		return fmt.Errorf("indent must be between 0 and %d, got: %d", MaxIndent, c.Indent)
	}
	if c.ResourceDir == "" {
		return fmt.Errorf("resource_dir must not be empty")
	}
	if c.LedgerPath == "" {
		return fmt.Errorf("ledger_path must not be empty")
	}
	return nil
}
