package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/stmartin/internal/foundation/errors"
)

// Defaults for the visitor counter. The baseline covers every visitor counted before incremental
// tracking was deployed on DefaultDeployDate.
const (
	DefaultBaseline   = 23869
	DefaultDeployDate = "2026-02-08"
	DefaultAPIURL     = "https://simpleanalytics.com"
	DefaultTimeout    = 10 * time.Second
	DefaultMountDir   = "/data"
	StateFileName     = "visitor_count.json"
	ExportsDirName    = "exports"
)

// CounterConfig configures the visitor counter. Values are layered as
// defaults < YAML file < environment < command-line flags.
type CounterConfig struct {
	Domain      string        `yaml:"domain" env:"SA_DOMAIN"`
	DataDir     string        `yaml:"data_dir" env:"VISITOR_DATA_DIR"`
	APIURL      string        `yaml:"api_url" env:"SA_API_URL"`
	Baseline    int           `yaml:"baseline" env:"VISITOR_BASELINE"`
	DeployDate  string        `yaml:"deploy_date" env:"VISITOR_DEPLOY_DATE"`
	Timeout     time.Duration `yaml:"timeout" env:"SA_TIMEOUT"`
	MetricsFile string        `yaml:"metrics_file" env:"VISITOR_METRICS_FILE"`
}

// DefaultCounterConfig returns the built-in counter configuration.
func DefaultCounterConfig() CounterConfig {
	return CounterConfig{
		APIURL:     DefaultAPIURL,
		Baseline:   DefaultBaseline,
		DeployDate: DefaultDeployDate,
		Timeout:    DefaultTimeout,
	}
}

// LoadCounter builds the counter configuration. path may be empty or point to a missing file,
// in which case only defaults and environment apply. The file content may reference
// environment variables as ${VAR}.
func LoadCounter(path string) (*CounterConfig, error) {
	cfg := DefaultCounterConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &cfg); err != nil {
				return nil, errors.WrapError(err, errors.CategoryConfig, "failed to parse counter config").
					Fatal().
					WithContext("path", path).
					Build()
			}
		case !os.IsNotExist(err):
			return nil, errors.WrapError(err, errors.CategoryConfig, "failed to read counter config").
				Fatal().
				WithContext("path", path).
				Build()
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to parse counter environment").
			Fatal().
			Build()
	}
	// DOMAIN is shared with the site build and only used when nothing more specific is set.
	if cfg.Domain == "" {
		cfg.Domain = os.Getenv("DOMAIN")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that would make every run misbehave. The domain is checked by the
// update path only, status and export work without one.
func (c *CounterConfig) Validate() error {
	if c.Baseline < 0 {
		return errors.ValidationError("baseline must not be negative").
			WithContext("baseline", c.Baseline).
			Build()
	}
	if c.DeployDate != "" {
		if _, err := time.Parse(time.DateOnly, c.DeployDate); err != nil {
			return errors.ValidationError(fmt.Sprintf("deploy_date %q is not a YYYY-MM-DD date", c.DeployDate)).
				WithCause(err).
				Build()
		}
	}
	if c.Timeout <= 0 {
		return errors.ValidationError("timeout must be positive").
			WithContext("timeout", c.Timeout.String()).
			Build()
	}
	if c.APIURL == "" {
		return errors.ValidationError("api_url must not be empty").Build()
	}
	return nil
}
