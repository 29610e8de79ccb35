// Package config loads application configuration from config.yaml and the
// environment and initializes the global logger.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Match     MatchConfig     `yaml:"match" mapstructure:"match"`
	Normalize NormalizeConfig `yaml:"normalize" mapstructure:"normalize"`
	Ingest    IngestConfig    `yaml:"ingest" mapstructure:"ingest"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	Path        string `yaml:"path" mapstructure:"path"`                 // sqlite file path
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"` // postgres DSN
}

// MatchConfig configures signatures, blocking, and the hybrid threshold.
type MatchConfig struct {
	NumHashes   int     `yaml:"num_hashes" mapstructure:"num_hashes"`
	Bands       int     `yaml:"bands" mapstructure:"bands"`
	ShingleSize int     `yaml:"shingle_size" mapstructure:"shingle_size"`
	Threshold   float64 `yaml:"threshold" mapstructure:"threshold"`
	Workers     int     `yaml:"workers" mapstructure:"workers"`
}

// NormalizeConfig configures optional extra normalization rules.
type NormalizeConfig struct {
	RulesPath string `yaml:"rules_path" mapstructure:"rules_path"`
}

// IngestConfig configures source file ingestion.
type IngestConfig struct {
	NameColumn  int    `yaml:"name_column" mapstructure:"name_column"`
	NameHeader  string `yaml:"name_header" mapstructure:"name_header"`
	SheetIndex  int    `yaml:"sheet_index" mapstructure:"sheet_index"`
	SkipRows    int    `yaml:"skip_rows" mapstructure:"skip_rows"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MaxRetries  int    `yaml:"max_retries" mapstructure:"max_retries"`

	// HostLimits caps download rates per host, in requests per second.
	// Hosts without an entry fall back to the fetcher's default limiter.
	HostLimits map[string]float64 `yaml:"host_limits" mapstructure:"host_limits"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("EMPLOYER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.path", "employers.db")
	v.SetDefault("match.num_hashes", 128)
	v.SetDefault("match.bands", 16)
	v.SetDefault("match.shingle_size", 3)
	v.SetDefault("match.threshold", 0.85)
	v.SetDefault("match.workers", 0)
	v.SetDefault("ingest.name_column", 0)
	v.SetDefault("ingest.timeout_secs", 30)
	v.SetDefault("ingest.max_retries", 3)
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the configuration for the given mode ("resolve" or
// "serve"). Match bounds are checked in both modes.
func (c *Config) Validate(mode string) error {
	var problems []string

	switch c.Store.Driver {
	case "sqlite":
		if c.Store.Path == "" {
			problems = append(problems, "store.path is required for the sqlite driver")
		}
	case "postgres":
		if c.Store.DatabaseURL == "" {
			problems = append(problems, "store.database_url is required for the postgres driver")
		}
	default:
		problems = append(problems, "store.driver must be sqlite or postgres")
	}

	if c.Match.NumHashes < 1 {
		problems = append(problems, "match.num_hashes must be >= 1")
	}
	if c.Match.Bands < 1 || c.Match.Bands > c.Match.NumHashes {
		problems = append(problems, "match.bands must be between 1 and match.num_hashes")
	}
	if c.Match.ShingleSize < 1 {
		problems = append(problems, "match.shingle_size must be >= 1")
	}
	if c.Match.Threshold < 0 || c.Match.Threshold > 1 {
		problems = append(problems, "match.threshold must be between 0 and 1")
	}

	switch mode {
	case "resolve":
	case "serve":
		if c.Server.Port <= 0 {
			problems = append(problems, "server.port must be > 0")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(problems) > 0 {
		return eris.New("config: " + strings.Join(problems, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
