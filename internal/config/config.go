// Package config provides configuration management.
// Values come from defaults, then an optional YAML/JSON file, then GEARCOST_
// environment variables (a .env file in the working directory is honored).
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"gear-cost/internal/errors"
	"gear-cost/internal/logging"
)

// EnvPrefix is the environment variable prefix
const EnvPrefix = "GEARCOST"

// Config is the main application configuration
type Config struct {
	// Data selects the reference tables
	Data DataConfig `mapstructure:"data" json:"data" yaml:"data"`

	// Server contains HTTP server configuration
	Server ServerConfig `mapstructure:"server" json:"server" yaml:"server"`

	// Output contains output configuration
	Output OutputConfig `mapstructure:"output" json:"output" yaml:"output"`

	// Logging contains logging configuration
	Logging logging.Config `mapstructure:"logging" json:"logging" yaml:"logging"`
}

// DataConfig points at the tier ladder and bundle catalog. Empty paths
// select the tables compiled into the binary.
type DataConfig struct {
	Ladder  string `mapstructure:"ladder" json:"ladder" yaml:"ladder"`
	Catalog string `mapstructure:"catalog" json:"catalog" yaml:"catalog"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	// Addr is the listen address
	Addr string `mapstructure:"addr" json:"addr" yaml:"addr" validate:"required"`

	// RateLimit is the sustained requests per second per client; 0 disables limiting
	RateLimit float64 `mapstructure:"rate_limit" json:"rate_limit" yaml:"rate_limit" validate:"gte=0"`

	// Burst is the token bucket size
	Burst int `mapstructure:"burst" json:"burst" yaml:"burst" validate:"gte=0"`

	// Gzip enables response compression
	Gzip bool `mapstructure:"gzip" json:"gzip" yaml:"gzip"`

	// ReadTimeout bounds reading a request
	ReadTimeout time.Duration `mapstructure:"read_timeout" json:"read_timeout" yaml:"read_timeout"`

	// WriteTimeout bounds writing a response
	WriteTimeout time.Duration `mapstructure:"write_timeout" json:"write_timeout" yaml:"write_timeout"`

	// MaxBodyBytes caps request bodies
	MaxBodyBytes int64 `mapstructure:"max_body_bytes" json:"max_body_bytes" yaml:"max_body_bytes" validate:"gt=0"`
}

// OutputConfig contains output-related settings
type OutputConfig struct {
	// Format is the default output format
	Format string `mapstructure:"format" json:"format" yaml:"format" validate:"oneof=table cli json csv markdown md"`

	// NoColor disables ANSI colors in table output
	NoColor bool `mapstructure:"no_color" json:"no_color" yaml:"no_color"`
}

// Default returns a default configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:         ":8080",
			RateLimit:    20,
			Burst:        40,
			Gzip:         true,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			MaxBodyBytes: 1 << 20,
		},
		Output: OutputConfig{
			Format: "table",
		},
		Logging: logging.DefaultConfig(),
	}
}

// setDefaults mirrors Default into v so env vars bind to every key
func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("data.ladder", d.Data.Ladder)
	v.SetDefault("data.catalog", d.Data.Catalog)
	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.rate_limit", d.Server.RateLimit)
	v.SetDefault("server.burst", d.Server.Burst)
	v.SetDefault("server.gzip", d.Server.Gzip)
	v.SetDefault("server.read_timeout", d.Server.ReadTimeout)
	v.SetDefault("server.write_timeout", d.Server.WriteTimeout)
	v.SetDefault("server.max_body_bytes", d.Server.MaxBodyBytes)
	v.SetDefault("output.format", d.Output.Format)
	v.SetDefault("output.no_color", d.Output.NoColor)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.output", d.Logging.Output)
	v.SetDefault("logging.development", d.Logging.Development)
}

// Load reads configuration with priority env > file > defaults. An empty path
// searches for gear-cost.yaml in the working directory and ~/.gear-cost; a
// missing file is not an error unless path was given explicitly.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("gear-cost")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.gear-cost")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, errors.Wrapf(errors.TypeConfig, err, "read config %s", path)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(errors.TypeConfig, "decode config", err)
	}
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

var validate = validator.New()

// Validate checks cfg against its validation tags
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return errors.Wrap(errors.TypeConfig, "validate config", err)
		}
		problems := make([]string, 0, len(verrs))
		for _, e := range verrs {
			problems = append(problems, fmt.Sprintf("%s failed %s (value: %v)", e.Namespace(), e.Tag(), e.Value()))
		}
		return errors.Newf(errors.TypeConfig, "invalid configuration: %s", strings.Join(problems, "; ")).
			WithContext("problems", problems)
	}
	return nil
}

// Global configuration instance
var globalConfig = Default()

// Get returns the global configuration
func Get() *Config {
	return globalConfig
}

// Set sets the global configuration
func Set(config *Config) {
	globalConfig = config
}
