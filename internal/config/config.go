// Package config assembles coltype settings from defaults, an optional YAML
// file, a .env file and COLTYPE_* environment variables, in increasing order
// of precedence.
package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/coltype/internal/logging"
	"github.com/coltype/internal/match"
)

// envPrefix is prepended to every environment override, so "server.port"
// is read from COLTYPE_SERVER_PORT
const envPrefix = "COLTYPE"

// ErrInvalidConfig is wrapped by every Validate failure
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the complete coltype configuration
type Config struct {
	Data       DataConfig       `mapstructure:"data"`
	Classifier ClassifierConfig `mapstructure:"classifier"`
	Parse      ParseConfig      `mapstructure:"parse"`
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Log        logging.Config   `mapstructure:"log"`
}

// DataConfig locates the reference lists
type DataConfig struct {
	Countries string `mapstructure:"countries"`
	Legal     string `mapstructure:"legal"`
}

// ClassifierConfig tunes scoring and the decision cascade
type ClassifierConfig struct {
	Thresholds match.Thresholds   `mapstructure:"thresholds"`
	Weights    match.ScoreWeights `mapstructure:"weights"`
}

// ParseConfig controls table parsing
type ParseConfig struct {
	// MinConfidence a column must exceed to be used for phone or company output
	MinConfidence float64 `mapstructure:"min_confidence" validate:"gte=0"`
	DefaultRegion string  `mapstructure:"default_region" validate:"required,len=2,alpha"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port" validate:"min=1,max=65535"`
	APIKey          string        `mapstructure:"api_key"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" validate:"gte=0"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" validate:"gte=0"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gte=0"`
}

// Addr returns host:port
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DatabaseConfig contains run-recording database settings. An empty URL
// disables recording.
type DatabaseConfig struct {
	Driver         string `mapstructure:"driver" validate:"oneof=postgres sqlite"`
	URL            string `mapstructure:"url"`
	MaxConnections int    `mapstructure:"max_connections" validate:"min=1"`
}

// Enabled reports whether a database is configured
func (d DatabaseConfig) Enabled() bool {
	return d.URL != ""
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Data: DataConfig{
			Countries: "data/countries.txt",
			Legal:     "data/legal.txt",
		},
		Classifier: ClassifierConfig{
			Thresholds: match.DefaultThresholds(),
			Weights:    match.DefaultScoreWeights(),
		},
		Parse: ParseConfig{
			MinConfidence: 0.6,
			DefaultRegion: "US",
		},
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Database: DatabaseConfig{
			Driver:         "sqlite",
			MaxConnections: 10,
		},
		Log: logging.Config{
			Level:  "info",
			Format: "json",
		},
	}
}

// newViper registers every key with its default so that AutomaticEnv
// overrides are seen by Unmarshal
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	d := Default()
	v.SetDefault("data.countries", d.Data.Countries)
	v.SetDefault("data.legal", d.Data.Legal)
	v.SetDefault("classifier.thresholds.phone", d.Classifier.Thresholds.Phone)
	v.SetDefault("classifier.thresholds.date", d.Classifier.Thresholds.Date)
	v.SetDefault("classifier.thresholds.country", d.Classifier.Thresholds.Country)
	v.SetDefault("classifier.thresholds.company", d.Classifier.Thresholds.Company)
	v.SetDefault("classifier.weights.date_regex", d.Classifier.Weights.DateRegex)
	v.SetDefault("classifier.weights.date_month", d.Classifier.Weights.DateMonth)
	v.SetDefault("parse.min_confidence", d.Parse.MinConfidence)
	v.SetDefault("parse.default_region", d.Parse.DefaultRegion)
	v.SetDefault("server.host", d.Server.Host)
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.api_key", d.Server.APIKey)
	v.SetDefault("server.read_timeout", d.Server.ReadTimeout)
	v.SetDefault("server.write_timeout", d.Server.WriteTimeout)
	v.SetDefault("server.shutdown_timeout", d.Server.ShutdownTimeout)
	v.SetDefault("database.driver", d.Database.Driver)
	v.SetDefault("database.url", d.Database.URL)
	v.SetDefault("database.max_connections", d.Database.MaxConnections)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("log.output_paths", []string{})

	return v
}

// Load builds the configuration. configPath may be empty, in which case only
// defaults, .env and the environment are consulted.
func Load(configPath string) (*Config, error) {
	if _, err := LoadEnv(); err != nil {
		return nil, err
	}

	v := newViper()
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: failed to read config file %q: %w", configPath, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate reports field paths by their mapstructure keys, e.g.
// "parse.min_confidence"
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("mapstructure"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks value ranges and enumerations
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	problems := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		key := strings.TrimPrefix(fe.Namespace(), "Config.")
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		problems = append(problems, fmt.Sprintf("%s must satisfy %s (got %v)", key, rule, fe.Value()))
	}
	return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
}
