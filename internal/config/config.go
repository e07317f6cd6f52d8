// Package config loads the service configuration. Sources are applied in
// increasing precedence: defaults, an optional config file, NEPREMICNINE_*
// environment variables, then explicit overrides (command-line flags).
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable, e.g. NEPREMICNINE_STORE_DSN.
const EnvPrefix = "NEPREMICNINE"

// Config is the full service configuration.
type Config struct {
	HTTP  HTTPConfig  `mapstructure:"http"`
	Store StoreConfig `mapstructure:"store"`
	Blob  BlobConfig  `mapstructure:"blob"`
	Log   LogConfig   `mapstructure:"log"`
	CORS  CORSConfig  `mapstructure:"cors"`
	Seed  bool        `mapstructure:"seed"`
}

type HTTPConfig struct {
	Addr string `mapstructure:"addr"`
}

// StoreConfig selects the record store. Driver is sqlite or postgres; DSN
// is a file path for sqlite and a connection URL for postgres.
type StoreConfig struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

// BlobConfig selects where uploaded images are kept.
type BlobConfig struct {
	Driver string   `mapstructure:"driver"` // fs | s3 | memory
	Root   string   `mapstructure:"root"`
	S3     S3Config `mapstructure:"s3"`
}

type S3Config struct {
	Bucket          string `mapstructure:"bucket"`
	Region          string `mapstructure:"region"`
	Endpoint        string `mapstructure:"endpoint"`
	PathStyle       bool   `mapstructure:"path_style"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
}

// LogConfig controls logging. An empty Path logs to stdout/stderr only.
type LogConfig struct {
	Path   string `mapstructure:"path"`
	Format string `mapstructure:"format"` // text | json
}

type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

var defaults = map[string]any{
	"http.addr":                 ":8080",
	"store.driver":              "sqlite",
	"store.dsn":                 "nepremicnine.db",
	"blob.driver":               "fs",
	"blob.root":                 "./blobdata",
	"blob.s3.bucket":            "",
	"blob.s3.region":            "us-east-1",
	"blob.s3.endpoint":          "",
	"blob.s3.path_style":        false,
	"blob.s3.access_key_id":     "",
	"blob.s3.secret_access_key": "",
	"log.path":                  "",
	"log.format":                "text",
	"cors.allow_origins":        []string{},
	"seed":                      false,
}

// Load reads the configuration. path may be empty, in which case no file
// is read. overrides are keyed like the file (e.g. "store.dsn") and win
// over every other source.
func Load(path string, overrides map[string]any) (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	for key, value := range overrides {
		v.Set(key, value)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks option values that have a fixed set of choices.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("store.driver must be sqlite or postgres, got %q", c.Store.Driver)
	}
	if c.Store.DSN == "" {
		return fmt.Errorf("store.dsn required")
	}
	switch c.Blob.Driver {
	case "fs", "memory":
	case "s3":
		if c.Blob.S3.Bucket == "" {
			return fmt.Errorf("blob.s3.bucket required for the s3 driver")
		}
	default:
		return fmt.Errorf("blob.driver must be fs, s3 or memory, got %q", c.Blob.Driver)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	return nil
}
