// Package config loads the schemagraph configuration file.
//
// Configuration is TOML (schemagraph.toml); every field has a working
// default so the file is optional. Environment variables override the
// settings that differ per deployment.
package config

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"

	sgerrors "github.com/osduviz/schemagraph/pkg/errors"
)

// Config is the full application configuration.
type Config struct {
	Schemas SchemasConfig `toml:"schemas"`
	Server  ServerConfig  `toml:"server"`
	Cache   CacheConfig   `toml:"cache"`
	Store   StoreConfig   `toml:"store"`
}

// SchemasConfig locates the OSDU schema files.
type SchemasConfig struct {
	// Dir is the directory tree of *.json schema files that builds the
	// lookup index.
	Dir string `toml:"dir"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// CacheConfig selects and configures the cache backend.
type CacheConfig struct {
	// Backend is "file", "redis", or "none".
	Backend string   `toml:"backend"`
	Dir     string   `toml:"dir"`
	TTL     duration `toml:"ttl"`

	Redis RedisConfig `toml:"redis"`
}

// RedisConfig configures the Redis cache backend.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// StoreConfig configures the saved-graph store.
type StoreConfig struct {
	// MongoURI enables the Mongo-backed graph store when non-empty.
	MongoURI string `toml:"mongo_uri"`
	Database string `toml:"database"`
}

// duration wraps time.Duration with TOML string decoding ("24h", "30m").
type duration time.Duration

func (d *duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = duration(v)
	return nil
}

// CacheTTL returns the configured cache TTL as a time.Duration.
func (c CacheConfig) CacheTTL() time.Duration { return time.Duration(c.TTL) }

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Schemas: SchemasConfig{Dir: "schemas"},
		Server:  ServerConfig{Addr: ":8080"},
		Cache: CacheConfig{
			Backend: "file",
			TTL:     duration(24 * time.Hour),
		},
		Store: StoreConfig{Database: "schemagraph"},
	}
}

// Load reads the config file at path, applies defaults for unset fields,
// and applies environment overrides. A missing file (empty path or no
// such file) yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if _, err := toml.DecodeFile(path, &cfg); err != nil {
				return Config{}, sgerrors.Wrap(sgerrors.ErrCodeInvalidConfig, err, "parse config %s", path)
			}
		} else if !os.IsNotExist(err) {
			return Config{}, sgerrors.Wrap(sgerrors.ErrCodeInvalidConfig, err, "read config %s", path)
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

// applyEnv overrides deployment-specific settings from the environment.
func applyEnv(cfg *Config) {
	if v := os.Getenv("SCHEMAGRAPH_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("SCHEMAGRAPH_SCHEMA_DIR"); v != "" {
		cfg.Schemas.Dir = v
	}
	if v := os.Getenv("SCHEMAGRAPH_REDIS_ADDR"); v != "" {
		cfg.Cache.Backend = "redis"
		cfg.Cache.Redis.Addr = v
	}
	if v := os.Getenv("SCHEMAGRAPH_MONGO_URI"); v != "" {
		cfg.Store.MongoURI = v
	}
}
