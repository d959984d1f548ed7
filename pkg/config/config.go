// Package config loads the server configuration from a TOML file.
//
// A full configuration:
//
//	addr = ":8080"
//
//	[store]
//	backend = "mongo"          # "memory" or "mongo"
//
//	[store.mongo]
//	uri = "mongodb://localhost:27017"
//	database = "kintree"
//
//	[cache]
//	backend = "redis"          # "file", "redis", or "none"
//	dir = "/var/cache/kintree" # file backend only
//
//	[cache.redis]
//	addr = "localhost:6379"
//	password = ""
//	db = 0
//
// Every field has a default; an empty file is a valid configuration
// (memory store, file cache, port 8080).
package config

import (
	"context"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/kintreehq/kintree/pkg/cache"
	"github.com/kintreehq/kintree/pkg/errors"
	"github.com/kintreehq/kintree/pkg/store"
)

// Backend names accepted in the [store] and [cache] sections.
const (
	StoreMemory = "memory"
	StoreMongo  = "mongo"

	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Config is the top-level server configuration.
type Config struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string `toml:"addr"`

	Store StoreConfig `toml:"store"`
	Cache CacheConfig `toml:"cache"`
}

// StoreConfig selects and configures the tree storage backend.
type StoreConfig struct {
	Backend string      `toml:"backend"`
	Mongo   MongoConfig `toml:"mongo"`
}

// MongoConfig configures the MongoDB backend.
type MongoConfig struct {
	URI      string `toml:"uri"`
	Database string `toml:"database"`
}

// CacheConfig selects and configures the layout/artifact cache.
type CacheConfig struct {
	Backend string      `toml:"backend"`
	Dir     string      `toml:"dir"`
	Redis   RedisConfig `toml:"redis"`
}

// RedisConfig configures the Redis backend.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// Default returns the configuration used when no file is given: memory
// store, file cache under the user cache dir, port 8080.
func Default() Config {
	return Config{
		Addr: ":8080",
		Store: StoreConfig{
			Backend: StoreMemory,
			Mongo: MongoConfig{
				URI:      "mongodb://localhost:27017",
				Database: "kintree",
			},
		},
		Cache: CacheConfig{
			Backend: CacheFile,
			Dir:     DefaultCacheDir(),
			Redis: RedisConfig{
				Addr: "localhost:6379",
			},
		},
	}
}

// DefaultCacheDir returns the per-user cache directory, falling back to
// a relative directory when the OS cache dir is unavailable.
func DefaultCacheDir() string {
	base, err := os.UserCacheDir()
	if err != nil {
		return ".kintree-cache"
	}
	return filepath.Join(base, "kintree")
}

// Load reads a TOML config file and merges it over the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeFileNotFound, err, "read config %s", path)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks backend names and required backend parameters.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case StoreMemory:
	case StoreMongo:
		if c.Store.Mongo.URI == "" {
			return errors.New(errors.ErrCodeInvalidInput, "store.mongo.uri is required for the mongo backend")
		}
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unknown store backend: %q", c.Store.Backend)
	}

	switch c.Cache.Backend {
	case CacheNone:
	case CacheFile:
		if c.Cache.Dir == "" {
			return errors.New(errors.ErrCodeInvalidInput, "cache.dir is required for the file backend")
		}
	case CacheRedis:
		if c.Cache.Redis.Addr == "" {
			return errors.New(errors.ErrCodeInvalidInput, "cache.redis.addr is required for the redis backend")
		}
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unknown cache backend: %q", c.Cache.Backend)
	}

	if c.Addr == "" {
		return errors.New(errors.ErrCodeInvalidInput, "addr must not be empty")
	}
	return nil
}

// OpenStore creates the configured tree store.
func (c *Config) OpenStore(ctx context.Context) (store.Store, error) {
	switch c.Store.Backend {
	case StoreMongo:
		return store.NewMongo(ctx, store.MongoConfig{
			URI:      c.Store.Mongo.URI,
			Database: c.Store.Mongo.Database,
		})
	default:
		return store.NewMemory(), nil
	}
}

// OpenCache creates the configured cache backend.
func (c *Config) OpenCache(ctx context.Context) (cache.Cache, error) {
	switch c.Cache.Backend {
	case CacheRedis:
		return cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     c.Cache.Redis.Addr,
			Password: c.Cache.Redis.Password,
			DB:       c.Cache.Redis.DB,
		})
	case CacheFile:
		return cache.NewFileCache(c.Cache.Dir)
	default:
		return cache.NewNullCache(), nil
	}
}
