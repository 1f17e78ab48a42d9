// Package config loads taskorder configuration.
//
// Settings come from three layers, later layers winning:
//
//  1. built-in defaults ([Default])
//  2. a TOML file (--config, or $XDG_CONFIG_HOME/taskorder/config.toml)
//  3. TASKORDER_* environment variables, optionally from a .env file
//
// The merged result is validated before use.
//
// Example file:
//
//	[server]
//	addr = ":8080"
//	shutdown_timeout = "15s"
//
//	[log]
//	level = "info"
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//	ttl = "24h"
//
//	[store]
//	backend = "mongo"
//	mongo_uri = "mongodb://localhost:27017"
package config

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/afero"

	"github.com/matzehuels/taskorder/pkg/cache"
	"github.com/matzehuels/taskorder/pkg/errors"
)

const (
	appName  = "taskorder"
	fileName = "config.toml"

	// EnvPrefix prefixes every environment override.
	EnvPrefix = "TASKORDER_"
)

// Config is the complete taskorder configuration.
type Config struct {
	Server ServerConfig `toml:"server"`
	Log    LogConfig    `toml:"log"`
	Cache  CacheConfig  `toml:"cache"`
	Store  StoreConfig  `toml:"store"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr            string        `toml:"addr" validate:"required"`
	ReadTimeout     time.Duration `toml:"read_timeout" validate:"gte=0"`
	WriteTimeout    time.Duration `toml:"write_timeout" validate:"gte=0"`
	ShutdownTimeout time.Duration `toml:"shutdown_timeout" validate:"gt=0"`
	MaxBodyBytes    int64         `toml:"max_body_bytes" validate:"gt=0"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `toml:"level" validate:"oneof=debug info warn error"`
}

// CacheConfig selects and configures the schedule cache.
type CacheConfig struct {
	Backend       string        `toml:"backend" validate:"oneof=none file redis"`
	Dir           string        `toml:"dir"`
	RedisAddr     string        `toml:"redis_addr" validate:"required_if=Backend redis"`
	RedisPassword string        `toml:"redis_password"`
	RedisDB       int           `toml:"redis_db" validate:"gte=0"`
	TTL           time.Duration `toml:"ttl" validate:"gte=0"`
}

// StoreConfig selects and configures schedule history.
type StoreConfig struct {
	Backend      string `toml:"backend" validate:"oneof=none memory mongo"`
	MongoURI     string `toml:"mongo_uri" validate:"required_if=Backend mongo"`
	Database     string `toml:"database"`
	Collection   string `toml:"collection"`
	HistoryLimit int    `toml:"history_limit" validate:"gte=0"`
	ProjectLimit int    `toml:"project_limit" validate:"gte=0"`
}

// Default returns the built-in configuration: listen on :8080, file cache in
// the user cache directory, in-memory history.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 15 * time.Second,
			MaxBodyBytes:    1 << 20,
		},
		Log: LogConfig{Level: "info"},
		Cache: CacheConfig{
			Backend: "file",
			TTL:     cache.DefaultTTL,
		},
		Store: StoreConfig{
			Backend:    "memory",
			Database:   appName,
			Collection: "schedules",
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/taskorder/config.toml (or the
// platform equivalent).
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("get config dir: %w", err)
	}
	return filepath.Join(dir, appName, fileName), nil
}

// LoadDotEnv loads a .env file from the working directory into the process
// environment. A missing file is not an error. Existing variables win.
func LoadDotEnv() error {
	if err := godotenv.Load(); err != nil && !stderrors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

// Load builds the configuration from defaults, the TOML file at path and the
// process environment. An empty path reads the default location and tolerates
// its absence; an explicit path must exist.
func Load(fsys afero.Fs, path string) (*Config, error) {
	return load(fsys, path, os.LookupEnv)
}

func load(fsys afero.Fs, path string, lookup func(string) (string, bool)) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	data, err := afero.ReadFile(fsys, path)
	switch {
	case err == nil:
		if err := decode(data, cfg); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s", path)
		}
	case stderrors.Is(err, fs.ErrNotExist) && !explicit:
		// defaults only
	case stderrors.Is(err, fs.ErrNotExist):
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s not found", path)
	default:
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	if err := applyEnv(cfg, lookup); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decode(data []byte, cfg *Config) error {
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	return nil
}

// applyEnv overrides cfg with TASKORDER_* variables.
func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	str := func(name string, dst *string) {
		if v, ok := lookup(EnvPrefix + name); ok {
			*dst = v
		}
	}
	var errs []error
	num := func(name string, dst *int) {
		if v, ok := lookup(EnvPrefix + name); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, name, err))
				return
			}
			*dst = n
		}
	}
	dur := func(name string, dst *time.Duration) {
		if v, ok := lookup(EnvPrefix + name); ok {
			d, err := time.ParseDuration(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, name, err))
				return
			}
			*dst = d
		}
	}

	str("ADDR", &cfg.Server.Addr)
	str("LOG_LEVEL", &cfg.Log.Level)
	str("CACHE_BACKEND", &cfg.Cache.Backend)
	str("CACHE_DIR", &cfg.Cache.Dir)
	dur("CACHE_TTL", &cfg.Cache.TTL)
	str("REDIS_ADDR", &cfg.Cache.RedisAddr)
	str("REDIS_PASSWORD", &cfg.Cache.RedisPassword)
	num("REDIS_DB", &cfg.Cache.RedisDB)
	str("STORE_BACKEND", &cfg.Store.Backend)
	str("MONGO_URI", &cfg.Store.MongoURI)
	str("MONGO_DATABASE", &cfg.Store.Database)
	str("MONGO_COLLECTION", &cfg.Store.Collection)

	if err := stderrors.Join(errs...); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid environment override")
	}
	return nil
}

var validate = validator.New()

// Validate checks field constraints and cross-field requirements.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid configuration")
	}
	msgs := make([]string, len(verrs))
	for i, fe := range verrs {
		msgs[i] = fmt.Sprintf("%s fails %q", fe.Namespace(), fe.ActualTag())
	}
	return errors.New(errors.ErrCodeInvalidConfig, "invalid configuration: %s", strings.Join(msgs, "; "))
}

// Level returns the configured log level.
func (c *Config) Level() log.Level {
	lvl, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}
