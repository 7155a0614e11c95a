package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/GustavoCaso/spadesk/internal/logger"
)

type DBConfig struct {
	Source          string        `yaml:"source" toml:"source"`
	MaxOpenConns    int           `yaml:"max_open_conns" toml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns" toml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" toml:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `yaml:"conn_max_idle_time" toml:"conn_max_idle_time"`

	// SQLite PRAGMAs
	JournalMode string `yaml:"journal_mode" toml:"journal_mode"`
	Synchronous string `yaml:"synchronous" toml:"synchronous"`
	BusyTimeout int    `yaml:"busy_timeout" toml:"busy_timeout"`
	CacheSize   int    `yaml:"cache_size" toml:"cache_size"`
}

type ServerConfig struct {
	Addr              string        `yaml:"addr" toml:"addr"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout" toml:"read_header_timeout"`
	// Auth requires HTTP basic auth on the JSON API.
	Auth bool `yaml:"auth" toml:"auth"`
	// RateLimit is requests per second per client; 0 disables it.
	RateLimit float64 `yaml:"rate_limit" toml:"rate_limit"`
	RateBurst int     `yaml:"rate_burst" toml:"rate_burst"`
}

type ListingConfig struct {
	DefaultLimit int `yaml:"default_limit" toml:"default_limit"`
	MaxLimit     int `yaml:"max_limit" toml:"max_limit"`
}

type Config struct {
	DB       DBConfig      `yaml:"db" toml:"db"`
	Logger   logger.Config `yaml:"logger" toml:"logger"`
	Server   ServerConfig  `yaml:"server" toml:"server"`
	Listing  ListingConfig `yaml:"listing" toml:"listing"`
	Timezone string        `yaml:"timezone" toml:"timezone"`
}

const (
	defaultDBFile            = "spadesk.db"
	defaultJournalMode       = "WAL"
	defaultBusyTimeout       = 5000
	defaultLogLevel          = logger.LevelInfo
	defaultLogFormat         = logger.FormatText
	defaultLogOutput         = "stdout"
	defaultAddr              = ":8080"
	defaultReadHeaderTimeout = 3 * time.Second
	defaultRateBurst         = 40
	defaultListingLimit      = 10
	defaultListingMaxLimit   = 100
	defaultTimezone          = "UTC"
)

// Parse builds the configuration from, in increasing priority: defaults, the config
// file at path (TOML or YAML, optional) and SPADESK_* environment variables, which may
// come from a .env file.
func Parse(path string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	conf := &Config{}

	if err := conf.parseFile(path); err != nil {
		return nil, err
	}

	conf.parseEnv()
	conf.applyDefaults()

	return conf, nil
}

func (c *Config) parseFile(path string) error {
	if path == "" {
		return nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}

	switch filepath.Ext(path) {
	case ".toml":
		err = toml.Unmarshal(content, c)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(content, c)
	default:
		return fmt.Errorf("unsupported config file format %q", filepath.Ext(path))
	}

	if err != nil {
		return fmt.Errorf("failed to decode config file %s: %w", path, err)
	}

	return nil
}

func (c *Config) parseEnv() {
	if db := os.Getenv("SPADESK_DB"); db != "" {
		c.DB.Source = db
	}

	if level := os.Getenv("SPADESK_LOG_LEVEL"); level != "" {
		c.Logger.Level = logger.Level(level)
	}

	if format := os.Getenv("SPADESK_LOG_FORMAT"); format != "" {
		c.Logger.Format = logger.Format(format)
	}

	if output := os.Getenv("SPADESK_LOG_OUTPUT"); output != "" {
		c.Logger.Output = output
	}

	if addr := os.Getenv("SPADESK_ADDR"); addr != "" {
		c.Server.Addr = addr
	}

	if auth := os.Getenv("SPADESK_AUTH"); auth != "" {
		c.Server.Auth = auth == "true"
	}

	if tz := os.Getenv("SPADESK_TIMEZONE"); tz != "" {
		c.Timezone = tz
	}
}

func (c *Config) applyDefaults() {
	if c.DB.Source == "" {
		c.DB.Source = defaultDBFile
	}
	if c.DB.JournalMode == "" {
		c.DB.JournalMode = defaultJournalMode
	}
	if c.DB.BusyTimeout == 0 {
		c.DB.BusyTimeout = defaultBusyTimeout
	}

	if c.Logger.Level == "" {
		c.Logger.Level = defaultLogLevel
	}
	if c.Logger.Format == "" {
		c.Logger.Format = defaultLogFormat
	}
	if c.Logger.Output == "" {
		c.Logger.Output = defaultLogOutput
	}

	if c.Server.Addr == "" {
		c.Server.Addr = defaultAddr
	}
	if c.Server.ReadHeaderTimeout == 0 {
		c.Server.ReadHeaderTimeout = defaultReadHeaderTimeout
	}
	if c.Server.RateLimit > 0 && c.Server.RateBurst == 0 {
		c.Server.RateBurst = defaultRateBurst
	}

	if c.Listing.DefaultLimit <= 0 {
		c.Listing.DefaultLimit = defaultListingLimit
	}
	if c.Listing.MaxLimit <= 0 {
		c.Listing.MaxLimit = defaultListingMaxLimit
	}

	if c.Timezone == "" {
		c.Timezone = defaultTimezone
	}
}

// Location returns the configured display time zone, or UTC if it is unknown.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
