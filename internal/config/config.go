// Package config resolves lingoz settings from the TOML file, a .env file,
// the environment and command-line flags, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Content sources.
const (
	SourceEmbedded = "embedded"
	SourceDatabase = "database"
)

// Environment variables.
const (
	EnvDB            = "LINGOZ_DB"
	EnvConfig        = "LINGOZ_CONFIG"
	EnvLogLevel      = "LINGOZ_LOG_LEVEL"
	EnvStoragePrefix = "LINGOZ_STORAGE_PREFIX"
)

// Config is the resolved configuration.
type Config struct {
	ConfigPath string

	// DBPath is empty when the store's default location should be used.
	DBPath string

	// Prefix namespaces the session, settings and wrong-answer keys.
	Prefix string

	ContentSource string

	LogLevel slog.Level
	LogFile  string

	// Questions and TimeLimit seed the practice settings on first run.
	// Zero means not configured.
	Questions int
	TimeLimit int
	Mode      string
}

// Overrides carries command-line flags. Empty fields are not set.
type Overrides struct {
	ConfigPath string
	DBPath     string
	LogLevel   string

	// EnvFile is the dotenv file to load. Defaults to ".env" in the working
	// directory; a missing file is ignored.
	EnvFile string
}

// Load resolves the configuration.
func Load(o Overrides) (Config, error) {
	envFile := o.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load %s: %w", envFile, err)
	}

	cfg := Config{
		ConfigPath:    firstNonEmpty(o.ConfigPath, os.Getenv(EnvConfig), DefaultConfigPath()),
		ContentSource: SourceEmbedded,
		LogLevel:      slog.LevelInfo,
		LogFile:       DefaultLogPath(),
	}

	file, err := LoadFile(cfg.ConfigPath)
	if err != nil {
		return Config{}, err
	}
	if err := cfg.apply(file); err != nil {
		return Config{}, fmt.Errorf("%s: %w", cfg.ConfigPath, err)
	}

	cfg.DBPath = firstNonEmpty(o.DBPath, os.Getenv(EnvDB), cfg.DBPath)
	cfg.Prefix = firstNonEmpty(os.Getenv(EnvStoragePrefix), cfg.Prefix)

	if lvl := firstNonEmpty(o.LogLevel, os.Getenv(EnvLogLevel)); lvl != "" {
		if cfg.LogLevel, err = ParseLevel(lvl); err != nil {
			return Config{}, err
		}
	}
	return cfg, nil
}

func (c *Config) apply(f FileConfig) error {
	if f.Practice.Questions != nil {
		c.Questions = *f.Practice.Questions
	}
	if f.Practice.TimeLimit != nil {
		c.TimeLimit = *f.Practice.TimeLimit
	}
	if f.Practice.Mode != nil {
		c.Mode = *f.Practice.Mode
	}
	if f.Storage.DB != nil {
		c.DBPath = *f.Storage.DB
	}
	if f.Storage.Prefix != nil {
		c.Prefix = *f.Storage.Prefix
	}
	if f.Content.Source != nil {
		switch src := strings.ToLower(*f.Content.Source); src {
		case SourceEmbedded, SourceDatabase:
			c.ContentSource = src
		default:
			return fmt.Errorf("content.source must be %q or %q, got %q", SourceEmbedded, SourceDatabase, *f.Content.Source)
		}
	}
	if f.Log.Level != nil {
		lvl, err := ParseLevel(*f.Log.Level)
		if err != nil {
			return err
		}
		c.LogLevel = lvl
	}
	if f.Log.File != nil {
		c.LogFile = *f.Log.File
	}
	return nil
}

// ParseLevel accepts debug, info, warn, error or a numeric slog level.
func ParseLevel(v string) (slog.Level, error) {
	if n, err := strconv.Atoi(v); err == nil {
		return slog.Level(n), nil
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(v)); err != nil {
		return 0, fmt.Errorf("invalid log level %q", v)
	}
	return lvl, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
