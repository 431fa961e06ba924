// Package config holds the runtime settings shared by the termfolio commands.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/csheth/termfolio/internal/blog"
)

// DefaultLoadingDelay is how long the blog loading screen shows by default.
const DefaultLoadingDelay = 1500 * time.Millisecond

// Environment variables read by ApplyEnv.
const (
	EnvProfile   = "TERMFOLIO_PROFILE"
	EnvBlogIndex = "TERMFOLIO_BLOG_INDEX"
	EnvLogFile   = "TERMFOLIO_LOG_FILE"
	EnvLogLevel  = "TERMFOLIO_LOG_LEVEL"
	EnvCacheDir  = "TERMFOLIO_CACHE_DIR"
	EnvAddr      = "TERMFOLIO_ADDR"
	EnvDelay     = "TERMFOLIO_LOADING_DELAY"
	EnvSpeed     = "TERMFOLIO_TYPING_SCALE"
)

// Log levels accepted in LogLevel.
var logLevels = []interface{}{"debug", "info", "warn", "error"}

// Config is the application configuration.
type Config struct {
	// ProfilePath is a TOML or YAML profile; empty uses the built-in one.
	ProfilePath string
	// BlogIndex is a local path or http(s) URL of the blog index.
	BlogIndex string
	// LogFile receives logs while the full-screen UI owns the terminal.
	LogFile  string
	LogLevel string
	CacheDir string
	// LoadingDelay is how long the blog loading screen is shown.
	LoadingDelay     time.Duration
	TypingSpeedScale float64
	NoAltScreen      bool
	Addr             string
}

// NewDefaultConfig returns a Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		BlogIndex:        blog.DefaultIndexLocation,
		LogLevel:         "info",
		LoadingDelay:     DefaultLoadingDelay,
		TypingSpeedScale: 1,
		Addr:             ":8080",
	}
}

// ApplyEnv overrides fields from TERMFOLIO_* variables that are set.
func (c *Config) ApplyEnv() error {
	setString(&c.ProfilePath, EnvProfile)
	setString(&c.BlogIndex, EnvBlogIndex)
	setString(&c.LogFile, EnvLogFile)
	setString(&c.CacheDir, EnvCacheDir)
	setString(&c.Addr, EnvAddr)
	if v, ok := lookup(EnvLogLevel); ok {
		c.LogLevel = strings.ToLower(v)
	}
	if v, ok := lookup(EnvDelay); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvDelay, err)
		}
		c.LoadingDelay = d
	}
	if v, ok := lookup(EnvSpeed); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvSpeed, err)
		}
		c.TypingSpeedScale = f
	}
	return nil
}

func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

func setString(dst *string, key string) {
	if v, ok := lookup(key); ok {
		*dst = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.BlogIndex, validation.Required),
		validation.Field(&c.LogLevel, validation.Required, validation.In(logLevels...)),
		validation.Field(&c.LoadingDelay, validation.Min(time.Duration(0)), validation.Max(30*time.Second)),
		validation.Field(&c.TypingSpeedScale, validation.Required, validation.Min(0.01), validation.Max(10.0)),
		validation.Field(&c.Addr, validation.Required),
	)
}
