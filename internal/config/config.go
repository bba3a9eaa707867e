package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"mixtape/internal/export"
	"mixtape/internal/playlist"
	"mixtape/internal/store"
)

const (
	// LocalEnvFile is loaded, when present, before reading the environment.
	LocalEnvFile = "config/local.env"

	// DefaultConnectTimeout bounds how long startup waits for the archive database.
	DefaultConnectTimeout = 15 * time.Second
)

// Config holds all application configuration
type Config struct {
	// Store configuration
	Store StoreConfig

	// Save configuration
	Save SaveConfig

	// Database configuration
	Database DatabaseConfig

	// Logging configuration
	Logging LoggingConfig

	// Demo seeds an example playlist at startup
	Demo bool
}

// StoreConfig holds capacity settings
type StoreConfig struct {
	Capacity         int
	PlaylistCapacity int
}

// SaveConfig holds file export settings
type SaveConfig struct {
	Dir        string
	Mode       export.Mode
	Format     playlist.Format
	SharedFile string
	Journal    string
}

// DatabaseConfig holds the optional archive database settings
type DatabaseConfig struct {
	URL            string
	ConnectTimeout time.Duration
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, text
}

// Enabled reports whether an archive database is configured.
func (d DatabaseConfig) Enabled() bool { return d.URL != "" }

// Load reads configuration from config/local.env and environment variables
func Load() (*Config, error) {
	_ = godotenv.Load(LocalEnvFile)
	return FromEnv()
}

// FromEnv reads configuration from environment variables only
func FromEnv() (*Config, error) {
	cfg := &Config{}

	if err := cfg.loadStore(); err != nil {
		return nil, fmt.Errorf("load store config: %w", err)
	}

	cfg.loadSave()

	if err := cfg.loadDatabase(); err != nil {
		return nil, fmt.Errorf("load database config: %w", err)
	}

	cfg.loadLogging()

	demo, err := parseBool(getEnvOrDefault("MIXTAPE_DEMO", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid MIXTAPE_DEMO: %w", err)
	}
	cfg.Demo = demo

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

func (c *Config) loadStore() error {
	capacity, err := strconv.Atoi(getEnvOrDefault("MIXTAPE_STORE_CAPACITY", strconv.Itoa(store.DefaultCapacity)))
	if err != nil {
		return fmt.Errorf("invalid MIXTAPE_STORE_CAPACITY: %w", err)
	}
	c.Store.Capacity = capacity

	playlistCapacity, err := strconv.Atoi(getEnvOrDefault("MIXTAPE_PLAYLIST_CAPACITY", strconv.Itoa(store.DefaultPlaylistCapacity)))
	if err != nil {
		return fmt.Errorf("invalid MIXTAPE_PLAYLIST_CAPACITY: %w", err)
	}
	c.Store.PlaylistCapacity = playlistCapacity
	return nil
}

func (c *Config) loadSave() {
	c.Save.Dir = getEnvOrDefault("MIXTAPE_SAVE_DIR", ".")
	c.Save.Mode = export.Mode(strings.ToLower(getEnvOrDefault("MIXTAPE_SAVE_MODE", string(export.ModeOverwrite))))
	c.Save.Format = playlist.Format(strings.ToLower(getEnvOrDefault("MIXTAPE_SAVE_FORMAT", string(playlist.FormatSong))))
	c.Save.SharedFile = getEnvOrDefault("MIXTAPE_SAVE_FILE", export.DefaultSharedFile)

	// an explicitly empty MIXTAPE_JOURNAL turns the journal off
	if journal, ok := os.LookupEnv("MIXTAPE_JOURNAL"); ok {
		c.Save.Journal = journal
	} else {
		c.Save.Journal = export.DefaultJournalFile
	}
}

func (c *Config) loadDatabase() error {
	c.Database.URL = os.Getenv("DATABASE_URL")

	timeout, err := time.ParseDuration(getEnvOrDefault("DATABASE_CONNECT_TIMEOUT", DefaultConnectTimeout.String()))
	if err != nil {
		return fmt.Errorf("invalid DATABASE_CONNECT_TIMEOUT: %w", err)
	}
	c.Database.ConnectTimeout = timeout
	return nil
}

func (c *Config) loadLogging() {
	c.Logging.Level = strings.ToLower(getEnvOrDefault("LOG_LEVEL", "info"))
	c.Logging.Format = strings.ToLower(getEnvOrDefault("LOG_FORMAT", "text"))
}

// Validate checks that all configuration values are usable
func (c *Config) Validate() error {
	var errors []string

	if c.Store.Capacity < 1 {
		errors = append(errors, "MIXTAPE_STORE_CAPACITY must be at least 1")
	}
	if c.Store.PlaylistCapacity < 1 {
		errors = append(errors, "MIXTAPE_PLAYLIST_CAPACITY must be at least 1")
	}

	validModes := map[export.Mode]bool{export.ModeOverwrite: true, export.ModeAppend: true}
	if !validModes[c.Save.Mode] {
		errors = append(errors, "MIXTAPE_SAVE_MODE must be one of: overwrite, append")
	}

	validFormats := map[playlist.Format]bool{playlist.FormatSong: true, playlist.FormatTitle: true}
	if !validFormats[c.Save.Format] {
		errors = append(errors, "MIXTAPE_SAVE_FORMAT must be one of: song, title")
	}

	if c.Save.Mode == export.ModeAppend && c.Save.SharedFile == "" {
		errors = append(errors, "MIXTAPE_SAVE_FILE is required in append mode")
	}

	if c.Database.ConnectTimeout <= 0 {
		errors = append(errors, "DATABASE_CONNECT_TIMEOUT must be positive")
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		errors = append(errors, "LOG_LEVEL must be one of: debug, info, warn, error")
	}

	validLogFormats := map[string]bool{"json": true, "text": true}
	if !validLogFormats[c.Logging.Format] {
		errors = append(errors, "LOG_FORMAT must be one of: json, text")
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}

// Writer builds the export writer described by the save settings.
func (c *Config) Writer() export.Writer {
	return export.Writer{
		Dir:        c.Save.Dir,
		Mode:       c.Save.Mode,
		Format:     c.Save.Format,
		SharedFile: c.Save.SharedFile,
	}
}

// getEnvOrDefault returns the environment variable value or a default
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseBool(raw string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "yes", "on":
		return true, nil
	case "0", "false", "no", "off", "":
		return false, nil
	}
	return false, fmt.Errorf("not a boolean: %q", raw)
}
