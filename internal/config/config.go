package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	// TMDB
	TMDBAPIKey   string
	TMDBLanguage string

	// JustWatch
	JustWatchLocale string

	// MusicBrainz
	MusicBrainzContact string // Contact part of the client signature header

	// Catalog behaviour
	PlaceholderImageURL string
	HTTPTimeout         time.Duration
	CacheTTL            time.Duration // Default TTL for cacheable catalog reads

	// Server
	ServerPort string

	// Tracing
	TraceSampleRatio float64

	// Paths
	LibraryFile string // $CONFIG_DIR/library.db

	// Logging
	LogLevel string
	LogFile  string // Optional, stdout only when empty
}

// Load loads configuration from environment variables and .env file
func Load() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	// Load .env file if it exists (ignore if not found)
	_ = viper.ReadInConfig()

	setDefaults(viper.GetViper())

	configDir, err := resolveConfigDir(viper.GetString("CONFIG_DIR"))
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	cfg := fromViper(viper.GetViper(), configDir)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("TMDB_LANGUAGE", "en-US")
	v.SetDefault("JUSTWATCH_LOCALE", "en_US")
	v.SetDefault("MUSICBRAINZ_CONTACT", "https://github.com/amaumene/mediagate")
	v.SetDefault("PLACEHOLDER_IMAGE_URL", "https://placehold.co/500x750?text=No+Image")
	v.SetDefault("HTTP_TIMEOUT_SECONDS", 15)
	v.SetDefault("CACHE_TTL_SECONDS", 3600)
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("TRACE_SAMPLE_RATIO", 0.1)
	v.SetDefault("LOG_LEVEL", "info")
}

func resolveConfigDir(configDir string) (string, error) {
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		return filepath.Join(homeDir, ".config", "mediagate"), nil
	}

	absPath, err := filepath.Abs(configDir)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path for CONFIG_DIR: %w", err)
	}
	return absPath, nil
}

func fromViper(v *viper.Viper, configDir string) *Config {
	return &Config{
		TMDBAPIKey:   v.GetString("TMDB_API_KEY"),
		TMDBLanguage: v.GetString("TMDB_LANGUAGE"),

		JustWatchLocale: v.GetString("JUSTWATCH_LOCALE"),

		MusicBrainzContact: v.GetString("MUSICBRAINZ_CONTACT"),

		PlaceholderImageURL: v.GetString("PLACEHOLDER_IMAGE_URL"),
		HTTPTimeout:         time.Duration(v.GetInt("HTTP_TIMEOUT_SECONDS")) * time.Second,
		CacheTTL:            time.Duration(v.GetInt("CACHE_TTL_SECONDS")) * time.Second,

		ServerPort: v.GetString("SERVER_PORT"),

		TraceSampleRatio: v.GetFloat64("TRACE_SAMPLE_RATIO"),

		LibraryFile: filepath.Join(configDir, "library.db"),

		LogLevel: v.GetString("LOG_LEVEL"),
		LogFile:  v.GetString("LOG_FILE"),
	}
}

// Validate checks required fields and value ranges
func (c *Config) Validate() error {
	if c.TMDBAPIKey == "" {
		return fmt.Errorf("TMDB_API_KEY is required")
	}
	if c.PlaceholderImageURL == "" {
		return fmt.Errorf("PLACEHOLDER_IMAGE_URL must not be empty")
	}
	if !strings.HasPrefix(c.PlaceholderImageURL, "https://") {
		return fmt.Errorf("PLACEHOLDER_IMAGE_URL must be an https URL, got %q", c.PlaceholderImageURL)
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT_SECONDS must be positive")
	}
	if c.TraceSampleRatio < 0 || c.TraceSampleRatio > 1 {
		return fmt.Errorf("TRACE_SAMPLE_RATIO must be between 0 and 1, got %v", c.TraceSampleRatio)
	}
	return nil
}
