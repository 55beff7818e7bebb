package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViperAppliesDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("TMDB_API_KEY", "key")

	dir := t.TempDir()
	cfg := fromViper(v, dir)

	assert.Equal(t, "key", cfg.TMDBAPIKey)
	assert.Equal(t, "en-US", cfg.TMDBLanguage)
	assert.Equal(t, "en_US", cfg.JustWatchLocale)
	assert.Equal(t, 15*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, time.Hour, cfg.CacheTTL)
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, filepath.Join(dir, "library.db"), cfg.LibraryFile)
	require.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			TMDBAPIKey:          "key",
			PlaceholderImageURL: "https://example.com/none.png",
			HTTPTimeout:         time.Second,
			TraceSampleRatio:    0.5,
		}
	}

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"missing tmdb key", func(c *Config) { c.TMDBAPIKey = "" }},
		{"missing placeholder", func(c *Config) { c.PlaceholderImageURL = "" }},
		{"plain http placeholder", func(c *Config) { c.PlaceholderImageURL = "http://example.com/none.png" }},
		{"zero timeout", func(c *Config) { c.HTTPTimeout = 0 }},
		{"ratio above one", func(c *Config) { c.TraceSampleRatio = 1.5 }},
	}

	require.NoError(t, base().Validate())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestResolveConfigDirMakesRelativePathAbsolute(t *testing.T) {
	dir, err := resolveConfigDir("relative/dir")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(dir))
}
