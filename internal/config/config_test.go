package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_MissingAPIKeyIsFatal(t *testing.T) {
	viper.Reset()
	t.Setenv("DATABASE_URI", "mongodb://localhost:27017")

	_, err := LoadConfig(t.TempDir())
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestLoadConfig_MissingDatabaseURIIsFatal(t *testing.T) {
	viper.Reset()
	t.Setenv("IDENTITY_API_KEY", "web-api-key")

	_, err := LoadConfig(t.TempDir())
	assert.ErrorIs(t, err, ErrMissingDatabaseURI)
}

func TestLoadConfig_EnvAndDefaults(t *testing.T) {
	viper.Reset()
	t.Setenv("IDENTITY_API_KEY", "web-api-key")
	t.Setenv("DATABASE_URI", "mongodb://localhost:27017")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "web-api-key", cfg.Identity.APIKey)
	assert.Equal(t, "mongodb://localhost:27017", cfg.Database.URI)
	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, "https://identitytoolkit.googleapis.com/v1", cfg.Identity.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.Identity.Timeout)
	assert.Equal(t, 12*time.Hour, cfg.Session.TTL)
	assert.Equal(t, "mt_session", cfg.Session.CookieName)
	assert.False(t, cfg.S3.VideoStorageEnabled())
}
