package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// The values are read by Viper from a config file or environment variables.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Identity IdentityConfig `mapstructure:"identity"`
	Session  SessionConfig  `mapstructure:"session"`
	S3       S3Config       `mapstructure:"s3"`
}

type ServerConfig struct {
	Address string `mapstructure:"address"`
}

type DatabaseConfig struct {
	URI  string `mapstructure:"uri"`
	Name string `mapstructure:"name"`
}

// IdentityConfig points at the external identity provider's REST API.
// APIKey is the public web API key appended to every call.
type IdentityConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	APIKey  string        `mapstructure:"api_key"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type SessionConfig struct {
	CookieName string        `mapstructure:"cookie_name"`
	TTL        time.Duration `mapstructure:"ttl"`
}

// S3Config configures optional video storage. The feature is disabled
// entirely when BucketName is empty.
type S3Config struct {
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	BucketName      string `mapstructure:"bucket_name"`
	UseSSL          bool   `mapstructure:"use_ssl"`
}

// VideoStorageEnabled reports whether the optional S3 section was configured.
func (c S3Config) VideoStorageEnabled() bool {
	return c.BucketName != ""
}

// Startup validation errors. Both secrets are required: without the API key
// no one can sign in, without the database URI nothing can be stored.
var (
	ErrMissingAPIKey      = errors.New("config: identity.api_key is required")
	ErrMissingDatabaseURI = errors.New("config: database.uri is required")
)

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.AutomaticEnv()
	// Nested keys via env, e.g. identity.api_key -> IDENTITY_API_KEY
	viper.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	viper.SetDefault("server.address", ":8080")
	viper.SetDefault("database.uri", "")
	viper.SetDefault("database.name", "meu_treino")
	viper.SetDefault("identity.base_url", "https://identitytoolkit.googleapis.com/v1")
	// Defaulted empty so env-only values are still seen by Unmarshal.
	viper.SetDefault("identity.api_key", "")
	viper.SetDefault("identity.timeout", "30s")
	viper.SetDefault("session.cookie_name", "mt_session")
	viper.SetDefault("session.ttl", "12h")
	viper.SetDefault("s3.use_ssl", true)

	err = viper.ReadInConfig()
	// Missing config file is fine; env vars may carry everything.
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		err = nil
	} else if err != nil {
		return
	}

	if err = viper.Unmarshal(&config); err != nil {
		return
	}

	if config.Identity.APIKey == "" {
		return config, ErrMissingAPIKey
	}
	if config.Database.URI == "" {
		return config, ErrMissingDatabaseURI
	}

	return config, nil
}
