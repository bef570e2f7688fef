package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validProductionConfig() *Config {
	return &Config{
		Port:       "8080",
		JWTSecret:  strings.Repeat("s", 32),
		UploadDir:  "uploads",
		DBPassword: "a-real-password",
		DBSSLMode:  "require",
		Env:        "production",
	}
}

func TestValidate(t *testing.T) {
	t.Run("Valid Production Config", func(t *testing.T) {
		require.NoError(t, validProductionConfig().Validate())
	})

	t.Run("Missing Port", func(t *testing.T) {
		cfg := validProductionConfig()
		cfg.Port = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("Missing JWT Secret", func(t *testing.T) {
		cfg := validProductionConfig()
		cfg.JWTSecret = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("Missing Upload Dir", func(t *testing.T) {
		cfg := validProductionConfig()
		cfg.UploadDir = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("Default JWT Secret Rejected In Production", func(t *testing.T) {
		cfg := validProductionConfig()
		cfg.JWTSecret = "your-secret-key-change-in-production"
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "default value")
	})

	t.Run("Short JWT Secret Rejected In Production", func(t *testing.T) {
		cfg := validProductionConfig()
		cfg.JWTSecret = "short-secret"
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "32 characters")
	})

	t.Run("Weak DB Password Rejected In Production", func(t *testing.T) {
		cfg := validProductionConfig()
		cfg.DBPassword = "password"
		assert.Error(t, cfg.Validate())
	})

	t.Run("Development Tolerates Weak Values", func(t *testing.T) {
		cfg := &Config{
			Port:       "8080",
			JWTSecret:  "short-secret",
			UploadDir:  "uploads",
			DBPassword: "password",
			Env:        "development",
		}
		assert.NoError(t, cfg.Validate())
	})
}
