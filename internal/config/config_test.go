package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func validTestConfig() *Config {
	return &Config{
		Port:              "8080",
		Env:               "development",
		JWTSecret:         "your-secret-key-change-in-production",
		DBPassword:        "password",
		ChatRateLimit:     5,
		ChatRateWindowSec: 60,
	}
}

func TestValidate_DevelopmentDefaultsPass(t *testing.T) {
	assert.NoError(t, validTestConfig().Validate())
}

func TestValidate_PortRequired(t *testing.T) {
	cfg := validTestConfig()
	cfg.Port = ""
	assert.Error(t, cfg.Validate())
}

func TestValidate_RateLimitBounds(t *testing.T) {
	cfg := validTestConfig()
	cfg.ChatRateLimit = 0
	assert.Error(t, cfg.Validate())

	cfg = validTestConfig()
	cfg.ChatRateWindowSec = -1
	assert.Error(t, cfg.Validate())
}

func TestValidate_ProductionRejectsDefaultSecret(t *testing.T) {
	cfg := validTestConfig()
	cfg.Env = "production"
	cfg.DBPassword = "a-real-password"
	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestValidate_ProductionRejectsShortSecret(t *testing.T) {
	cfg := validTestConfig()
	cfg.Env = "prod"
	cfg.JWTSecret = "short"
	cfg.DBPassword = "a-real-password"
	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "32 characters")
}

func TestValidate_ProductionRejectsWeakDBPassword(t *testing.T) {
	cfg := validTestConfig()
	cfg.Env = "production"
	cfg.JWTSecret = strings.Repeat("s", 32)
	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "DB_PASSWORD")
}

func TestValidate_ProductionWithStrongValuesPasses(t *testing.T) {
	cfg := validTestConfig()
	cfg.Env = "production"
	cfg.JWTSecret = strings.Repeat("s", 32)
	cfg.DBPassword = "a-real-password"
	assert.NoError(t, cfg.Validate())
}
