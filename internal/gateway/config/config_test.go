package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, "http://localhost:8001", cfg.IdentityServiceURL)
	assert.Equal(t, "http://localhost:8002", cfg.TodoServiceURL)
	assert.Equal(t, "http://localhost:3000", cfg.FrontendURL)
	assert.Equal(t, 100, cfg.RateLimitRPS)
	assert.Equal(t, 200, cfg.RateLimitBurst)
}

func TestLoad_InvalidUpstreamURL(t *testing.T) {
	t.Setenv("IDENTITY_SERVICE_URL", "not a url")

	_, err := Load()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "IDENTITY_SERVICE_URL")
}

func TestLoad_BurstBelowRPS(t *testing.T) {
	t.Setenv("RATE_LIMIT_RPS", "100")
	t.Setenv("RATE_LIMIT_BURST", "10")

	_, err := Load()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "RATE_LIMIT_BURST")
}
