package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "dev", cfg.Server.Env)
	assert.Equal(t, 72, cfg.Auth.TokenTTLHours)
	assert.Equal(t, FallbackAnyActive, cfg.Ledger.FallbackPolicy)
	assert.Equal(t, "*", cfg.CORS.Origin)
	assert.False(t, cfg.IsProduction())
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ENV", "production")
	t.Setenv("LEDGER_FALLBACK_POLICY", "none")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, FallbackNone, cfg.Ledger.FallbackPolicy)
}

func TestLoadRejectsUnknownFallbackPolicy(t *testing.T) {
	t.Setenv("LEDGER_FALLBACK_POLICY", "whatever")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, FallbackAnyActive, cfg.Ledger.FallbackPolicy)
}
