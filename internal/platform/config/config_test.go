package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	cfg := FromEnv()

	require.Equal(t, ":8080", cfg.Addr)
	require.Equal(t, "587", cfg.SMTP.Port)
	require.Equal(t, 90*time.Second, cfg.ExtractTimeout)
	require.Equal(t, 0.01, cfg.TotalTolerance)
	require.Equal(t, "output", cfg.OutputDir)
	require.Equal(t, 10, cfg.Redis.PoolSize)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("KYC_ADDR", ":9090")
	t.Setenv("KYC_EXTRACT_TIMEOUT", "2m")
	t.Setenv("KYC_TOTAL_TOLERANCE", "0.05")
	t.Setenv("KYC_NOTIFY_TO", "review@example.com, compliance@example.com, ")
	t.Setenv("KYC_REDIS_POOL_SIZE", "25")

	cfg := FromEnv()

	require.Equal(t, ":9090", cfg.Addr)
	require.Equal(t, 2*time.Minute, cfg.ExtractTimeout)
	require.Equal(t, 0.05, cfg.TotalTolerance)
	require.Equal(t, []string{"review@example.com", "compliance@example.com"}, cfg.SMTP.To)
	require.Equal(t, 25, cfg.Redis.PoolSize)
}

func TestFromEnvRejectsInvalidValues(t *testing.T) {
	t.Setenv("KYC_EXTRACT_TIMEOUT", "soon")
	t.Setenv("KYC_TOTAL_TOLERANCE", "-1")
	t.Setenv("KYC_REDIS_POOL_SIZE", "lots")

	cfg := FromEnv()

	require.Equal(t, 90*time.Second, cfg.ExtractTimeout)
	require.Equal(t, 0.01, cfg.TotalTolerance)
	require.Equal(t, 10, cfg.Redis.PoolSize)
}
