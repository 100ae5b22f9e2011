// Package config builds process configuration from environment variables so
// main stays lean.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures everything the server process needs at startup.
type Config struct {
	Addr string

	Anthropic AnthropicConfig
	Redis     RedisConfig
	SMTP      SMTPConfig

	// ExtractTimeout bounds the extraction backend call per run.
	ExtractTimeout time.Duration
	// TotalTolerance is the relative disagreement allowed between provided
	// financial totals and their components before recomputation.
	TotalTolerance float64
	// OutputDir receives rendered draft PDFs.
	OutputDir string
	// DealingRep is the default representative stamped on drafts when the
	// trigger payload names none.
	DealingRep string
}

type AnthropicConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
	To       []string
}

// FromEnv reads the environment. Absent values get development defaults;
// production deployments set everything explicitly.
func FromEnv() Config {
	return Config{
		Addr: envOr("KYC_ADDR", ":8080"),
		Anthropic: AnthropicConfig{
			APIKey:  os.Getenv("ANTHROPIC_API_KEY"),
			Model:   os.Getenv("ANTHROPIC_MODEL"),
			BaseURL: os.Getenv("ANTHROPIC_BASE_URL"),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("KYC_REDIS_URL"),
			PoolSize:     envInt("KYC_REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("KYC_REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDuration("KYC_REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("KYC_REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("KYC_REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		SMTP: SMTPConfig{
			Host:     os.Getenv("KYC_SMTP_HOST"),
			Port:     envOr("KYC_SMTP_PORT", "587"),
			Username: os.Getenv("KYC_SMTP_USERNAME"),
			Password: os.Getenv("KYC_SMTP_PASSWORD"),
			From:     os.Getenv("KYC_SMTP_FROM"),
			To:       splitList(os.Getenv("KYC_NOTIFY_TO")),
		},
		ExtractTimeout: envDuration("KYC_EXTRACT_TIMEOUT", 90*time.Second),
		TotalTolerance: envFloat("KYC_TOTAL_TOLERANCE", 0.01),
		OutputDir:      envOr("KYC_OUTPUT_DIR", "output"),
		DealingRep:     os.Getenv("KYC_DEALING_REP"),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			return f
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return fallback
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
