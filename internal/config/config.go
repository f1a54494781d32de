package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port             int
	LogLevel         string
	GeminiAPIKey     string
	GeminiModel      string
	ProviderAttempts int
	ProviderTimeout  time.Duration
	ProviderBackoff  time.Duration
	CallbackURL      string
	CallbackTimeout  time.Duration
	DatabaseURL      string
	NatsURL          string
	NatsToken        string
	MetricsNamespace string
	APIToken         string
}

func Load() Config {
	return Config{
		Port:             envInt("DECOY_PORT", 8780),
		LogLevel:         envStr("LOG_LEVEL", "info"),
		GeminiAPIKey:     envStr("GEMINI_API_KEY", ""),
		GeminiModel:      envStr("DECOY_MODEL", "gemini-2.0-flash"),
		ProviderAttempts: envInt("DECOY_PROVIDER_ATTEMPTS", 2),
		ProviderTimeout:  envDuration("DECOY_PROVIDER_TIMEOUT", 20*time.Second),
		ProviderBackoff:  envDuration("DECOY_PROVIDER_BACKOFF", time.Second),
		CallbackURL:      envStr("CALLBACK_URL", ""),
		CallbackTimeout:  envDuration("CALLBACK_TIMEOUT", 10*time.Second),
		DatabaseURL:      envStr("DATABASE_URL", ""),
		NatsURL:          envStr("NATS_URL", ""),
		NatsToken:        envStr("NATS_TOKEN", ""),
		MetricsNamespace: envStr("DECOY_METRICS_NAMESPACE", "decoy"),
		APIToken:         envStr("DECOY_API_TOKEN", ""),
	}
}

func envStr(key, fallback string) string {
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

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
