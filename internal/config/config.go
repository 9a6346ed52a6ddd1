package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config is the process configuration, read from the environment once at
// startup (main loads .env first via godotenv).
type Config struct {
	HTTPAddr      string
	DatabaseDSN   string
	AgentURL      string
	SessionTTL    time.Duration
	SessionSweep  time.Duration
	AgentTimeout  time.Duration
	MaxResumeSize int64
}

func Load() (Config, error) {
	cfg := Config{
		HTTPAddr:      getEnv("HTTP_ADDR", ":8080"),
		DatabaseDSN:   getEnv("DATABASE_DSN", ""),
		AgentURL:      getEnv("AGENT_URL", "http://localhost:8081"),
		SessionTTL:    time.Duration(getEnvInt("SESSION_TTL_MIN", 60)) * time.Minute,
		SessionSweep:  time.Duration(getEnvInt("SESSION_SWEEP_MIN", 10)) * time.Minute,
		AgentTimeout:  time.Duration(getEnvInt("AGENT_TIMEOUT_SEC", 30)) * time.Second,
		MaxResumeSize: int64(getEnvInt("MAX_RESUME_SIZE_MB", 8)) << 20,
	}

	if cfg.DatabaseDSN == "" {
		return Config{}, fmt.Errorf("DATABASE_DSN is required")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
