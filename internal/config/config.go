package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// MinAdvanceDefault is the advance-payment floor in major currency units.
const MinAdvanceDefault = 500

type Config struct {
	Port        string
	DatabaseURL string

	JWTSecret string
	JWTTTL    time.Duration

	KhaltiBaseURL   string
	KhaltiSecretKey string
	KhaltiTimeout   time.Duration

	MinAdvanceAmount float64
}

// Load reads configuration from the environment. A .env file is honored when
// present but never required.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:             envOrDefault("PORT", "8080"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		JWTSecret:        os.Getenv("JWT_SECRET"),
		JWTTTL:           24 * time.Hour,
		KhaltiBaseURL:    envOrDefault("KHALTI_BASE_URL", "https://dev.khalti.com/api/v2"),
		KhaltiSecretKey:  os.Getenv("KHALTI_SECRET_KEY"),
		KhaltiTimeout:    15 * time.Second,
		MinAdvanceAmount: MinAdvanceDefault,
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is empty")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is empty")
	}

	if v := os.Getenv("MIN_ADVANCE_AMOUNT"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid MIN_ADVANCE_AMOUNT %q: %w", v, err)
		}
		cfg.MinAdvanceAmount = f
	}

	if v := os.Getenv("KHALTI_TIMEOUT_SECONDS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid KHALTI_TIMEOUT_SECONDS %q: %w", v, err)
		}
		cfg.KhaltiTimeout = time.Duration(n) * time.Second
	}

	return cfg, nil
}

func envOrDefault(name, def string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return def
}
