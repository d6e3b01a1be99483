package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port           string
	DatabaseURL    string
	JWTSecret      string
	TokenTTL       time.Duration
	BcryptCost     int
	CORSOrigin     string
	AuthRateMax    int
	AuthRateWindow time.Duration
}

// Load reads configuration from the environment and fails fast on
// missing required values. The JWT secret is handed to the token issuer
// explicitly; nothing else in the process reads it.
func Load() *Config {
	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		JWTSecret:      getEnv("JWT_SECRET", ""),
		TokenTTL:       getDuration("TOKEN_TTL", 7*24*time.Hour),
		BcryptCost:     getInt("BCRYPT_COST", 10),
		CORSOrigin:     getEnv("CORS_ORIGIN", "*"),
		AuthRateMax:    getInt("AUTH_RATE_LIMIT_MAX", 10),
		AuthRateWindow: getDuration("AUTH_RATE_LIMIT_WINDOW", time.Minute),
	}

	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		parsed, err := time.ParseDuration(value)
		if err == nil {
			return parsed
		}
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		parsed, err := strconv.Atoi(value)
		if err == nil {
			return parsed
		}
	}
	return fallback
}
