package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	DatabaseURL string

	JWTSecret string
	JWTExpiry time.Duration

	RateLimitPerSecond float64
	RateLimitBurst     int

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPSender   string

	LogFile string
}

func Load() Config {
	// Missing .env is fine; the environment wins either way.
	_ = godotenv.Load()

	port := os.Getenv("PORT")
	if port == "" {
		port = "5000"
	}

	return Config{
		Port:               port,
		DatabaseURL:        os.Getenv("DB_DSN"),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		JWTExpiry:          readDuration("JWT_EXPIRY", 8*time.Hour),
		RateLimitPerSecond: readFloat("RATE_LIMIT_PER_SEC", 10),
		RateLimitBurst:     readInt("RATE_LIMIT_BURST", 20),
		SMTPHost:           os.Getenv("SMTP_HOST"),
		SMTPPort:           readInt("SMTP_PORT", 587),
		SMTPUsername:       os.Getenv("SMTP_USERNAME"),
		SMTPPassword:       os.Getenv("SMTP_PASSWORD"),
		SMTPSender:         os.Getenv("SMTP_SENDER"),
		LogFile:            os.Getenv("LOG_FILE"),
	}
}

func readInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func readFloat(key string, fallback float64) float64 {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback
	}
	return value
}

func readDuration(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return value
}
