package config

import (
	"log"
	"os"
	"time"
)

type Config struct {
	ServerPort string
	// Store selects the repository backend: "memory" (default) or
	// "postgres".
	Store      string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	JWTSecret  string
	// BaseURL is used to build invite join links.
	BaseURL   string
	InviteTTL time.Duration

	MailAPIURL string
	MailAPIKey string
	MailFrom   string

	SummaryAPIURL string
	SummaryAPIKey string
	SummaryModel  string
}

func Load() *Config {
	return &Config{
		ServerPort: getEnv("SERVER_PORT", "8080"),
		Store:      getEnv("STORE", "memory"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "huddle"),
		DBPassword: getEnv("DB_PASSWORD", "huddle_dev_password"),
		DBName:     getEnv("DB_NAME", "huddle"),
		JWTSecret:  getEnv("JWT_SECRET", "dev-secret-change-me"),
		BaseURL:    getEnv("BASE_URL", "http://localhost:8080"),
		InviteTTL:  getDuration("INVITE_TTL", 7*24*time.Hour),

		MailAPIURL: getEnv("MAIL_API_URL", ""),
		MailAPIKey: getEnv("MAIL_API_KEY", ""),
		MailFrom:   getEnv("MAIL_FROM", "no-reply@huddle.local"),

		SummaryAPIURL: getEnv("SUMMARY_API_URL", ""),
		SummaryAPIKey: getEnv("SUMMARY_API_KEY", ""),
		SummaryModel:  getEnv("SUMMARY_MODEL", "gpt-4o-mini"),
	}
}

func getEnv(key, fallback string) string {
	val, exists := os.LookupEnv(key)

	if exists {
		return val
	}

	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	val, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		log.Printf("config: invalid %s %q, using %s", key, val, fallback)
		return fallback
	}
	return d
}
