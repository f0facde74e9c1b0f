package config

import (
	"os"
	"strconv"
)

type Config struct {
	Port          string
	MongoURI      string
	DBName        string
	SessionSecret string
	Env           string
	LogLevel      string
}

// Load loads configuration from environment with sensible defaults.
// Precedence: explicit env var > .env file (if loaded by caller) > default.
func Load() Config {
	cfg := Config{}
	cfg.Port = getEnv("PORT", "3000")
	cfg.MongoURI = getEnv("MONGODB_URI", "mongodb://localhost:27017")
	cfg.DBName = getEnv("DB_NAME", "student_management")
	cfg.SessionSecret = getEnv("SESSION_SECRET", "devsessionsecret")
	cfg.Env = getEnv("APP_ENV", "development")
	cfg.LogLevel = getEnv("LOG_LEVEL", "info")
	return cfg
}

func (c Config) IsDevelopment() bool { return c.Env == "development" }

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// ParseBool reads an env var as bool with default.
func ParseBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return def
		}
		return b
	}
	return def
}
