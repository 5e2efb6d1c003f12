package config

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds the runtime settings loaded from the environment.
type Config struct {
	Port        string
	MongoURI    string
	MongoDB     string
	LogLevel    string
	RefreshCron string
}

// LoadConfig reads .env if present and falls back to defaults for
// anything unset.
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found, relying on environment")
	}

	return &Config{
		Port:        getEnv("PORT", "8080"),
		MongoURI:    getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:     getEnv("MONGO_DB", "progress_engine"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		RefreshCron: getEnv("REFRESH_CRON", "0 3 * * *"),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
