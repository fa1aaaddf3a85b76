package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the application configuration. The signing secret lives here
// and is handed to the components that need it at construction time; nothing
// reads the process environment after startup.
type Config struct {
	ServerPort    int
	DatabasePath  string
	JWTSecret     string
	AllowedOrigin string
	AppEnv        string
}

// Load loads configuration from environment variables or sets defaults.
// A .env file in the working directory is applied first if present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	portStr := getEnv("PORT", "3001")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, err
	}

	return &Config{
		ServerPort:    port,
		DatabasePath:  getEnv("DATABASE_PATH", "./miniblog.db"),
		JWTSecret:     getEnv("JWT_SECRET", "miniblog-dev-secret"),
		AllowedOrigin: getEnv("FRONTEND_ORIGIN", "http://localhost:3000"),
		AppEnv:        getEnv("APP_ENV", "development"),
	}, nil
}

// IsProduction reports whether the app runs with production settings.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Helper to get an environment variable with a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
