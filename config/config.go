/*
Package config loads server configuration from the environment.

A .env file in the working directory is read when present; real environment
variables win over it. Every knob has a usable default so the server starts
with no configuration at all.
*/
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
}

type AppConfig struct {
	Port           int
	LogLevel       string
	AllowedOrigins []string
}

type DatabaseConfig struct {
	// Path to the SQLite database file.
	Path string
}

func Load() (*Config, error) {
	// Absence of a .env file is fine; the environment itself may be set.
	_ = godotenv.Load()

	port, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	return &Config{
		App: AppConfig{
			Port:           port,
			LogLevel:       getEnv("LOG_LEVEL", "info"),
			AllowedOrigins: getEnvSlice("CORS_ORIGINS", "http://localhost:3000"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "leave-engine.db"),
		},
	}, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(key, fallback string) []string {
	raw := getEnv(key, fallback)
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
