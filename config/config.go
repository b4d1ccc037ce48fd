package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// This function will Load the ENVIORNMENT VARIABLES from .env if GO_ENV variable is not set
func LoadENV() error {
	goEnv := os.Getenv("GO_ENV")

	if goEnv == "" || goEnv == "development" {
		err := godotenv.Load()
		if err != nil {
			return err
		}
	}

	return nil
}

type EnviornmentVariable struct {
	// All variables
	GO_ENV       string
	DB_USER_NAME string
	DB_PASSWORD  string
	DB_NAME      string
	DB_HOST      string
	DB_PORT      string
	DB_SSL_MODE  string
	PORT         int
	LOG_LEVEL    string
	// DIRECTORY_BACKEND is postgres or memory (seeded sample data)
	DIRECTORY_BACKEND string
	// HTTP boundary
	QUERY_TIMEOUT       time.Duration
	ALLOWED_ORIGINS     string
	RATE_LIMIT_REQUESTS int
	// Redis Configuration
	REDIS_URL string
	// Shortlist CLI
	DIRECTORY_API_URL string
	SELECTION_STORE   string
	SELECTION_DIR     string
}

func Get() (*EnviornmentVariable, error) {

	port, err := strconv.Atoi(os.Getenv("PORT"))
	if err != nil {
		port = 8080
	}

	// Database defaults
	dbHost := os.Getenv("DB_HOST")
	if dbHost == "" {
		dbHost = "localhost"
	}

	dbPort := os.Getenv("DB_PORT")
	if dbPort == "" {
		dbPort = "5432"
	}

	sslMode := os.Getenv("DB_SSL_MODE")
	if sslMode == "" {
		sslMode = "disable"
	}

	queryTimeout, err := time.ParseDuration(os.Getenv("QUERY_TIMEOUT"))
	if err != nil || queryTimeout <= 0 {
		queryTimeout = 10 * time.Second
	}

	rateLimit, err := strconv.Atoi(os.Getenv("RATE_LIMIT_REQUESTS"))
	if err != nil || rateLimit < 1 {
		rateLimit = 100
	}

	envVariables := &EnviornmentVariable{
		GO_ENV:       os.Getenv("GO_ENV"),
		DB_USER_NAME: os.Getenv("DB_USER_NAME"),
		DB_PASSWORD:  os.Getenv("DB_PASSWORD"),
		DB_NAME:      os.Getenv("DB_NAME"),
		DB_HOST:      dbHost,
		DB_PORT:      dbPort,
		DB_SSL_MODE:  sslMode,
		PORT:         port,
		LOG_LEVEL:    getEnv("LOG_LEVEL", "info"),

		DIRECTORY_BACKEND: getEnv("DIRECTORY_BACKEND", "postgres"),
		// HTTP
		QUERY_TIMEOUT:       queryTimeout,
		ALLOWED_ORIGINS:     getEnv("ALLOWED_ORIGINS", "*"),
		RATE_LIMIT_REQUESTS: rateLimit,
		// Redis
		REDIS_URL: os.Getenv("REDIS_URL"),
		// CLI
		DIRECTORY_API_URL: getEnv("DIRECTORY_API_URL", "http://localhost:8080"),
		SELECTION_STORE:   getEnv("SELECTION_STORE", "badger"),
		SELECTION_DIR:     getEnv("SELECTION_DIR", defaultSelectionDir()),
	}

	return envVariables, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func defaultSelectionDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".shortlist"
	}
	return filepath.Join(home, ".shortlist")
}
