package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	EnableRESTAPI   bool
	EnableWebsocket bool

	APIKeyRequired bool
	APIKeys        []string

	DBDriver string
	DBPath   string
	DBDSN    string

	JWTSecret     string
	EncryptionKey string

	GallagherBaseURL string
	GallagherAPIKey  string

	LogLevel string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("warning: no .env file found")
	}

	config := &Config{
		Port: getEnv("PORT", "8080"),

		EnableRESTAPI:   getBoolEnv("ENABLE_REST_API", true),
		EnableWebsocket: getBoolEnv("ENABLE_WEBSOCKET", false),

		APIKeyRequired: getBoolEnv("API_KEY_REQUIRED", false),
		APIKeys:        getStringSliceEnv("API_KEYS", []string{}),

		DBDriver: getEnv("DB_DRIVER", "sqlite"),
		DBPath:   getEnv("DB_PATH", "kestrel.db"),
		DBDSN:    getEnv("DB_DSN", ""),

		JWTSecret:     getEnv("JWT_SECRET", "kestrel-dev-jwt-secret-change-me"),
		EncryptionKey: getEnv("ENCRYPTION_KEY", "12345678901234567890123456789012"),

		GallagherBaseURL: getEnv("GALLAGHER_BASE_URL", ""),
		GallagherAPIKey:  getEnv("GALLAGHER_API_KEY", ""),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	return config
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getBoolEnv(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}

	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return boolValue
}

func getStringSliceEnv(key string, fallback []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}

	return strings.Split(value, ",")
}
