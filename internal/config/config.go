package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port string
	Env  string

	// Storage
	DataPath string

	// Gemini AI. An empty key does not prevent startup; generation
	// calls fail with a configuration error instead.
	GeminiAPIKey string

	// Generation rate limit (requests per minute per IP)
	GenerateRateLimit int

	// Frontend
	FrontendURL string
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	cfg := &Config{
		Port:              getEnvOrDefault("PORT", "8080"),
		Env:               getEnvOrDefault("ENV", "development"),
		DataPath:          getEnvOrDefault("DATA_PATH", "./data/flashcards.json"),
		GeminiAPIKey:      getEnvOrDefault("GEMINI_API_KEY", ""),
		GenerateRateLimit: getEnvAsIntOrDefault("GENERATE_REQUESTS_PER_MINUTE", 10),
		FrontendURL:       getEnvOrDefault("FRONTEND_URL", "http://localhost:5173"),
	}

	return cfg
}

func getEnvOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvAsIntOrDefault(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}
