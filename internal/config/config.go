package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port string
	Env  string

	// Database
	DatabaseURL string

	// Redis (optional, enables the question corpus store)
	RedisURL string

	// Gemini AI
	GeminiAPIKey         string
	GeminiModel          string
	GeminiTemperature    float32
	GeminiConcurrentReqs int
	GeminiTimeout        time.Duration

	// Quiz pipeline
	DedupOverprovision int
	MaxCompletionBytes int
	MaxUploadBytes     int64
	MaxDocumentChars   int
	FeedbackPacing     time.Duration

	// Frontend
	FrontendURL string
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	cfg := &Config{
		Port:                 getEnvOrDefault("PORT", "8080"),
		Env:                  getEnvOrDefault("ENV", "development"),
		DatabaseURL:          mustGetEnv("DATABASE_URL"),
		RedisURL:             getEnvOrDefault("REDIS_URL", ""),
		GeminiAPIKey:         mustGetEnv("GEMINI_API_KEY"),
		GeminiModel:          getEnvOrDefault("GEMINI_MODEL", "gemini-1.5-flash-latest"),
		GeminiTemperature:    float32(getEnvAsIntOrDefault("GEMINI_TEMPERATURE_X100", 30)) / 100,
		GeminiConcurrentReqs: getEnvAsIntOrDefault("GEMINI_CONCURRENT_REQUESTS", 5),
		GeminiTimeout:        time.Duration(getEnvAsIntOrDefault("GEMINI_TIMEOUT_SECONDS", 60)) * time.Second,
		DedupOverprovision:   getEnvAsIntOrDefault("DEDUP_OVERPROVISION", 5),
		MaxCompletionBytes:   getEnvAsIntOrDefault("MAX_COMPLETION_BYTES", 1<<20),
		MaxUploadBytes:       int64(getEnvAsIntOrDefault("MAX_UPLOAD_MB", 20)) << 20,
		MaxDocumentChars:     getEnvAsIntOrDefault("MAX_DOCUMENT_CHARS", 30000),
		FeedbackPacing:       time.Duration(getEnvAsIntOrDefault("FEEDBACK_PACING_MS", 1000)) * time.Millisecond,
		FrontendURL:          getEnvOrDefault("FRONTEND_URL", "*"),
	}

	return cfg
}

// RedisEnabled reports whether the corpus store should be wired.
func (c *Config) RedisEnabled() bool {
	return c.RedisURL != ""
}

func mustGetEnv(key string) string {
	val := os.Getenv(key)
	if val == "" {
		panic(fmt.Sprintf("required environment variable %s is not set", key))
	}
	return val
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
