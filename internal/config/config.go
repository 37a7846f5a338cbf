package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds the process configuration, loaded once at startup.
type Config struct {
	Port        string
	MongoURI    string
	DBName      string
	JWTSecret   string
	TokenExpiry time.Duration

	// Matching judge (OpenAI-compatible chat completions endpoint).
	LLMBaseURL string
	LLMToken   string
	LLMModel   string
	// Per-candidate judge call timeout for the matching scan.
	JudgeTimeout time.Duration
}

// LoadConfig reads configuration from a .env file if present, falling back to
// process environment variables and defaults.
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found, relying on environment variables")
	}

	return &Config{
		Port:         getEnv("PORT", "8000"),
		MongoURI:     getEnv("MONGO_URI", "mongodb://localhost:27017"),
		DBName:       getEnv("DB_NAME", "lostfound"),
		JWTSecret:    getEnv("JWT_SECRET", "dev-secret"),
		TokenExpiry:  getDurationEnv("TOKEN_EXPIRY_HOURS", 72) * time.Hour,
		LLMBaseURL:   getEnv("LLM_BASE_URL", "https://dashscope.aliyuncs.com/compatible-mode/v1"),
		LLMToken:     os.Getenv("LLM_TOKEN"),
		LLMModel:     getEnv("LLM_MODEL", "qwen-turbo"),
		JudgeTimeout: getDurationEnv("JUDGE_TIMEOUT_SECONDS", 15) * time.Second,
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDurationEnv(key string, fallback int64) time.Duration {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			return time.Duration(parsed)
		}
		logrus.WithField("key", key).Warn("Invalid duration value, using default")
	}
	return time.Duration(fallback)
}
