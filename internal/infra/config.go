package infra

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv         string
	Port           string
	DatabaseURL    string
	JWTSecret      string
	RedisURL       string
	StorageDir     string
	StorageBaseURL string
	GeoIPDBPath    string

	TTSEngine       string
	TTSEngineURL    string
	GoogleTTSAPIKey string

	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string
	GeminiAPIKey  string
	GeminiModel   string
	GeminiBaseURL string

	MaxConcurrentGenerations int
	GateAcquireTimeout       time.Duration
	SynthesisTimeout         time.Duration
	MaxTextChars             int
	MaxAudioSeconds          float64
	EstimatedSecondsPerChar  float64

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
	RateLimitPerMin  int
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	port := getEnv("PORT", "8080")
	cfg := &Config{
		AppEnv:         getEnv("APP_ENV", "development"),
		Port:           port,
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		RedisURL:       os.Getenv("REDIS_URL"),
		StorageDir:     getEnv("STORAGE_DIR", "storage"),
		StorageBaseURL: getEnv("STORAGE_BASE_URL", "http://localhost:"+port+"/static"),
		GeoIPDBPath:    os.Getenv("GEOIP_DB_PATH"),

		TTSEngine:       getEnv("TTS_ENGINE", "edge"),
		TTSEngineURL:    getEnv("TTS_ENGINE_URL", "http://localhost:5002"),
		GoogleTTSAPIKey: os.Getenv("GOOGLE_TTS_API_KEY"),

		OpenAIAPIKey:  os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:   getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		GeminiAPIKey:  os.Getenv("GEMINI_API_KEY"),
		GeminiModel:   getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
		GeminiBaseURL: getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),

		MaxConcurrentGenerations: getEnvInt("MAX_CONCURRENT_GENERATIONS", 20),
		GateAcquireTimeout:       time.Second * time.Duration(getEnvInt("GATE_ACQUIRE_TIMEOUT_SECONDS", 30)),
		SynthesisTimeout:         time.Second * time.Duration(getEnvInt("SYNTHESIS_TIMEOUT_SECONDS", 120)),
		MaxTextChars:             getEnvInt("MAX_TEXT_CHARS", 10000),
		MaxAudioSeconds:          getEnvFloat("MAX_AUDIO_SECONDS", 3600),
		EstimatedSecondsPerChar:  getEnvFloat("ESTIMATED_SECONDS_PER_CHAR", 0.25),

		HTTPReadTimeout:  time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout: time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 180)),
		HTTPIdleTimeout:  time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		RateLimitPerMin:  getEnvInt("RATE_LIMIT_PER_MINUTE", 30),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	if cfg.MaxConcurrentGenerations <= 0 {
		return nil, fmt.Errorf("MAX_CONCURRENT_GENERATIONS must be positive")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
