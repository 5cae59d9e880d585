package infra

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config represents tool configuration loaded from environment variables.
type Config struct {
	AppEnv        string
	GeminiAPIKey  string
	GeminiBaseURL string

	ImageModel    string
	VideoModel    string
	AnalysisModel string

	OutputDir string

	// HardenedErrors replaces raw provider error text with generic,
	// classification-specific messages at the CLI boundary.
	HardenedErrors bool

	RequestTimeout    time.Duration
	RequestsPerMinute int

	// File processing polls use an adaptive interval that grows by
	// FilePollMultiplier up to FilePollMax.
	FilePollInitial    time.Duration
	FilePollMax        time.Duration
	FilePollMultiplier float64
	FilePollAttempts   int
	FileRateCooldown   time.Duration

	// Operation polls run at a fixed interval.
	OpPollInterval time.Duration
	OpPollAttempts int
}

// LoadConfig loads configuration from the environment and applies defaults.
// A .env file is honored when present so local runs do not need exported
// variables.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load(".env", ".env.local")

	cfg := &Config{
		AppEnv:        getEnv("APP_ENV", "development"),
		GeminiAPIKey:  os.Getenv("GEMINI_API_KEY"),
		GeminiBaseURL: getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),

		ImageModel:    getEnv("GEMINI_IMAGE_MODEL", "imagen-3.0-generate-002"),
		VideoModel:    getEnv("GEMINI_VIDEO_MODEL", "veo-2.0-generate-001"),
		AnalysisModel: getEnv("GEMINI_ANALYSIS_MODEL", "gemini-2.0-flash"),

		OutputDir: getEnv("OUTPUT_DIR", "./output"),

		HardenedErrors: getEnvBool("HARDENED_ERRORS", false),

		RequestTimeout:    time.Second * time.Duration(getEnvInt("REQUEST_TIMEOUT_SECONDS", 120)),
		RequestsPerMinute: getEnvInt("REQUESTS_PER_MINUTE", 30),

		FilePollInitial:    time.Second * time.Duration(getEnvInt("FILE_POLL_INITIAL_SECONDS", 10)),
		FilePollMax:        time.Second * time.Duration(getEnvInt("FILE_POLL_MAX_SECONDS", 30)),
		FilePollMultiplier: 1.5,
		FilePollAttempts:   getEnvInt("FILE_POLL_ATTEMPTS", 120),
		FileRateCooldown:   time.Second * time.Duration(getEnvInt("FILE_RATE_COOLDOWN_SECONDS", 60)),

		OpPollInterval: time.Second * time.Duration(getEnvInt("OP_POLL_INTERVAL_SECONDS", 10)),
		OpPollAttempts: getEnvInt("OP_POLL_ATTEMPTS", 120),
	}

	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
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

func getEnvBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
