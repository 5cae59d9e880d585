package infra

import (
	"testing"
	"time"
)

func TestLoadConfigRequiresAPIKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected error when GEMINI_API_KEY is unset")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.AppEnv != "development" {
		t.Errorf("AppEnv = %q, want development", cfg.AppEnv)
	}
	if cfg.VideoModel != "veo-2.0-generate-001" {
		t.Errorf("VideoModel = %q", cfg.VideoModel)
	}
	if cfg.ImageModel != "imagen-3.0-generate-002" {
		t.Errorf("ImageModel = %q", cfg.ImageModel)
	}
	if cfg.AnalysisModel != "gemini-2.0-flash" {
		t.Errorf("AnalysisModel = %q", cfg.AnalysisModel)
	}
	if cfg.FilePollInitial != 10*time.Second || cfg.FilePollMax != 30*time.Second {
		t.Errorf("file poll window = %s..%s", cfg.FilePollInitial, cfg.FilePollMax)
	}
	if cfg.FilePollMultiplier != 1.5 {
		t.Errorf("FilePollMultiplier = %v", cfg.FilePollMultiplier)
	}
	if cfg.FileRateCooldown != 60*time.Second {
		t.Errorf("FileRateCooldown = %s", cfg.FileRateCooldown)
	}
	if cfg.OpPollInterval != 10*time.Second || cfg.OpPollAttempts != 120 {
		t.Errorf("operation poll = %s x %d", cfg.OpPollInterval, cfg.OpPollAttempts)
	}
	if cfg.HardenedErrors {
		t.Error("HardenedErrors should default to false")
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("APP_ENV", "production")
	t.Setenv("HARDENED_ERRORS", "true")
	t.Setenv("OP_POLL_INTERVAL_SECONDS", "5")
	t.Setenv("FILE_POLL_ATTEMPTS", "20")
	t.Setenv("REQUESTS_PER_MINUTE", "10")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.AppEnv != "production" {
		t.Errorf("AppEnv = %q, want production", cfg.AppEnv)
	}
	if !cfg.HardenedErrors {
		t.Error("HardenedErrors should be true")
	}
	if cfg.OpPollInterval != 5*time.Second {
		t.Errorf("OpPollInterval = %s, want 5s", cfg.OpPollInterval)
	}
	if cfg.FilePollAttempts != 20 {
		t.Errorf("FilePollAttempts = %d, want 20", cfg.FilePollAttempts)
	}
	if cfg.RequestsPerMinute != 10 {
		t.Errorf("RequestsPerMinute = %d, want 10", cfg.RequestsPerMinute)
	}
}

func TestLoadConfigIgnoresMalformedNumbers(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("OP_POLL_ATTEMPTS", "lots")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.OpPollAttempts != 120 {
		t.Errorf("OpPollAttempts = %d, want default 120", cfg.OpPollAttempts)
	}
}
