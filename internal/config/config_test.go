package config

import (
	"testing"
	"time"

	"github.com/sonam-git/quiniela-sub001/internal/platform/logging"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.AppEnv != EnvDev {
		t.Fatalf("unexpected app env: %q", cfg.AppEnv)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("unexpected http addr: %q", cfg.HTTPAddr)
	}
	if cfg.SchedulerSlateInterval != 24*time.Hour {
		t.Fatalf("unexpected slate interval: %s", cfg.SchedulerSlateInterval)
	}
	if cfg.SchedulerPollInterval != 5*time.Minute {
		t.Fatalf("unexpected poll interval: %s", cfg.SchedulerPollInterval)
	}
	if cfg.MatchDuration != 2*time.Hour {
		t.Fatalf("unexpected match duration: %s", cfg.MatchDuration)
	}
	if cfg.SettlementGraceDelay != 30*time.Minute {
		t.Fatalf("unexpected grace delay: %s", cfg.SettlementGraceDelay)
	}
	if cfg.LogLevel != logging.LevelInfo {
		t.Fatalf("unexpected log level: %s", cfg.LogLevel)
	}
}

func TestLoad_InvalidAppEnv(t *testing.T) {
	t.Setenv("APP_ENV", "produccion")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for invalid APP_ENV")
	}
}

func TestLoad_ProviderRequiresToken(t *testing.T) {
	t.Setenv("SPORTMONKS_ENABLED", "true")
	t.Setenv("SPORTMONKS_TOKEN", "")
	t.Setenv("SPORTMONKS_SEASON_ID", "999")

	if _, err := Load(); err == nil {
		t.Fatal("expected error when provider enabled without token")
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com")
	t.Setenv("SEASON_START", "2026-01-10")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.HTTPAddr != ":9090" {
		t.Fatalf("unexpected http addr: %q", cfg.HTTPAddr)
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "https://b.example.com" {
		t.Fatalf("unexpected origins: %v", cfg.CORSAllowedOrigins)
	}
	if cfg.SeasonStart.Month() != time.January || cfg.SeasonStart.Day() != 10 {
		t.Fatalf("unexpected season start: %s", cfg.SeasonStart)
	}
	if cfg.LogLevel != logging.LevelDebug {
		t.Fatalf("unexpected log level: %s", cfg.LogLevel)
	}
}
