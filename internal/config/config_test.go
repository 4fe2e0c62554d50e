package config

import (
	"testing"

	"github.com/spf13/viper"
)

func TestLoadConfig_Defaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.ServerPort != "8080" {
		t.Fatalf("expected default port 8080, got %q", cfg.ServerPort)
	}
	if cfg.SessionKey != "pledg:session:v1" {
		t.Fatalf("expected default session key, got %q", cfg.SessionKey)
	}
	if cfg.DemoEmail != "demo@pledg.in" {
		t.Fatalf("expected default demo email, got %q", cfg.DemoEmail)
	}
	if cfg.RiskScanSchedule != "@every 5s" {
		t.Fatalf("expected default risk scan schedule, got %q", cfg.RiskScanSchedule)
	}
	if cfg.PriceRefreshSchedule != "@every 30s" {
		t.Fatalf("expected default price refresh schedule, got %q", cfg.PriceRefreshSchedule)
	}
}

func TestLoadConfig_EnvironmentOverrides(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("RISK_SCAN_SCHEDULE", "@every 1s")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.ServerPort != "9090" {
		t.Fatalf("expected port override, got %q", cfg.ServerPort)
	}
	if cfg.RedisURL != "redis://localhost:6379/0" {
		t.Fatalf("expected redis url override, got %q", cfg.RedisURL)
	}
	if cfg.RiskScanSchedule != "@every 1s" {
		t.Fatalf("expected schedule override, got %q", cfg.RiskScanSchedule)
	}
}
