package config

import (
	"os"
	"path/filepath"
	"testing"

	"solar-proposal/core/types"
	apperrors "solar-proposal/internal/errors"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestLoadMissingFileReturnsDefault(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Engine.PerformanceRatio != 0.80 {
		t.Errorf("performance ratio = %g", cfg.Engine.PerformanceRatio)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")

	cfg := Default()
	cfg.Engine.DiscountRate = 0.12
	cfg.Engine.MaxSystemKwp[types.ClassResidential] = 20
	if err := cfg.Save(path); err != nil {
		t.Fatal(err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Engine.DiscountRate != 0.12 {
		t.Errorf("discount rate = %g, want 0.12", loaded.Engine.DiscountRate)
	}
	if loaded.Engine.MaxSystemKwp[types.ClassResidential] != 20 {
		t.Errorf("residential cap = %g, want 20", loaded.Engine.MaxSystemKwp[types.ClassResidential])
	}
}

func TestLoadRejectsBadFiles(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"malformed", "{"},
		{"bad performance ratio", `{"engine": {"performance_ratio": 1.5}}`},
		{"bad server mode", `{"server": {"mode": "turbo"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.json")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); !apperrors.IsType(err, apperrors.TypeConfig) {
				t.Errorf("expected CONFIG_ERROR, got %v", err)
			}
		})
	}
}

func TestEngineValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*EngineConfig)
	}{
		{"overbuild below 1", func(e *EngineConfig) { e.OverbuildFactor = 0.9 }},
		{"negative degradation", func(e *EngineConfig) { e.DegradationRate = -0.01 }},
		{"zero years", func(e *EngineConfig) { e.ProjectionYears = 0 }},
		{"inverted dc/ac band", func(e *EngineConfig) { e.DCACRatioMin = 1.5 }},
		{"zero weights", func(e *EngineConfig) { e.MonthlyWeights = [12]float64{} }},
		{"negative weight", func(e *EngineConfig) { e.MonthlyWeights[3] = -0.1 }},
		{"missing orientation", func(e *EngineConfig) { delete(e.OrientationFactors, types.OrientationWest) }},
		{"missing mounting factor", func(e *EngineConfig) { delete(e.MountingCostFactors, types.MountingTilted) }},
		{"negative override", func(e *EngineConfig) { e.ExchangeRateOverride = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := DefaultEngine()
			tt.mutate(&e)
			if err := e.Validate(); !apperrors.IsType(err, apperrors.TypeConfig) {
				t.Errorf("expected CONFIG_ERROR, got %v", err)
			}
		})
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("SOLAR_EXCHANGE_RATE", "1500")
	t.Setenv("SOLAR_REFERENCE_PATH", "/tmp/regions.hcl")
	t.Setenv("SOLAR_LOG_LEVEL", "debug")

	cfg := Default()
	if err := cfg.ApplyEnv(); err != nil {
		t.Fatal(err)
	}
	if cfg.Engine.ExchangeRateOverride != 1500 {
		t.Errorf("override = %g, want 1500", cfg.Engine.ExchangeRateOverride)
	}
	if cfg.Reference.Path != "/tmp/regions.hcl" {
		t.Errorf("reference path = %q", cfg.Reference.Path)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("log level = %q", cfg.Logging.Level)
	}
}

func TestApplyEnvRejectsBadNumbers(t *testing.T) {
	t.Setenv("SOLAR_DISCOUNT_RATE", "ten percent")
	if err := Default().ApplyEnv(); !apperrors.IsType(err, apperrors.TypeConfig) {
		t.Errorf("expected CONFIG_ERROR, got %v", err)
	}
}

func TestLoadEnvFile(t *testing.T) {
	if err := LoadEnvFile(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Errorf("missing env file should be ignored: %v", err)
	}

	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("SOLAR_TARIFF_ESCALATION=0.05\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Unsetenv("SOLAR_TARIFF_ESCALATION") })

	if err := LoadEnvFile(path); err != nil {
		t.Fatal(err)
	}
	cfg := Default()
	if err := cfg.ApplyEnv(); err != nil {
		t.Fatal(err)
	}
	if cfg.Engine.TariffEscalation != 0.05 {
		t.Errorf("tariff escalation = %g, want 0.05", cfg.Engine.TariffEscalation)
	}
}
