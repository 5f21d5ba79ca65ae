// Package config provides configuration management.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"

	"solar-proposal/core/types"
	apperrors "solar-proposal/internal/errors"
	"solar-proposal/internal/logging"
)

// Config is the main application configuration
type Config struct {
	// Version is the configuration version
	Version string `json:"version"`

	// Engine contains the calculation assumptions
	Engine EngineConfig `json:"engine"`

	// Reference contains reference-data settings
	Reference ReferenceConfig `json:"reference"`

	// Output contains output configuration
	Output OutputConfig `json:"output"`

	// Server contains HTTP server settings
	Server ServerConfig `json:"server"`

	// Logging contains logging configuration
	Logging logging.Config `json:"logging"`
}

// EngineConfig holds every constant the calculation pipeline depends on.
type EngineConfig struct {
	// OverbuildFactor scales target production above annual consumption
	OverbuildFactor float64 `json:"overbuild_factor"`

	// PerformanceRatio models inverter, wiring, soiling and temperature losses
	PerformanceRatio float64 `json:"performance_ratio"`

	// DegradationRate is the annual production loss as a fraction
	DegradationRate float64 `json:"degradation_rate"`

	// TariffEscalation is the annual USD-equivalent tariff increase
	TariffEscalation float64 `json:"tariff_escalation"`

	// DiscountRate is the cost of capital for NPV and LCOE
	DiscountRate float64 `json:"discount_rate"`

	// ProjectionYears is the cash-flow horizon
	ProjectionYears int `json:"projection_years"`

	// GridEmissionFactor is kg CO2 per kWh of grid electricity
	GridEmissionFactor float64 `json:"grid_emission_factor"`

	// TreeAbsorptionKg is kg CO2 absorbed per tree per year
	TreeAbsorptionKg float64 `json:"tree_absorption_kg"`

	// CarEmissionsKg is kg CO2 emitted per passenger car per year
	CarEmissionsKg float64 `json:"car_emissions_kg"`

	// HomeConsumptionKwh is the average annual household consumption
	HomeConsumptionKwh float64 `json:"home_consumption_kwh"`

	// OrientationFactors scales yield per roof orientation
	OrientationFactors map[types.Orientation]float64 `json:"orientation_factors"`

	// MonthlyWeights is the seasonal production shape, January first
	MonthlyWeights [12]float64 `json:"monthly_weights"`

	// DCACRatioMin and DCACRatioMax bound system kWp / inverter kW
	DCACRatioMin float64 `json:"dc_ac_ratio_min"`
	DCACRatioMax float64 `json:"dc_ac_ratio_max"`

	// MaxInverterCount bounds the inverter search
	MaxInverterCount int `json:"max_inverter_count"`

	// RoofSpacingFactor is the roof area multiplier over raw panel footprint
	RoofSpacingFactor float64 `json:"roof_spacing_factor"`

	// MaxSystemKwp caps system size per installation class
	MaxSystemKwp map[types.InstallationClass]float64 `json:"max_system_kwp"`

	// MountingCostFactors scales the per-kWp mounting rate per mounting class
	MountingCostFactors map[types.MountingClass]float64 `json:"mounting_cost_factors"`

	// IRRTolerance is the bisection interval width at which IRR stops
	IRRTolerance float64 `json:"irr_tolerance"`

	// IRRMaxIterations bounds the bisection
	IRRMaxIterations int `json:"irr_max_iterations"`

	// ProposalValidityDays is how long a proposal stays valid
	ProposalValidityDays int `json:"proposal_validity_days"`

	// ExchangeRateOverride replaces the region exchange rate when > 0
	ExchangeRateOverride float64 `json:"exchange_rate_override,omitempty"`
}

// ReferenceConfig contains reference-data settings
type ReferenceConfig struct {
	// Path is an HCL reference-data file; empty uses the embedded dataset
	Path string `json:"path,omitempty"`
}

// OutputConfig contains output-related settings
type OutputConfig struct {
	// DefaultFormat is the default output format
	DefaultFormat string `json:"default_format"`

	// ShowMonthly prints the monthly production table
	ShowMonthly bool `json:"show_monthly"`

	// ShowProjection prints the yearly projection table
	ShowProjection bool `json:"show_projection"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	// Addr is the listen address
	Addr string `json:"addr"`

	// Mode is the gin mode (debug, release, test)
	Mode string `json:"mode"`
}

// DefaultEngine returns the calculation assumptions used by the proposal tool.
func DefaultEngine() EngineConfig {
	return EngineConfig{
		OverbuildFactor:    1.05,
		PerformanceRatio:   0.80,
		DegradationRate:    0.005,
		TariffEscalation:   0.08,
		DiscountRate:       0.10,
		ProjectionYears:    25,
		GridEmissionFactor: 0.44,
		TreeAbsorptionKg:   21,
		CarEmissionsKg:     4600,
		HomeConsumptionKwh: 3600,
		OrientationFactors: map[types.Orientation]float64{
			types.OrientationNorth:     1.00,
			types.OrientationNortheast: 0.95,
			types.OrientationNorthwest: 0.95,
			types.OrientationEast:      0.85,
			types.OrientationWest:      0.85,
		},
		// Southern hemisphere: December-February peak, June-July trough.
		MonthlyWeights: [12]float64{
			0.115, 0.105, 0.095, 0.075, 0.060, 0.050,
			0.050, 0.060, 0.075, 0.095, 0.105, 0.115,
		},
		DCACRatioMin:      0.50,
		DCACRatioMax:      1.30,
		MaxInverterCount:  10,
		RoofSpacingFactor: 1.3,
		MaxSystemKwp: map[types.InstallationClass]float64{
			types.ClassResidential: 30,
			types.ClassCommercial:  300,
		},
		MountingCostFactors: map[types.MountingClass]float64{
			types.MountingFlush:     1.00,
			types.MountingTilted:    1.25,
			types.MountingBallasted: 1.15,
		},
		IRRTolerance:         1e-9,
		IRRMaxIterations:     200,
		ProposalValidityDays: 30,
	}
}

// Default returns a default configuration
func Default() *Config {
	return &Config{
		Version: "1.0",
		Engine:  DefaultEngine(),
		Output: OutputConfig{
			DefaultFormat:  "text",
			ShowMonthly:    true,
			ShowProjection: false,
		},
		Server: ServerConfig{
			Addr: ":8080",
			Mode: "release",
		},
		Logging: logging.DefaultConfig(),
	}
}

// Load loads configuration from a file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}

	config := Default()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, apperrors.Config("failed to parse config "+path, err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Save saves configuration to a file
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// LoadEnvFile loads KEY=VALUE pairs from path into the process environment.
// A missing file is not an error.
func LoadEnvFile(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	return godotenv.Load(path)
}

// ApplyEnv overrides configuration from SOLAR_* environment variables.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("SOLAR_REFERENCE_PATH"); v != "" {
		c.Reference.Path = v
	}
	if v := os.Getenv("SOLAR_SERVER_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("SOLAR_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("SOLAR_OUTPUT_FORMAT"); v != "" {
		c.Output.DefaultFormat = v
	}

	floats := []struct {
		key    string
		target *float64
	}{
		{"SOLAR_EXCHANGE_RATE", &c.Engine.ExchangeRateOverride},
		{"SOLAR_DISCOUNT_RATE", &c.Engine.DiscountRate},
		{"SOLAR_TARIFF_ESCALATION", &c.Engine.TariffEscalation},
		{"SOLAR_OVERBUILD_FACTOR", &c.Engine.OverbuildFactor},
	}
	for _, f := range floats {
		v := os.Getenv(f.key)
		if v == "" {
			continue
		}
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return apperrors.Config(fmt.Sprintf("invalid %s", f.key), err)
		}
		*f.target = parsed
	}

	return c.Validate()
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	switch c.Server.Mode {
	case "", "debug", "release", "test":
	default:
		return apperrors.Config(fmt.Sprintf("unknown server mode %q", c.Server.Mode), nil)
	}
	return c.Engine.Validate()
}

// Validate rejects assumptions that would make the pipeline misstate results.
func (e EngineConfig) Validate() error {
	checks := []struct {
		ok  bool
		msg string
	}{
		{e.OverbuildFactor >= 1 && e.OverbuildFactor <= 1.5, "overbuild_factor must be in [1, 1.5]"},
		{e.PerformanceRatio > 0 && e.PerformanceRatio <= 1, "performance_ratio must be in (0, 1]"},
		{e.DegradationRate >= 0 && e.DegradationRate < 0.05, "degradation_rate must be in [0, 0.05)"},
		{e.TariffEscalation > -1, "tariff_escalation must be > -1"},
		{e.DiscountRate > -1, "discount_rate must be > -1"},
		{e.ProjectionYears > 0, "projection_years must be positive"},
		{e.GridEmissionFactor >= 0, "grid_emission_factor must be >= 0"},
		{e.TreeAbsorptionKg > 0, "tree_absorption_kg must be positive"},
		{e.CarEmissionsKg > 0, "car_emissions_kg must be positive"},
		{e.HomeConsumptionKwh > 0, "home_consumption_kwh must be positive"},
		{e.DCACRatioMin > 0 && e.DCACRatioMin <= e.DCACRatioMax, "dc_ac_ratio band is invalid"},
		{e.MaxInverterCount > 0, "max_inverter_count must be positive"},
		{e.RoofSpacingFactor >= 1, "roof_spacing_factor must be >= 1"},
		{e.IRRTolerance > 0, "irr_tolerance must be positive"},
		{e.IRRMaxIterations > 0, "irr_max_iterations must be positive"},
		{e.ProposalValidityDays > 0, "proposal_validity_days must be positive"},
		{e.ExchangeRateOverride >= 0, "exchange_rate_override must be >= 0"},
	}
	for _, check := range checks {
		if !check.ok {
			return apperrors.Config(check.msg, nil)
		}
	}

	var weightSum float64
	for i, w := range e.MonthlyWeights {
		if w < 0 {
			return apperrors.Config(fmt.Sprintf("monthly_weights[%d] is negative", i), nil)
		}
		weightSum += w
	}
	if weightSum <= 0 {
		return apperrors.Config("monthly_weights must not all be zero", nil)
	}

	for _, o := range types.Orientations() {
		if f := e.OrientationFactors[o]; f <= 0 || f > 1 {
			return apperrors.Config(fmt.Sprintf("orientation factor for %s must be in (0, 1]", o), nil)
		}
	}
	for _, m := range types.MountingClasses() {
		if e.MountingCostFactors[m] <= 0 {
			return apperrors.Config(fmt.Sprintf("mounting cost factor for %s must be positive", m), nil)
		}
	}
	return nil
}

// Global configuration instance
var globalConfig = Default()

// Get returns the global configuration
func Get() *Config {
	return globalConfig
}

// Set sets the global configuration
func Set(config *Config) {
	globalConfig = config
}
