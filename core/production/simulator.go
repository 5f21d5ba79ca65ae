// Package production simulates year-1 energy yield for a designed system.
package production

import (
	"math"

	"solar-proposal/core/types"
	"solar-proposal/internal/config"
	apperrors "solar-proposal/internal/errors"
)

// Simulator converts system size and irradiance into monthly kWh.
// It is stateless and safe for concurrent use.
type Simulator struct {
	cfg     config.EngineConfig
	weights [12]float64
}

// NewSimulator creates a simulator. The monthly weights are normalized to sum to 1.
func NewSimulator(cfg config.EngineConfig) *Simulator {
	return &Simulator{cfg: cfg, weights: NormalizeWeights(cfg.MonthlyWeights)}
}

// NormalizeWeights scales w so it sums to 1. An all-zero table becomes uniform.
func NormalizeWeights(w [12]float64) [12]float64 {
	var sum float64
	for _, v := range w {
		sum += v
	}

	var out [12]float64
	for i := range out {
		if sum <= 0 {
			out[i] = 1.0 / 12
			continue
		}
		out[i] = w[i] / sum
	}
	return out
}

// Simulate computes year-1 production. Degradation is reported, not applied.
func (s *Simulator) Simulate(system types.SystemConfiguration, region types.Region, orientation types.Orientation, monthlyKwh float64) (types.EnergyProduction, error) {
	switch {
	case math.IsNaN(system.SystemSizeKwp) || system.SystemSizeKwp <= 0:
		return types.EnergyProduction{}, apperrors.InvalidInput("system size must be positive, got %g", system.SystemSizeKwp)
	case region.SolarIrradiance <= 0:
		return types.EnergyProduction{}, apperrors.InvalidInput("region %s has no solar irradiance", region.ID)
	case !orientation.IsValid():
		return types.EnergyProduction{}, apperrors.InvalidInput("unknown roof orientation %q", orientation)
	case math.IsNaN(monthlyKwh) || monthlyKwh <= 0:
		return types.EnergyProduction{}, apperrors.InvalidInput("monthly consumption must be positive, got %g", monthlyKwh)
	}

	factor := s.cfg.OrientationFactors[orientation]
	annual := system.SystemSizeKwp * region.SolarIrradiance * 365 * factor * s.cfg.PerformanceRatio

	var monthly [12]float64
	for i, w := range s.weights {
		monthly[i] = annual * w
	}

	annualConsumption := monthlyKwh * 12
	ratio := annual / annualConsumption

	return types.EnergyProduction{
		MonthlyKwh:             monthly,
		AnnualKwh:              annual,
		SpecificYield:          annual / system.SystemSizeKwp,
		PerformanceRatio:       s.cfg.PerformanceRatio,
		CoveragePercent:        math.Min(100, ratio*100),
		CoverageRatio:          ratio,
		DegradationRatePercent: s.cfg.DegradationRate * 100,
		OrientationFactor:      factor,
		AnnualConsumptionKwh:   annualConsumption,
	}, nil
}
