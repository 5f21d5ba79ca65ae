// Package environment converts solar production into avoided-emission equivalents.
package environment

import (
	"solar-proposal/core/types"
	"solar-proposal/internal/config"
)

// Estimator applies the grid emission factor and equivalence constants
type Estimator struct {
	cfg config.EngineConfig
}

// NewEstimator creates an estimator
func NewEstimator(cfg config.EngineConfig) *Estimator {
	return &Estimator{cfg: cfg}
}

// Estimate derives year-1 and lifetime impact. The lifetime figure sums the
// degraded production series of the financial projection.
func (e *Estimator) Estimate(production types.EnergyProduction, projection []types.YearProjection) types.EnvironmentalImpact {
	annualCO2 := production.AnnualKwh * e.cfg.GridEmissionFactor

	var lifetimeKwh float64
	for _, year := range projection {
		lifetimeKwh += year.ProductionKwh
	}

	impact := types.EnvironmentalImpact{
		AnnualCO2AvoidedKg:   annualCO2,
		LifetimeCO2AvoidedKg: lifetimeKwh * e.cfg.GridEmissionFactor,
	}
	if e.cfg.TreeAbsorptionKg > 0 {
		impact.TreesEquivalent = annualCO2 / e.cfg.TreeAbsorptionKg
	}
	if e.cfg.CarEmissionsKg > 0 {
		impact.CarsOffRoad = annualCO2 / e.cfg.CarEmissionsKg
	}
	if e.cfg.HomeConsumptionKwh > 0 {
		impact.HomesEquivalent = production.AnnualKwh / e.cfg.HomeConsumptionKwh
	}
	return impact
}
