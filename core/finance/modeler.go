// Package finance prices a designed system and projects its 25-year cash flows.
// Cost amounts are decimal; the discounted cash-flow model runs in float64.
package finance

import (
	"math"

	"github.com/shopspring/decimal"

	"solar-proposal/core/assumptions"
	"solar-proposal/core/pricing"
	"solar-proposal/core/reference"
	"solar-proposal/core/types"
	"solar-proposal/internal/config"
	apperrors "solar-proposal/internal/errors"
)

// Modeler builds FinancialAnalysis values. Stateless and safe for concurrent use.
type Modeler struct {
	provider reference.Provider
	cfg      config.EngineConfig
}

// NewModeler creates a modeler
func NewModeler(provider reference.Provider, cfg config.EngineConfig) *Modeler {
	return &Modeler{provider: provider, cfg: cfg}
}

// Analyze prices the system and projects savings over the configured horizon
func (m *Modeler) Analyze(system types.SystemConfiguration, production types.EnergyProduction, region types.Region, input types.CustomerInput) (types.FinancialAnalysis, error) {
	return m.AnalyzeTracked(system, production, region, input, nil)
}

// AnalyzeTracked is Analyze with defaults and fallbacks recorded on tracker
func (m *Modeler) AnalyzeTracked(system types.SystemConfiguration, production types.EnergyProduction, region types.Region, input types.CustomerInput, tracker *assumptions.Tracker) (types.FinancialAnalysis, error) {
	if production.AnnualKwh <= 0 || math.IsNaN(production.AnnualKwh) {
		return types.FinancialAnalysis{}, apperrors.InvalidInput("annual production must be positive, got %g", production.AnnualKwh)
	}
	if region.ExchangeRate <= 0 {
		return types.FinancialAnalysis{}, apperrors.InvalidInput("region %s has no exchange rate", region.ID)
	}

	annualConsumption := production.AnnualConsumptionKwh
	if annualConsumption <= 0 {
		annualConsumption = input.MonthlyConsumptionKwh * 12
	}
	if annualConsumption <= 0 {
		return types.FinancialAnalysis{}, apperrors.InvalidInput("annual consumption must be positive")
	}

	tariff := region.TariffFor(input.Class)
	if err := pricing.ValidateTariff(tariff); err != nil {
		return types.FinancialAnalysis{}, err
	}

	breakdown, err := m.CostBreakdown(system, input)
	if err != nil {
		return types.FinancialAnalysis{}, err
	}
	totalUSD := breakdown.Total()
	if !totalUSD.IsPositive() {
		return types.FinancialAnalysis{}, apperrors.InvalidInput("total investment must be positive, got %s", totalUSD)
	}
	investment := totalUSD.InexactFloat64()

	avoidedARS := pricing.RetailRate(tariff)
	creditARS := m.creditRate(region, avoidedARS)
	if !region.NetMetering.Enabled {
		tracker.RecordDefault(assumptions.StageFinance, "net metering unavailable in %s: exported energy earns no credit", region.Name)
	}

	tracker.RecordDefault(assumptions.StageFinance, "tariff escalates %.1f%% per year in USD terms", m.cfg.TariffEscalation*100)
	tracker.RecordDefault(assumptions.StageFinance, "panel output degrades %.2f%% per year", m.cfg.DegradationRate*100)
	tracker.RecordDefault(assumptions.StageFinance, "discount rate %.1f%%", m.cfg.DiscountRate*100)

	years := m.cfg.ProjectionYears
	projection := make([]types.YearProjection, 0, years)
	cashflows := make([]float64, 0, years)

	var cumulative, discountedProduction float64
	for n := 1; n <= years; n++ {
		prod := production.AnnualKwh * math.Pow(1-m.cfg.DegradationRate, float64(n-1))
		escalation := math.Pow(1+m.cfg.TariffEscalation, float64(n-1))
		tariffUSD := avoidedARS / region.ExchangeRate * escalation
		creditUSD := creditARS / region.ExchangeRate * escalation

		selfConsumed := math.Min(prod, annualConsumption)
		exported := prod - selfConsumed
		savings := selfConsumed*tariffUSD + exported*creditUSD

		cumulative += savings
		discountedProduction += prod / math.Pow(1+m.cfg.DiscountRate, float64(n))

		cashflows = append(cashflows, savings)
		projection = append(projection, types.YearProjection{
			Year:                 n,
			ProductionKwh:        prod,
			TariffUSDPerKwh:      tariffUSD,
			SavingsUSD:           savings,
			CumulativeSavingsUSD: cumulative,
			NetPositionUSD:       cumulative - investment,
		})
	}

	selfConsumed := math.Min(production.AnnualKwh, annualConsumption)
	exported := production.AnnualKwh - selfConsumed
	annualSavingsARS := selfConsumed*avoidedARS + exported*creditARS

	analysis := types.FinancialAnalysis{
		CostBreakdown:      breakdown,
		TotalInvestmentUSD: totalUSD,
		TotalInvestmentARS: totalUSD.Mul(decimal.NewFromFloat(region.ExchangeRate)),
		ExchangeRate:       region.ExchangeRate,
		AvoidedRateARS:     avoidedARS,
		CreditRateARS:      creditARS,
		SelfConsumedKwh:    selfConsumed,
		ExportedKwh:        exported,
		MonthlySavingsARS:  annualSavingsARS / 12,
		AnnualSavingsARS:   annualSavingsARS,
		AnnualSavingsUSD:   annualSavingsARS / region.ExchangeRate,
		NPVUSD:             NPV(m.cfg.DiscountRate, investment, cashflows),
		ROIPercent:         cumulative / investment * 100,
		DiscountRate:       m.cfg.DiscountRate,
		TariffEscalation:   m.cfg.TariffEscalation,
		YearlyProjection:   projection,
	}

	if discountedProduction > 0 {
		analysis.LCOEUSDPerKwh = investment / discountedProduction
	}

	analysis.PaybackYears, analysis.PaybackReached = Payback(investment, projection)
	if !analysis.PaybackReached {
		tracker.RecordDerived(assumptions.StageFinance, "investment is not recovered within %d years", years)
	}

	irr, err := bisectIRR(investment, cashflows, m.cfg.IRRTolerance, m.cfg.IRRMaxIterations)
	switch {
	case err == nil:
		analysis.IRRPercent = irr * 100
		analysis.IRRDefined = true
	case apperrors.IsType(err, apperrors.TypeNoConvergence):
		tracker.RecordDerived(assumptions.StageFinance, "IRR undefined: %v", err)
	default:
		return types.FinancialAnalysis{}, err
	}

	return analysis, nil
}

// CostBreakdown prices every category from the tier's catalog and rates
func (m *Modeler) CostBreakdown(system types.SystemConfiguration, input types.CustomerInput) (types.CostBreakdown, error) {
	if system.SystemSizeKwp <= 0 || system.PanelCount <= 0 || system.InverterCount <= 0 {
		return types.CostBreakdown{}, apperrors.InvalidInput("system configuration is incomplete")
	}

	rates, err := m.provider.InstallationRates(input.Tier)
	if err != nil {
		return types.CostBreakdown{}, apperrors.Wrap(apperrors.TypeInvalidInput, "no installation rates for tier "+input.Tier.String(), err)
	}

	factor, ok := m.cfg.MountingCostFactors[system.Mounting]
	if !ok {
		return types.CostBreakdown{}, apperrors.InvalidInput("no mounting cost factor for %q", system.Mounting)
	}

	kwp := decimal.NewFromFloat(system.SystemSizeKwp)

	return types.CostBreakdown{
		Panels:       system.Panel.PriceUSD.Mul(decimal.NewFromInt(int64(system.PanelCount))),
		Inverter:     system.Inverter.PriceUSD.Mul(decimal.NewFromInt(int64(system.InverterCount))),
		Mounting:     rates.MountingPerKwp.Mul(kwp).Mul(decimal.NewFromFloat(factor)),
		Cabling:      rates.CablingPerKwp.Mul(kwp),
		Protections:  rates.ProtectionsPerKwp.Mul(kwp),
		Installation: rates.InstallationPerKwp.Mul(kwp),
		Permits:      rates.PermitsFlat,
		Design:       rates.DesignPerKwp.Mul(kwp),
	}, nil
}

// creditRate is the ARS value of one exported kWh in year 1
func (m *Modeler) creditRate(region types.Region, avoidedARS float64) float64 {
	nm := region.NetMetering
	if !nm.Enabled {
		return 0
	}
	if nm.Scheme == types.SchemeNetMetering || nm.CreditRate <= 0 {
		return avoidedARS
	}
	return nm.CreditRate
}

// Payback interpolates linearly between the last negative and the first
// non-negative net position. Year 0 is -investment.
func Payback(investment float64, projection []types.YearProjection) (float64, bool) {
	previous := -investment
	for _, year := range projection {
		if year.NetPositionUSD >= 0 {
			step := year.NetPositionUSD - previous
			if step <= 0 {
				return float64(year.Year), true
			}
			return float64(year.Year-1) + (-previous)/step, true
		}
		previous = year.NetPositionUSD
	}
	return 0, false
}
