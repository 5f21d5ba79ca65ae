package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// CustomerInput is what the installer collects from the customer
type CustomerInput struct {
	// RegionID is the province lookup key
	RegionID string `json:"region_id"`

	// City is informational
	City string `json:"city,omitempty"`

	// MonthlyBillARS is the gross monthly bill amount
	MonthlyBillARS float64 `json:"monthly_bill_ars"`

	// MonthlyConsumptionKwh is derived from the bill when zero
	MonthlyConsumptionKwh float64 `json:"monthly_consumption_kwh"`

	Class       InstallationClass `json:"installation_class"`
	Roof        RoofMaterial      `json:"roof_material"`
	Orientation Orientation       `json:"roof_orientation"`
	Tier        Tier              `json:"equipment_tier"`

	// Financing is informational only
	Financing FinancingIntent `json:"financing_intent,omitempty"`

	CustomerName string `json:"customer_name,omitempty"`

	// AvailableRoofAreaM2 bounds the array when > 0
	AvailableRoofAreaM2 float64 `json:"available_roof_area_m2,omitempty"`
}

// SystemConfiguration is the designed system. Immutable once built.
type SystemConfiguration struct {
	// SystemSizeKwp is PanelCount × Panel.Wattage / 1000
	SystemSizeKwp float64       `json:"system_size_kwp"`
	Panel         Panel         `json:"panel"`
	PanelCount    int           `json:"panel_count"`
	Inverter      Inverter      `json:"inverter"`
	InverterCount int           `json:"inverter_count"`
	RoofAreaM2    float64       `json:"roof_area_m2"`
	Mounting      MountingClass `json:"mounting"`
	Protections   []string      `json:"protections"`
	CablingMeters float64       `json:"cabling_meters"`

	// DCACRatio is SystemSizeKwp over total inverter AC power
	DCACRatio float64 `json:"dc_ac_ratio"`
}

// InverterCapacityKw returns the total AC rating
func (s SystemConfiguration) InverterCapacityKw() float64 {
	return s.Inverter.PowerKw * float64(s.InverterCount)
}

// EnergyProduction is the year-1 yield simulation
type EnergyProduction struct {
	// MonthlyKwh holds January..December
	MonthlyKwh [12]float64 `json:"monthly_kwh"`

	AnnualKwh        float64 `json:"annual_kwh"`
	SpecificYield    float64 `json:"specific_yield"`
	PerformanceRatio float64 `json:"performance_ratio"`

	// CoveragePercent is capped at 100 for display
	CoveragePercent float64 `json:"coverage_percent"`

	// CoverageRatio is annual production over annual consumption, uncapped
	CoverageRatio float64 `json:"coverage_ratio"`

	// DegradationRatePercent is the annual loss in percent
	DegradationRatePercent float64 `json:"degradation_rate_percent"`

	OrientationFactor float64 `json:"orientation_factor"`

	// AnnualConsumptionKwh is the consumption the coverage refers to
	AnnualConsumptionKwh float64 `json:"annual_consumption_kwh"`
}

// CostBreakdown itemizes the investment in USD
type CostBreakdown struct {
	Panels       decimal.Decimal `json:"panels"`
	Inverter     decimal.Decimal `json:"inverter"`
	Mounting     decimal.Decimal `json:"mounting"`
	Cabling      decimal.Decimal `json:"cabling"`
	Protections  decimal.Decimal `json:"protections"`
	Installation decimal.Decimal `json:"installation"`
	Permits      decimal.Decimal `json:"permits"`
	Design       decimal.Decimal `json:"design"`
}

// CostLine is one labelled category
type CostLine struct {
	Category string
	Amount   decimal.Decimal
}

// Lines returns the categories in display order
func (b CostBreakdown) Lines() []CostLine {
	return []CostLine{
		{"panels", b.Panels},
		{"inverter", b.Inverter},
		{"mounting", b.Mounting},
		{"cabling", b.Cabling},
		{"protections", b.Protections},
		{"installation", b.Installation},
		{"permits", b.Permits},
		{"design", b.Design},
	}
}

// Total returns the sum of all categories
func (b CostBreakdown) Total() decimal.Decimal {
	total := decimal.Zero
	for _, line := range b.Lines() {
		total = total.Add(line.Amount)
	}
	return total
}

// YearProjection is one year of the cash-flow model, in USD
type YearProjection struct {
	Year                 int     `json:"year"`
	ProductionKwh        float64 `json:"production_kwh"`
	TariffUSDPerKwh      float64 `json:"tariff_usd_per_kwh"`
	SavingsUSD           float64 `json:"savings_usd"`
	CumulativeSavingsUSD float64 `json:"cumulative_savings_usd"`

	// NetPositionUSD is cumulative savings minus total investment
	NetPositionUSD float64 `json:"net_position_usd"`
}

// FinancialAnalysis is the cost and return model
type FinancialAnalysis struct {
	CostBreakdown      CostBreakdown   `json:"cost_breakdown"`
	TotalInvestmentUSD decimal.Decimal `json:"total_investment_usd"`
	TotalInvestmentARS decimal.Decimal `json:"total_investment_ars"`
	ExchangeRate       float64         `json:"exchange_rate"`

	// AvoidedRateARS is the year-1 retail rate per kWh including tax
	AvoidedRateARS float64 `json:"avoided_rate_ars"`

	// CreditRateARS is the year-1 export credit per kWh (0 when not monetized)
	CreditRateARS float64 `json:"credit_rate_ars"`

	SelfConsumedKwh float64 `json:"self_consumed_kwh"`
	ExportedKwh     float64 `json:"exported_kwh"`

	MonthlySavingsARS float64 `json:"monthly_savings_ars"`
	AnnualSavingsARS  float64 `json:"annual_savings_ars"`
	AnnualSavingsUSD  float64 `json:"annual_savings_usd"`

	// PaybackYears is meaningful only when PaybackReached
	PaybackYears   float64 `json:"payback_years"`
	PaybackReached bool    `json:"payback_reached"`

	// IRRPercent is meaningful only when IRRDefined
	IRRPercent float64 `json:"irr_percent"`
	IRRDefined bool    `json:"irr_defined"`

	NPVUSD        float64 `json:"npv_usd"`
	ROIPercent    float64 `json:"roi_percent"`
	LCOEUSDPerKwh float64 `json:"lcoe_usd_per_kwh"`

	DiscountRate     float64 `json:"discount_rate"`
	TariffEscalation float64 `json:"tariff_escalation"`

	YearlyProjection []YearProjection `json:"yearly_projection"`
}

// EnvironmentalImpact converts production into avoided emissions
type EnvironmentalImpact struct {
	AnnualCO2AvoidedKg   float64 `json:"annual_co2_avoided_kg"`
	TreesEquivalent      float64 `json:"trees_equivalent"`
	CarsOffRoad          float64 `json:"cars_off_road"`
	LifetimeCO2AvoidedKg float64 `json:"lifetime_co2_avoided_kg"`
	HomesEquivalent      float64 `json:"homes_equivalent"`
}

// Assumption documents a default or adjustment applied while building a proposal
type Assumption struct {
	Stage       string           `json:"stage"`
	Source      AssumptionSource `json:"source"`
	Description string           `json:"description"`
}

// AssumptionSource classifies an assumption
type AssumptionSource string

const (
	// AssumptionDefault is a configured constant applied as-is
	AssumptionDefault AssumptionSource = "default"

	// AssumptionDerived is a value computed from other inputs
	AssumptionDerived AssumptionSource = "derived"

	// AssumptionLimit is a cap that changed the result
	AssumptionLimit AssumptionSource = "limit"

	// AssumptionOverride is an operator override of reference data
	AssumptionOverride AssumptionSource = "override"
)

// Proposal is the aggregate root. Read-only after construction.
type Proposal struct {
	ID            string              `json:"id"`
	CreatedAt     time.Time           `json:"created_at"`
	ValidUntil    time.Time           `json:"valid_until"`
	CustomerInput CustomerInput       `json:"customer_input"`
	Region        Region              `json:"region"`
	System        SystemConfiguration `json:"system"`
	Production    EnergyProduction    `json:"production"`
	Financial     FinancialAnalysis   `json:"financial"`
	Environmental EnvironmentalImpact `json:"environmental"`
	ExchangeRate  float64             `json:"exchange_rate"`

	// ConsumptionSource is "customer" or "estimated_from_bill"
	ConsumptionSource string       `json:"consumption_source"`
	Assumptions       []Assumption `json:"assumptions,omitempty"`

	// ReferenceSnapshot is the content hash of the reference data used
	ReferenceSnapshot string `json:"reference_snapshot"`

	// InputHash identifies the canonical input
	InputHash string `json:"input_hash"`
}
