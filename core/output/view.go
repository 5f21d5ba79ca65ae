package output

import (
	"time"

	"github.com/shopspring/decimal"

	"solar-proposal/core/types"
)

// View is the rounded display form of a proposal. All rounding happens here;
// the engine keeps full precision.
type View struct {
	ID                string             `json:"id"`
	CreatedAt         string             `json:"created_at"`
	ValidUntil        string             `json:"valid_until"`
	Customer          CustomerView       `json:"customer"`
	System            SystemView         `json:"system"`
	Production        ProductionView     `json:"production"`
	Financial         FinancialView      `json:"financial"`
	Environmental     EnvironmentalView  `json:"environmental"`
	Assumptions       []types.Assumption `json:"assumptions,omitempty"`
	ReferenceSnapshot string             `json:"reference_snapshot"`
	InputHash         string             `json:"input_hash"`
}

// CustomerView echoes the request
type CustomerView struct {
	Name                  string  `json:"name,omitempty"`
	RegionID              string  `json:"region_id"`
	RegionName            string  `json:"region_name"`
	City                  string  `json:"city,omitempty"`
	Utility               string  `json:"utility"`
	Class                 string  `json:"installation_class"`
	Roof                  string  `json:"roof_material"`
	Orientation           string  `json:"roof_orientation"`
	Tier                  string  `json:"equipment_tier"`
	Financing             string  `json:"financing_intent,omitempty"`
	MonthlyBillARS        float64 `json:"monthly_bill_ars,omitempty"`
	MonthlyConsumptionKwh float64 `json:"monthly_consumption_kwh"`
	ConsumptionSource     string  `json:"consumption_source"`
}

// SystemView describes the designed installation
type SystemView struct {
	SizeKwp       float64  `json:"system_size_kwp"`
	PanelID       string   `json:"panel_id"`
	Panel         string   `json:"panel"`
	PanelWattage  int      `json:"panel_wattage"`
	PanelCount    int      `json:"panel_count"`
	InverterID    string   `json:"inverter_id"`
	Inverter      string   `json:"inverter"`
	InverterKw    float64  `json:"inverter_kw"`
	InverterCount int      `json:"inverter_count"`
	DCACRatio     float64  `json:"dc_ac_ratio"`
	RoofAreaM2    float64  `json:"roof_area_m2"`
	Mounting      string   `json:"mounting"`
	CablingMeters float64  `json:"cabling_meters"`
	Protections   []string `json:"protections"`
}

// ProductionView is the yield summary
type ProductionView struct {
	MonthlyKwh           [12]float64 `json:"monthly_kwh"`
	AnnualKwh            float64     `json:"annual_kwh"`
	SpecificYield        float64     `json:"specific_yield"`
	PerformanceRatio     float64     `json:"performance_ratio"`
	CoveragePercent      float64     `json:"coverage_percent"`
	CoverageRatio        float64     `json:"coverage_ratio"`
	DegradationPercent   float64     `json:"degradation_rate_percent"`
	AnnualConsumptionKwh float64     `json:"annual_consumption_kwh"`
}

// CostLineView is one rounded cost category
type CostLineView struct {
	Category string  `json:"category"`
	USD      float64 `json:"usd"`
}

// YearView is one rounded projection year
type YearView struct {
	Year                 int     `json:"year"`
	ProductionKwh        float64 `json:"production_kwh"`
	SavingsUSD           float64 `json:"savings_usd"`
	CumulativeSavingsUSD float64 `json:"cumulative_savings_usd"`
	NetPositionUSD       float64 `json:"net_position_usd"`
}

// FinancialView is the rounded cost and return model.
// PaybackYears and IRRPercent are nil when not reached or undefined.
type FinancialView struct {
	Costs              []CostLineView `json:"costs"`
	TotalInvestmentUSD float64        `json:"total_investment_usd"`
	TotalInvestmentARS float64        `json:"total_investment_ars"`
	ExchangeRate       float64        `json:"exchange_rate"`
	MonthlySavingsARS  float64        `json:"monthly_savings_ars"`
	AnnualSavingsARS   float64        `json:"annual_savings_ars"`
	AnnualSavingsUSD   float64        `json:"annual_savings_usd"`
	PaybackYears       *float64       `json:"payback_years"`
	IRRPercent         *float64       `json:"irr_percent"`
	NPVUSD             float64        `json:"npv_usd"`
	ROIPercent         float64        `json:"roi_percent"`
	LCOEUSDPerKwh      float64        `json:"lcoe_usd_per_kwh"`
	Projection         []YearView     `json:"yearly_projection"`
}

// EnvironmentalView is the rounded impact summary
type EnvironmentalView struct {
	AnnualCO2AvoidedKg   float64 `json:"annual_co2_avoided_kg"`
	LifetimeCO2AvoidedKg float64 `json:"lifetime_co2_avoided_kg"`
	TreesEquivalent      int64   `json:"trees_equivalent"`
	CarsOffRoad          float64 `json:"cars_off_road"`
	HomesEquivalent      float64 `json:"homes_equivalent"`
}

// Round rounds half away from zero at the given decimal places
func Round(v float64, places int32) float64 {
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}

// RoundAmount rounds a decimal amount for display
func RoundAmount(d decimal.Decimal, places int32) float64 {
	return d.Round(places).InexactFloat64()
}

// NewView builds the display view
func NewView(p *types.Proposal) View {
	in := p.CustomerInput
	sys := p.System
	prod := p.Production
	fin := p.Financial
	env := p.Environmental

	v := View{
		ID:         p.ID,
		CreatedAt:  p.CreatedAt.UTC().Format(time.RFC3339),
		ValidUntil: p.ValidUntil.UTC().Format(time.RFC3339),
		Customer: CustomerView{
			Name:                  in.CustomerName,
			RegionID:              p.Region.ID,
			RegionName:            p.Region.Name,
			City:                  in.City,
			Utility:               p.Region.Utility,
			Class:                 string(in.Class),
			Roof:                  string(in.Roof),
			Orientation:           string(in.Orientation),
			Tier:                  string(in.Tier),
			Financing:             string(in.Financing),
			MonthlyBillARS:        Round(in.MonthlyBillARS, 0),
			MonthlyConsumptionKwh: Round(prod.AnnualConsumptionKwh/12, 0),
			ConsumptionSource:     p.ConsumptionSource,
		},
		System: SystemView{
			SizeKwp:       Round(sys.SystemSizeKwp, 2),
			PanelID:       sys.Panel.ID,
			Panel:         sys.Panel.Brand + " " + sys.Panel.Model,
			PanelWattage:  sys.Panel.Wattage,
			PanelCount:    sys.PanelCount,
			InverterID:    sys.Inverter.ID,
			Inverter:      sys.Inverter.Brand + " " + sys.Inverter.Model,
			InverterKw:    Round(sys.Inverter.PowerKw, 2),
			InverterCount: sys.InverterCount,
			DCACRatio:     Round(sys.DCACRatio, 2),
			RoofAreaM2:    Round(sys.RoofAreaM2, 1),
			Mounting:      string(sys.Mounting),
			CablingMeters: Round(sys.CablingMeters, 0),
			Protections:   append([]string(nil), sys.Protections...),
		},
		Production: ProductionView{
			AnnualKwh:            Round(prod.AnnualKwh, 0),
			SpecificYield:        Round(prod.SpecificYield, 0),
			PerformanceRatio:     Round(prod.PerformanceRatio, 2),
			CoveragePercent:      Round(prod.CoveragePercent, 1),
			CoverageRatio:        Round(prod.CoverageRatio, 3),
			DegradationPercent:   Round(prod.DegradationRatePercent, 2),
			AnnualConsumptionKwh: Round(prod.AnnualConsumptionKwh, 0),
		},
		Financial: FinancialView{
			TotalInvestmentUSD: RoundAmount(fin.TotalInvestmentUSD, 2),
			TotalInvestmentARS: RoundAmount(fin.TotalInvestmentARS, 0),
			ExchangeRate:       Round(fin.ExchangeRate, 2),
			MonthlySavingsARS:  Round(fin.MonthlySavingsARS, 0),
			AnnualSavingsARS:   Round(fin.AnnualSavingsARS, 0),
			AnnualSavingsUSD:   Round(fin.AnnualSavingsUSD, 2),
			NPVUSD:             Round(fin.NPVUSD, 2),
			ROIPercent:         Round(fin.ROIPercent, 1),
			LCOEUSDPerKwh:      Round(fin.LCOEUSDPerKwh, 4),
		},
		Environmental: EnvironmentalView{
			AnnualCO2AvoidedKg:   Round(env.AnnualCO2AvoidedKg, 0),
			LifetimeCO2AvoidedKg: Round(env.LifetimeCO2AvoidedKg, 0),
			TreesEquivalent:      decimal.NewFromFloat(env.TreesEquivalent).Round(0).IntPart(),
			CarsOffRoad:          Round(env.CarsOffRoad, 1),
			HomesEquivalent:      Round(env.HomesEquivalent, 1),
		},
		Assumptions:       append([]types.Assumption(nil), p.Assumptions...),
		ReferenceSnapshot: p.ReferenceSnapshot,
		InputHash:         p.InputHash,
	}

	for i, kwh := range prod.MonthlyKwh {
		v.Production.MonthlyKwh[i] = Round(kwh, 0)
	}

	for _, line := range fin.CostBreakdown.Lines() {
		v.Financial.Costs = append(v.Financial.Costs, CostLineView{
			Category: line.Category,
			USD:      RoundAmount(line.Amount, 2),
		})
	}

	if fin.PaybackReached {
		years := Round(fin.PaybackYears, 1)
		v.Financial.PaybackYears = &years
	}
	if fin.IRRDefined {
		irr := Round(fin.IRRPercent, 1)
		v.Financial.IRRPercent = &irr
	}

	v.Financial.Projection = make([]YearView, 0, len(fin.YearlyProjection))
	for _, y := range fin.YearlyProjection {
		v.Financial.Projection = append(v.Financial.Projection, YearView{
			Year:                 y.Year,
			ProductionKwh:        Round(y.ProductionKwh, 0),
			SavingsUSD:           Round(y.SavingsUSD, 2),
			CumulativeSavingsUSD: Round(y.CumulativeSavingsUSD, 2),
			NetPositionUSD:       Round(y.NetPositionUSD, 2),
		})
	}

	return v
}
