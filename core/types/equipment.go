package types

import "github.com/shopspring/decimal"

// InverterTopology is the inverter architecture
type InverterTopology string

const (
	TopologyString InverterTopology = "string"
	TopologyHybrid InverterTopology = "hybrid"
	TopologyMicro  InverterTopology = "micro"
)

// Dimensions is a panel footprint in meters
type Dimensions struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Area returns the footprint in m²
func (d Dimensions) Area() float64 {
	return d.Width * d.Height
}

// Warranty is a panel warranty in years
type Warranty struct {
	Product     int `json:"product"`
	Performance int `json:"performance"`
}

// Panel is a photovoltaic module catalog entry
type Panel struct {
	ID         string          `json:"id"`
	Brand      string          `json:"brand"`
	Model      string          `json:"model"`
	Wattage    int             `json:"wattage"`
	Efficiency float64         `json:"efficiency"`
	Dimensions Dimensions      `json:"dimensions"`
	Warranty   Warranty        `json:"warranty"`
	Tier       Tier            `json:"tier"`
	PriceUSD   decimal.Decimal `json:"price_usd"`
}

// Inverter is an inverter catalog entry
type Inverter struct {
	ID            string           `json:"id"`
	Brand         string           `json:"brand"`
	Model         string           `json:"model"`
	PowerKw       float64          `json:"power_kw"`
	Topology      InverterTopology `json:"topology"`
	Phases        int              `json:"phases"`
	WarrantyYears int              `json:"warranty_years"`
	Tier          Tier             `json:"tier"`
	PriceUSD      decimal.Decimal  `json:"price_usd"`
}

// InstallationRates are balance-of-system prices in USD for one tier
type InstallationRates struct {
	Tier               Tier            `json:"tier"`
	MountingPerKwp     decimal.Decimal `json:"mounting_per_kwp"`
	CablingPerKwp      decimal.Decimal `json:"cabling_per_kwp"`
	ProtectionsPerKwp  decimal.Decimal `json:"protections_per_kwp"`
	InstallationPerKwp decimal.Decimal `json:"installation_per_kwp"`
	DesignPerKwp       decimal.Decimal `json:"design_per_kwp"`
	PermitsFlat        decimal.Decimal `json:"permits_flat"`
}

// SelectionRule maps a target size bracket within a tier to a panel.
// Rules are evaluated in ascending UpToKwp; 0 means unbounded.
type SelectionRule struct {
	Tier    Tier    `json:"tier"`
	UpToKwp float64 `json:"up_to_kwp"`
	PanelID string  `json:"panel_id"`
}
