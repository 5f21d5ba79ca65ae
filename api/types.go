package api

import (
	"solar-proposal/core/types"
)

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error     ErrorBody `json:"error"`
	RequestID string    `json:"request_id,omitempty"`
}

// ErrorBody carries the typed failure
type ErrorBody struct {
	Type    string                 `json:"type"`
	Message string                 `json:"message"`
	Context map[string]interface{} `json:"context,omitempty"`
}

// HealthResponse reports liveness and the reference data in use
type HealthResponse struct {
	Status            string `json:"status"`
	Version           string `json:"version"`
	ReferenceSnapshot string `json:"reference_snapshot"`
}

// RegionSummary is one entry of the region list
type RegionSummary struct {
	ID              string            `json:"id"`
	Name            string            `json:"name"`
	Zone            types.Zone        `json:"zone"`
	Utility         string            `json:"utility"`
	SolarIrradiance float64           `json:"solar_irradiance"`
	ExchangeRate    float64           `json:"exchange_rate"`
	NetMetering     types.NetMetering `json:"net_metering"`
}

// CatalogResponse lists the equipment and rates of one tier
type CatalogResponse struct {
	Tier              types.Tier              `json:"tier"`
	Panels            []types.Panel           `json:"panels"`
	Inverters         []types.Inverter        `json:"inverters"`
	InstallationRates types.InstallationRates `json:"installation_rates"`
	SelectionRules    []types.SelectionRule   `json:"selection_rules"`
}

// ConsumptionRequest asks for the kWh implied by a bill
type ConsumptionRequest struct {
	RegionID       string                  `json:"region_id"`
	MonthlyBillARS float64                 `json:"monthly_bill_ars"`
	Class          types.InstallationClass `json:"installation_class"`
}

// ConsumptionResponse is the estimated consumption
type ConsumptionResponse struct {
	RegionID              string  `json:"region_id"`
	MonthlyBillARS        float64 `json:"monthly_bill_ars"`
	MonthlyConsumptionKwh float64 `json:"monthly_consumption_kwh"`
	AnnualConsumptionKwh  float64 `json:"annual_consumption_kwh"`
}

// UtilityResponse maps a utility name to a region
type UtilityResponse struct {
	Utility  string `json:"utility"`
	RegionID string `json:"region_id"`
}
