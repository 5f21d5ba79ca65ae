package types

// Zone groups provinces geographically
type Zone string

const (
	ZoneNorte       Zone = "norte"
	ZoneCentro      Zone = "centro"
	ZoneCuyo        Zone = "cuyo"
	ZonePatagonia   Zone = "patagonia"
	ZoneLitoral     Zone = "litoral"
	ZoneBuenosAires Zone = "buenos_aires"
)

// NetMeteringScheme describes how exported energy is credited
type NetMeteringScheme string

const (
	// SchemeNetMetering credits exports at the retail avoided rate
	SchemeNetMetering NetMeteringScheme = "net_metering"

	// SchemeNetBilling credits exports at a separate injection rate
	SchemeNetBilling NetMeteringScheme = "net_billing"
)

// Region is an immutable reference-data record for one province
type Region struct {
	// ID is the lookup key (e.g., "cordoba")
	ID string `json:"id"`

	// Name is the display name
	Name string `json:"name"`

	// Zone is the geographic group
	Zone Zone `json:"zone"`

	// Utility is the main distribution company
	Utility string `json:"utility"`

	// SolarIrradiance is peak sun hours in kWh/m²/day
	SolarIrradiance float64 `json:"solar_irradiance"`

	// ExchangeRate is ARS per USD
	ExchangeRate float64 `json:"exchange_rate"`

	// ResidentialTariff applies to residential installations
	ResidentialTariff Tariff `json:"residential_tariff"`

	// CommercialTariff applies to commercial installations
	CommercialTariff Tariff `json:"commercial_tariff"`

	// NetMetering is the export-credit policy
	NetMetering NetMetering `json:"net_metering"`
}

// TariffFor returns the tariff block for an installation class
func (r Region) TariffFor(class InstallationClass) Tariff {
	if class == ClassCommercial {
		return r.CommercialTariff
	}
	return r.ResidentialTariff
}

// Clone returns a deep copy so callers can never alias provider state
func (r Region) Clone() Region {
	out := r
	out.ResidentialTariff = r.ResidentialTariff.Clone()
	out.CommercialTariff = r.CommercialTariff.Clone()
	return out
}

// Tariff is a monthly electricity tariff structure
type Tariff struct {
	// FixedCharge is ARS per month
	FixedCharge float64 `json:"fixed_charge"`

	// EnergyCharge is the average ARS per kWh across bands
	EnergyCharge float64 `json:"energy_charge"`

	// TaxRate is the fraction added on top of fixed and energy charges
	TaxRate float64 `json:"tax_rate"`

	// Bands are progressive consumption blocks; empty means flat-rate
	Bands []TariffBand `json:"bands,omitempty"`
}

// IsBanded reports whether the tariff is progressive
func (t Tariff) IsBanded() bool {
	return len(t.Bands) > 0
}

// Clone returns a deep copy
func (t Tariff) Clone() Tariff {
	out := t
	if t.Bands != nil {
		out.Bands = append([]TariffBand(nil), t.Bands...)
	}
	return out
}

// TariffBand is one progressive block
type TariffBand struct {
	// UpToKwh is the cumulative upper bound of the band (0 = unlimited)
	UpToKwh float64 `json:"up_to_kwh"`

	// PricePerKwh is ARS per kWh inside the band
	PricePerKwh float64 `json:"price_per_kwh"`
}

// NetMetering is the regional export-credit policy
type NetMetering struct {
	Enabled bool              `json:"enabled"`
	Scheme  NetMeteringScheme `json:"scheme,omitempty"`

	// CreditRate is ARS per exported kWh; 0 means the retail avoided rate
	CreditRate float64 `json:"credit_rate,omitempty"`
}
