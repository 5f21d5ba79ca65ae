package reference

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/shopspring/decimal"

	"solar-proposal/core/types"
	apperrors "solar-proposal/internal/errors"
)

//go:embed defaults.hcl
var defaultSource []byte

// DefaultFilename is the logical name of the embedded dataset
const DefaultFilename = "defaults.hcl"

var (
	defaultOnce     sync.Once
	defaultProvider *Static
	defaultErr      error
)

// Default returns the provider built from the embedded dataset.
// The dataset is parsed once per process.
func Default() (*Static, error) {
	defaultOnce.Do(func() {
		defaultProvider, defaultErr = Parse(defaultSource, DefaultFilename)
	})
	return defaultProvider, defaultErr
}

// LoadFile parses an HCL reference dataset from disk
func LoadFile(path string) (*Static, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.NotFound("reference data file", path)
		}
		return nil, apperrors.Wrap(apperrors.TypeConfig, "failed to read reference data", err)
	}
	return Parse(src, path)
}

// Load returns the embedded dataset when path is empty, otherwise the file
func Load(path string) (*Static, error) {
	if path == "" {
		return Default()
	}
	return LoadFile(path)
}

// Parse decodes an HCL reference dataset
func Parse(src []byte, filename string) (*Static, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, diagnosticsError(filename, diags)
	}

	var doc document
	if diags := gohcl.DecodeBody(file.Body, nil, &doc); diags.HasErrors() {
		return nil, diagnosticsError(filename, diags)
	}

	ds, err := doc.dataset()
	if err != nil {
		return nil, err
	}
	return NewStatic(ds)
}

func diagnosticsError(filename string, diags hcl.Diagnostics) error {
	var msgs []string
	for _, diag := range diags {
		if diag.Severity != hcl.DiagError {
			continue
		}
		line := 0
		if diag.Subject != nil {
			line = diag.Subject.Start.Line
		}
		msgs = append(msgs, fmt.Sprintf("line %d: %s: %s", line, diag.Summary, diag.Detail))
	}
	return apperrors.Config(fmt.Sprintf("invalid reference data %s", filename), fmt.Errorf("%s", strings.Join(msgs, "; ")))
}

type document struct {
	Regions    []regionBlock    `hcl:"region,block"`
	Panels     []panelBlock     `hcl:"panel,block"`
	Inverters  []inverterBlock  `hcl:"inverter,block"`
	Rates      []ratesBlock     `hcl:"installation_rates,block"`
	Selections []selectionBlock `hcl:"selection,block"`
}

type regionBlock struct {
	ID              string            `hcl:"id,label"`
	Name            string            `hcl:"name"`
	Zone            string            `hcl:"zone"`
	Utility         string            `hcl:"utility"`
	SolarIrradiance float64           `hcl:"solar_irradiance"`
	ExchangeRate    float64           `hcl:"exchange_rate"`
	Tariffs         []tariffBlock     `hcl:"tariff,block"`
	NetMetering     *netMeteringBlock `hcl:"net_metering,block"`
}

type tariffBlock struct {
	Class        string      `hcl:"class,label"`
	FixedCharge  float64     `hcl:"fixed_charge"`
	EnergyCharge float64     `hcl:"energy_charge"`
	TaxRate      float64     `hcl:"tax_rate"`
	Bands        []bandBlock `hcl:"band,block"`
}

type bandBlock struct {
	UpToKwh     float64 `hcl:"up_to_kwh,optional"`
	PricePerKwh float64 `hcl:"price_per_kwh"`
}

type netMeteringBlock struct {
	Enabled    bool    `hcl:"enabled"`
	Scheme     string  `hcl:"scheme,optional"`
	CreditRate float64 `hcl:"credit_rate,optional"`
}

type panelBlock struct {
	ID                  string  `hcl:"id,label"`
	Brand               string  `hcl:"brand"`
	Model               string  `hcl:"model"`
	Tier                string  `hcl:"tier"`
	Wattage             int     `hcl:"wattage"`
	Efficiency          float64 `hcl:"efficiency"`
	Width               float64 `hcl:"width"`
	Height              float64 `hcl:"height"`
	ProductWarranty     int     `hcl:"product_warranty"`
	PerformanceWarranty int     `hcl:"performance_warranty"`
	PriceUSD            string  `hcl:"price_usd"`
}

type inverterBlock struct {
	ID            string  `hcl:"id,label"`
	Brand         string  `hcl:"brand"`
	Model         string  `hcl:"model"`
	Tier          string  `hcl:"tier"`
	PowerKw       float64 `hcl:"power_kw"`
	Topology      string  `hcl:"topology"`
	Phases        int     `hcl:"phases"`
	WarrantyYears int     `hcl:"warranty_years"`
	PriceUSD      string  `hcl:"price_usd"`
}

type ratesBlock struct {
	Tier               string `hcl:"tier,label"`
	MountingPerKwp     string `hcl:"mounting_per_kwp"`
	CablingPerKwp      string `hcl:"cabling_per_kwp"`
	ProtectionsPerKwp  string `hcl:"protections_per_kwp"`
	InstallationPerKwp string `hcl:"installation_per_kwp"`
	DesignPerKwp       string `hcl:"design_per_kwp"`
	PermitsFlat        string `hcl:"permits_flat"`
}

type selectionBlock struct {
	Tier  string      `hcl:"tier,label"`
	Rules []ruleBlock `hcl:"rule,block"`
}

type ruleBlock struct {
	UpToKwp float64 `hcl:"up_to_kwp,optional"`
	Panel   string  `hcl:"panel"`
}

func (d document) dataset() (Dataset, error) {
	var ds Dataset

	for _, rb := range d.Regions {
		region := types.Region{
			ID:              rb.ID,
			Name:            rb.Name,
			Zone:            types.Zone(rb.Zone),
			Utility:         rb.Utility,
			SolarIrradiance: rb.SolarIrradiance,
			ExchangeRate:    rb.ExchangeRate,
		}
		seen := make(map[string]bool)
		for _, tb := range rb.Tariffs {
			if seen[tb.Class] {
				return Dataset{}, apperrors.InvalidInput("region %s: duplicate %s tariff", rb.ID, tb.Class)
			}
			seen[tb.Class] = true

			tariff := types.Tariff{
				FixedCharge:  tb.FixedCharge,
				EnergyCharge: tb.EnergyCharge,
				TaxRate:      tb.TaxRate,
			}
			for _, band := range tb.Bands {
				tariff.Bands = append(tariff.Bands, types.TariffBand{UpToKwh: band.UpToKwh, PricePerKwh: band.PricePerKwh})
			}

			switch types.InstallationClass(tb.Class) {
			case types.ClassResidential:
				region.ResidentialTariff = tariff
			case types.ClassCommercial:
				region.CommercialTariff = tariff
			default:
				return Dataset{}, apperrors.InvalidInput("region %s: unknown tariff class %q", rb.ID, tb.Class)
			}
		}
		if !seen[string(types.ClassResidential)] || !seen[string(types.ClassCommercial)] {
			return Dataset{}, apperrors.InvalidInput("region %s: residential and commercial tariffs are required", rb.ID)
		}
		if rb.NetMetering != nil {
			region.NetMetering = types.NetMetering{
				Enabled:    rb.NetMetering.Enabled,
				Scheme:     types.NetMeteringScheme(rb.NetMetering.Scheme),
				CreditRate: rb.NetMetering.CreditRate,
			}
		}
		ds.Regions = append(ds.Regions, region)
	}

	for _, pb := range d.Panels {
		price, err := parseAmount("panel "+pb.ID, pb.PriceUSD)
		if err != nil {
			return Dataset{}, err
		}
		ds.Panels = append(ds.Panels, types.Panel{
			ID:         pb.ID,
			Brand:      pb.Brand,
			Model:      pb.Model,
			Wattage:    pb.Wattage,
			Efficiency: pb.Efficiency,
			Dimensions: types.Dimensions{Width: pb.Width, Height: pb.Height},
			Warranty:   types.Warranty{Product: pb.ProductWarranty, Performance: pb.PerformanceWarranty},
			Tier:       types.Tier(pb.Tier),
			PriceUSD:   price,
		})
	}

	for _, ib := range d.Inverters {
		price, err := parseAmount("inverter "+ib.ID, ib.PriceUSD)
		if err != nil {
			return Dataset{}, err
		}
		ds.Inverters = append(ds.Inverters, types.Inverter{
			ID:            ib.ID,
			Brand:         ib.Brand,
			Model:         ib.Model,
			PowerKw:       ib.PowerKw,
			Topology:      types.InverterTopology(ib.Topology),
			Phases:        ib.Phases,
			WarrantyYears: ib.WarrantyYears,
			Tier:          types.Tier(ib.Tier),
			PriceUSD:      price,
		})
	}

	for _, rb := range d.Rates {
		rates := types.InstallationRates{Tier: types.Tier(rb.Tier)}
		fields := []struct {
			name   string
			raw    string
			target *decimal.Decimal
		}{
			{"mounting_per_kwp", rb.MountingPerKwp, &rates.MountingPerKwp},
			{"cabling_per_kwp", rb.CablingPerKwp, &rates.CablingPerKwp},
			{"protections_per_kwp", rb.ProtectionsPerKwp, &rates.ProtectionsPerKwp},
			{"installation_per_kwp", rb.InstallationPerKwp, &rates.InstallationPerKwp},
			{"design_per_kwp", rb.DesignPerKwp, &rates.DesignPerKwp},
			{"permits_flat", rb.PermitsFlat, &rates.PermitsFlat},
		}
		for _, f := range fields {
			v, err := parseAmount(fmt.Sprintf("installation_rates %s %s", rb.Tier, f.name), f.raw)
			if err != nil {
				return Dataset{}, err
			}
			*f.target = v
		}
		ds.Rates = append(ds.Rates, rates)
	}

	for _, sb := range d.Selections {
		for _, rule := range sb.Rules {
			ds.Rules = append(ds.Rules, types.SelectionRule{
				Tier:    types.Tier(sb.Tier),
				UpToKwp: rule.UpToKwp,
				PanelID: rule.Panel,
			})
		}
	}

	return ds, nil
}

// parseAmount reads a money value written as a decimal string
func parseAmount(what, raw string) (decimal.Decimal, error) {
	v, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, apperrors.Wrap(apperrors.TypeInvalidInput, what+": invalid amount", err)
	}
	return v, nil
}
