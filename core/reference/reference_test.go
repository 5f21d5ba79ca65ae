package reference

import (
	"os"
	"path/filepath"
	"testing"

	"solar-proposal/core/types"
	apperrors "solar-proposal/internal/errors"
)

func TestDefaultDatasetLoads(t *testing.T) {
	p, err := Default()
	if err != nil {
		t.Fatalf("embedded dataset failed to load: %v", err)
	}

	if got := len(p.Regions()); got != 17 {
		t.Errorf("expected 17 regions, got %d", got)
	}
	if p.SnapshotHash() == "" {
		t.Error("snapshot hash is empty")
	}

	for _, tier := range types.Tiers() {
		if len(p.Panels(tier)) == 0 {
			t.Errorf("tier %s has no panels", tier)
		}
		if len(p.Inverters(tier)) == 0 {
			t.Errorf("tier %s has no inverters", tier)
		}
		if _, err := p.InstallationRates(tier); err != nil {
			t.Errorf("tier %s has no installation rates: %v", tier, err)
		}
		rules := p.SelectionRules(tier)
		if len(rules) == 0 {
			t.Fatalf("tier %s has no selection rules", tier)
		}
		if rules[len(rules)-1].UpToKwp != 0 {
			t.Errorf("tier %s: last selection rule must be unbounded", tier)
		}
	}
}

func TestRegionLookup(t *testing.T) {
	p, err := Default()
	if err != nil {
		t.Fatal(err)
	}

	r, err := p.Region(" Cordoba ")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if r.ID != "cordoba" {
		t.Errorf("expected id cordoba, got %s", r.ID)
	}
	if r.SolarIrradiance != 5.2 {
		t.Errorf("expected irradiance 5.2, got %g", r.SolarIrradiance)
	}
	if r.ExchangeRate != 1440 {
		t.Errorf("expected exchange rate 1440, got %g", r.ExchangeRate)
	}

	_, err = p.Region("atlantis")
	if !apperrors.IsType(err, apperrors.TypeNotFound) {
		t.Errorf("expected NOT_FOUND, got %v", err)
	}
}

func TestProviderReturnsCopies(t *testing.T) {
	p, err := Default()
	if err != nil {
		t.Fatal(err)
	}

	r, _ := p.Region("caba")
	if !r.ResidentialTariff.IsBanded() {
		t.Fatal("caba residential tariff should be banded")
	}
	r.ResidentialTariff.Bands[0].PricePerKwh = 1
	r.SolarIrradiance = 99

	again, _ := p.Region("caba")
	if again.ResidentialTariff.Bands[0].PricePerKwh == 1 {
		t.Error("tariff band mutation leaked into provider")
	}
	if again.SolarIrradiance == 99 {
		t.Error("region mutation leaked into provider")
	}

	panels := p.Panels(types.TierStandard)
	panels[0].Wattage = 1
	if p.Panels(types.TierStandard)[0].Wattage == 1 {
		t.Error("panel mutation leaked into provider")
	}
}

func TestSnapshotHashIsStable(t *testing.T) {
	a, err := Parse(defaultSource, "a.hcl")
	if err != nil {
		t.Fatal(err)
	}
	b, err := Parse(defaultSource, "b.hcl")
	if err != nil {
		t.Fatal(err)
	}
	if a.SnapshotHash() != b.SnapshotHash() {
		t.Error("same content produced different snapshot hashes")
	}
}

const minimalDataset = `
region "testland" {
  name             = "Testland"
  zone             = "centro"
  utility          = "TEST"
  solar_irradiance = 5
  exchange_rate    = 1000

  tariff "residential" {
    fixed_charge  = 0
    energy_charge = 100
    tax_rate      = 0
  }

  tariff "commercial" {
    fixed_charge  = 0
    energy_charge = 120
    tax_rate      = 0
  }
}

panel "p-500" {
  brand                = "Test"
  model                = "P500"
  tier                 = "standard"
  wattage              = 500
  efficiency           = 21
  width                = 1
  height               = 2
  product_warranty     = 10
  performance_warranty = 25
  price_usd            = "200.50"
}

inverter "i-5" {
  brand          = "Test"
  model          = "I5"
  tier           = "standard"
  power_kw       = 5
  topology       = "string"
  phases         = 1
  warranty_years = 10
  price_usd      = "800"
}

installation_rates "standard" {
  mounting_per_kwp     = "100"
  cabling_per_kwp      = "50"
  protections_per_kwp  = "60"
  installation_per_kwp = "300"
  design_per_kwp       = "40"
  permits_flat         = "350"
}

selection "standard" {
  rule {
    panel = "p-500"
  }
}
`

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reference.hcl")
	if err := os.WriteFile(path, []byte(minimalDataset), 0644); err != nil {
		t.Fatal(err)
	}

	p, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	panels := p.Panels(types.TierStandard)
	if len(panels) != 1 {
		t.Fatalf("expected 1 panel, got %d", len(panels))
	}
	if panels[0].PriceUSD.String() != "200.5" {
		t.Errorf("expected price 200.5, got %s", panels[0].PriceUSD)
	}
	if len(p.Panels(types.TierPremium)) != 0 {
		t.Error("premium tier should be empty")
	}
	if _, err := p.InstallationRates(types.TierPremium); !apperrors.IsType(err, apperrors.TypeNotFound) {
		t.Errorf("expected NOT_FOUND for missing rates, got %v", err)
	}
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.hcl"))
	if !apperrors.IsType(err, apperrors.TypeNotFound) {
		t.Errorf("expected NOT_FOUND, got %v", err)
	}
}

func TestParseRejectsInvalidData(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		wantType apperrors.Type
	}{
		{
			name:     "syntax error",
			src:      `region "x" {`,
			wantType: apperrors.TypeConfig,
		},
		{
			name: "missing commercial tariff",
			src: `
region "x" {
  name             = "X"
  zone             = "centro"
  utility          = "X"
  solar_irradiance = 5
  exchange_rate    = 1000

  tariff "residential" {
    fixed_charge  = 0
    energy_charge = 100
    tax_rate      = 0
  }
}`,
			wantType: apperrors.TypeInvalidInput,
		},
		{
			name: "zero energy charge",
			src: `
region "x" {
  name             = "X"
  zone             = "centro"
  utility          = "X"
  solar_irradiance = 5
  exchange_rate    = 1000

  tariff "residential" {
    fixed_charge  = 0
    energy_charge = 0
    tax_rate      = 0
  }

  tariff "commercial" {
    fixed_charge  = 0
    energy_charge = 100
    tax_rate      = 0
  }
}`,
			wantType: apperrors.TypeInvalidInput,
		},
		{
			name: "rule references unknown panel",
			src: `
selection "economy" {
  rule {
    panel = "ghost"
  }
}`,
			wantType: apperrors.TypeInvalidInput,
		},
		{
			name: "bad price",
			src: `
inverter "i" {
  brand          = "B"
  model          = "M"
  tier           = "economy"
  power_kw       = 3
  topology       = "string"
  phases         = 1
  warranty_years = 10
  price_usd      = "cheap"
}`,
			wantType: apperrors.TypeInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.src), "test.hcl")
			if !apperrors.IsType(err, tt.wantType) {
				t.Errorf("expected %s, got %v", tt.wantType, err)
			}
		})
	}
}

func TestRegionForUtility(t *testing.T) {
	p, err := Default()
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		input  string
		want   string
		wantOK bool
	}{
		{"EPEC", "cordoba", true},
		{"  edenor ", "caba", true},
		{"Edesur S.A.", "caba", true},
		{"EDESAL San Luis", "sanluis", true},
		{"EDESA", "salta", true},
		{"EPE Santa Fe", "santafe", true},
		{"Energía San Juan", "sanjuan", true},
		{"servicios", "chubut", true},
		{"", "", false},
		{"xy", "", false},
		{"Acme Power", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := RegionForUtility(tt.input)
			if ok != tt.wantOK || got != tt.want {
				t.Fatalf("RegionForUtility(%q) = %q, %v; want %q, %v", tt.input, got, ok, tt.want, tt.wantOK)
			}
			if ok {
				if _, err := p.Region(got); err != nil {
					t.Errorf("mapped region %s missing from dataset", got)
				}
			}
		})
	}
}
