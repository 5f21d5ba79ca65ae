package consumption

import (
	"math"
	"testing"

	"solar-proposal/core/pricing"
	"solar-proposal/core/types"
	apperrors "solar-proposal/internal/errors"
)

func testRegion() types.Region {
	return types.Region{
		ID:              "testland",
		SolarIrradiance: 5.2,
		ExchangeRate:    1440,
		ResidentialTariff: types.Tariff{
			FixedCharge:  3200,
			EnergyCharge: 185,
			TaxRate:      0.27,
		},
		CommercialTariff: types.Tariff{
			FixedCharge:  9500,
			EnergyCharge: 210,
			TaxRate:      0.27,
			Bands: []types.TariffBand{
				{UpToKwh: 1000, PricePerKwh: 200},
				{UpToKwh: 0, PricePerKwh: 230},
			},
		},
	}
}

func TestEstimateRoundTrip(t *testing.T) {
	e := NewEstimator()
	region := testRegion()

	tests := []struct {
		name  string
		class types.InstallationClass
		kwh   float64
	}{
		{"residential flat", types.ClassResidential, 450},
		{"commercial first band", types.ClassCommercial, 800},
		{"commercial open band", types.ClassCommercial, 2500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bill := pricing.MonthlyBill(tt.kwh, region.TariffFor(tt.class))
			got, err := e.Estimate(bill, region, tt.class)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if math.Abs(got-tt.kwh) > 1e-6 {
				t.Errorf("Estimate = %g, want %g", got, tt.kwh)
			}
		})
	}
}

func TestEstimateZeroBill(t *testing.T) {
	got, err := NewEstimator().Estimate(0, testRegion(), types.ClassResidential)
	if err != nil {
		t.Fatalf("zero bill should not error: %v", err)
	}
	if got != 0 {
		t.Errorf("Estimate(0) = %g, want 0", got)
	}
}

func TestEstimateInvalidTariff(t *testing.T) {
	region := testRegion()
	region.ResidentialTariff.EnergyCharge = 0

	_, err := NewEstimator().Estimate(50000, region, types.ClassResidential)
	if !apperrors.IsType(err, apperrors.TypeInvalidInput) {
		t.Errorf("expected INVALID_INPUT, got %v", err)
	}
}

func TestResolve(t *testing.T) {
	e := NewEstimator()
	region := testRegion()
	bill := pricing.MonthlyBill(300, region.ResidentialTariff)

	tests := []struct {
		name       string
		input      types.CustomerInput
		want       float64
		wantSource Source
		wantErr    apperrors.Type
	}{
		{
			name:       "customer kwh wins",
			input:      types.CustomerInput{MonthlyConsumptionKwh: 450, MonthlyBillARS: bill, Class: types.ClassResidential},
			want:       450,
			wantSource: SourceCustomer,
		},
		{
			name:       "estimated from bill",
			input:      types.CustomerInput{MonthlyBillARS: bill, Class: types.ClassResidential},
			want:       300,
			wantSource: SourceBill,
		},
		{
			name:    "zero bill and zero kwh",
			input:   types.CustomerInput{Class: types.ClassResidential},
			wantErr: apperrors.TypeInvalidInput,
		},
		{
			name:    "bill below fixed charge",
			input:   types.CustomerInput{MonthlyBillARS: 1000, Class: types.ClassResidential},
			wantErr: apperrors.TypeInvalidInput,
		},
		{
			name:    "negative kwh",
			input:   types.CustomerInput{MonthlyConsumptionKwh: -5, Class: types.ClassResidential},
			wantErr: apperrors.TypeInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, source, err := e.Resolve(tt.input, region)
			if tt.wantErr != "" {
				if !apperrors.IsType(err, tt.wantErr) {
					t.Fatalf("expected %s, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if math.Abs(got-tt.want) > 1e-6 {
				t.Errorf("Resolve = %g, want %g", got, tt.want)
			}
			if source != tt.wantSource {
				t.Errorf("source = %s, want %s", source, tt.wantSource)
			}
		})
	}
}
