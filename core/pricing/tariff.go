// Package pricing implements the electricity tariff primitives.
// Bands are evaluated cumulatively; UpToKwh = 0 marks the open-ended band.
package pricing

import (
	"solar-proposal/core/types"
	apperrors "solar-proposal/internal/errors"
)

// ValidateTariff rejects tariffs the estimator cannot invert
func ValidateTariff(t types.Tariff) error {
	if t.EnergyCharge <= 0 {
		return apperrors.InvalidInput("tariff energy charge must be positive, got %g", t.EnergyCharge)
	}
	if t.FixedCharge < 0 {
		return apperrors.InvalidInput("tariff fixed charge must not be negative, got %g", t.FixedCharge)
	}
	if t.TaxRate < 0 {
		return apperrors.InvalidInput("tariff tax rate must not be negative, got %g", t.TaxRate)
	}

	previous := 0.0
	for i, band := range t.Bands {
		if band.PricePerKwh <= 0 {
			return apperrors.InvalidInput("tariff band %d price must be positive, got %g", i, band.PricePerKwh)
		}
		if band.UpToKwh == 0 {
			if i != len(t.Bands)-1 {
				return apperrors.InvalidInput("tariff band %d is open-ended but not last", i)
			}
			continue
		}
		if band.UpToKwh <= previous {
			return apperrors.InvalidInput("tariff band %d limit %g is not ascending", i, band.UpToKwh)
		}
		previous = band.UpToKwh
	}
	return nil
}

// BandCost computes the energy cost of kwh across progressive bands.
// Consumption beyond a closed last band is billed at that band's price.
func BandCost(kwh float64, bands []types.TariffBand) float64 {
	if kwh <= 0 || len(bands) == 0 {
		return 0
	}

	var totalCost float64
	remaining := kwh
	previousLimit := 0.0

	for _, band := range bands {
		if remaining <= 0 {
			break
		}

		if band.UpToKwh == 0 {
			totalCost += remaining * band.PricePerKwh
			remaining = 0
		} else {
			bandSize := band.UpToKwh - previousLimit
			usageInBand := min(remaining, bandSize)
			totalCost += usageInBand * band.PricePerKwh
			remaining -= usageInBand
			previousLimit = band.UpToKwh
		}
	}

	if remaining > 0 {
		totalCost += remaining * bands[len(bands)-1].PricePerKwh
	}

	return totalCost
}

// BandKwh is the inverse of BandCost: the kWh an energy budget buys.
func BandKwh(budget float64, bands []types.TariffBand) float64 {
	if budget <= 0 || len(bands) == 0 {
		return 0
	}

	var kwh float64
	remaining := budget
	previousLimit := 0.0

	for _, band := range bands {
		if band.UpToKwh == 0 {
			return kwh + remaining/band.PricePerKwh
		}

		bandSize := band.UpToKwh - previousLimit
		bandCost := bandSize * band.PricePerKwh
		if remaining <= bandCost {
			return kwh + remaining/band.PricePerKwh
		}
		kwh += bandSize
		remaining -= bandCost
		previousLimit = band.UpToKwh
	}

	return kwh + remaining/bands[len(bands)-1].PricePerKwh
}

// EnergyCost is the pre-tax energy charge for kwh
func EnergyCost(kwh float64, t types.Tariff) float64 {
	if t.IsBanded() {
		return BandCost(kwh, t.Bands)
	}
	if kwh <= 0 {
		return 0
	}
	return kwh * t.EnergyCharge
}

// MonthlyBill is the gross bill for kwh including fixed charge and tax
func MonthlyBill(kwh float64, t types.Tariff) float64 {
	return (t.FixedCharge + EnergyCost(kwh, t)) * (1 + t.TaxRate)
}

// EnergyBudget strips tax and the fixed charge from a gross bill
func EnergyBudget(bill float64, t types.Tariff) float64 {
	return bill/(1+t.TaxRate) - t.FixedCharge
}

// KwhForBill inverts MonthlyBill. Bills that do not cover the fixed charge yield 0.
func KwhForBill(bill float64, t types.Tariff) (float64, error) {
	if bill < 0 {
		return 0, apperrors.InvalidInput("monthly bill must not be negative, got %g", bill)
	}
	if err := ValidateTariff(t); err != nil {
		return 0, err
	}

	budget := EnergyBudget(bill, t)
	if budget <= 0 {
		return 0, nil
	}
	if t.IsBanded() {
		return BandKwh(budget, t.Bands), nil
	}
	return budget / t.EnergyCharge, nil
}

// RetailRate is the avoided cost per kWh including tax
func RetailRate(t types.Tariff) float64 {
	return t.EnergyCharge * (1 + t.TaxRate)
}
