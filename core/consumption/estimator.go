// Package consumption turns a customer's bill into monthly kWh by inverting the regional tariff.
package consumption

import (
	"solar-proposal/core/pricing"
	"solar-proposal/core/types"
	apperrors "solar-proposal/internal/errors"
)

// Source records where the monthly consumption came from
type Source string

const (
	SourceCustomer Source = "customer"
	SourceBill     Source = "estimated_from_bill"
)

// Estimator inverts tariffs. It holds no state.
type Estimator struct{}

// NewEstimator creates an estimator
func NewEstimator() *Estimator {
	return &Estimator{}
}

// Estimate returns the monthly kWh a gross bill pays for.
// A zero bill yields zero; the caller must then require direct kWh input.
func (e *Estimator) Estimate(billARS float64, region types.Region, class types.InstallationClass) (float64, error) {
	if !class.IsValid() {
		return 0, apperrors.InvalidInput("unknown installation class %q", class)
	}

	kwh, err := pricing.KwhForBill(billARS, region.TariffFor(class))
	if err != nil {
		if appErr, ok := err.(*apperrors.Error); ok {
			return 0, appErr.WithContext("region", region.ID).WithContext("class", class.String())
		}
		return 0, err
	}
	return kwh, nil
}

// Resolve picks the consumption the rest of the pipeline runs on.
// Customer-provided kWh wins over the bill estimate.
func (e *Estimator) Resolve(input types.CustomerInput, region types.Region) (float64, Source, error) {
	if input.MonthlyConsumptionKwh < 0 {
		return 0, "", apperrors.InvalidInput("monthly consumption must not be negative, got %g", input.MonthlyConsumptionKwh)
	}
	if input.MonthlyConsumptionKwh > 0 {
		return input.MonthlyConsumptionKwh, SourceCustomer, nil
	}

	kwh, err := e.Estimate(input.MonthlyBillARS, region, input.Class)
	if err != nil {
		return 0, "", err
	}
	if kwh <= 0 {
		return 0, "", apperrors.InvalidInput("consumption required: bill of %g ARS does not cover any energy in %s", input.MonthlyBillARS, region.ID)
	}
	return kwh, SourceBill, nil
}
