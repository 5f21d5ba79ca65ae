package finance

import (
	"math"

	apperrors "solar-proposal/internal/errors"
)

// Bisection defaults for IRR
const (
	DefaultIRRTolerance     = 1e-9
	DefaultIRRMaxIterations = 200
	IRRLowerBound           = 0.0
	IRRUpperBound           = 1.0
)

// NPV discounts cashflows (year 1 first) at rate and subtracts the upfront investment
func NPV(rate, investment float64, cashflows []float64) float64 {
	npv := -investment
	discount := 1.0
	for _, cf := range cashflows {
		discount *= 1 + rate
		npv += cf / discount
	}
	return npv
}

// IRR solves NPV(r) = 0 on [0, 1] by bisection with the default tolerance
func IRR(investment float64, cashflows []float64) (float64, error) {
	return bisectIRR(investment, cashflows, DefaultIRRTolerance, DefaultIRRMaxIterations)
}

// bisectIRR always terminates within maxIter halvings. Without a sign
// change on the bracket it reports NoConvergence instead of guessing.
func bisectIRR(investment float64, cashflows []float64, tolerance float64, maxIter int) (float64, error) {
	if investment <= 0 || math.IsNaN(investment) {
		return 0, apperrors.InvalidInput("investment must be positive, got %g", investment)
	}
	if len(cashflows) == 0 {
		return 0, apperrors.InvalidInput("cashflows are required")
	}

	lo, hi := IRRLowerBound, IRRUpperBound
	fLo := NPV(lo, investment, cashflows)
	fHi := NPV(hi, investment, cashflows)

	if fLo == 0 {
		return lo, nil
	}
	if fHi == 0 {
		return hi, nil
	}
	if (fLo > 0) == (fHi > 0) {
		return 0, apperrors.NoConvergence("NPV does not change sign on [%g%%, %g%%]", lo*100, hi*100)
	}

	for i := 0; i < maxIter && hi-lo > tolerance; i++ {
		mid := (lo + hi) / 2
		fMid := NPV(mid, investment, cashflows)
		if fMid == 0 {
			return mid, nil
		}
		if (fMid > 0) == (fLo > 0) {
			lo, fLo = mid, fMid
		} else {
			hi = mid
		}
	}

	return (lo + hi) / 2, nil
}
