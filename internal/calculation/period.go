// Package calculation implements the financial projection engine: period
// and rate conversion, future value of principal plus periodic
// contributions, loan amortization schedules, and the month-stepped
// retirement simulation. Everything here is a pure function of its inputs;
// logging, I/O and caching live in the callers.
package calculation

import (
	"math"

	"github.com/shopspring/decimal"
)

// PeriodModel converts a duration in years and a compounding cadence into
// period counts. Derived per calculation, never persisted.
type PeriodModel struct {
	PeriodsPerYear int
	IsMonthly      bool
	TotalPeriods   int
	PaymentPeriods int
}

// NewPeriodModel builds the period counts for a duration and cadence.
// Monthly cadence defers the first contribution by one period, so it pays
// one fewer period than it compounds; quarterly, semi-annual and annual
// cadences contribute at each period end starting immediately.
func NewPeriodModel(years decimal.Decimal, periodsPerYear int) PeriodModel {
	total := 0
	if periodsPerYear > 0 && years.IsPositive() {
		total = int(years.Mul(decimal.NewFromInt(int64(periodsPerYear))).Round(0).IntPart())
	}
	pm := PeriodModel{
		PeriodsPerYear: periodsPerYear,
		IsMonthly:      periodsPerYear == 12,
		TotalPeriods:   total,
		PaymentPeriods: total,
	}
	if pm.IsMonthly {
		pm.PaymentPeriods = total - 1
		if pm.PaymentPeriods < 0 {
			pm.PaymentPeriods = 0
		}
	}
	return pm
}

// EffectiveRatePerPeriod converts an annual effective rate into the
// equivalent per-period rate: (1+r)^(1/n) - 1. Non-positive annual rates
// yield zero.
func EffectiveRatePerPeriod(annualRate decimal.Decimal, periodsPerYear int) decimal.Decimal {
	if annualRate.LessThanOrEqual(decimal.Zero) || periodsPerYear <= 0 {
		return decimal.Zero
	}
	one := decimal.NewFromInt(1)
	return decimalPow(one.Add(annualRate), 1.0/float64(periodsPerYear)).Sub(one)
}

// decimalPow raises a decimal base to an arbitrary float exponent. The
// shopspring Pow only supports integer exponents, so fractional powers
// round-trip through float64.
func decimalPow(base decimal.Decimal, exp float64) decimal.Decimal {
	if exp == float64(int64(exp)) {
		return base.Pow(decimal.NewFromInt(int64(exp)))
	}
	return decimal.NewFromFloat(math.Pow(base.InexactFloat64(), exp))
}
