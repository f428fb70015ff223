package calculation

import (
	"github.com/planwell/fincore/internal/domain"
	"github.com/shopspring/decimal"
)

// FutureValue computes the future value of a principal plus periodic
// contributions under compounding. It re-validates the input and reports
// the first missing or out-of-range field rather than trusting the caller.
func FutureValue(in domain.TVMInput) (domain.SolveResult, error) {
	if err := in.Validate(); err != nil {
		return domain.InvalidSolve(), err
	}
	return domain.SolveResult{Value: FutureValueAmount(in), Valid: true}, nil
}

// FutureValueAmount is the raw forward formula shared by FutureValue and
// the inverse solvers, which invert it by bisection. Out-of-range inputs
// yield zero instead of an error so a bisection probe can never fault.
func FutureValueAmount(in domain.TVMInput) decimal.Decimal {
	if in.Years.LessThanOrEqual(decimal.Zero) || in.PeriodsPerYear <= 0 {
		return decimal.Zero
	}
	pm := NewPeriodModel(in.Years, in.PeriodsPerYear)
	i := EffectiveRatePerPeriod(in.AnnualRate, in.PeriodsPerYear)

	if i.IsZero() {
		// No compounding: the principal rides along unchanged and each
		// contribution lands at face value.
		payments := decimal.NewFromInt(int64(pm.PaymentPeriods))
		return in.Principal.Add(in.Contribution.Mul(payments))
	}

	one := decimal.NewFromInt(1)
	growth := one.Add(i)
	principalFV := in.Principal.Mul(decimalPow(growth, float64(pm.TotalPeriods)))
	return principalFV.Add(annuityFutureValue(in.Contribution, i, pm))
}

// annuityFutureValue accumulates the contribution stream. The monthly
// cadence defers the first contribution by one period, so its annuity
// factor is ((1+i)^total - 1)/i - 1; other cadences use the ordinary
// annuity factor over the payment periods.
func annuityFutureValue(contribution, i decimal.Decimal, pm PeriodModel) decimal.Decimal {
	if contribution.LessThanOrEqual(decimal.Zero) || pm.PaymentPeriods <= 0 {
		return decimal.Zero
	}
	one := decimal.NewFromInt(1)
	growth := one.Add(i)
	if pm.IsMonthly {
		factor := decimalPow(growth, float64(pm.TotalPeriods)).Sub(one).Div(i).Sub(one)
		return contribution.Mul(factor)
	}
	factor := decimalPow(growth, float64(pm.PaymentPeriods)).Sub(one).Div(i)
	return contribution.Mul(factor)
}
