package solve

import (
	"github.com/planwell/fincore/internal/calculation"
	"github.com/planwell/fincore/internal/domain"
	"github.com/shopspring/decimal"
)

var (
	maxSolveYears = decimal.NewFromInt(100)
	yearsFVTol    = decimal.NewFromFloat(0.01)
	rateFVTol     = decimal.NewFromFloat(0.0001)
)

// SolvePrincipal recovers the initial principal that reaches target at the
// given rate, duration and contribution. Closed form: the contribution
// stream's future value is subtracted from the target and the rest is
// discounted by the compounding factor.
func SolvePrincipal(in domain.TVMInput, target decimal.Decimal) (domain.SolveResult, error) {
	in.Principal = decimal.Zero
	if err := in.Validate(); err != nil {
		return domain.InvalidSolve(), err
	}
	annuityFV := calculation.FutureValueAmount(in)

	unit := in
	unit.Principal = decimal.NewFromInt(1)
	unit.Contribution = decimal.Zero
	compounding := calculation.FutureValueAmount(unit)
	if compounding.LessThanOrEqual(decimal.Zero) {
		return domain.InvalidSolve(), nil
	}

	principal := target.Sub(annuityFV).Div(compounding)
	if principal.IsNegative() {
		return domain.InvalidSolve(), nil
	}
	return domain.SolveResult{Value: principal, Valid: true}, nil
}

// SolveContribution recovers the periodic contribution that reaches target.
// Closed form via the per-cadence annuity factor; invalid when the
// principal alone already exceeds the target or no payment periods exist.
func SolveContribution(in domain.TVMInput, target decimal.Decimal) (domain.SolveResult, error) {
	in.Contribution = decimal.Zero
	if err := in.Validate(); err != nil {
		return domain.InvalidSolve(), err
	}
	principalFV := calculation.FutureValueAmount(in)
	requiredAnnuityFV := target.Sub(principalFV)
	if requiredAnnuityFV.LessThanOrEqual(decimal.Zero) {
		return domain.InvalidSolve(), nil
	}

	unit := in
	unit.Principal = decimal.Zero
	unit.Contribution = decimal.NewFromInt(1)
	annuityFactor := calculation.FutureValueAmount(unit)
	if annuityFactor.LessThanOrEqual(decimal.Zero) {
		return domain.InvalidSolve(), nil
	}
	return domain.SolveResult{Value: requiredAnnuityFV.Div(annuityFactor), Valid: true}, nil
}

// SolveYears finds the duration needed to reach target by bisection over
// [0, 100] years. Future value is monotonically increasing in the
// duration, so the bracket is well defined whenever the target is
// reachable at all.
func SolveYears(in domain.TVMInput, target decimal.Decimal) (domain.SolveResult, error) {
	in.Years = decimal.NewFromInt(1) // placeholder so validation sees a positive duration
	if err := in.Validate(); err != nil {
		return domain.InvalidSolve(), err
	}

	atMax := in
	atMax.Years = maxSolveYears
	if calculation.FutureValueAmount(atMax).LessThan(target) {
		return domain.InvalidSolve(), nil
	}

	value, ok := bisect(decimal.Zero, maxSolveYears, yearsFVTol, func(years decimal.Decimal) decimal.Decimal {
		probe := in
		probe.Years = years
		return calculation.FutureValueAmount(probe).Sub(target)
	})
	return domain.SolveResult{Value: value, Valid: ok}, nil
}

// SolveAnnualRate finds the annual rate needed to reach target by
// bisection over [0, 1]. The target must exceed what zero growth already
// delivers, otherwise no positive rate can reach it.
func SolveAnnualRate(in domain.TVMInput, target decimal.Decimal) (domain.SolveResult, error) {
	in.AnnualRate = decimal.Zero
	if err := in.Validate(); err != nil {
		return domain.InvalidSolve(), err
	}
	zeroRateFV := calculation.FutureValueAmount(in)
	if target.LessThanOrEqual(zeroRateFV) {
		return domain.InvalidSolve(), nil
	}

	one := decimal.NewFromInt(1)
	atMax := in
	atMax.AnnualRate = one
	if calculation.FutureValueAmount(atMax).LessThan(target) {
		return domain.InvalidSolve(), nil
	}

	value, ok := bisect(decimal.Zero, one, rateFVTol, func(rate decimal.Decimal) decimal.Decimal {
		probe := in
		probe.AnnualRate = rate
		return calculation.FutureValueAmount(probe).Sub(target)
	})
	return domain.SolveResult{Value: value, Valid: ok}, nil
}
