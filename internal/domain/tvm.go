package domain

import "github.com/shopspring/decimal"

// CompoundingFrequencies are the supported periods-per-year values.
var CompoundingFrequencies = []int{1, 2, 4, 12}

// TVMInput carries the inputs for a future value calculation. All rates are
// decimal fractions (0.05 for 5%); the caller divides percent inputs by 100
// before building one of these. Immutable per calculation call.
type TVMInput struct {
	Principal      decimal.Decimal `json:"principal" yaml:"principal"`
	Contribution   decimal.Decimal `json:"contribution" yaml:"contribution"` // per period
	AnnualRate     decimal.Decimal `json:"annualRate" yaml:"annual_rate"`
	Years          decimal.Decimal `json:"years" yaml:"years"`
	PeriodsPerYear int             `json:"periodsPerYear" yaml:"periods_per_year"`
}

// Validate checks the structural constraints shared by the forward and
// inverse solvers. Inverse solvers additionally ignore the field being
// solved for.
func (in TVMInput) Validate() error {
	var missing []string
	if in.Principal.IsNegative() {
		missing = append(missing, "principal")
	}
	if in.Contribution.IsNegative() {
		missing = append(missing, "contribution")
	}
	if in.AnnualRate.IsNegative() {
		missing = append(missing, "annualRate")
	}
	if in.Years.LessThanOrEqual(decimal.Zero) {
		missing = append(missing, "years")
	}
	if len(missing) > 0 {
		return NewMissingFieldError(missing...)
	}
	for _, n := range CompoundingFrequencies {
		if in.PeriodsPerYear == n {
			return nil
		}
	}
	return NewInvalidRangeError("periodsPerYear must be 1, 2, 4 or 12")
}

// SolveResult is the scalar outcome of a forward or inverse TVM solve.
// Valid is false when no answer satisfies the inputs (negative recovered
// principal, unreachable target, exhausted bisection bracket).
type SolveResult struct {
	Value decimal.Decimal `json:"value"`
	Valid bool            `json:"valid"`
}

// InvalidSolve is the canonical not-valid result.
func InvalidSolve() SolveResult {
	return SolveResult{Value: decimal.Zero, Valid: false}
}
