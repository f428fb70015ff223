// Package solve inverts the forward calculators in internal/calculation:
// given a target future value or loan payment, it recovers the one missing
// input by closed-form algebra where possible and by bounded bisection
// where the unknown sits inside an exponent.
package solve

import "github.com/shopspring/decimal"

// bisectionIterations is the fixed iteration budget for every search.
const bisectionIterations = 100

// bracketEpsilon decides whether an exhausted bracket is still tight
// enough to trust the midpoint.
var bracketEpsilon = decimal.New(1, -9)

// bisect finds x in [lo, hi] with f(x) ~ 0 for a monotonically increasing
// f. It returns the best midpoint and whether the answer converged within
// tolerance or the final bracket collapsed below epsilon. Callers must
// have established f(lo) <= 0 <= f(hi).
func bisect(lo, hi decimal.Decimal, tolerance decimal.Decimal, f func(decimal.Decimal) decimal.Decimal) (decimal.Decimal, bool) {
	two := decimal.NewFromInt(2)
	mid := lo.Add(hi).Div(two)
	for iter := 0; iter < bisectionIterations; iter++ {
		mid = lo.Add(hi).Div(two)
		diff := f(mid)
		if diff.Abs().LessThanOrEqual(tolerance) {
			return mid, true
		}
		if diff.IsNegative() {
			lo = mid
		} else {
			hi = mid
		}
	}
	return mid, hi.Sub(lo).LessThanOrEqual(bracketEpsilon)
}
