package calculation

import (
	"github.com/planwell/fincore/internal/domain"
	"github.com/shopspring/decimal"
)

const monthsPerYear = 12

// BuildSchedule generates the month-by-month amortization schedule for a
// loan, including an optional interest-only grace phase. The schedule is
// empty when the inputs cannot produce any repayment months.
func BuildSchedule(in domain.LoanInput) ([]domain.AmortizationRow, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return buildSchedule(in), nil
}

// buildSchedule is the unvalidated schedule builder shared with the loan
// inverse solvers, which probe it with candidate inputs.
func buildSchedule(in domain.LoanInput) []domain.AmortizationRow {
	totalMonths := wholeMonths(in.TermYears)
	graceMonths := wholeMonths(in.GraceYears)
	actualMonths := totalMonths - graceMonths
	if in.Principal.LessThanOrEqual(decimal.Zero) || in.AnnualRate.IsNegative() ||
		totalMonths <= 0 || actualMonths <= 0 {
		return nil
	}

	monthlyRate := in.AnnualRate.Div(decimal.NewFromInt(monthsPerYear))
	rows := make([]domain.AmortizationRow, 0, totalMonths)
	remaining := in.Principal
	cumulativeInterest := decimal.Zero

	// Grace phase: interest only, balance untouched.
	for period := 1; period <= graceMonths; period++ {
		interest := remaining.Mul(monthlyRate)
		cumulativeInterest = cumulativeInterest.Add(interest)
		rows = append(rows, domain.AmortizationRow{
			Period:             period,
			PrincipalPaid:      decimal.Zero,
			InterestPaid:       interest,
			Payment:            interest,
			RemainingPrincipal: remaining,
			CumulativeInterest: cumulativeInterest,
		})
	}

	var fixedPayment decimal.Decimal
	if in.Method == domain.EqualPayment {
		if in.PaymentOverride != nil {
			fixedPayment = *in.PaymentOverride
		} else {
			fixedPayment = EqualMonthlyPayment(in.Principal, in.AnnualRate, actualMonths)
		}
	}
	basePrincipal := in.Principal.Div(decimal.NewFromInt(int64(actualMonths)))

	for period := graceMonths + 1; period <= totalMonths; period++ {
		interest := remaining.Mul(monthlyRate)
		var principalPaid decimal.Decimal

		switch in.Method {
		case domain.EqualPayment:
			principalPaid = fixedPayment.Sub(interest)
			if principalPaid.IsNegative() {
				principalPaid = decimal.Zero
			}
			if principalPaid.GreaterThan(remaining) {
				principalPaid = remaining
			}
		default: // EqualPrincipal
			principalPaid = basePrincipal
		}
		if period == totalMonths {
			// Final month absorbs any residual rounding so the loan closes
			// at exactly zero.
			principalPaid = remaining
		}

		remaining = remaining.Sub(principalPaid)
		cumulativeInterest = cumulativeInterest.Add(interest)
		rows = append(rows, domain.AmortizationRow{
			Period:             period,
			PrincipalPaid:      principalPaid,
			InterestPaid:       interest,
			Payment:            principalPaid.Add(interest),
			RemainingPrincipal: remaining,
			CumulativeInterest: cumulativeInterest,
		})
	}
	return rows
}

// EqualMonthlyPayment is the standard amortization payment
// P * r(1+r)^n / ((1+r)^n - 1) with the nominal monthly rate r. A zero
// rate degrades to straight division.
func EqualMonthlyPayment(principal, annualRate decimal.Decimal, months int) decimal.Decimal {
	if months <= 0 {
		return decimal.Zero
	}
	n := decimal.NewFromInt(int64(months))
	if annualRate.LessThanOrEqual(decimal.Zero) {
		return principal.Div(n)
	}
	r := annualRate.Div(decimal.NewFromInt(monthsPerYear))
	growth := decimal.NewFromInt(1).Add(r).Pow(n)
	return principal.Mul(r).Mul(growth).Div(growth.Sub(decimal.NewFromInt(1)))
}

// FirstEqualPrincipalPayment is the first-month payment of an
// equal-principal loan: principal/n + principal*monthlyRate.
func FirstEqualPrincipalPayment(principal, annualRate decimal.Decimal, months int) decimal.Decimal {
	if months <= 0 {
		return decimal.Zero
	}
	monthlyRate := annualRate.Div(decimal.NewFromInt(monthsPerYear))
	return principal.Div(decimal.NewFromInt(int64(months))).Add(principal.Mul(monthlyRate))
}

// ScheduleTotals sums payments and interest across a schedule.
func ScheduleTotals(rows []domain.AmortizationRow) (totalPayment, totalInterest decimal.Decimal) {
	for _, row := range rows {
		totalPayment = totalPayment.Add(row.Payment)
		totalInterest = totalInterest.Add(row.InterestPaid)
	}
	return totalPayment, totalInterest
}

func wholeMonths(years decimal.Decimal) int {
	return int(years.Mul(decimal.NewFromInt(monthsPerYear)).Round(0).IntPart())
}
