package solve

import (
	"github.com/planwell/fincore/internal/calculation"
	"github.com/planwell/fincore/internal/domain"
	"github.com/shopspring/decimal"
)

var (
	maxSolveRate    = decimal.NewFromFloat(0.20)
	ratePaymentTol  = decimal.NewFromFloat(0.0001)
	termSearchStep  = decimal.NewFromFloat(0.1)
	maxSolveTermYrs = decimal.NewFromInt(50)
)

// SolveLoanAmount recovers the loan principal affordable at a target
// monthly payment. Both repayment methods invert in closed form; for
// equal principal the first (largest) payment is the binding one.
func SolveLoanAmount(in domain.LoanInput, targetPayment decimal.Decimal) (domain.LoanSolveResult, error) {
	in.Principal = decimal.NewFromInt(1) // placeholder for shared range checks
	if err := in.Validate(); err != nil {
		return domain.InvalidLoanSolve(), err
	}
	if targetPayment.LessThanOrEqual(decimal.Zero) {
		return domain.InvalidLoanSolve(), domain.NewMissingFieldError("targetPayment")
	}
	months := repaymentMonths(in)
	if months <= 0 {
		return domain.InvalidLoanSolve(), nil
	}

	var principal decimal.Decimal
	one := decimal.NewFromInt(1)
	n := decimal.NewFromInt(int64(months))
	monthlyRate := in.AnnualRate.Div(decimal.NewFromInt(12))

	switch in.Method {
	case domain.EqualPayment:
		if monthlyRate.IsZero() {
			principal = targetPayment.Mul(n)
		} else {
			growth := one.Add(monthlyRate).Pow(n)
			principal = targetPayment.Mul(growth.Sub(one)).Div(monthlyRate.Mul(growth))
		}
	default: // EqualPrincipal: payment = P/n + P*r
		principal = targetPayment.Div(one.Div(n).Add(monthlyRate))
	}
	if principal.LessThanOrEqual(decimal.Zero) {
		return domain.InvalidLoanSolve(), nil
	}
	in.Principal = principal
	return loanResultFromSchedule(principal, in)
}

// SolveLoanTerm recovers the total term (including grace) that brings the
// monthly payment down to the target. Equal principal divides out in
// closed form; equal payment needs an incremental search because the term
// sits inside the exponent on both sides of the payment formula.
func SolveLoanTerm(in domain.LoanInput, targetPayment decimal.Decimal) (domain.LoanSolveResult, error) {
	in.TermYears = in.GraceYears.Add(decimal.NewFromInt(1)) // placeholder
	if err := in.Validate(); err != nil {
		return domain.InvalidLoanSolve(), err
	}
	if targetPayment.LessThanOrEqual(decimal.Zero) {
		return domain.InvalidLoanSolve(), domain.NewMissingFieldError("targetPayment")
	}

	monthlyRate := in.AnnualRate.Div(decimal.NewFromInt(12))
	interestOnly := in.Principal.Mul(monthlyRate)
	// A payment at or below the interest-only level never amortizes.
	if targetPayment.LessThanOrEqual(interestOnly) {
		return domain.InvalidLoanSolve(), nil
	}

	if in.Method == domain.EqualPrincipal {
		// payment = P/n + P*r  =>  n = P / (payment - P*r)
		months := in.Principal.Div(targetPayment.Sub(interestOnly))
		wholeMonths := months.Ceil()
		termYears := wholeMonths.Div(decimal.NewFromInt(12)).Add(in.GraceYears)
		in.TermYears = termYears
		res, err := loanResultFromSchedule(termYears, in)
		return res, err
	}

	// Equal payment: walk the term in 0.1 year steps until the required
	// payment first drops to the target.
	for term := termSearchStep; term.LessThanOrEqual(maxSolveTermYrs); term = term.Add(termSearchStep) {
		totalTerm := term.Add(in.GraceYears)
		months := int(term.Mul(decimal.NewFromInt(12)).Round(0).IntPart())
		if months <= 0 {
			continue
		}
		required := calculation.EqualMonthlyPayment(in.Principal, in.AnnualRate, months)
		if required.LessThanOrEqual(targetPayment) {
			in.TermYears = totalTerm
			return loanResultFromSchedule(totalTerm, in)
		}
	}
	return domain.InvalidLoanSolve(), nil
}

// SolveLoanRate recovers the annual rate that produces the target monthly
// payment, by bisection over [0%, 20%]. The payment grows monotonically
// with the rate under both methods.
func SolveLoanRate(in domain.LoanInput, targetPayment decimal.Decimal) (domain.LoanSolveResult, error) {
	in.AnnualRate = decimal.Zero
	if err := in.Validate(); err != nil {
		return domain.InvalidLoanSolve(), err
	}
	if targetPayment.LessThanOrEqual(decimal.Zero) {
		return domain.InvalidLoanSolve(), domain.NewMissingFieldError("targetPayment")
	}
	months := repaymentMonths(in)
	if months <= 0 {
		return domain.InvalidLoanSolve(), nil
	}

	paymentAt := func(rate decimal.Decimal) decimal.Decimal {
		if in.Method == domain.EqualPrincipal {
			return calculation.FirstEqualPrincipalPayment(in.Principal, rate, months)
		}
		return calculation.EqualMonthlyPayment(in.Principal, rate, months)
	}
	if targetPayment.LessThan(paymentAt(decimal.Zero)) ||
		targetPayment.GreaterThan(paymentAt(maxSolveRate)) {
		return domain.InvalidLoanSolve(), nil
	}

	rate, ok := bisect(decimal.Zero, maxSolveRate, ratePaymentTol, func(rate decimal.Decimal) decimal.Decimal {
		return paymentAt(rate).Sub(targetPayment)
	})
	if !ok {
		return domain.InvalidLoanSolve(), nil
	}
	in.AnnualRate = rate
	return loanResultFromSchedule(rate, in)
}

// loanResultFromSchedule materializes the schedule for the completed input
// and reports the solved value alongside its payment and interest totals.
func loanResultFromSchedule(value decimal.Decimal, in domain.LoanInput) (domain.LoanSolveResult, error) {
	rows, err := calculation.BuildSchedule(in)
	if err != nil {
		return domain.InvalidLoanSolve(), err
	}
	if len(rows) == 0 {
		return domain.InvalidLoanSolve(), nil
	}
	totalPayment, totalInterest := calculation.ScheduleTotals(rows)
	return domain.LoanSolveResult{
		Value:         value,
		TotalPayment:  totalPayment,
		TotalInterest: totalInterest,
		Valid:         true,
	}, nil
}

func repaymentMonths(in domain.LoanInput) int {
	total := int(in.TermYears.Mul(decimal.NewFromInt(12)).Round(0).IntPart())
	grace := int(in.GraceYears.Mul(decimal.NewFromInt(12)).Round(0).IntPart())
	return total - grace
}
