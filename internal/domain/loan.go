package domain

import "github.com/shopspring/decimal"

// RepaymentMethod selects how loan principal is retired.
type RepaymentMethod string

const (
	// EqualPayment keeps the monthly payment fixed; the principal portion
	// grows as interest shrinks.
	EqualPayment RepaymentMethod = "equal_payment"
	// EqualPrincipal retires the same principal every month; the payment
	// strictly decreases over the term.
	EqualPrincipal RepaymentMethod = "equal_principal"
)

// LoanInput carries the inputs for an amortization schedule or a loan
// inverse solve. Rates are decimal fractions, terms are in years.
type LoanInput struct {
	Principal       decimal.Decimal  `json:"principal" yaml:"principal"`
	AnnualRate      decimal.Decimal  `json:"annualRate" yaml:"annual_rate"`
	TermYears       decimal.Decimal  `json:"termYears" yaml:"term_years"`
	GraceYears      decimal.Decimal  `json:"graceYears" yaml:"grace_years"`
	Method          RepaymentMethod  `json:"method" yaml:"method"`
	PaymentOverride *decimal.Decimal `json:"paymentOverride,omitempty" yaml:"payment_override,omitempty"`
}

// Validate checks the constraints common to schedule generation and the
// loan inverse solvers.
func (in LoanInput) Validate() error {
	var missing []string
	if in.Principal.LessThanOrEqual(decimal.Zero) {
		missing = append(missing, "principal")
	}
	if in.AnnualRate.IsNegative() {
		missing = append(missing, "annualRate")
	}
	if in.TermYears.LessThanOrEqual(decimal.Zero) {
		missing = append(missing, "termYears")
	}
	if len(missing) > 0 {
		return NewMissingFieldError(missing...)
	}
	if in.GraceYears.IsNegative() {
		return NewInvalidRangeError("graceYears cannot be negative")
	}
	if in.GraceYears.GreaterThanOrEqual(in.TermYears) {
		return NewInvalidRangeError("grace period must be shorter than the loan term")
	}
	if in.Method != EqualPayment && in.Method != EqualPrincipal {
		return NewInvalidRangeError("method must be equal_payment or equal_principal")
	}
	return nil
}

// AmortizationRow is one month of a loan schedule. Rows are generated once
// and consumed read-only.
type AmortizationRow struct {
	Period             int             `json:"period"`
	PrincipalPaid      decimal.Decimal `json:"principalPaid"`
	InterestPaid       decimal.Decimal `json:"interestPaid"`
	Payment            decimal.Decimal `json:"payment"`
	RemainingPrincipal decimal.Decimal `json:"remainingPrincipal"`
	CumulativeInterest decimal.Decimal `json:"cumulativeInterest"`
}

// LoanSolveResult is the outcome of inverting the amortization formulas for
// loan amount, term or rate.
type LoanSolveResult struct {
	Value         decimal.Decimal `json:"value"`
	TotalPayment  decimal.Decimal `json:"totalPayment"`
	TotalInterest decimal.Decimal `json:"totalInterest"`
	Valid         bool            `json:"valid"`
}

// InvalidLoanSolve is the canonical not-valid loan result.
func InvalidLoanSolve() LoanSolveResult {
	return LoanSolveResult{Valid: false}
}
