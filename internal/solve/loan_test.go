package solve

import (
	"testing"

	"github.com/planwell/fincore/internal/calculation"
	"github.com/planwell/fincore/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loanInput(principal, rate, termYears, graceYears float64, method domain.RepaymentMethod) domain.LoanInput {
	return domain.LoanInput{
		Principal:  decimal.NewFromFloat(principal),
		AnnualRate: decimal.NewFromFloat(rate),
		TermYears:  decimal.NewFromFloat(termYears),
		GraceYears: decimal.NewFromFloat(graceYears),
		Method:     method,
	}
}

func TestSolveLoanAmountEqualPaymentRoundTrip(t *testing.T) {
	target := calculation.EqualMonthlyPayment(
		decimal.NewFromInt(100000), decimal.NewFromFloat(0.06), 120)

	res, err := SolveLoanAmount(loanInput(0, 0.06, 10, 0, domain.EqualPayment), target)
	require.NoError(t, err)
	require.True(t, res.Valid)
	assert.InDelta(t, 100000, res.Value.InexactFloat64(), 0.01)
	assert.True(t, res.TotalInterest.IsPositive())
	assert.True(t, res.TotalPayment.GreaterThan(res.Value))
}

func TestSolveLoanAmountEqualPrincipalRoundTrip(t *testing.T) {
	// First payment 240000/120 + 240000*0.05/12 = 3000 is the binding one.
	res, err := SolveLoanAmount(loanInput(0, 0.05, 10, 0, domain.EqualPrincipal),
		decimal.NewFromInt(3000))
	require.NoError(t, err)
	require.True(t, res.Valid)
	assert.InDelta(t, 240000, res.Value.InexactFloat64(), 0.01)
}

func TestSolveLoanAmountRejectsNonPositiveTarget(t *testing.T) {
	_, err := SolveLoanAmount(loanInput(0, 0.05, 10, 0, domain.EqualPayment), decimal.Zero)
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, domain.MissingField, verr.Kind)
	assert.Contains(t, verr.Fields, "targetPayment")
}

func TestSolveLoanTermEqualPaymentRoundTrip(t *testing.T) {
	target := calculation.EqualMonthlyPayment(
		decimal.NewFromInt(100000), decimal.NewFromFloat(0.06), 120)

	res, err := SolveLoanTerm(loanInput(100000, 0.06, 0, 0, domain.EqualPayment), target)
	require.NoError(t, err)
	require.True(t, res.Valid)
	assert.True(t, res.Value.Equal(decimal.NewFromInt(10)),
		"expected a 10 year term, got %s", res.Value)
}

func TestSolveLoanTermEqualPaymentIncludesGrace(t *testing.T) {
	target := calculation.EqualMonthlyPayment(
		decimal.NewFromInt(100000), decimal.NewFromFloat(0.06), 120)

	res, err := SolveLoanTerm(loanInput(100000, 0.06, 0, 2, domain.EqualPayment), target)
	require.NoError(t, err)
	require.True(t, res.Valid)
	assert.True(t, res.Value.Equal(decimal.NewFromInt(12)),
		"term should include the grace years, got %s", res.Value)
}

func TestSolveLoanTermEqualPrincipalRoundTrip(t *testing.T) {
	// n = 240000 / (3000 - 1000) = 120 months.
	res, err := SolveLoanTerm(loanInput(240000, 0.05, 0, 0, domain.EqualPrincipal),
		decimal.NewFromInt(3000))
	require.NoError(t, err)
	require.True(t, res.Valid)
	assert.True(t, res.Value.Equal(decimal.NewFromInt(10)),
		"expected a 10 year term, got %s", res.Value)
}

func TestSolveLoanTermInterestOnlyPaymentNeverAmortizes(t *testing.T) {
	// 100000 at 6% accrues 500 per month; a 500 payment can never repay it.
	res, err := SolveLoanTerm(loanInput(100000, 0.06, 0, 0, domain.EqualPayment),
		decimal.NewFromInt(500))
	require.NoError(t, err)
	assert.False(t, res.Valid)
}

func TestSolveLoanRateEqualPaymentRoundTrip(t *testing.T) {
	target := calculation.EqualMonthlyPayment(
		decimal.NewFromInt(100000), decimal.NewFromFloat(0.06), 120)

	res, err := SolveLoanRate(loanInput(100000, 0, 10, 0, domain.EqualPayment), target)
	require.NoError(t, err)
	require.True(t, res.Valid)
	assert.InDelta(t, 0.06, res.Value.InexactFloat64(), 1e-6)
	assert.True(t, res.TotalInterest.IsPositive())
}

func TestSolveLoanRateEqualPrincipalRoundTrip(t *testing.T) {
	res, err := SolveLoanRate(loanInput(240000, 0, 10, 0, domain.EqualPrincipal),
		decimal.NewFromInt(3000))
	require.NoError(t, err)
	require.True(t, res.Valid)
	assert.InDelta(t, 0.05, res.Value.InexactFloat64(), 1e-6)
}

func TestSolveLoanRateTargetOutsideSearchRange(t *testing.T) {
	// Below the zero-rate payment of 833.33.
	res, err := SolveLoanRate(loanInput(100000, 0, 10, 0, domain.EqualPayment),
		decimal.NewFromInt(500))
	require.NoError(t, err)
	assert.False(t, res.Valid)

	// Above the payment at the 20% search ceiling.
	res, err = SolveLoanRate(loanInput(100000, 0, 10, 0, domain.EqualPayment),
		decimal.NewFromInt(5000))
	require.NoError(t, err)
	assert.False(t, res.Valid)
}

func TestSolveLoanValidationPropagates(t *testing.T) {
	var verr *domain.ValidationError

	_, err := SolveLoanRate(loanInput(100000, 0, 10, 0, "bullet"), decimal.NewFromInt(1000))
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, domain.InvalidRange, verr.Kind)

	_, err = SolveLoanAmount(loanInput(0, -0.05, 10, 0, domain.EqualPayment), decimal.NewFromInt(1000))
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, domain.MissingField, verr.Kind)
}
