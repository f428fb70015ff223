package domain

import "github.com/shopspring/decimal"

// MaxSimulationAge bounds every simulation horizon.
const MaxSimulationAge = 120

// FundingSource says where a plan's money comes from when it activates.
type FundingSource string

const (
	// FundingExtra injects new outside money; the main balance is untouched.
	FundingExtra FundingSource = "extra"
	// FundingReallocate draws the plan's funding from the main balance.
	FundingReallocate FundingSource = "reallocate"
)

// SimulationMode controls how a reallocation that cannot be funded is
// handled mid-run.
type SimulationMode string

const (
	// ModeStrict aborts the run on the first unfundable reallocation. Used
	// when validating a single plan edit before accepting it.
	ModeStrict SimulationMode = "strict"
	// ModeLenient records the age, skips the event and keeps simulating so
	// partial results remain informative. Used by the main projection action.
	ModeLenient SimulationMode = "lenient"
)

// FinancialPlan is a lump-sum and/or recurring investment plan. It activates
// when the simulated age reaches StartAge, receives monthly contributions
// for DurationYears, compounds once per whole simulated year, and
// liquidates back into the main balance at EndAge.
type FinancialPlan struct {
	ID                  string          `json:"id" yaml:"id"`
	Funding             FundingSource   `json:"funding" yaml:"funding"`
	LumpSum             decimal.Decimal `json:"lumpSum" yaml:"lump_sum"`
	MonthlyContribution decimal.Decimal `json:"monthlyContribution" yaml:"monthly_contribution"`
	StartAge            int             `json:"startAge" yaml:"start_age"`
	DurationYears       int             `json:"durationYears" yaml:"duration_years"`
	AnnualReturnRate    decimal.Decimal `json:"annualReturnRate" yaml:"annual_return_rate"`
}

// EndAge is the whole age at which the plan liquidates.
func (p FinancialPlan) EndAge() int {
	return p.StartAge + p.DurationYears
}

// DividendPlan locks a principal from StartAge through EndAge (inclusive)
// and pays principal*rate/12 into the main balance every month while
// active. The principal returns to the main balance at EndAge+1.
type DividendPlan struct {
	ID               string          `json:"id" yaml:"id"`
	Funding          FundingSource   `json:"funding" yaml:"funding"`
	Principal        decimal.Decimal `json:"principal" yaml:"principal"`
	StartAge         int             `json:"startAge" yaml:"start_age"`
	EndAge           int             `json:"endAge" yaml:"end_age"`
	AnnualReturnRate decimal.Decimal `json:"annualReturnRate" yaml:"annual_return_rate"`
}

// Overlaps reports whether the inclusive age intervals of two dividend
// plans intersect. The whole set must be pairwise non-overlapping.
func (p DividendPlan) Overlaps(other DividendPlan) bool {
	return p.StartAge <= other.EndAge && other.StartAge <= p.EndAge
}

// SimulationInput carries every input of a retirement simulation run. The
// engine holds no state between calls; two runs with equal inputs produce
// equal results.
type SimulationInput struct {
	CurrentAge        int             `json:"currentAge" yaml:"current_age"`
	RetirementAge     int             `json:"retirementAge" yaml:"retirement_age"`
	MonthlyLivingCost decimal.Decimal `json:"monthlyLivingCost" yaml:"monthly_living_cost"`
	InflationRate     decimal.Decimal `json:"inflationRate" yaml:"inflation_rate"`
	CurrentPrincipal  decimal.Decimal `json:"currentPrincipal" yaml:"current_principal"`
	Plans             []FinancialPlan `json:"plans" yaml:"plans"`
	Dividends         []DividendPlan  `json:"dividends" yaml:"dividends"`
	Mode              SimulationMode  `json:"mode" yaml:"mode"`
}

// CashFlowPoint is one whole-age sample of monthly cash in versus the
// living cost in effect at that age.
type CashFlowPoint struct {
	Age               int             `json:"age"`
	MonthlyCash       decimal.Decimal `json:"monthlyCash"`
	MonthlyLivingCost decimal.Decimal `json:"monthlyLivingCost"`
}

// BalancePoint is one monthly sample of total assets.
type BalancePoint struct {
	Age     float64         `json:"age"`
	Balance decimal.Decimal `json:"balance"`
}

// SimulationResult is the complete outcome of one simulation run.
type SimulationResult struct {
	RetirementTotalAssets       decimal.Decimal `json:"retirementTotalAssets"`
	RetirementMonthlyLivingCost decimal.Decimal `json:"retirementMonthlyLivingCost"`
	CashFlow                    []CashFlowPoint `json:"cashFlowSeries"`
	Chart                       []BalancePoint  `json:"chartSeries"`
	InsufficientFundingAges     []float64       `json:"insufficientFundingAges"`
	FirstNegativeBalanceAge     *float64        `json:"firstNegativeBalanceAge"`
}
