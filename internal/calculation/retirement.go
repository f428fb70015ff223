package calculation

import (
	"fmt"

	"github.com/planwell/fincore/internal/domain"
	"github.com/shopspring/decimal"
)

// activePlan is the live state of one financial plan between activation and
// liquidation.
type activePlan struct {
	plan          domain.FinancialPlan
	balance       decimal.Decimal
	monthsElapsed int
}

func (ap *activePlan) contributionDue() bool {
	return ap.plan.MonthlyContribution.IsPositive() &&
		ap.monthsElapsed < ap.plan.DurationYears*monthsPerYear
}

// simulationState is owned by exactly one RunSimulation call and discarded
// with it. Active plan sets are filtered copies, never shared across runs.
type simulationState struct {
	mainBalance decimal.Decimal
	plans       []*activePlan
	dividends   []domain.DividendPlan

	insufficientAges []float64
	firstNegativeAge *float64
	lockedShortfall  *float64
}

func (st *simulationState) totalBalance() decimal.Decimal {
	total := st.mainBalance
	for _, ap := range st.plans {
		total = total.Add(ap.balance)
	}
	for _, dp := range st.dividends {
		total = total.Add(dp.Principal)
	}
	return total
}

// lockedReallocatedPrincipal sums the principal of active dividend plans
// that were funded out of the main balance.
func (st *simulationState) lockedReallocatedPrincipal() decimal.Decimal {
	total := decimal.Zero
	for _, dp := range st.dividends {
		if dp.Funding == domain.FundingReallocate {
			total = total.Add(dp.Principal)
		}
	}
	return total
}

// RunSimulation steps a retirement scenario one month at a time from the
// current age to age 120 or depletion, whichever comes first. All
// preconditions are checked before the first step; mid-run reallocation
// shortfalls follow the requested mode (strict aborts, lenient records the
// age and skips the event).
func RunSimulation(in domain.SimulationInput) (*domain.SimulationResult, error) {
	if err := validateSimulation(in); err != nil {
		return nil, err
	}
	mode := in.Mode
	if mode == "" {
		mode = domain.ModeLenient
	}

	st := &simulationState{mainBalance: in.CurrentPrincipal}
	result := &domain.SimulationResult{
		InsufficientFundingAges: []float64{},
	}

	one := decimal.NewFromInt(1)
	inflationGrowth := one.Add(in.InflationRate)
	// The living cost carried into retirement is today's cost inflated over
	// the accumulation years; it then steps up once per full year retired.
	costAtRetirement := in.MonthlyLivingCost.Mul(decimalPow(inflationGrowth, float64(in.RetirementAge-in.CurrentAge)))
	result.RetirementMonthlyLivingCost = costAtRetirement

	startMonths := in.CurrentAge * monthsPerYear
	retirementMonths := in.RetirementAge * monthsPerYear
	endMonths := domain.MaxSimulationAge * monthsPerYear

	for ageMonths := startMonths; ageMonths <= endMonths; ageMonths++ {
		age := float64(ageMonths) / monthsPerYear

		// 1. Monthly contributions into active plans.
		for _, ap := range st.plans {
			if !ap.contributionDue() {
				ap.monthsElapsed++
				continue
			}
			ap.monthsElapsed++
			if ap.plan.Funding == domain.FundingReallocate {
				if st.mainBalance.LessThan(ap.plan.MonthlyContribution) {
					if mode == domain.ModeStrict {
						return nil, domain.NewInsufficientFundsError(ap.plan.ID,
							fmt.Sprintf("monthly contribution unfundable at age %.2f", age))
					}
					st.insufficientAges = append(st.insufficientAges, age)
					continue
				}
				st.mainBalance = st.mainBalance.Sub(ap.plan.MonthlyContribution)
			}
			ap.balance = ap.balance.Add(ap.plan.MonthlyContribution)
		}

		// 2. Dividend payouts into the main balance.
		monthlyDividends := decimal.Zero
		for _, dp := range st.dividends {
			payout := dp.Principal.Mul(dp.AnnualReturnRate).Div(decimal.NewFromInt(monthsPerYear))
			monthlyDividends = monthlyDividends.Add(payout)
		}
		st.mainBalance = st.mainBalance.Add(monthlyDividends)

		// 3. Inflation-stepped living cost withdrawal once retired.
		livingCost := decimal.Zero
		if ageMonths > retirementMonths {
			yearsRetired := (ageMonths - retirementMonths) / monthsPerYear
			livingCost = costAtRetirement.Mul(decimalPow(inflationGrowth, float64(yearsRetired)))
			st.mainBalance = st.mainBalance.Sub(livingCost)
			if st.firstNegativeAge == nil && st.mainBalance.LessThanOrEqual(decimal.Zero) {
				a := age
				st.firstNegativeAge = &a
			}
		}

		// 4. Whole-age boundary events.
		if ageMonths%monthsPerYear == 0 {
			wholeAge := ageMonths / monthsPerYear
			if err := st.applyBoundary(in, mode, wholeAge); err != nil {
				return nil, err
			}
			result.CashFlow = append(result.CashFlow, domain.CashFlowPoint{
				Age:               wholeAge,
				MonthlyCash:       monthlyDividends,
				MonthlyLivingCost: livingCost,
			})
			if wholeAge == in.RetirementAge {
				result.RetirementTotalAssets = st.totalBalance()
			}
		}

		total := st.totalBalance()
		result.Chart = append(result.Chart, domain.BalancePoint{Age: age, Balance: total})

		if st.lockedShortfall == nil {
			if locked := st.lockedReallocatedPrincipal(); locked.IsPositive() && total.LessThan(locked) {
				a := age
				st.lockedShortfall = &a
			}
		}
		if total.LessThanOrEqual(decimal.Zero) && ageMonths > startMonths {
			break
		}
	}

	result.InsufficientFundingAges = append(result.InsufficientFundingAges, st.insufficientAges...)
	if st.lockedShortfall != nil {
		result.InsufficientFundingAges = append(result.InsufficientFundingAges, *st.lockedShortfall)
	}
	result.FirstNegativeBalanceAge = st.firstNegativeAge
	return result, nil
}

// applyBoundary runs the whole-age events in their fixed order: compound,
// liquidate, activate plans, return dividends, activate dividends.
func (st *simulationState) applyBoundary(in domain.SimulationInput, mode domain.SimulationMode, wholeAge int) error {
	one := decimal.NewFromInt(1)

	// (a) Annual compounding, only through the retirement age.
	if wholeAge <= in.RetirementAge {
		for _, ap := range st.plans {
			ap.balance = ap.balance.Mul(one.Add(ap.plan.AnnualReturnRate))
		}
	}

	// (b) Liquidate plans reaching their end age.
	kept := st.plans[:0]
	for _, ap := range st.plans {
		if ap.plan.EndAge() == wholeAge {
			st.mainBalance = st.mainBalance.Add(ap.balance)
			continue
		}
		kept = append(kept, ap)
	}
	st.plans = kept

	// (c) Activate plans starting at this age.
	for _, plan := range in.Plans {
		if plan.StartAge != wholeAge {
			continue
		}
		ap := &activePlan{plan: plan}
		if plan.LumpSum.IsPositive() {
			if plan.Funding == domain.FundingReallocate {
				if st.mainBalance.LessThan(plan.LumpSum) {
					if mode == domain.ModeStrict {
						return domain.NewInsufficientFundsError(plan.ID,
							fmt.Sprintf("lump sum unfundable at age %d", wholeAge))
					}
					// The lump transfer is skipped; the plan still takes
					// monthly contributions from here on.
					st.insufficientAges = append(st.insufficientAges, float64(wholeAge))
					st.plans = append(st.plans, ap)
					continue
				}
				st.mainBalance = st.mainBalance.Sub(plan.LumpSum)
			}
			ap.balance = plan.LumpSum
		}
		st.plans = append(st.plans, ap)
	}

	// (d) Return dividend principal the year after the plan ends.
	keptDividends := st.dividends[:0]
	for _, dp := range st.dividends {
		if dp.EndAge+1 == wholeAge {
			st.mainBalance = st.mainBalance.Add(dp.Principal)
			continue
		}
		keptDividends = append(keptDividends, dp)
	}
	st.dividends = keptDividends

	// (e) Activate dividend plans starting at this age.
	for _, dp := range in.Dividends {
		if dp.StartAge != wholeAge {
			continue
		}
		if dp.Funding == domain.FundingReallocate {
			if st.mainBalance.LessThan(dp.Principal) {
				if mode == domain.ModeStrict {
					return domain.NewInsufficientFundsError(dp.ID,
						fmt.Sprintf("dividend principal unfundable at age %d", wholeAge))
				}
				st.insufficientAges = append(st.insufficientAges, float64(wholeAge))
				continue
			}
			st.mainBalance = st.mainBalance.Sub(dp.Principal)
		}
		st.dividends = append(st.dividends, dp)
	}
	return nil
}

// validateSimulation checks every precondition before a single step runs.
func validateSimulation(in domain.SimulationInput) error {
	var missing []string
	if in.CurrentAge <= 0 {
		missing = append(missing, "currentAge")
	}
	if in.RetirementAge <= 0 {
		missing = append(missing, "retirementAge")
	}
	if in.MonthlyLivingCost.LessThanOrEqual(decimal.Zero) {
		missing = append(missing, "monthlyLivingCost")
	}
	if in.InflationRate.IsNegative() {
		missing = append(missing, "inflationRate")
	}
	if in.CurrentPrincipal.IsNegative() {
		missing = append(missing, "currentPrincipal")
	}
	if len(missing) > 0 {
		return domain.NewMissingFieldError(missing...)
	}
	if in.RetirementAge <= in.CurrentAge {
		return domain.NewInvalidRangeError("retirement age must be greater than current age")
	}
	if in.RetirementAge > domain.MaxSimulationAge {
		return domain.NewInvalidRangeError("retirement age exceeds the simulation horizon")
	}
	if in.Mode != "" && in.Mode != domain.ModeStrict && in.Mode != domain.ModeLenient {
		return domain.NewInvalidRangeError("mode must be strict or lenient")
	}

	for _, plan := range in.Plans {
		if !plan.LumpSum.IsPositive() && !plan.MonthlyContribution.IsPositive() {
			return domain.NewMissingFieldError("lumpSum", "monthlyContribution")
		}
		if plan.LumpSum.IsNegative() || plan.MonthlyContribution.IsNegative() ||
			plan.AnnualReturnRate.IsNegative() {
			return domain.NewInvalidRangeError(fmt.Sprintf("plan %s has negative amounts", plan.ID))
		}
		if plan.StartAge < in.CurrentAge {
			return domain.NewInvalidRangeError(fmt.Sprintf("plan %s starts before the current age", plan.ID))
		}
		if plan.DurationYears <= 0 {
			return domain.NewInvalidRangeError(fmt.Sprintf("plan %s needs a positive duration", plan.ID))
		}
		if plan.Funding != domain.FundingExtra && plan.Funding != domain.FundingReallocate {
			return domain.NewInvalidRangeError(fmt.Sprintf("plan %s has an unknown funding source", plan.ID))
		}
	}

	for i, dp := range in.Dividends {
		if !dp.Principal.IsPositive() {
			return domain.NewMissingFieldError("principal")
		}
		if dp.AnnualReturnRate.IsNegative() {
			return domain.NewInvalidRangeError(fmt.Sprintf("dividend plan %s has a negative return rate", dp.ID))
		}
		if dp.StartAge < in.CurrentAge {
			return domain.NewInvalidRangeError(fmt.Sprintf("dividend plan %s starts before the current age", dp.ID))
		}
		if dp.EndAge < dp.StartAge {
			return domain.NewInvalidRangeError(fmt.Sprintf("dividend plan %s ends before it starts", dp.ID))
		}
		if dp.Funding != domain.FundingExtra && dp.Funding != domain.FundingReallocate {
			return domain.NewInvalidRangeError(fmt.Sprintf("dividend plan %s has an unknown funding source", dp.ID))
		}
		for _, other := range in.Dividends[i+1:] {
			if dp.Overlaps(other) {
				return domain.NewInvalidRangeError(
					fmt.Sprintf("dividend plans %s and %s have overlapping age ranges", dp.ID, other.ID))
			}
		}
	}
	return nil
}
