package output

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/planwell/fincore/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRows() []domain.AmortizationRow {
	return []domain.AmortizationRow{
		{
			Period:             1,
			PrincipalPaid:      decimal.NewFromFloat(610.21),
			InterestPaid:       decimal.NewFromInt(500),
			Payment:            decimal.NewFromFloat(1110.21),
			RemainingPrincipal: decimal.NewFromFloat(99389.79),
			CumulativeInterest: decimal.NewFromInt(500),
		},
		{
			Period:             2,
			PrincipalPaid:      decimal.NewFromFloat(613.26),
			InterestPaid:       decimal.NewFromFloat(496.95),
			Payment:            decimal.NewFromFloat(1110.21),
			RemainingPrincipal: decimal.NewFromFloat(98776.53),
			CumulativeInterest: decimal.NewFromFloat(996.95),
		},
	}
}

func sampleSimulation() *domain.SimulationResult {
	age := 66.5
	return &domain.SimulationResult{
		RetirementTotalAssets:       decimal.NewFromInt(1000000),
		RetirementMonthlyLivingCost: decimal.NewFromInt(90568),
		CashFlow: []domain.CashFlowPoint{
			{Age: 64, MonthlyCash: decimal.Zero, MonthlyLivingCost: decimal.Zero},
			{Age: 66, MonthlyCash: decimal.NewFromInt(3000), MonthlyLivingCost: decimal.NewFromInt(90568)},
		},
		Chart: []domain.BalancePoint{
			{Age: 64.0, Balance: decimal.NewFromInt(1000000)},
			{Age: 64.0833, Balance: decimal.NewFromInt(1000000)},
		},
		InsufficientFundingAges: []float64{45},
		FirstNegativeBalanceAge: &age,
	}
}

func TestFormatSolve(t *testing.T) {
	out := FormatSolve("college-fund", domain.SolveResult{
		Value: decimal.NewFromFloat(12345.678), Valid: true,
	})
	assert.Contains(t, out, "college-fund")
	assert.Contains(t, out, "12345.68")

	out = FormatSolve("college-fund", domain.InvalidSolve())
	assert.Contains(t, out, "no valid solution")
}

func TestFormatLoanSolve(t *testing.T) {
	out := FormatLoanSolve("mortgage-rate", domain.LoanSolveResult{
		Value:         decimal.NewFromFloat(0.045),
		TotalPayment:  decimal.NewFromInt(455484),
		TotalInterest: decimal.NewFromInt(155484),
		Valid:         true,
	})
	assert.Contains(t, out, "0.0450")
	assert.Contains(t, out, "455484.00")
	assert.Contains(t, out, "155484.00")

	out = FormatLoanSolve("mortgage-rate", domain.InvalidLoanSolve())
	assert.Contains(t, out, "no valid solution")
}

func TestFormatSchedule(t *testing.T) {
	out := FormatSchedule("mortgage", sampleRows())
	assert.Contains(t, out, "AMORTIZATION SCHEDULE: mortgage")
	assert.Contains(t, out, "610.21")
	assert.Contains(t, out, "996.95")
	assert.Contains(t, out, "over 2 months")

	empty := FormatSchedule("empty", nil)
	assert.Contains(t, empty, "(no repayment months)")
}

func TestFormatSimulation(t *testing.T) {
	out := FormatSimulation(sampleSimulation())
	assert.Contains(t, out, "RETIREMENT PROJECTION")
	assert.Contains(t, out, "1000000")
	assert.Contains(t, out, "Funds run out at age 66.5")
	assert.Contains(t, out, "Insufficient funds for a reallocation at age 45.0")
	assert.Contains(t, out, "90568")
}

func TestScheduleCSV(t *testing.T) {
	data, err := ScheduleCSV(sampleRows())
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "Period", records[0][0])
	assert.Equal(t, "1", records[1][0])
	assert.Equal(t, "610.21", records[1][1])
	assert.Equal(t, "996.95", records[2][5])
}

func TestSimulationCSV(t *testing.T) {
	data, err := SimulationCSV(sampleSimulation())
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"Age", "TotalBalance"}, records[0])
	assert.Equal(t, "64.0000", records[1][0])
	assert.Equal(t, "1000000.00", records[1][1])
}

func TestSchedulePDF(t *testing.T) {
	data, err := SchedulePDF("mortgage", sampleRows())
	require.NoError(t, err)
	require.NotEmpty(t, data)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")), "output should be a PDF document")
}

func TestSimulationPDF(t *testing.T) {
	data, err := SimulationPDF(sampleSimulation())
	require.NoError(t, err)
	require.NotEmpty(t, data)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")), "output should be a PDF document")
}
