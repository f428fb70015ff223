// Package output renders engine results for the console, CSV export and
// printable PDF reports. It never mutates results; every formatter takes a
// finished value and produces bytes.
package output

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/planwell/fincore/internal/domain"
	"github.com/shopspring/decimal"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12")).
			MarginBottom(1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("8"))

	invalidStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("9"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))
)

// FormatSolve renders a single scalar solve outcome.
func FormatSolve(name string, res domain.SolveResult) string {
	if !res.Valid {
		return fmt.Sprintf("%s: %s\n", name, invalidStyle.Render("no valid solution"))
	}
	return fmt.Sprintf("%s: %s\n", name, valueStyle.Render(res.Value.StringFixed(2)))
}

// FormatLoanSolve renders a loan inverse solve with its totals.
func FormatLoanSolve(name string, res domain.LoanSolveResult) string {
	if !res.Valid {
		return fmt.Sprintf("%s: %s\n", name, invalidStyle.Render("no valid solution"))
	}
	return fmt.Sprintf("%s: %s  (total payment %s, total interest %s)\n",
		name,
		valueStyle.Render(res.Value.StringFixed(4)),
		res.TotalPayment.StringFixed(2),
		res.TotalInterest.StringFixed(2))
}

// FormatSchedule renders a full amortization table.
func FormatSchedule(name string, rows []domain.AmortizationRow) string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("AMORTIZATION SCHEDULE: "+name) + "\n")
	if len(rows) == 0 {
		sb.WriteString("(no repayment months)\n")
		return sb.String()
	}

	sb.WriteString(headerStyle.Render(fmt.Sprintf("%6s %14s %14s %14s %16s %16s",
		"Month", "Principal", "Interest", "Payment", "Remaining", "Cum. Interest")) + "\n")
	sb.WriteString(strings.Repeat("-", 86) + "\n")
	for _, row := range rows {
		sb.WriteString(fmt.Sprintf("%6d %14s %14s %14s %16s %16s\n",
			row.Period,
			row.PrincipalPaid.StringFixed(2),
			row.InterestPaid.StringFixed(2),
			row.Payment.StringFixed(2),
			row.RemainingPrincipal.StringFixed(2),
			row.CumulativeInterest.StringFixed(2)))
	}

	last := rows[len(rows)-1]
	totalPayment := decimal.Zero
	for _, row := range rows {
		totalPayment = totalPayment.Add(row.Payment)
	}
	sb.WriteString(strings.Repeat("=", 86) + "\n")
	sb.WriteString(fmt.Sprintf("Total paid %s, total interest %s over %d months\n",
		totalPayment.StringFixed(2), last.CumulativeInterest.StringFixed(2), len(rows)))
	return sb.String()
}

// FormatSimulation renders the retirement projection summary and its
// yearly cash flow table.
func FormatSimulation(res *domain.SimulationResult) string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("RETIREMENT PROJECTION") + "\n")
	sb.WriteString(fmt.Sprintf("Total assets at retirement:      %s\n",
		valueStyle.Render(res.RetirementTotalAssets.StringFixed(0))))
	sb.WriteString(fmt.Sprintf("Monthly living cost at retirement: %s\n",
		res.RetirementMonthlyLivingCost.StringFixed(0)))
	if res.FirstNegativeBalanceAge != nil {
		sb.WriteString(invalidStyle.Render(
			fmt.Sprintf("Funds run out at age %.1f", *res.FirstNegativeBalanceAge)) + "\n")
	}
	for _, age := range res.InsufficientFundingAges {
		sb.WriteString(invalidStyle.Render(
			fmt.Sprintf("Insufficient funds for a reallocation at age %.1f", age)) + "\n")
	}

	sb.WriteString("\n" + headerStyle.Render(fmt.Sprintf("%5s %16s %16s", "Age", "Monthly Cash", "Living Cost")) + "\n")
	for _, point := range res.CashFlow {
		sb.WriteString(fmt.Sprintf("%5d %16s %16s\n",
			point.Age,
			point.MonthlyCash.StringFixed(0),
			point.MonthlyLivingCost.StringFixed(0)))
	}
	return sb.String()
}
