package output

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
	"github.com/planwell/fincore/internal/domain"
)

// SchedulePDF produces a printable amortization schedule.
func SchedulePDF(name string, rows []domain.AmortizationRow) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 10, "Amortization Schedule: "+name, "", 1, "L", false, 0, "")
	pdf.Ln(2)

	widths := []float64{15, 35, 35, 35, 35, 35}
	headers := []string{"Month", "Principal", "Interest", "Payment", "Remaining", "Cum. Interest"}
	pdf.SetFont("Helvetica", "B", 9)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 8)
	for _, row := range rows {
		cells := []string{
			fmt.Sprintf("%d", row.Period),
			row.PrincipalPaid.StringFixed(2),
			row.InterestPaid.StringFixed(2),
			row.Payment.StringFixed(2),
			row.RemainingPrincipal.StringFixed(2),
			row.CumulativeInterest.StringFixed(2),
		}
		for i, cell := range cells {
			align := "R"
			if i == 0 {
				align = "C"
			}
			pdf.CellFormat(widths[i], 6, cell, "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render schedule PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// SimulationPDF produces a printable retirement projection report with the
// summary block and the yearly cash flow table.
func SimulationPDF(res *domain.SimulationResult) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 10, "Retirement Projection", "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, "Total assets at retirement: "+res.RetirementTotalAssets.StringFixed(0), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, "Monthly living cost at retirement: "+res.RetirementMonthlyLivingCost.StringFixed(0), "", 1, "L", false, 0, "")
	if res.FirstNegativeBalanceAge != nil {
		pdf.SetTextColor(200, 0, 0)
		pdf.CellFormat(0, 6, fmt.Sprintf("Funds run out at age %.1f", *res.FirstNegativeBalanceAge), "", 1, "L", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
	}
	pdf.Ln(4)

	widths := []float64{25, 55, 55}
	headers := []string{"Age", "Monthly Cash", "Living Cost"}
	pdf.SetFont("Helvetica", "B", 9)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 8)
	for _, point := range res.CashFlow {
		pdf.CellFormat(widths[0], 6, fmt.Sprintf("%d", point.Age), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[1], 6, point.MonthlyCash.StringFixed(0), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[2], 6, point.MonthlyLivingCost.StringFixed(0), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render simulation PDF: %w", err)
	}
	return buf.Bytes(), nil
}
