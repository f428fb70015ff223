package output

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/planwell/fincore/internal/domain"
)

// ScheduleCSV writes an amortization schedule, one row per month.
func ScheduleCSV(rows []domain.AmortizationRow) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Period", "PrincipalPaid", "InterestPaid", "Payment", "RemainingPrincipal", "CumulativeInterest"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, row := range rows {
		record := []string{
			strconv.Itoa(row.Period),
			row.PrincipalPaid.StringFixed(2),
			row.InterestPaid.StringFixed(2),
			row.Payment.StringFixed(2),
			row.RemainingPrincipal.StringFixed(2),
			row.CumulativeInterest.StringFixed(2),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// SimulationCSV writes the monthly balance series of a simulation run.
func SimulationCSV(res *domain.SimulationResult) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.Write([]string{"Age", "TotalBalance"}); err != nil {
		return nil, err
	}
	for _, point := range res.Chart {
		record := []string{
			strconv.FormatFloat(point.Age, 'f', 4, 64),
			point.Balance.StringFixed(2),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
