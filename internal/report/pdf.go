package report

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"stockbot/internal/model"
)

var (
	columns = []string{"Date", "Ticker", "Qty", "Avg", "Live", "P&L", "P&L%"}
	widths  = []float64{27, 27, 20, 28, 28, 30, 30}
	hundred = decimal.NewFromInt(100)
)

// PercentChange is (live - avg) / avg × 100 rounded to 2 places; zero when avg is zero.
func PercentChange(r model.EvaluationResult) decimal.Decimal {
	if r.AveragePrice.IsZero() {
		return decimal.Zero
	}
	return r.LivePrice.Sub(r.AveragePrice).Div(r.AveragePrice).Mul(hundred).Round(2)
}

// WritePDF renders the holdings table and both charts to dir/<prefix>_report.pdf.
// A chart that cannot be drawn is left out; the table is always written.
func WritePDF(snap *model.PortfolioSnapshot, dir, prefix string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}
	path := filepath.Join(dir, prefix+"_report.pdf")

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetHeaderFunc(func() {
		pdf.SetFont("Helvetica", "B", 16)
		pdf.CellFormat(0, 10, "Advanced Portfolio Report", "", 1, "C", false, 0, "")
		pdf.Ln(5)
	})
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 10, "Report for: "+snap.Holder, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 10, "Date: "+snap.RunAt.Format("2006-01-02 15:04"), "", 1, "L", false, 0, "")
	pdf.Ln(5)

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(52, 152, 219)
	pdf.SetTextColor(255, 255, 255)
	for i, c := range columns {
		pdf.CellFormat(widths[i], 10, c, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	date := snap.RunAt.Format("2006-01-02")
	for _, r := range snap.Results {
		if r.ProfitLoss.IsNegative() {
			pdf.SetTextColor(255, 0, 0)
		} else {
			pdf.SetTextColor(0, 128, 0)
		}
		cells := []string{
			date,
			r.Ticker,
			r.Quantity.String(),
			model.Amount(r.AveragePrice),
			model.Amount(r.LivePrice),
			model.Amount(r.ProfitLoss),
			PercentChange(r).StringFixed(2) + "%",
		}
		for i, c := range cells {
			pdf.CellFormat(widths[i], 10, c, "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(10)

	y := pdf.GetY()
	if png, err := AllocationPie(snap.Results); err != nil {
		log.WithField("holder", snap.Holder).Warnf("skip pie chart: %v", err)
	} else {
		placeImage(pdf, "pie", png, 10, y)
	}
	if png, err := ProfitLossBars(snap.Results); err != nil {
		log.WithField("holder", snap.Holder).Warnf("skip bar chart: %v", err)
	} else {
		placeImage(pdf, "bars", png, 105, y)
	}

	if err := pdf.OutputFileAndClose(path); err != nil {
		return "", fmt.Errorf("write pdf: %w", err)
	}
	return path, nil
}

func placeImage(pdf *fpdf.Fpdf, name string, png []byte, x, y float64) {
	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(png))
	pdf.ImageOptions(name, x, y, 90, 0, false, opts, 0, "")
}
