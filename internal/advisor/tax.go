package advisor

import (
	"time"

	"github.com/shopspring/decimal"

	"stockbot/internal/model"
)

const (
	longTermDays = 365
	dateLayout   = "2006-01-02"
)

var (
	shortTermRate = decimal.RequireFromString("0.20")
	longTermRate  = decimal.RequireFromString("0.125")
	ltcgExemption = decimal.NewFromInt(125000)
)

// EstimateTax applies STCG below a year of holding and LTCG above the exemption after that.
func EstimateTax(buyDate string, pl decimal.Decimal, now time.Time) model.TaxEstimate {
	if !pl.IsPositive() {
		return model.TaxEstimate{Status: model.StatusNoTax}
	}
	bought, err := time.ParseInLocation(dateLayout, buyDate, now.Location())
	if err != nil {
		return model.TaxEstimate{Status: model.StatusDateError}
	}
	days := int(now.Sub(bought).Hours() / 24)

	if days < longTermDays {
		return model.TaxEstimate{
			Status: model.StatusOK,
			Kind:   model.TaxShortTerm,
			Rate:   shortTermRate,
			Amount: pl.Mul(shortTermRate),
			Days:   days,
		}
	}
	taxable := decimal.Max(decimal.Zero, pl.Sub(ltcgExemption))
	return model.TaxEstimate{
		Status: model.StatusOK,
		Kind:   model.TaxLongTerm,
		Rate:   longTermRate,
		Amount: taxable.Mul(longTermRate),
		Days:   days,
	}
}
