package portfolio

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"stockbot/internal/model"
)

// ErrNoHoldings means the holdings table is absent or empty; the run cannot proceed.
var ErrNoHoldings = errors.New("no holdings table")

type holdingRow struct {
	Holder   string `csv:"Holder"`
	Ticker   string `csv:"Ticker"`
	Qty      string `csv:"Qty"`
	AvgPrice string `csv:"Avg_Price"`
	BuyDate  string `csv:"Buy_Date"`
}

// LoadHoldings reads the holdings CSV. Rows with unparseable numbers are skipped with a warning;
// buy dates are kept verbatim so the tax estimator can report a date error for that holding only.
func LoadHoldings(path string) ([]model.Holding, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoHoldings, err)
	}
	defer f.Close()

	var rows []*holdingRow
	if err := gocsv.Unmarshal(f, &rows); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", ErrNoHoldings, path, err)
	}

	holdings := make([]model.Holding, 0, len(rows))
	for i, r := range rows {
		entry := log.WithFields(log.Fields{"row": i + 2, "ticker": r.Ticker})
		if strings.TrimSpace(r.Ticker) == "" || strings.TrimSpace(r.Holder) == "" {
			entry.Warn("skipping holding without holder or ticker")
			continue
		}
		qty, err := decimal.NewFromString(strings.TrimSpace(r.Qty))
		if err != nil {
			entry.Warnf("skipping holding, bad quantity %q: %v", r.Qty, err)
			continue
		}
		avg, err := decimal.NewFromString(strings.TrimSpace(r.AvgPrice))
		if err != nil {
			entry.Warnf("skipping holding, bad average price %q: %v", r.AvgPrice, err)
			continue
		}
		holdings = append(holdings, model.Holding{
			Holder:       strings.TrimSpace(r.Holder),
			Ticker:       strings.TrimSpace(r.Ticker),
			Quantity:     qty,
			AveragePrice: avg,
			BuyDate:      strings.TrimSpace(r.BuyDate),
		})
	}
	if len(holdings) == 0 {
		return nil, fmt.Errorf("%w: %s has no usable rows", ErrNoHoldings, path)
	}
	return holdings, nil
}

// ForHolder returns the holdings owned by name, in file order.
func ForHolder(holdings []model.Holding, name string) []model.Holding {
	var out []model.Holding
	for _, h := range holdings {
		if h.Holder == name {
			out = append(out, h)
		}
	}
	return out
}
