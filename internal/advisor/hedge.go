package advisor

import (
	"errors"

	"github.com/shopspring/decimal"

	"stockbot/internal/calculator"
	"stockbot/internal/model"
)

// Hedge recommends moving a share of the portfolio into a defensive instrument after
// a sharp fall of the index over the week window.
func Hedge(totalValue decimal.Decimal, market *model.MarketContext, s Settings) model.HedgeAdvice {
	if market == nil || market.Err != nil || market.WeekErr != nil {
		return model.HedgeAdvice{Status: model.StatusUnavailable}
	}
	change, err := calculator.WindowChange(market.Week)
	switch {
	case errors.Is(err, calculator.ErrInsufficientData):
		return model.HedgeAdvice{Status: model.StatusInsufficientData}
	case err != nil:
		return model.HedgeAdvice{Status: model.StatusUndefined}
	}

	advice := model.HedgeAdvice{Status: model.StatusNoAction, MarketChange: change}
	if change < s.HedgeTriggerPct {
		advice.Status = model.StatusOK
		advice.Amount = totalValue.Mul(s.HedgeRatio)
		advice.Instrument = s.HedgeInstrument
	}
	return advice
}
