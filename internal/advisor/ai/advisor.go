// Package ai asks a language model for short commentary on news and on a holder's portfolio.
package ai

import (
	"context"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"stockbot/internal/model"
)

const (
	newsSystem = `You are a calm Indian equity advisor speaking to a retail investor.
Answer in one short sentence. Say only whether the news is likely to lift or weigh on the stock.`

	expertSystem = `You are an experienced Indian stock market expert.
Given the holder's portfolio, answer in at most two lines whether to hold or to book profits.`
)

// Advisor wraps a Generator. A nil Advisor or Generator yields unavailable commentary.
type Advisor struct {
	Gen Generator
}

// NewsCommentary summarizes the impact of the latest headlines on ticker.
func (a *Advisor) NewsCommentary(ctx context.Context, holder, ticker string, headlines []string) model.Commentary {
	if a == nil || a.Gen == nil {
		return model.Commentary{Status: model.StatusUnavailable}
	}
	if len(headlines) == 0 {
		return model.Commentary{Status: model.StatusNoAction}
	}

	prompt := fmt.Sprintf("Investor: %s\nStock: %s\nLatest news:\n- %s",
		holder, ticker, strings.Join(headlines, "\n- "))
	text, err := a.Gen.Generate(ctx, newsSystem, prompt)
	if err != nil || text == "" {
		log.WithFields(log.Fields{"holder": holder, "ticker": ticker}).Warnf("news commentary failed: %v", err)
		return model.Commentary{Status: model.StatusUnavailable}
	}
	return model.Commentary{Status: model.StatusOK, Text: text}
}

// ExpertAdvice asks for a hold-or-book verdict on the evaluated portfolio.
func (a *Advisor) ExpertAdvice(ctx context.Context, snap *model.PortfolioSnapshot) model.Commentary {
	if a == nil || a.Gen == nil || len(snap.Results) == 0 {
		return model.Commentary{Status: model.StatusUnavailable}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Investor: %s\nTotal P&L: Rs %s\nDetails:\n", snap.Holder, snap.TotalPL.StringFixed(2))
	for _, r := range snap.Results {
		fmt.Fprintf(&b, "- %s: qty %s, avg %s, live %s, P&L Rs %s\n",
			r.Ticker, r.Quantity, r.AveragePrice.StringFixed(2), r.LivePrice.StringFixed(2), r.ProfitLoss.StringFixed(2))
	}

	text, err := a.Gen.Generate(ctx, expertSystem, b.String())
	if err != nil || text == "" {
		log.WithField("holder", snap.Holder).Warnf("expert advice failed: %v", err)
		return model.Commentary{Status: model.StatusUnavailable}
	}
	return model.Commentary{Status: model.StatusOK, Text: text}
}
