package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"stockbot/internal/model"
)

type fakeGen struct {
	reply   string
	err     error
	prompts []string
}

func (f *fakeGen) Generate(_ context.Context, _, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.reply, f.err
}

func TestNewsCommentary(t *testing.T) {
	ctx := context.Background()

	var nilAdvisor *Advisor
	assert.Equal(t, model.StatusUnavailable, nilAdvisor.NewsCommentary(ctx, "Asha", "TCS.NS", []string{"x"}).Status)
	assert.Equal(t, model.StatusUnavailable, (&Advisor{}).NewsCommentary(ctx, "Asha", "TCS.NS", []string{"x"}).Status)

	gen := &fakeGen{reply: "Likely to lift TCS today."}
	a := &Advisor{Gen: gen}

	assert.Equal(t, model.StatusNoAction, a.NewsCommentary(ctx, "Asha", "TCS.NS", nil).Status)
	assert.Empty(t, gen.prompts, "no model call without headlines")

	c := a.NewsCommentary(ctx, "Asha", "TCS.NS", []string{"Q2 beat", "Buyback"})
	assert.Equal(t, model.StatusOK, c.Status)
	assert.Equal(t, "Likely to lift TCS today.", c.Text)
	assert.Contains(t, gen.prompts[0], "- Q2 beat\n- Buyback")

	gen.err = errors.New("quota")
	assert.Equal(t, model.StatusUnavailable, a.NewsCommentary(ctx, "Asha", "TCS.NS", []string{"x"}).Status)
}

func TestExpertAdvice(t *testing.T) {
	ctx := context.Background()
	snap := &model.PortfolioSnapshot{
		Holder:  "Ravi",
		TotalPL: decimal.RequireFromString("1200.5"),
		Results: []model.EvaluationResult{{
			Ticker:       "ITC.NS",
			Quantity:     decimal.NewFromInt(10),
			AveragePrice: decimal.NewFromInt(400),
			LivePrice:    decimal.RequireFromString("520.05"),
			ProfitLoss:   decimal.RequireFromString("1200.5"),
		}},
	}

	gen := &fakeGen{reply: "Hold ITC; consider booking a part above 25%."}
	c := (&Advisor{Gen: gen}).ExpertAdvice(ctx, snap)
	assert.Equal(t, model.StatusOK, c.Status)
	assert.Contains(t, gen.prompts[0], "Total P&L: Rs 1200.50")
	assert.Contains(t, gen.prompts[0], "ITC.NS: qty 10, avg 400.00, live 520.05")

	empty := &model.PortfolioSnapshot{Holder: "Ravi"}
	assert.Equal(t, model.StatusUnavailable, (&Advisor{Gen: gen}).ExpertAdvice(ctx, empty).Status)

	gen.reply = ""
	assert.Equal(t, model.StatusUnavailable, (&Advisor{Gen: gen}).ExpertAdvice(ctx, snap).Status)
}
