package report

import (
	"bytes"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"stockbot/internal/model"
)

const (
	chartWidth  = 600
	chartHeight = 400
)

var (
	profitColor = drawing.ColorFromHex("66bb6a")
	lossColor   = drawing.ColorFromHex("ef5350")
)

// AllocationPie renders each holding's share of market value as a PNG.
func AllocationPie(results []model.EvaluationResult) ([]byte, error) {
	var values []chart.Value
	for _, r := range results {
		v := r.MarketValue().InexactFloat64()
		if v <= 0 {
			continue
		}
		values = append(values, chart.Value{Value: v, Label: r.Ticker})
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("allocation pie: no positive holdings")
	}

	pie := chart.PieChart{
		Title:  "Portfolio Distribution",
		Width:  chartWidth,
		Height: chartHeight,
		Values: values,
	}
	var buf bytes.Buffer
	if err := pie.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render pie: %w", err)
	}
	return buf.Bytes(), nil
}

// ProfitLossBars renders per-holding P/L as green and red bars around zero.
func ProfitLossBars(results []model.EvaluationResult) ([]byte, error) {
	if len(results) == 0 {
		return nil, fmt.Errorf("profit/loss bars: no holdings")
	}
	bars := make([]chart.Value, 0, len(results))
	allZero := true
	for _, r := range results {
		v := r.ProfitLoss.InexactFloat64()
		if v != 0 {
			allZero = false
		}
		color := profitColor
		if v < 0 {
			color = lossColor
		}
		bars = append(bars, chart.Value{
			Value: v,
			Label: r.Ticker,
			Style: chart.Style{FillColor: color, StrokeColor: color},
		})
	}
	if allZero {
		return nil, fmt.Errorf("profit/loss bars: every value is zero")
	}

	bc := chart.BarChart{
		Title:        "Profit & Loss (Rs.)",
		Width:        chartWidth,
		Height:       chartHeight,
		BarWidth:     40,
		UseBaseValue: true,
		BaseValue:    0,
		Bars:         bars,
	}
	var buf bytes.Buffer
	if err := bc.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render bars: %w", err)
	}
	return buf.Bytes(), nil
}
