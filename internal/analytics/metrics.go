// Package analytics computes trade-performance statistics and chart
// series from sequences of matched trades. Every calculator is a pure
// function of its input slice; no state survives between calls.
package analytics

import (
	"github.com/shopspring/decimal"

	"github.com/tradelens/analytics-backend/pkg/types"
)

var hundred = decimal.NewFromInt(100)

// Metrics holds the aggregate scalar statistics of one trade sequence.
type Metrics struct {
	TotalNetProfitLoss    decimal.Decimal
	GrossProfit           decimal.Decimal
	GrossLoss             decimal.Decimal
	TotalTrades           int
	WinningTrades         int
	LosingTrades          int
	WinRate               decimal.Decimal
	LossRate              decimal.Decimal
	ProfitFactor          types.ProfitFactor
	AvgProfitPerWin       decimal.Decimal
	AvgLossPerLoss        decimal.Decimal
	AvgProfitLossPerTrade decimal.Decimal
}

// MetricsCalculator calculates aggregate performance metrics.
type MetricsCalculator struct{}

// NewMetricsCalculator creates a new metrics calculator.
func NewMetricsCalculator() *MetricsCalculator {
	return &MetricsCalculator{}
}

// Calculate computes aggregate statistics in a single pass over the trade
// sequence. An empty sequence is valid and yields all-zero metrics.
// Trades with zero profit count toward TotalTrades but toward neither the
// win nor the loss bucket.
func (mc *MetricsCalculator) Calculate(trades []types.MatchedTrade) Metrics {
	m := Metrics{TotalTrades: len(trades)}

	for _, trade := range trades {
		m.TotalNetProfitLoss = m.TotalNetProfitLoss.Add(trade.Profit)

		if trade.Profit.IsPositive() {
			m.WinningTrades++
			m.GrossProfit = m.GrossProfit.Add(trade.Profit)
		} else if trade.Profit.IsNegative() {
			m.LosingTrades++
			m.GrossLoss = m.GrossLoss.Add(trade.Profit.Abs())
		}
	}

	if m.TotalTrades > 0 {
		total := decimal.NewFromInt(int64(m.TotalTrades))
		m.WinRate = decimal.NewFromInt(int64(m.WinningTrades)).Div(total).Mul(hundred)
		m.LossRate = decimal.NewFromInt(int64(m.LosingTrades)).Div(total).Mul(hundred)
		m.AvgProfitLossPerTrade = m.TotalNetProfitLoss.Div(total)
	}

	if m.WinningTrades > 0 {
		m.AvgProfitPerWin = m.GrossProfit.Div(decimal.NewFromInt(int64(m.WinningTrades)))
	}
	if m.LosingTrades > 0 {
		m.AvgLossPerLoss = m.GrossLoss.Div(decimal.NewFromInt(int64(m.LosingTrades)))
	}

	switch {
	case m.GrossLoss.IsPositive():
		m.ProfitFactor = types.FiniteProfitFactor(m.GrossProfit.Div(m.GrossLoss))
	case m.GrossProfit.IsPositive():
		m.ProfitFactor = types.UnboundedProfitFactor()
	default:
		m.ProfitFactor = types.FiniteProfitFactor(decimal.Zero)
	}

	return m
}
