package analytics

import (
	"github.com/shopspring/decimal"

	"github.com/tradelens/analytics-backend/pkg/types"
)

// Drawdown holds peak-to-trough statistics of the cumulative P&L series.
type Drawdown struct {
	MaxDrawdown        decimal.Decimal
	MaxDrawdownPercent decimal.Decimal
	AvgDrawdown        decimal.Decimal
}

// DrawdownTracker analyses the running cumulative P&L against its peak.
type DrawdownTracker struct{}

// NewDrawdownTracker creates a new drawdown tracker.
func NewDrawdownTracker() *DrawdownTracker {
	return &DrawdownTracker{}
}

// Track walks the trade sequence in order, maintaining the cumulative P&L
// and its running peak. Each step's drawdown is peak minus running P&L,
// which is never negative since the peak never decreases.
// MaxDrawdownPercent is relative to the highest peak reached and is zero
// when the cumulative P&L never goes positive.
func (dt *DrawdownTracker) Track(trades []types.MatchedTrade) Drawdown {
	if len(trades) == 0 {
		return Drawdown{}
	}

	var runningPnL, peak, maxDrawdown, drawdownSum decimal.Decimal

	for _, trade := range trades {
		runningPnL = runningPnL.Add(trade.Profit)
		if runningPnL.GreaterThan(peak) {
			peak = runningPnL
		}

		drawdown := peak.Sub(runningPnL)
		drawdownSum = drawdownSum.Add(drawdown)
		if drawdown.GreaterThan(maxDrawdown) {
			maxDrawdown = drawdown
		}
	}

	result := Drawdown{
		MaxDrawdown: maxDrawdown,
		AvgDrawdown: drawdownSum.Div(decimal.NewFromInt(int64(len(trades)))),
	}
	if peak.IsPositive() {
		result.MaxDrawdownPercent = maxDrawdown.Div(peak).Mul(hundred)
	}

	return result
}
