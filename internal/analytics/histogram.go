package analytics

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/tradelens/analytics-backend/pkg/types"
)

// DefaultHistogramBins is the bin count used when none is configured.
const DefaultHistogramBins = 10

// HistogramBuilder bins profit/loss values into equal-width ranges.
type HistogramBuilder struct {
	bins int
}

// NewHistogramBuilder creates a histogram builder with the given bin
// count. Counts below one fall back to the default.
func NewHistogramBuilder(bins int) *HistogramBuilder {
	if bins < 1 {
		bins = DefaultHistogramBins
	}
	return &HistogramBuilder{bins: bins}
}

// Build bins the profit values of the trades into equal-width ranges.
// An empty sequence yields an empty histogram. When every value is equal
// the bin width collapses to zero; it is treated as 1 so all values land
// in the first bin. The maximum value is clamped into the last bin, so
// bin counts always sum to the number of trades.
func (hb *HistogramBuilder) Build(trades []types.MatchedTrade) []types.HistogramBin {
	if len(trades) == 0 {
		return []types.HistogramBin{}
	}

	min := trades[0].Profit
	max := trades[0].Profit
	for _, trade := range trades[1:] {
		if trade.Profit.LessThan(min) {
			min = trade.Profit
		}
		if trade.Profit.GreaterThan(max) {
			max = trade.Profit
		}
	}

	binSize := max.Sub(min).Div(decimal.NewFromInt(int64(hb.bins)))
	if binSize.IsZero() {
		binSize = decimal.NewFromInt(1)
	}

	out := make([]types.HistogramBin, hb.bins)
	for i := range out {
		lo := min.Add(binSize.Mul(decimal.NewFromInt(int64(i))))
		hi := lo.Add(binSize)
		out[i] = types.HistogramBin{
			Range:    fmt.Sprintf("%s to %s", lo.StringFixed(2), hi.StringFixed(2)),
			MinValue: lo,
			MaxValue: hi,
		}
	}

	for _, trade := range trades {
		idx := int(trade.Profit.Sub(min).Div(binSize).IntPart())
		if idx >= hb.bins {
			idx = hb.bins - 1
		}
		if idx < 0 {
			idx = 0
		}
		out[idx].Count++
	}

	return out
}
