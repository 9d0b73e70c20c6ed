package analytics

import (
	"github.com/shopspring/decimal"

	"github.com/tradelens/analytics-backend/pkg/types"
)

// ChartBuilder assembles the derived chart series for a trade sequence.
type ChartBuilder struct {
	daily     *DailyAggregator
	hourly    *HourlyAggregator
	weekday   *WeekdayAggregator
	symbols   *SymbolAggregator
	histogram *HistogramBuilder
}

// NewChartBuilder creates a chart builder. histogramBins and topSymbols
// below one fall back to their defaults.
func NewChartBuilder(histogramBins, topSymbols int) *ChartBuilder {
	return &ChartBuilder{
		daily:     NewDailyAggregator(),
		hourly:    NewHourlyAggregator(),
		weekday:   NewWeekdayAggregator(),
		symbols:   NewSymbolAggregator(topSymbols),
		histogram: NewHistogramBuilder(histogramBins),
	}
}

// Build computes every chart series from the ordered trade sequence.
// All series are recomputed in full on every call.
func (cb *ChartBuilder) Build(trades []types.MatchedTrade) *types.ChartData {
	if len(trades) == 0 {
		return &types.ChartData{
			EquityCurve:            []types.EquityCurvePoint{},
			DailyPnL:               []types.DailyPnLPoint{},
			WinLossDistribution:    []types.DistributionSlice{},
			ProfitLossDistribution: []types.HistogramBin{},
			HourlyPerformance:      []types.HourlyPerformance{},
			WeeklyPerformance:      []types.WeekdayPerformance{},
			SymbolPerformance:      []types.SymbolPerformance{},
		}
	}

	metrics := NewMetricsCalculator().Calculate(trades)

	return &types.ChartData{
		EquityCurve:            cb.equityCurve(trades),
		DailyPnL:               cb.daily.Aggregate(trades).Series,
		WinLossDistribution:    winLossDistribution(metrics),
		ProfitLossDistribution: cb.histogram.Build(trades),
		HourlyPerformance:      cb.hourly.Aggregate(trades),
		WeeklyPerformance:      cb.weekday.Aggregate(trades),
		SymbolPerformance:      cb.symbols.Aggregate(trades),
	}
}

// equityCurve is the running cumulative P&L, one point per trade in
// close order.
func (cb *ChartBuilder) equityCurve(trades []types.MatchedTrade) []types.EquityCurvePoint {
	curve := make([]types.EquityCurvePoint, 0, len(trades))

	var runningPnL decimal.Decimal
	for i, trade := range trades {
		runningPnL = runningPnL.Add(trade.Profit)
		curve = append(curve, types.EquityCurvePoint{
			Date:  trade.SellDate.Format(dayKeyLayout),
			Value: runningPnL,
			Trade: i + 1,
		})
	}

	return curve
}

func winLossDistribution(m Metrics) []types.DistributionSlice {
	return []types.DistributionSlice{
		{Name: "Wins", Value: m.WinningTrades, Color: colorProfit},
		{Name: "Losses", Value: m.LosingTrades, Color: colorLoss},
	}
}
