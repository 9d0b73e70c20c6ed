package analytics

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tradelens/analytics-backend/pkg/types"
)

// Display colors for sign-derived chart points.
const (
	colorProfit = "#10b981"
	colorLoss   = "#ef4444"
	colorFlat   = "#6b7280"
)

const dayKeyLayout = "2006-01-02"

func pnlColor(v decimal.Decimal) string {
	switch {
	case v.IsPositive():
		return colorProfit
	case v.IsNegative():
		return colorLoss
	default:
		return colorFlat
	}
}

// DailyStats is the calendar-day breakdown of a trade sequence.
type DailyStats struct {
	Series         []types.DailyPnLPoint
	ProfitableDays int
	LossDays       int
}

// DailyAggregator groups trades by the calendar date they were closed.
type DailyAggregator struct{}

// NewDailyAggregator creates a new daily aggregator.
func NewDailyAggregator() *DailyAggregator {
	return &DailyAggregator{}
}

// Aggregate sums profit per sell date. Days with a positive sum count as
// profitable, days with a negative sum as loss days; a day that nets to
// exactly zero counts as neither.
func (da *DailyAggregator) Aggregate(trades []types.MatchedTrade) DailyStats {
	byDay := make(map[string]decimal.Decimal)
	for _, trade := range trades {
		key := trade.SellDate.Format(dayKeyLayout)
		byDay[key] = byDay[key].Add(trade.Profit)
	}

	days := make([]string, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Strings(days)

	stats := DailyStats{Series: make([]types.DailyPnLPoint, 0, len(days))}
	for _, day := range days {
		pnl := byDay[day]
		if pnl.IsPositive() {
			stats.ProfitableDays++
		} else if pnl.IsNegative() {
			stats.LossDays++
		}
		stats.Series = append(stats.Series, types.DailyPnLPoint{
			Date:  day,
			PnL:   pnl,
			Color: pnlColor(pnl),
		})
	}

	return stats
}

type bucket struct {
	count    int
	totalPnL decimal.Decimal
}

func (b bucket) avgPnL() decimal.Decimal {
	if b.count == 0 {
		return decimal.Zero
	}
	return b.totalPnL.Div(decimal.NewFromInt(int64(b.count)))
}

// sellHour extracts the hour of day a trade was closed. The sell time
// string takes precedence; a missing or malformed time falls back to the
// hour carried by the sell date (zero for date-only values).
func sellHour(trade types.MatchedTrade) int {
	if trade.SellTime != "" {
		for _, layout := range []string{"15:04", "15:04:05"} {
			if t, err := time.Parse(layout, trade.SellTime); err == nil {
				return t.Hour()
			}
		}
	}
	return trade.SellDate.Hour()
}

// HourlyAggregator groups trades by the hour of day they were closed.
type HourlyAggregator struct{}

// NewHourlyAggregator creates a new hourly aggregator.
func NewHourlyAggregator() *HourlyAggregator {
	return &HourlyAggregator{}
}

// Aggregate emits one record per observed hour, ascending.
func (ha *HourlyAggregator) Aggregate(trades []types.MatchedTrade) []types.HourlyPerformance {
	buckets := make(map[int]bucket)
	for _, trade := range trades {
		hour := sellHour(trade)
		b := buckets[hour]
		b.count++
		b.totalPnL = b.totalPnL.Add(trade.Profit)
		buckets[hour] = b
	}

	hours := make([]int, 0, len(buckets))
	for hour := range buckets {
		hours = append(hours, hour)
	}
	sort.Ints(hours)

	out := make([]types.HourlyPerformance, 0, len(hours))
	for _, hour := range hours {
		b := buckets[hour]
		out = append(out, types.HourlyPerformance{
			Hour:     hour,
			AvgPnL:   b.avgPnL(),
			TotalPnL: b.totalPnL,
			Trades:   b.count,
		})
	}
	return out
}

// WeekdayAggregator groups trades by the day of week they were closed.
type WeekdayAggregator struct{}

// NewWeekdayAggregator creates a new weekday aggregator.
func NewWeekdayAggregator() *WeekdayAggregator {
	return &WeekdayAggregator{}
}

// Aggregate emits one record per observed weekday in canonical
// Sunday-through-Saturday order.
func (wa *WeekdayAggregator) Aggregate(trades []types.MatchedTrade) []types.WeekdayPerformance {
	buckets := make(map[time.Weekday]bucket)
	for _, trade := range trades {
		day := trade.SellDate.Weekday()
		b := buckets[day]
		b.count++
		b.totalPnL = b.totalPnL.Add(trade.Profit)
		buckets[day] = b
	}

	out := make([]types.WeekdayPerformance, 0, len(buckets))
	for day := time.Sunday; day <= time.Saturday; day++ {
		b, ok := buckets[day]
		if !ok {
			continue
		}
		out = append(out, types.WeekdayPerformance{
			Day:      day.String(),
			AvgPnL:   b.avgPnL(),
			TotalPnL: b.totalPnL,
			Trades:   b.count,
		})
	}
	return out
}

// SymbolAggregator groups trades by instrument.
type SymbolAggregator struct {
	topN int
}

// NewSymbolAggregator creates a symbol aggregator keeping the topN
// symbols by total P&L.
func NewSymbolAggregator(topN int) *SymbolAggregator {
	if topN <= 0 {
		topN = 10
	}
	return &SymbolAggregator{topN: topN}
}

// Aggregate emits per-symbol totals sorted descending by total P&L,
// truncated to the configured top count. Ties break alphabetically so
// the order stays deterministic.
func (sa *SymbolAggregator) Aggregate(trades []types.MatchedTrade) []types.SymbolPerformance {
	buckets := make(map[string]bucket)
	for _, trade := range trades {
		b := buckets[trade.Symbol]
		b.count++
		b.totalPnL = b.totalPnL.Add(trade.Profit)
		buckets[trade.Symbol] = b
	}

	out := make([]types.SymbolPerformance, 0, len(buckets))
	for symbol, b := range buckets {
		out = append(out, types.SymbolPerformance{
			Symbol:   symbol,
			TotalPnL: b.totalPnL,
			Trades:   b.count,
			AvgPnL:   b.avgPnL(),
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].TotalPnL.Equal(out[j].TotalPnL) {
			return out[i].TotalPnL.GreaterThan(out[j].TotalPnL)
		}
		return out[i].Symbol < out[j].Symbol
	})

	if len(out) > sa.topN {
		out = out[:sa.topN]
	}
	return out
}
