// Package types provides shared type definitions for the analytics backend.
package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// Period is a relative lookback window for analytics requests.
type Period string

const (
	Period1M Period = "1m"
	Period3M Period = "3m"
	Period6M Period = "6m"
	Period1Y Period = "1y"
)

// MatchedTrade is one closed round-trip position produced by the external
// trade matcher. Trades are immutable once matched; the engine never
// mutates them.
type MatchedTrade struct {
	Symbol          string          `json:"symbol"`
	BuyDate         time.Time       `json:"buyDate"`
	SellDate        time.Time       `json:"sellDate"`
	BuyTime         string          `json:"buyTime,omitempty"`  // "15:04", optional
	SellTime        string          `json:"sellTime,omitempty"` // "15:04", optional
	Quantity        decimal.Decimal `json:"quantity"`
	BuyPrice        decimal.Decimal `json:"buyPrice"`
	SellPrice       decimal.Decimal `json:"sellPrice"`
	Profit          decimal.Decimal `json:"profit"`
	Commission      decimal.Decimal `json:"commission"`
	DurationMinutes int64           `json:"durationMinutes,omitempty"`
}

// ProfitFactor is the ratio of gross profit to gross loss. When there are
// no losses but some profit the ratio is unbounded; that case is carried
// as an explicit tag rather than a floating-point infinity.
type ProfitFactor struct {
	Value     decimal.Decimal `json:"value"`
	Unbounded bool            `json:"unbounded"`
}

// FiniteProfitFactor returns a bounded profit factor.
func FiniteProfitFactor(v decimal.Decimal) ProfitFactor {
	return ProfitFactor{Value: v}
}

// UnboundedProfitFactor returns the gross-profit-without-loss sentinel.
func UnboundedProfitFactor() ProfitFactor {
	return ProfitFactor{Unbounded: true}
}

func (pf ProfitFactor) String() string {
	if pf.Unbounded {
		return "inf"
	}
	return pf.Value.String()
}

// AnalyticsSnapshot is the aggregate performance statistics for one
// account's trade sequence. It is always produced atomically from one
// full pass over the sequence, never partially updated.
type AnalyticsSnapshot struct {
	TotalNetProfitLoss    decimal.Decimal `json:"totalNetProfitLoss"`
	GrossProfit           decimal.Decimal `json:"grossProfit"`
	GrossLoss             decimal.Decimal `json:"grossLoss"`
	TotalTrades           int             `json:"totalTrades"`
	WinningTrades         int             `json:"winningTrades"`
	LosingTrades          int             `json:"losingTrades"`
	WinRate               decimal.Decimal `json:"winRate"`  // percent
	LossRate              decimal.Decimal `json:"lossRate"` // percent
	ProfitFactor          ProfitFactor    `json:"profitFactor"`
	AvgProfitPerWin       decimal.Decimal `json:"avgProfitPerWin"`
	AvgLossPerLoss        decimal.Decimal `json:"avgLossPerLoss"`
	AvgProfitLossPerTrade decimal.Decimal `json:"avgProfitLossPerTrade"`
	MaxDrawdown           decimal.Decimal `json:"maxDrawdown"`
	MaxDrawdownPercent    decimal.Decimal `json:"maxDrawdownPercent"`
	AvgDrawdown           decimal.Decimal `json:"avgDrawdown"`
	LongestWinStreak      int             `json:"longestWinStreak"`
	LongestLossStreak     int             `json:"longestLossStreak"`
	ProfitableDays        int             `json:"profitableDays"`
	LossDays              int             `json:"lossDays"`
}

// EquityCurvePoint is one point of the running cumulative P&L series.
type EquityCurvePoint struct {
	Date  string          `json:"date"`
	Value decimal.Decimal `json:"value"`
	Trade int             `json:"trade"` // 1-based trade index
}

// DailyPnLPoint is the summed P&L of one calendar day.
type DailyPnLPoint struct {
	Date  string          `json:"date"`
	PnL   decimal.Decimal `json:"pnl"`
	Color string          `json:"color"`
}

// DistributionSlice is one slice of the win/loss pie.
type DistributionSlice struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
	Color string `json:"color"`
}

// HistogramBin is one equal-width sub-range of the P&L value domain.
type HistogramBin struct {
	Range    string          `json:"range"`
	Count    int             `json:"count"`
	MinValue decimal.Decimal `json:"minValue"`
	MaxValue decimal.Decimal `json:"maxValue"`
}

// HourlyPerformance aggregates trades sharing an exit hour of day.
type HourlyPerformance struct {
	Hour     int             `json:"hour"`
	AvgPnL   decimal.Decimal `json:"avgPnL"`
	TotalPnL decimal.Decimal `json:"totalPnL"`
	Trades   int             `json:"trades"`
}

// WeekdayPerformance aggregates trades sharing an exit day of week.
type WeekdayPerformance struct {
	Day      string          `json:"day"`
	AvgPnL   decimal.Decimal `json:"avgPnL"`
	TotalPnL decimal.Decimal `json:"totalPnL"`
	Trades   int             `json:"trades"`
}

// SymbolPerformance aggregates trades sharing an instrument.
type SymbolPerformance struct {
	Symbol   string          `json:"symbol"`
	TotalPnL decimal.Decimal `json:"totalPnL"`
	Trades   int             `json:"trades"`
	AvgPnL   decimal.Decimal `json:"avgPnL"`
}

// ChartData bundles the derived series computed from one trade sequence.
// Like the snapshot it is computed in full, never incrementally patched.
type ChartData struct {
	EquityCurve            []EquityCurvePoint   `json:"equityCurve"`
	DailyPnL               []DailyPnLPoint      `json:"dailyPnL"`
	WinLossDistribution    []DistributionSlice  `json:"winLossDistribution"`
	ProfitLossDistribution []HistogramBin       `json:"profitLossDistribution"`
	HourlyPerformance      []HourlyPerformance  `json:"hourlyPerformance"`
	WeeklyPerformance      []WeekdayPerformance `json:"weeklyPerformance"`
	SymbolPerformance      []SymbolPerformance  `json:"symbolPerformance"`
}

// AnalyticsFilter narrows an analytics request to a date range or a
// relative period. An empty filter selects the entire trade sequence.
type AnalyticsFilter struct {
	Period    Period     `json:"period,omitempty"`
	StartDate *time.Time `json:"startDate,omitempty"`
	EndDate   *time.Time `json:"endDate,omitempty"`
}

// Explicit reports whether the filter carries an explicit date range.
func (f AnalyticsFilter) Explicit() bool {
	return f.StartDate != nil && f.EndDate != nil
}

// AnalyticsResult is the full response of one analytics request.
type AnalyticsResult struct {
	Snapshot *AnalyticsSnapshot `json:"snapshot"`
	Charts   *ChartData         `json:"charts"`
}
