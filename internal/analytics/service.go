package analytics

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/tradelens/analytics-backend/pkg/types"
)

// TradeSource supplies matched trades for one account, ordered ascending
// by sell date. A zero "to" means no upper bound.
type TradeSource interface {
	ListTrades(ctx context.Context, accountID string, from, to time.Time) ([]types.MatchedTrade, error)
}

// SnapshotCache is the optional read-through store for precomputed
// default-period snapshots.
type SnapshotCache interface {
	Get(accountID string) (*types.AnalyticsSnapshot, bool)
	Set(accountID string, snapshot *types.AnalyticsSnapshot)
}

// ServiceConfig carries engine tuning parameters.
type ServiceConfig struct {
	HistogramBins int
	TopSymbols    int
}

// Service orchestrates the calculators into one analytics result per
// request. Every computation is a pure function of the fetched trade
// slice, so concurrent requests need no coordination.
type Service struct {
	logger   *zap.Logger
	source   TradeSource
	cache    SnapshotCache // may be nil
	metrics  *MetricsCalculator
	drawdown *DrawdownTracker
	streaks  *StreakTracker
	daily    *DailyAggregator
	charts   *ChartBuilder
	now      func() time.Time
}

// NewService creates the analytics facade. cache may be nil to disable
// snapshot reuse.
func NewService(logger *zap.Logger, source TradeSource, cache SnapshotCache, cfg ServiceConfig) *Service {
	return &Service{
		logger:   logger,
		source:   source,
		cache:    cache,
		metrics:  NewMetricsCalculator(),
		drawdown: NewDrawdownTracker(),
		streaks:  NewStreakTracker(),
		daily:    NewDailyAggregator(),
		charts:   NewChartBuilder(cfg.HistogramBins, cfg.TopSymbols),
		now:      time.Now,
	}
}

// SetNow overrides the clock used for period cutoffs. Intended for tests.
func (s *Service) SetNow(now func() time.Time) {
	s.now = now
}

// Analyze fetches the account's trades for the requested window and
// computes the snapshot plus the chart bundle. A cached snapshot is
// substituted only for the unfiltered default-period request; chart data
// is always rebuilt from the fetched trades.
func (s *Service) Analyze(ctx context.Context, accountID string, filter types.AnalyticsFilter) (*types.AnalyticsSnapshot, *types.ChartData, error) {
	from, to := s.resolveWindow(filter)

	trades, err := s.source.ListTrades(ctx, accountID, from, to)
	if err != nil {
		return nil, nil, fmt.Errorf("list trades for %s: %w", accountID, err)
	}

	var snapshot *types.AnalyticsSnapshot
	if s.cache != nil && cacheable(filter) {
		if cached, ok := s.cache.Get(accountID); ok {
			s.logger.Debug("Snapshot cache hit", zap.String("account", accountID))
			snapshot = cached
		}
	}

	if snapshot == nil {
		snapshot = s.BuildSnapshot(trades)
		if s.cache != nil && cacheable(filter) {
			s.cache.Set(accountID, snapshot)
		}
	}

	charts := s.charts.Build(trades)

	s.logger.Debug("Analytics computed",
		zap.String("account", accountID),
		zap.Int("trades", len(trades)),
	)

	return snapshot, charts, nil
}

// BuildSnapshot computes the full aggregate snapshot from one ordered
// trade sequence. An empty sequence yields an all-zero snapshot.
func (s *Service) BuildSnapshot(trades []types.MatchedTrade) *types.AnalyticsSnapshot {
	metrics := s.metrics.Calculate(trades)
	drawdown := s.drawdown.Track(trades)
	streaks := s.streaks.Track(trades)
	daily := s.daily.Aggregate(trades)

	return &types.AnalyticsSnapshot{
		TotalNetProfitLoss:    metrics.TotalNetProfitLoss,
		GrossProfit:           metrics.GrossProfit,
		GrossLoss:             metrics.GrossLoss,
		TotalTrades:           metrics.TotalTrades,
		WinningTrades:         metrics.WinningTrades,
		LosingTrades:          metrics.LosingTrades,
		WinRate:               metrics.WinRate,
		LossRate:              metrics.LossRate,
		ProfitFactor:          metrics.ProfitFactor,
		AvgProfitPerWin:       metrics.AvgProfitPerWin,
		AvgLossPerLoss:        metrics.AvgLossPerLoss,
		AvgProfitLossPerTrade: metrics.AvgProfitLossPerTrade,
		MaxDrawdown:           drawdown.MaxDrawdown,
		MaxDrawdownPercent:    drawdown.MaxDrawdownPercent,
		AvgDrawdown:           drawdown.AvgDrawdown,
		LongestWinStreak:      streaks.LongestWinStreak,
		LongestLossStreak:     streaks.LongestLossStreak,
		ProfitableDays:        daily.ProfitableDays,
		LossDays:              daily.LossDays,
	}
}

// resolveWindow maps a filter to the inclusive sell-date window to fetch.
// An explicit range wins; otherwise the period is subtracted from now,
// with unknown or missing periods treated as one year. A zero "to" means
// unbounded above.
func (s *Service) resolveWindow(filter types.AnalyticsFilter) (from, to time.Time) {
	if filter.Explicit() {
		return startOfDay(*filter.StartDate), endOfDay(*filter.EndDate)
	}

	now := s.now()
	switch filter.Period {
	case types.Period1M:
		from = now.AddDate(0, -1, 0)
	case types.Period3M:
		from = now.AddDate(0, -3, 0)
	case types.Period6M:
		from = now.AddDate(0, -6, 0)
	default:
		from = now.AddDate(-1, 0, 0)
	}
	return from, time.Time{}
}

// cacheable reports whether a precomputed snapshot may substitute for a
// fresh pass: only the unfiltered request for the default period.
func cacheable(filter types.AnalyticsFilter) bool {
	if filter.StartDate != nil || filter.EndDate != nil {
		return false
	}
	return filter.Period == "" || filter.Period == types.Period1Y
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}
