package analytics_test

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/tradelens/analytics-backend/internal/analytics"
)

func TestDrawdownScenario(t *testing.T) {
	// Running P&L [100, 50, 250, 220, 200], peaks [100, 100, 250, 250, 250],
	// drawdowns [0, 50, 0, 30, 50].
	trades := tradesFromProfits(100, -50, 200, -30, -20)

	dd := analytics.NewDrawdownTracker().Track(trades)

	if !dd.MaxDrawdown.Equal(decimal.NewFromInt(50)) {
		t.Errorf("MaxDrawdown: expected 50, got %s", dd.MaxDrawdown)
	}
	if !dd.AvgDrawdown.Equal(decimal.NewFromInt(26)) {
		t.Errorf("AvgDrawdown: expected 26, got %s", dd.AvgDrawdown)
	}
	if !dd.MaxDrawdownPercent.Equal(decimal.NewFromInt(20)) {
		t.Errorf("MaxDrawdownPercent: expected 20, got %s", dd.MaxDrawdownPercent)
	}
}

func TestDrawdownNeverPositivePeak(t *testing.T) {
	trades := tradesFromProfits(-50, -50)

	dd := analytics.NewDrawdownTracker().Track(trades)

	if !dd.MaxDrawdown.Equal(decimal.NewFromInt(100)) {
		t.Errorf("MaxDrawdown: expected 100, got %s", dd.MaxDrawdown)
	}
	// Peak never exceeds zero, so the percent is defined as zero.
	if !dd.MaxDrawdownPercent.IsZero() {
		t.Errorf("MaxDrawdownPercent: expected 0, got %s", dd.MaxDrawdownPercent)
	}
}

func TestDrawdownMonotonicGains(t *testing.T) {
	trades := tradesFromProfits(10, 20, 30)

	dd := analytics.NewDrawdownTracker().Track(trades)

	if !dd.MaxDrawdown.IsZero() || !dd.AvgDrawdown.IsZero() {
		t.Errorf("monotonic gains should have zero drawdown, got max=%s avg=%s",
			dd.MaxDrawdown, dd.AvgDrawdown)
	}
}

func TestDrawdownEmpty(t *testing.T) {
	dd := analytics.NewDrawdownTracker().Track(nil)

	if !dd.MaxDrawdown.IsZero() || !dd.AvgDrawdown.IsZero() || !dd.MaxDrawdownPercent.IsZero() {
		t.Error("empty input should yield zero drawdown stats")
	}
}
