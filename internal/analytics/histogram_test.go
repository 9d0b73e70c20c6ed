package analytics_test

import (
	"testing"

	"github.com/tradelens/analytics-backend/internal/analytics"
)

func TestHistogramCountsSumToTrades(t *testing.T) {
	trades := tradesFromProfits(-120, -37.5, -5, 0, 12, 48, 48, 99.99, 250, 300)

	bins := analytics.NewHistogramBuilder(10).Build(trades)

	if len(bins) != 10 {
		t.Fatalf("expected 10 bins, got %d", len(bins))
	}

	total := 0
	for _, bin := range bins {
		total += bin.Count
	}
	if total != len(trades) {
		t.Errorf("bin counts sum to %d, expected %d", total, len(trades))
	}
}

func TestHistogramMaxValueLandsInLastBin(t *testing.T) {
	trades := tradesFromProfits(0, 10, 20, 30, 40, 50, 60, 70, 80, 90, 100)

	bins := analytics.NewHistogramBuilder(10).Build(trades)

	last := bins[len(bins)-1]
	if last.Count == 0 {
		t.Error("maximum value should be clamped into the last bin")
	}
}

func TestHistogramAllEqualValues(t *testing.T) {
	trades := tradesFromProfits(42, 42, 42)

	bins := analytics.NewHistogramBuilder(10).Build(trades)

	if len(bins) != 10 {
		t.Fatalf("expected 10 bins, got %d", len(bins))
	}
	if bins[0].Count != 3 {
		t.Errorf("all equal values should land in the first bin, got %d", bins[0].Count)
	}
	total := 0
	for _, bin := range bins {
		total += bin.Count
	}
	if total != 3 {
		t.Errorf("bin counts sum to %d, expected 3", total)
	}
}

func TestHistogramSingleBin(t *testing.T) {
	trades := tradesFromProfits(-10, 0, 10)

	bins := analytics.NewHistogramBuilder(1).Build(trades)

	if len(bins) != 1 {
		t.Fatalf("expected 1 bin, got %d", len(bins))
	}
	if bins[0].Count != 3 {
		t.Errorf("single bin should hold all trades, got %d", bins[0].Count)
	}
}

func TestHistogramEmpty(t *testing.T) {
	bins := analytics.NewHistogramBuilder(10).Build(nil)

	if len(bins) != 0 {
		t.Errorf("empty input should yield an empty histogram, got %d bins", len(bins))
	}
}
