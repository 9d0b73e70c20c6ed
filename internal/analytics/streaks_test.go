package analytics_test

import (
	"testing"

	"github.com/tradelens/analytics-backend/internal/analytics"
)

func TestStreaksScenario(t *testing.T) {
	s := analytics.NewStreakTracker().Track(tradesFromProfits(100, -50, 200, -30, -20))

	if s.LongestWinStreak != 1 {
		t.Errorf("LongestWinStreak: expected 1, got %d", s.LongestWinStreak)
	}
	if s.LongestLossStreak != 2 {
		t.Errorf("LongestLossStreak: expected 2, got %d", s.LongestLossStreak)
	}
}

func TestStreaksZeroProfitIsNeutral(t *testing.T) {
	// A flat trade neither extends nor breaks a run: the win run here
	// continues across it.
	s := analytics.NewStreakTracker().Track(tradesFromProfits(10, 0, 10))

	if s.LongestWinStreak != 2 {
		t.Errorf("LongestWinStreak: expected 2, got %d", s.LongestWinStreak)
	}
	if s.LongestLossStreak != 0 {
		t.Errorf("LongestLossStreak: expected 0, got %d", s.LongestLossStreak)
	}

	s = analytics.NewStreakTracker().Track(tradesFromProfits(-5, 0, -5))

	if s.LongestLossStreak != 2 {
		t.Errorf("LongestLossStreak: expected 2, got %d", s.LongestLossStreak)
	}
}

func TestStreaksSingleFlatTrade(t *testing.T) {
	s := analytics.NewStreakTracker().Track(tradesFromProfits(0))

	if s.LongestWinStreak != 0 || s.LongestLossStreak != 0 {
		t.Errorf("streaks should both be 0, got %d/%d",
			s.LongestWinStreak, s.LongestLossStreak)
	}
}

func TestStreaksEmpty(t *testing.T) {
	s := analytics.NewStreakTracker().Track(nil)

	if s.LongestWinStreak != 0 || s.LongestLossStreak != 0 {
		t.Error("empty input should yield zero streaks")
	}
}
