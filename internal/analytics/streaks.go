package analytics

import "github.com/tradelens/analytics-backend/pkg/types"

// Streaks holds the longest consecutive win and loss run lengths.
type Streaks struct {
	LongestWinStreak  int
	LongestLossStreak int
}

// StreakTracker detects maximal runs of consecutive wins and losses.
type StreakTracker struct{}

// NewStreakTracker creates a new streak tracker.
func NewStreakTracker() *StreakTracker {
	return &StreakTracker{}
}

// Track iterates the trades in order. A winning trade extends the current
// win run and ends any loss run; a losing trade does the symmetric thing.
// A zero-profit trade is streak-neutral: it neither extends nor breaks
// either run.
func (st *StreakTracker) Track(trades []types.MatchedTrade) Streaks {
	var s Streaks
	var currentWin, currentLoss int

	for _, trade := range trades {
		if trade.Profit.IsPositive() {
			currentWin++
			currentLoss = 0
			if currentWin > s.LongestWinStreak {
				s.LongestWinStreak = currentWin
			}
		} else if trade.Profit.IsNegative() {
			currentLoss++
			currentWin = 0
			if currentLoss > s.LongestLossStreak {
				s.LongestLossStreak = currentLoss
			}
		}
	}

	return s
}
