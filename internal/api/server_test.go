// Package api_test provides tests for the API server.
package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/tradelens/analytics-backend/internal/analytics"
	"github.com/tradelens/analytics-backend/internal/api"
	"github.com/tradelens/analytics-backend/internal/cache"
	"github.com/tradelens/analytics-backend/internal/store"
	"github.com/tradelens/analytics-backend/pkg/types"
)

func setupTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := zap.NewNop()

	tradeStore, err := store.Open(logger, filepath.Join(t.TempDir(), "trades.db"))
	if err != nil {
		t.Fatalf("Failed to open trade store: %v", err)
	}
	t.Cleanup(func() { tradeStore.Close() })

	snapshots := cache.NewSnapshots(time.Minute)
	analyticsSvc := analytics.NewService(logger, tradeStore, snapshots, analytics.ServiceConfig{})

	server := api.NewServer(logger, &types.ServerConfig{
		Host:          "localhost",
		Port:          0,
		WebSocketPath: "/ws",
		EnableMetrics: true,
	}, tradeStore, analyticsSvc, snapshots)

	go server.Hub().Run()

	ts := httptest.NewServer(server.Router())
	t.Cleanup(ts.Close)

	return ts
}

// recentTrades builds trades closing within the last few days so the
// default one-year window includes them.
func recentTrades(profits ...float64) []types.MatchedTrade {
	trades := make([]types.MatchedTrade, 0, len(profits))
	for i, p := range profits {
		sellDate := time.Now().AddDate(0, 0, -len(profits)+i)
		trades = append(trades, types.MatchedTrade{
			Symbol:     "AAPL",
			BuyDate:    sellDate.AddDate(0, 0, -1),
			SellDate:   sellDate,
			Quantity:   decimal.NewFromInt(1),
			BuyPrice:   decimal.NewFromInt(100),
			SellPrice:  decimal.NewFromInt(100),
			Profit:     decimal.NewFromFloat(p),
			Commission: decimal.NewFromInt(1),
		})
	}
	return trades
}

func importTrades(t *testing.T, ts *httptest.Server, accountID string, trades []types.MatchedTrade) {
	t.Helper()

	body, err := json.Marshal(trades)
	if err != nil {
		t.Fatalf("Failed to marshal trades: %v", err)
	}

	resp, err := http.Post(ts.URL+"/api/v1/accounts/"+accountID+"/trades",
		"application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("Import request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d", resp.StatusCode)
	}
}

func TestHealthEndpoint(t *testing.T) {
	ts := setupTestServer(t)

	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("Health request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}

	var result map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if result["status"] != "healthy" {
		t.Errorf("Expected status 'healthy', got '%v'", result["status"])
	}
}

func TestAnalyticsUnknownAccount(t *testing.T) {
	ts := setupTestServer(t)

	resp, err := http.Get(ts.URL + "/api/v1/accounts/nobody/analytics")
	if err != nil {
		t.Fatalf("Analytics request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", resp.StatusCode)
	}
}

func TestImportAndAnalytics(t *testing.T) {
	ts := setupTestServer(t)

	importTrades(t, ts, "acct-1", recentTrades(100, -50, 200, -30, -20))

	resp, err := http.Get(ts.URL + "/api/v1/accounts/acct-1/analytics")
	if err != nil {
		t.Fatalf("Analytics request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}

	var result types.AnalyticsResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if result.Snapshot == nil || result.Charts == nil {
		t.Fatal("Expected snapshot and charts in response")
	}
	if result.Snapshot.TotalTrades != 5 {
		t.Errorf("TotalTrades: expected 5, got %d", result.Snapshot.TotalTrades)
	}
	if result.Snapshot.WinningTrades != 2 || result.Snapshot.LosingTrades != 3 {
		t.Errorf("win/loss: expected 2/3, got %d/%d",
			result.Snapshot.WinningTrades, result.Snapshot.LosingTrades)
	}
	if len(result.Charts.EquityCurve) != 5 {
		t.Errorf("Expected 5 equity points, got %d", len(result.Charts.EquityCurve))
	}
}

func TestAnalyticsBadDate(t *testing.T) {
	ts := setupTestServer(t)

	importTrades(t, ts, "acct-1", recentTrades(10))

	resp, err := http.Get(ts.URL + "/api/v1/accounts/acct-1/analytics?startDate=yesterday")
	if err != nil {
		t.Fatalf("Analytics request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", resp.StatusCode)
	}
}

func TestImportRejectsInvalidTrade(t *testing.T) {
	ts := setupTestServer(t)

	trades := recentTrades(10)
	trades[0].Symbol = ""

	body, _ := json.Marshal(trades)
	resp, err := http.Post(ts.URL+"/api/v1/accounts/acct-1/trades",
		"application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("Import request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", resp.StatusCode)
	}
}

func TestListTradesEndpoint(t *testing.T) {
	ts := setupTestServer(t)

	importTrades(t, ts, "acct-1", recentTrades(10, -20))

	resp, err := http.Get(ts.URL + "/api/v1/accounts/acct-1/trades")
	if err != nil {
		t.Fatalf("Trades request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}

	var result struct {
		Trades []types.MatchedTrade `json:"trades"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(result.Trades) != 2 {
		t.Errorf("Expected 2 trades, got %d", len(result.Trades))
	}
}

func TestListAccountsEndpoint(t *testing.T) {
	ts := setupTestServer(t)

	importTrades(t, ts, "acct-1", recentTrades(10))

	resp, err := http.Get(ts.URL + "/api/v1/accounts")
	if err != nil {
		t.Fatalf("Accounts request failed: %v", err)
	}
	defer resp.Body.Close()

	var result struct {
		Accounts []string `json:"accounts"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(result.Accounts) != 1 || result.Accounts[0] != "acct-1" {
		t.Errorf("Expected [acct-1], got %v", result.Accounts)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	ts := setupTestServer(t)

	// Generate at least one instrumented request first.
	if _, err := http.Get(ts.URL + "/health"); err != nil {
		t.Fatalf("Health request failed: %v", err)
	}

	resp, err := http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatalf("Metrics request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}
}
