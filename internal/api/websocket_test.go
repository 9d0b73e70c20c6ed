package api_test

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tradelens/analytics-backend/internal/api"
)

func TestWebSocketTradeImportNotification(t *testing.T) {
	ts := setupTestServer(t)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("WebSocket dial failed: %v", err)
	}
	defer conn.Close()

	sub := api.WSMessage{
		Type:    api.MsgTypeSubscribe,
		Channel: api.AnalyticsChannel("acct-1"),
	}
	if err := conn.WriteJSON(sub); err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}

	// Give the hub a beat to process the subscription before importing.
	time.Sleep(100 * time.Millisecond)

	importTrades(t, ts, "acct-1", recentTrades(10, -5))

	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("Did not receive import notification: %v", err)
		}

		// Batched frames are newline-separated.
		for _, line := range strings.Split(string(raw), "\n") {
			if line == "" {
				continue
			}
			var msg api.WSMessage
			if err := json.Unmarshal([]byte(line), &msg); err != nil {
				t.Fatalf("Invalid message %q: %v", line, err)
			}
			if msg.Type != api.MsgTypeTradesImported {
				continue
			}

			var payload struct {
				Account  string `json:"account"`
				Imported int    `json:"imported"`
			}
			if err := json.Unmarshal(msg.Data, &payload); err != nil {
				t.Fatalf("Invalid payload: %v", err)
			}
			if payload.Account != "acct-1" || payload.Imported != 2 {
				t.Errorf("unexpected payload: %+v", payload)
			}
			return
		}
	}
}
