// Package api provides the HTTP and WebSocket server.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/tradelens/analytics-backend/internal/analytics"
	"github.com/tradelens/analytics-backend/internal/cache"
	"github.com/tradelens/analytics-backend/internal/store"
	"github.com/tradelens/analytics-backend/pkg/types"
)

const dateLayout = "2006-01-02"

// Server is the HTTP/WebSocket API server.
type Server struct {
	logger     *zap.Logger
	config     *types.ServerConfig
	router     *mux.Router
	httpServer *http.Server
	upgrader   websocket.Upgrader

	store     *store.TradeStore
	analytics *analytics.Service
	snapshots *cache.Snapshots // may be nil
	hub       *Hub

	registry        *prometheus.Registry
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// NewServer creates a new API server. snapshots may be nil when snapshot
// caching is disabled.
func NewServer(
	logger *zap.Logger,
	config *types.ServerConfig,
	tradeStore *store.TradeStore,
	analyticsSvc *analytics.Service,
	snapshots *cache.Snapshots,
) *Server {
	s := &Server{
		logger:    logger,
		config:    config,
		router:    mux.NewRouter(),
		store:     tradeStore,
		analytics: analyticsSvc,
		snapshots: snapshots,
		hub:       NewHub(logger),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}

	s.setupMetrics()
	s.setupRoutes()
	return s
}

// Router returns the HTTP router, mainly for tests.
func (s *Server) Router() *mux.Router {
	return s.router
}

// Hub returns the WebSocket hub.
func (s *Server) Hub() *Hub {
	return s.hub
}

func (s *Server) setupMetrics() {
	s.registry = prometheus.NewRegistry()

	s.requestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "analytics",
		Name:      "http_requests_total",
		Help:      "Total HTTP requests by route, method and status.",
	}, []string{"route", "method", "status"})

	s.requestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "analytics",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route"})

	s.registry.MustRegister(s.requestsTotal, s.requestDuration)

	if s.snapshots != nil {
		s.registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "analytics",
			Name:      "snapshot_cache_entries",
			Help:      "Number of cached analytics snapshots.",
		}, func() float64 {
			return float64(s.snapshots.Len())
		}))
	}
}

// setupRoutes configures HTTP routes.
func (s *Server) setupRoutes() {
	s.router.Use(s.instrument)

	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")

	s.router.HandleFunc("/api/v1/accounts", s.handleListAccounts).Methods("GET")
	s.router.HandleFunc("/api/v1/accounts/{id}/analytics", s.handleGetAnalytics).Methods("GET")
	s.router.HandleFunc("/api/v1/accounts/{id}/trades", s.handleListTrades).Methods("GET")
	s.router.HandleFunc("/api/v1/accounts/{id}/trades", s.handleImportTrades).Methods("POST")

	if s.config.EnableMetrics {
		s.router.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	}

	s.router.HandleFunc(s.config.WebSocketPath, s.handleWebSocket)
}

// instrument records request counts and latency per route template.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := r.URL.Path
		if current := mux.CurrentRoute(r); current != nil {
			if tmpl, err := current.GetPathTemplate(); err == nil {
				route = tmpl
			}
		}

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)

		s.requestsTotal.WithLabelValues(route, r.Method, strconv.Itoa(rec.status)).Inc()
		s.requestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Start starts the HTTP server and the WebSocket hub.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	go s.hub.Run()

	handler := cors.New(cors.Options{
		AllowedOrigins:   s.config.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}).Handler(s.router)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	s.logger.Info("Starting API server", zap.String("addr", addr))

	return s.httpServer.ListenAndServe()
}

// Stop gracefully stops the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// handleHealth handles health check requests.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// handleListAccounts returns the known account IDs.
func (s *Server) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := s.store.ListAccounts(r.Context())
	if err != nil {
		s.logger.Error("Failed to list accounts", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "failed to list accounts")
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"accounts": accounts,
	})
}

// handleGetAnalytics computes the snapshot and chart bundle for one
// account, honoring period / date-range query parameters.
func (s *Server) handleGetAnalytics(w http.ResponseWriter, r *http.Request) {
	accountID := mux.Vars(r)["id"]

	filter, err := parseFilter(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	snapshot, charts, err := s.analytics.Analyze(r.Context(), accountID, filter)
	if err != nil {
		if errors.Is(err, store.ErrAccountNotFound) {
			s.respondError(w, http.StatusNotFound, "account not found")
			return
		}
		s.logger.Error("Analytics failed",
			zap.String("account", accountID),
			zap.Error(err),
		)
		s.respondError(w, http.StatusInternalServerError, "analytics failed")
		return
	}

	s.respondJSON(w, http.StatusOK, types.AnalyticsResult{
		Snapshot: snapshot,
		Charts:   charts,
	})
}

// handleListTrades returns an account's matched trades, optionally
// restricted to an inclusive date range.
func (s *Server) handleListTrades(w http.ResponseWriter, r *http.Request) {
	accountID := mux.Vars(r)["id"]

	var from, to time.Time
	if raw := r.URL.Query().Get("startDate"); raw != "" {
		t, err := time.Parse(dateLayout, raw)
		if err != nil {
			s.respondError(w, http.StatusBadRequest, "invalid startDate")
			return
		}
		from = t
	}
	if raw := r.URL.Query().Get("endDate"); raw != "" {
		t, err := time.Parse(dateLayout, raw)
		if err != nil {
			s.respondError(w, http.StatusBadRequest, "invalid endDate")
			return
		}
		to = t.Add(24*time.Hour - time.Nanosecond)
	}

	trades, err := s.store.ListTrades(r.Context(), accountID, from, to)
	if err != nil {
		if errors.Is(err, store.ErrAccountNotFound) {
			s.respondError(w, http.StatusNotFound, "account not found")
			return
		}
		s.logger.Error("Failed to list trades",
			zap.String("account", accountID),
			zap.Error(err),
		)
		s.respondError(w, http.StatusInternalServerError, "failed to list trades")
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"trades": trades,
	})
}

// handleImportTrades appends a batch of matched trades to an account,
// invalidates its cached snapshot, and notifies WebSocket subscribers.
func (s *Server) handleImportTrades(w http.ResponseWriter, r *http.Request) {
	accountID := mux.Vars(r)["id"]

	var trades []types.MatchedTrade
	if err := json.NewDecoder(r.Body).Decode(&trades); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid trade payload")
		return
	}
	if len(trades) == 0 {
		s.respondError(w, http.StatusBadRequest, "no trades in payload")
		return
	}

	for i, t := range trades {
		if err := validateTrade(t); err != nil {
			s.respondError(w, http.StatusBadRequest, fmt.Sprintf("trade %d: %v", i, err))
			return
		}
	}

	if err := s.store.ImportTrades(r.Context(), accountID, trades); err != nil {
		s.logger.Error("Trade import failed",
			zap.String("account", accountID),
			zap.Error(err),
		)
		s.respondError(w, http.StatusInternalServerError, "trade import failed")
		return
	}

	if s.snapshots != nil {
		s.snapshots.Invalidate(accountID)
	}

	s.hub.PublishToChannel(AnalyticsChannel(accountID), MsgTypeTradesImported, map[string]interface{}{
		"account":  accountID,
		"imported": len(trades),
	})

	s.respondJSON(w, http.StatusCreated, map[string]interface{}{
		"imported": len(trades),
	})
}

// handleWebSocket upgrades the connection and registers the client.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("WebSocket upgrade failed", zap.Error(err))
		return
	}

	client := NewClient(uuid.New().String(), s.hub, conn)
	s.hub.register <- client

	go client.WritePump()
	go client.ReadPump()
}

func validateTrade(t types.MatchedTrade) error {
	if t.Symbol == "" {
		return errors.New("symbol is required")
	}
	if !t.Quantity.IsPositive() {
		return errors.New("quantity must be positive")
	}
	if t.BuyPrice.IsNegative() || t.SellPrice.IsNegative() {
		return errors.New("prices must be non-negative")
	}
	if t.Commission.IsNegative() {
		return errors.New("commission must be non-negative")
	}
	if t.SellDate.Before(t.BuyDate) {
		return errors.New("sell date precedes buy date")
	}
	return nil
}

func parseFilter(r *http.Request) (types.AnalyticsFilter, error) {
	var filter types.AnalyticsFilter

	query := r.URL.Query()
	filter.Period = types.Period(query.Get("period"))

	if raw := query.Get("startDate"); raw != "" {
		t, err := time.Parse(dateLayout, raw)
		if err != nil {
			return filter, fmt.Errorf("invalid startDate %q", raw)
		}
		filter.StartDate = &t
	}
	if raw := query.Get("endDate"); raw != "" {
		t, err := time.Parse(dateLayout, raw)
		if err != nil {
			return filter, fmt.Errorf("invalid endDate %q", raw)
		}
		filter.EndDate = &t
	}

	return filter, nil
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("Failed to encode response", zap.Error(err))
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
