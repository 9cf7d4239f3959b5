// Package server exposes the balance engine over a JSON HTTP API.
// The requesting user is taken from the X-User-ID header; authentication
// itself is handled upstream of this service.
package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/settleup-dev/settleup/internal/service"
)

// requestTimeout bounds a single request's work, including any rate fetch.
const requestTimeout = 10 * time.Second

// Server routes HTTP requests to the balance and ledger services.
type Server struct {
	balances *service.BalanceService
	ledger   *service.LedgerService
}

// New creates a Server with the given services.
func New(balances *service.BalanceService, ledger *service.LedgerService) *Server {
	return &Server{balances: balances, ledger: ledger}
}

// Handler builds the route table wrapped in logging and CORS middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /dashboard", s.handleDashboard)
	mux.HandleFunc("GET /groups/{id}/simplified-debts", s.handleGroupDebts)
	mux.HandleFunc("GET /friend-balance/{friendId}", s.handleFriendBalance)

	mux.HandleFunc("POST /users", s.handleCreateUser)
	mux.HandleFunc("POST /groups", s.handleCreateGroup)
	mux.HandleFunc("GET /groups/{id}", s.handleGetGroup)
	mux.HandleFunc("POST /expenses", s.handleCreateExpense)
	mux.HandleFunc("POST /settlements", s.handleCreateSettlement)
	mux.HandleFunc("POST /settlements/{id}/complete", s.handleCompleteSettlement)

	return loggingMiddleware(corsMiddleware(mux))
}

// requesterID extracts the authenticated user from the request.
func requesterID(r *http.Request) string {
	return r.Header.Get("X-User-ID")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// loggingMiddleware logs all incoming requests
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		next.ServeHTTP(w, r)

		slog.Info("Request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// corsMiddleware adds CORS headers for browser access
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-User-ID")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
