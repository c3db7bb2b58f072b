package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"golang.org/x/time/rate"

	"github.com/verdana-labs/esgbridge/internal/api/handlers"
	"github.com/verdana-labs/esgbridge/internal/realtime"
	"github.com/verdana-labs/esgbridge/pkg/logger"
)

// Write-endpoint rate limit: 50 req/sec sustained, bursts of 100.
const (
	writeRateLimit = 50
	writeRateBurst = 100
)

// NewRouter creates and configures the HTTP router.
func NewRouter(
	esgHandler *handlers.ESGHandler,
	oracleHandler *handlers.OracleHandler,
	tokenHandler *handlers.TokenHandler,
	hub *realtime.Hub,
	log *logger.Logger,
) http.Handler {
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", healthCheckHandler).Methods("GET")

	// Websocket event stream
	r.HandleFunc("/ws/events", hub.ServeWS).Methods("GET")

	// API v1
	api := r.PathPrefix("/api").Subrouter()

	// Classification pipeline
	api.HandleFunc("/esg/classify", esgHandler.Classify).Methods("POST")
	api.HandleFunc("/esg/validate", esgHandler.Validate).Methods("POST")

	// Provider registry
	api.HandleFunc("/providers", oracleHandler.Register).Methods("POST")
	api.HandleFunc("/providers/{id}", oracleHandler.GetProvider).Methods("GET")
	api.HandleFunc("/providers/{id}/activate", oracleHandler.Activate).Methods("POST")
	api.HandleFunc("/providers/{id}/deactivate", oracleHandler.Deactivate).Methods("POST")

	// Score ledger
	api.HandleFunc("/oracle/authorization", oracleHandler.SetAuthorization).Methods("POST")
	api.HandleFunc("/oracle/scores", oracleHandler.UpdateScore).Methods("POST")
	api.HandleFunc("/oracle/scores/{entity}", oracleHandler.GetScore).Methods("GET")

	// Issuance gate
	api.HandleFunc("/token/mint", tokenHandler.Mint).Methods("POST")
	api.HandleFunc("/token/issuances/{id}", tokenHandler.GetIssuance).Methods("GET")
	api.HandleFunc("/token/balances/{entity}", tokenHandler.GetBalance).Methods("GET")

	// Apply middleware
	api.Use(writeRateLimitMiddleware(log))
	r.Use(loggingMiddleware(log))
	r.Use(recoveryMiddleware(log))

	return r
}

// healthCheckHandler returns server health status.
func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "ok",
		"service": "esgbridge-api",
	})
}

// loggingMiddleware logs HTTP requests.
func loggingMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			next.ServeHTTP(w, r)

			log.WithFields(map[string]interface{}{
				"method":   r.Method,
				"path":     r.URL.Path,
				"duration": time.Since(start),
			}).Debug("HTTP request")
		})
	}
}

// recoveryMiddleware recovers from panics.
func recoveryMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.WithFields(map[string]interface{}{
						"error": err,
						"path":  r.URL.Path,
					}).Error("Panic recovered")

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					json.NewEncoder(w).Encode(map[string]string{
						"error": "Internal server error",
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// writeRateLimitMiddleware throttles mutating requests.
func writeRateLimitMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	limiter := rate.NewLimiter(rate.Limit(writeRateLimit), writeRateBurst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodPost && !limiter.Allow() {
				log.WithField("path", r.URL.Path).Warn("Rate limit exceeded")

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				json.NewEncoder(w).Encode(map[string]string{
					"error": "Too many requests",
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
