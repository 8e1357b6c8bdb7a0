package api

import (
	"encoding/json"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/profitscout/scout-api/internal/api/handlers"
	"github.com/profitscout/scout-api/pkg/logger"
)

// NewRouter creates and configures the HTTP router.
// The options-signals routes must be registered before the generic
// /v1/{dataset}/{id} route so the synthetic dataset wins the match.
func NewRouter(
	artifactHandler *handlers.ArtifactHandler,
	datasetHandler *handlers.DatasetHandler,
	signalHandler *handlers.SignalHandler,
	limiter Limiter,
	log *logger.Logger,
) http.Handler {
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/healthz", healthzHandler).Methods("GET")

	// Options signals (warehouse-backed)
	r.HandleFunc("/v1/options-signals/top", signalHandler.Top).Methods("GET")
	r.HandleFunc("/v1/options-signals/{ticker}", signalHandler.ForTicker).Methods("GET")
	r.HandleFunc("/v1/options-signals", signalHandler.ListTickers).Methods("GET")

	// Research artifacts (storage-backed)
	r.HandleFunc("/v1/{dataset}/{id}", artifactHandler.Get).Methods("GET")
	r.HandleFunc("/v1", datasetHandler.List).Methods("GET")

	// Apply middleware
	if limiter != nil {
		r.Use(rateLimitMiddleware(limiter, log))
	}
	r.Use(loggingMiddleware(log))
	r.Use(recoveryMiddleware(log))

	// CORS wraps the router itself so OPTIONS preflights are answered
	// before route matching.
	return corsMiddleware(r)
}

// healthzHandler returns server health status
func healthzHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"ok": true})
}

// corsMiddleware allows cross-origin reads from any origin
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "*")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// rateLimitMiddleware throttles requests per caller IP
func rateLimitMiddleware(limiter Limiter, log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := clientIP(r)

			allowed, err := limiter.Allow(r.Context(), key)
			if err != nil {
				// A limiter outage must not take the API down
				log.WithError(err).Warn("Rate limiter check failed, allowing request")
				allowed = true
			}

			if !allowed {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				json.NewEncoder(w).Encode(map[string]string{
					"error": "Rate limit exceeded",
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientIP extracts the caller address without the port
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// loggingMiddleware logs HTTP requests
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

// recoveryMiddleware recovers from panics
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
