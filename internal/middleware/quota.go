package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/brandgen/brandgen-go/internal/metrics"
	"github.com/brandgen/brandgen-go/internal/quota"
)

// QuotaExceededMessage is the fixed body text returned on 429.
const QuotaExceededMessage = "Rate limit exceeded. Please try again in 1 hour."

// Admitter decides whether a client identity may proceed.
type Admitter interface {
	Allow(ctx context.Context, identity string) (quota.Decision, error)
}

// Quota rejects callers that used up their generation quota. It sets the
// RateLimit-* draft headers on every admitted or rejected response. A failing
// store admits the request.
func Quota(gate Admitter, keyFn KeyFunc, logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			dec, err := gate.Allow(r.Context(), keyFn(r))
			if err != nil {
				metrics.QuotaDecisions.WithLabelValues(metrics.DecisionError).Inc()
				logger.Error("quota check failed, admitting request", "error", err)
				next.ServeHTTP(w, r)
				return
			}

			resetIn := int(time.Until(dec.ResetAt).Round(time.Second).Seconds())
			if resetIn < 0 {
				resetIn = 0
			}
			h := w.Header()
			h.Set("RateLimit-Limit", strconv.Itoa(dec.Limit))
			h.Set("RateLimit-Remaining", strconv.Itoa(dec.Remaining))
			h.Set("RateLimit-Reset", strconv.Itoa(resetIn))

			if !dec.Allowed {
				metrics.QuotaDecisions.WithLabelValues(metrics.DecisionRejected).Inc()
				h.Set("Retry-After", strconv.Itoa(resetIn))
				writeJSONError(w, http.StatusTooManyRequests, QuotaExceededMessage)
				return
			}

			metrics.QuotaDecisions.WithLabelValues(metrics.DecisionAllowed).Inc()
			next.ServeHTTP(w, r)
		})
	}
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
