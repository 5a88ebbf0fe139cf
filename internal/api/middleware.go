package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
)

const TenantHeader = "X-Tenant-ID"

type ctxKey int

const tenantKey ctxKey = iota

// TenantFromContext returns the tenant resolved by TenantMiddleware.
func TenantFromContext(ctx context.Context) string {
	v, _ := ctx.Value(tenantKey).(string)
	return v
}

// TenantMiddleware resolves the tenant from X-Tenant-ID, falling back to
// defaultTenant unless the header is required.
func TenantMiddleware(defaultTenant string, required bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tenant := r.Header.Get(TenantHeader)
			if tenant == "" {
				if required {
					http.Error(w, `{"error":"X-Tenant-ID header required"}`, http.StatusUnauthorized)
					return
				}
				tenant = defaultTenant
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), tenantKey, tenant)))
		})
	}
}

func AdminAuthMiddleware(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}
			auth := r.Header.Get("Authorization")
			if auth != "Bearer "+token {
				http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func RequestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			logger.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"duration_ms", time.Since(start).Milliseconds(),
				"tenant", r.Header.Get(TenantHeader),
			)
		})
	}
}

// RateLimitMiddleware applies a sliding one-minute window per tenant, or per
// client IP when no tenant header is sent. A limit of 0 disables it.
func RateLimitMiddleware(requestsPerMinute int) func(http.Handler) http.Handler {
	if requestsPerMinute <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return httprate.Limit(requestsPerMinute, time.Minute,
		httprate.WithKeyFuncs(tenantOrIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error":"rate limit exceeded"}`, http.StatusTooManyRequests)
		}),
	)
}

func tenantOrIP(r *http.Request) (string, error) {
	if tenant := r.Header.Get(TenantHeader); tenant != "" {
		return "tenant:" + tenant, nil
	}
	return httprate.KeyByIP(r)
}

// CORSMiddleware allows browser clients from origins. With no origins it is
// a no-op.
func CORSMiddleware(origins []string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", TenantHeader},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	})
}
