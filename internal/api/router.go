package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MikeSquared-Agency/Concierge/internal/broker"
	"github.com/MikeSquared-Agency/Concierge/internal/config"
	"github.com/MikeSquared-Agency/Concierge/internal/store"
)

func NewRouter(s store.Store, b *broker.Broker, cfg *config.Config, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(CORSMiddleware(cfg.Server.CORSAllowedOrigins))
	r.Use(RequestLogger(logger))
	r.Use(RateLimitMiddleware(cfg.Server.RateLimitPerMinute))

	allocations := NewAllocationsHandler(b)
	constraints := NewConstraintsHandler(b)
	rooms := NewRoomsHandler(s)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(TenantMiddleware(cfg.Tenant.Default, cfg.Tenant.RequireHeader))

		r.Post("/allocations", allocations.Allocate)
		r.Post("/allocations/batch", allocations.Batch)
		r.Post("/allocations/compare", allocations.Compare)
		r.Get("/bookings/{id}/explain", allocations.Explain)

		r.Get("/strategies", constraints.Strategies)
		r.Get("/guests/{id}/constraints", constraints.Guest)
		r.Get("/constraints/templates", constraints.Templates)
		r.Get("/tenants/{tenant}/constraints", constraints.Tenant)

		r.Get("/rooms", rooms.List)
		r.Get("/rooms/{id}", rooms.Get)

		r.Group(func(r chi.Router) {
			r.Use(AdminAuthMiddleware(cfg.Server.AdminToken))
			r.Put("/tenants/{tenant}/constraints/{code}", constraints.Update)
		})
	})

	return r
}

func NewMetricsRouter() http.Handler {
	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())
	return r
}
