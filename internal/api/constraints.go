package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MikeSquared-Agency/Concierge/internal/broker"
	"github.com/MikeSquared-Agency/Concierge/internal/store"
)

type ConstraintsHandler struct {
	broker *broker.Broker
}

func NewConstraintsHandler(b *broker.Broker) *ConstraintsHandler {
	return &ConstraintsHandler{broker: b}
}

type UpdateConstraintRequest struct {
	Enabled    *bool                  `json:"enabled" validate:"required"`
	Weight     *int                   `json:"weight,omitempty" validate:"omitempty,min=0"`
	Parameters map[string]interface{} `json:"parameters,omitempty"`
}

// GET /api/v1/strategies
func (h *ConstraintsHandler) Strategies(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.broker.Strategies())
}

// GET /api/v1/guests/{id}/constraints
func (h *ConstraintsHandler) Guest(w http.ResponseWriter, r *http.Request) {
	c, err := h.broker.GuestConstraints(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// GET /api/v1/constraints/templates
func (h *ConstraintsHandler) Templates(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.broker.Templates())
}

// GET /api/v1/tenants/{tenant}/constraints
func (h *ConstraintsHandler) Tenant(w http.ResponseWriter, r *http.Request) {
	list, err := h.broker.TenantConstraints(r.Context(), chi.URLParam(r, "tenant"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// PUT /api/v1/tenants/{tenant}/constraints/{code}
func (h *ConstraintsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateConstraintRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if err := validate.Struct(req); err != nil {
		writeValidationError(w, err)
		return
	}

	cfg, err := h.broker.UpdateTenantConstraint(r.Context(), chi.URLParam(r, "tenant"), chi.URLParam(r, "code"), &store.TenantConstraintConfig{
		Enabled:    *req.Enabled,
		Weight:     req.Weight,
		Parameters: req.Parameters,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}
