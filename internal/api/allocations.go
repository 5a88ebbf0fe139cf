package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/MikeSquared-Agency/Concierge/internal/broker"
	"github.com/MikeSquared-Agency/Concierge/internal/store"
)

var validate = store.NewValidator()

type AllocationsHandler struct {
	broker *broker.Broker
}

func NewAllocationsHandler(b *broker.Broker) *AllocationsHandler {
	return &AllocationsHandler{broker: b}
}

// POST /api/v1/allocations
func (h *AllocationsHandler) Allocate(w http.ResponseWriter, r *http.Request) {
	var req broker.AllocateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if err := validate.Struct(req); err != nil {
		writeValidationError(w, err)
		return
	}

	res, err := h.broker.AllocateOne(r.Context(), TenantFromContext(r.Context()), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// POST /api/v1/allocations/batch
func (h *AllocationsHandler) Batch(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeBatch(w, r)
	if !ok {
		return
	}
	res, err := h.broker.AllocateBatch(r.Context(), TenantFromContext(r.Context()), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// POST /api/v1/allocations/compare
func (h *AllocationsHandler) Compare(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeBatch(w, r)
	if !ok {
		return
	}
	res, err := h.broker.Compare(r.Context(), TenantFromContext(r.Context()), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"results": res})
}

// Explain returns every candidate room's score breakdown for a booking.
// GET /api/v1/bookings/{id}/explain?method=
func (h *AllocationsHandler) Explain(w http.ResponseWriter, r *http.Request) {
	res, err := h.broker.Explain(r.Context(), TenantFromContext(r.Context()), chi.URLParam(r, "id"), r.URL.Query().Get("method"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// decodeBatch accepts an empty body as "every unassigned booking".
func decodeBatch(w http.ResponseWriter, r *http.Request) (broker.BatchRequest, bool) {
	var req broker.BatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return req, false
	}
	if err := validate.Struct(req); err != nil {
		writeValidationError(w, err)
		return req, false
	}
	return req, true
}

// writeValidationError reports each failing field as "path: tag".
func writeValidationError(w http.ResponseWriter, err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fmt.Sprintf("%s: %s", fe.Namespace(), fe.Tag()))
	}
	writeJSON(w, http.StatusBadRequest, map[string]interface{}{
		"error":  "invalid request",
		"fields": fields,
	})
}

// writeError maps broker errors to HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, broker.ErrBookingNotFound), errors.Is(err, broker.ErrGuestNotFound):
		status = http.StatusNotFound
	case errors.Is(err, broker.ErrUnknownMethod), errors.Is(err, broker.ErrInvalidConstraint):
		status = http.StatusBadRequest
	case errors.Is(err, broker.ErrBatchTooLarge):
		status = http.StatusRequestEntityTooLarge
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
