/*
handlers.go - HTTP API handlers for the rent schedule engine

PURPOSE:
  Exposes the schedule engine via REST. Handles HTTP request/response and
  JSON serialization, runs raw bodies through the factory validation
  boundary, and delegates to the lease aggregate.

ENDPOINTS:
  POST   /api/leases                        Create lease from rent terms
  GET    /api/leases                        List leases
  GET    /api/leases/{id}                   Lease details
  GET    /api/leases/{id}/schedule          Rendered payment schedule
  POST   /api/leases/{id}/rent-changes      Apply a rent change
  PUT    /api/leases/{id}/payment-method    Add or change payment method

REQUEST FLOW:
  1. Decode raw body
  2. Validate via factory (the only place user-facing errors originate)
  3. Load lease from store (replayed from terms + events)
  4. Apply mutation, append the event
  5. Return the rendered schedule

ERROR HANDLING:
  - 400: validation errors, with a stable code per taxonomy kind
  - 404: unknown lease
  - 500: store failures

SEE ALSO:
  - dto.go: Response structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/warp/rent-engine/factory"
	"github.com/warp/rent-engine/lease"
	"github.com/warp/rent-engine/schedule"
)

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store lease.Store
	Log   *logrus.Logger
}

// NewHandler creates a handler backed by the given store.
func NewHandler(store lease.Store, log *logrus.Logger) *Handler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Handler{Store: store, Log: log}
}

// =============================================================================
// LEASE HANDLERS
// =============================================================================

// CreateLease validates raw rent terms, builds the lease and its schedule,
// and persists the terms.
func (h *Handler) CreateLease(w http.ResponseWriter, r *http.Request) {
	var fields map[string]any
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body", "invalid_json")
		return
	}

	terms, err := factory.ParseRentTerms(fields)
	if err != nil {
		writeValidationError(w, err)
		return
	}

	l := lease.Build(terms)
	if err := h.Store.SaveLease(r.Context(), l); err != nil {
		h.Log.WithError(err).Error("failed to save lease")
		writeError(w, http.StatusInternalServerError, "Failed to save lease", "store_error")
		return
	}

	h.Log.WithFields(logrus.Fields{
		"lease_id": l.ID,
		"entries":  l.Schedule().Len(),
	}).Info("lease created")

	writeJSON(w, http.StatusCreated, toLeaseScheduleDTO(l, l.PaymentDates()))
}

// ListLeases returns all leases.
func (h *Handler) ListLeases(w http.ResponseWriter, r *http.Request) {
	leases, err := h.Store.ListLeases(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list leases", "store_error")
		return
	}

	dtos := make([]LeaseDTO, len(leases))
	for i, l := range leases {
		dtos[i] = toLeaseDTO(l)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetLease returns one lease's details.
func (h *Handler) GetLease(w http.ResponseWriter, r *http.Request) {
	l, ok := h.loadLease(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toLeaseDTO(l))
}

// GetSchedule returns a lease's rendered payment schedule.
func (h *Handler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	l, ok := h.loadLease(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, l.PaymentDates())
}

// ApplyRentChange validates and applies a rent change, appends the event,
// and returns the re-rendered schedule.
func (h *Handler) ApplyRentChange(w http.ResponseWriter, r *http.Request) {
	var fields map[string]any
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body", "invalid_json")
		return
	}

	change, err := factory.ParseRentChange(fields)
	if err != nil {
		writeValidationError(w, err)
		return
	}

	l, ok := h.loadLease(w, r)
	if !ok {
		return
	}

	records := l.AdjustRent(change)
	if !h.appendLatestEvent(w, r, l) {
		return
	}

	h.Log.WithFields(logrus.Fields{
		"lease_id":       l.ID,
		"effective_date": change.EffectiveDate.String(),
	}).Info("rent change applied")

	writeJSON(w, http.StatusOK, records)
}

// SetPaymentMethod validates and applies a payment method change across the
// whole schedule, appends the event, and returns the re-rendered schedule.
func (h *Handler) SetPaymentMethod(w http.ResponseWriter, r *http.Request) {
	var req SetPaymentMethodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body", "invalid_json")
		return
	}

	method, err := factory.ParsePaymentMethod(req.PaymentMethod)
	if err != nil {
		writeValidationError(w, err)
		return
	}

	l, ok := h.loadLease(w, r)
	if !ok {
		return
	}

	records := l.SetPaymentMethod(method)
	if !h.appendLatestEvent(w, r, l) {
		return
	}

	h.Log.WithFields(logrus.Fields{
		"lease_id": l.ID,
		"method":   string(method),
	}).Info("payment method changed")

	writeJSON(w, http.StatusOK, records)
}

// =============================================================================
// HELPERS
// =============================================================================

func (h *Handler) loadLease(w http.ResponseWriter, r *http.Request) (*lease.Lease, bool) {
	id := chi.URLParam(r, "id")
	l, err := h.Store.GetLease(r.Context(), id)
	if errors.Is(err, lease.ErrLeaseNotFound) {
		writeError(w, http.StatusNotFound, "Lease not found", "not_found")
		return nil, false
	}
	if err != nil {
		h.Log.WithError(err).Error("failed to load lease")
		writeError(w, http.StatusInternalServerError, "Failed to load lease", "store_error")
		return nil, false
	}
	return l, true
}

// appendLatestEvent persists the most recent mutation recorded on the
// aggregate. The mutation already happened in memory; if the append fails
// the client gets a 500 and the next load will not reflect the change.
func (h *Handler) appendLatestEvent(w http.ResponseWriter, r *http.Request, l *lease.Lease) bool {
	events := l.Events()
	if len(events) == 0 {
		return true
	}
	if err := h.Store.AppendEvent(r.Context(), events[len(events)-1]); err != nil {
		h.Log.WithError(err).Error("failed to append event")
		writeError(w, http.StatusInternalServerError, "Failed to record change", "store_error")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg, code string) {
	writeJSON(w, status, ErrorResponse{Error: msg, Code: code})
}

// writeValidationError maps the factory taxonomy onto stable error codes.
func writeValidationError(w http.ResponseWriter, err error) {
	code := "invalid_input"
	switch {
	case errors.Is(err, factory.ErrMissingField):
		code = "missing_field"
	case errors.Is(err, factory.ErrInvalidAmount):
		code = "invalid_amount"
	case errors.Is(err, factory.ErrInvalidFrequency):
		code = "invalid_frequency"
	case errors.Is(err, factory.ErrInvalidPaymentMethod):
		code = "invalid_payment_method"
	case errors.Is(err, schedule.ErrInvalidDateFormat):
		code = "invalid_date_format"
	case errors.Is(err, schedule.ErrInvalidCalendarDate):
		code = "invalid_calendar_date"
	}
	writeError(w, http.StatusBadRequest, err.Error(), code)
}
