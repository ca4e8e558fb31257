package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/rl1809/stockroom/internal/core/service"
	"github.com/rl1809/stockroom/internal/port"
)

type HTTPHandler struct {
	svc     *service.InventoryService
	metrics http.Handler
}

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// formValue accepts a JSON string, number or null and keeps its text, so a
// quantity can be posted as 3 or "3" and still go through form validation.
type formValue string

func (v *formValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*v = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = formValue(s)
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		*v = formValue(n.String())
	}
	return nil
}

type ItemRequest struct {
	Item     string    `json:"item"`
	Quantity formValue `json:"quantity"`
	Location string    `json:"location"`
}

func (r ItemRequest) draft() service.ItemDraft {
	return service.ItemDraft{Name: r.Item, Quantity: string(r.Quantity), Location: r.Location}
}

type IssuanceRequest struct {
	ItemID         string    `json:"item_id"`
	IssuedTo       string    `json:"issued_to"`
	IssuedAt       string    `json:"issued_at"`
	QuantityIssued formValue `json:"quantity_issued"`
	ReturnQuantity formValue `json:"return_quantity"`
	ReturnDate     string    `json:"return_date"`
}

func (r IssuanceRequest) draft() service.IssuanceDraft {
	return service.IssuanceDraft{
		ItemID:         r.ItemID,
		IssuedTo:       r.IssuedTo,
		IssuedAt:       r.IssuedAt,
		QuantityIssued: string(r.QuantityIssued),
		ReturnQuantity: string(r.ReturnQuantity),
		ReturnDate:     r.ReturnDate,
	}
}

// NewHTTPHandler serves the inventory API. metrics is mounted at /metrics
// when non-nil.
func NewHTTPHandler(svc *service.InventoryService, metrics http.Handler) *HTTPHandler {
	return &HTTPHandler{svc: svc, metrics: metrics}
}

func (h *HTTPHandler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", h.HealthCheck)
	if h.metrics != nil {
		r.Handle("/metrics", h.metrics)
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/items", h.listItems)
		r.Post("/items", h.createItem)
		r.Put("/items/{id}", h.updateItem)
		r.Delete("/items/{id}", h.deleteItem)

		r.Get("/issued", h.listIssuances)
		r.Post("/issued", h.createIssuance)
		r.Put("/issued/{id}", h.updateIssuance)
		r.Delete("/issued/{id}", h.deleteIssuance)

		r.Get("/outstanding", h.outstanding)
		r.Post("/reload", h.reload)
	})
	return r
}

func (h *HTTPHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"loaded": h.svc.Cache().Loaded(),
	})
}

func (h *HTTPHandler) listItems(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.ItemsView(r.URL.Query().Get("q")))
}

func (h *HTTPHandler) createItem(w http.ResponseWriter, r *http.Request) {
	var req ItemRequest
	if !decode(w, r, &req) {
		return
	}
	item, err := h.svc.AddItem(r.Context(), req.draft())
	if err != nil {
		writeError(w, err, "Add failed")
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (h *HTTPHandler) updateItem(w http.ResponseWriter, r *http.Request) {
	var req ItemRequest
	if !decode(w, r, &req) {
		return
	}
	item, err := h.svc.UpdateItem(r.Context(), chi.URLParam(r, "id"), req.draft())
	if err != nil {
		writeError(w, err, "Update failed")
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *HTTPHandler) deleteItem(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteItem(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err, "Delete failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *HTTPHandler) listIssuances(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.IssuancesView(r.URL.Query().Get("q")))
}

func (h *HTTPHandler) createIssuance(w http.ResponseWriter, r *http.Request) {
	var req IssuanceRequest
	if !decode(w, r, &req) {
		return
	}
	rec, err := h.svc.AddIssuance(r.Context(), req.draft())
	if err != nil {
		writeError(w, err, "Add failed")
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

func (h *HTTPHandler) updateIssuance(w http.ResponseWriter, r *http.Request) {
	var req IssuanceRequest
	if !decode(w, r, &req) {
		return
	}
	rec, err := h.svc.UpdateIssuance(r.Context(), chi.URLParam(r, "id"), req.draft())
	if err != nil {
		writeError(w, err, "Update failed")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (h *HTTPHandler) deleteIssuance(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteIssuance(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err, "Delete failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *HTTPHandler) outstanding(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Outstanding())
}

func (h *HTTPHandler) reload(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Load(r.Context()); err != nil {
		writeError(w, err, "Failed to load items")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{
		"items":  len(h.svc.Cache().Items()),
		"issued": len(h.svc.Cache().Issuances()),
	})
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return false
	}
	return true
}

func writeError(w http.ResponseWriter, err error, fallback string) {
	var ve *service.ValidationError
	if errors.As(err, &ve) {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: ve.Message, Field: ve.Field})
		return
	}

	status := http.StatusInternalServerError
	var se *port.StoreError
	var te *port.TransportError
	if errors.Is(err, port.ErrNotFound) {
		status = http.StatusNotFound
	} else if errors.As(err, &se) || errors.As(err, &te) {
		status = http.StatusBadGateway
	}
	writeJSON(w, status, ErrorResponse{Error: service.FailureMessage(err, fallback)})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
