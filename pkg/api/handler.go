// Package api exposes the ledger operations over HTTP.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shunichi-ikebuchi/billdivider/pkg/ledger"
	"github.com/shunichi-ikebuchi/billdivider/pkg/report"
)

// Handler serves the ledger endpoints.
type Handler struct {
	ledger *ledger.Ledger
	names  report.Namer
}

// NewHandler creates a new Handler.
func NewHandler(l *ledger.Ledger, names report.Namer) *Handler {
	return &Handler{ledger: l, names: names}
}

// ErrorResponse represents an API error response.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}

// RoommateResponse is a balance with the roommate's display name.
type RoommateResponse struct {
	ledger.Balance
	Name string `json:"name"`
}

// PaymentRequest is the body of POST /api/v1/payments.
type PaymentRequest struct {
	Text      string   `json:"text"`
	Giver     *int     `json:"giver"`
	Recipient *int     `json:"recipient"`
	Amount    *float64 `json:"amount"`
}

// AddRoommateRequest is the body of POST /api/v1/roommates.
type AddRoommateRequest struct {
	ID *int `json:"id"`
}

// Init handles POST /api/v1/init.
func (h *Handler) Init(w http.ResponseWriter, r *http.Request) {
	created, err := h.ledger.EnsureInitialized(r.Context())
	if err != nil {
		writeLedgerError(w, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, map[string]interface{}{"created": created})
}

// ListRoommates handles GET /api/v1/roommates.
func (h *Handler) ListRoommates(w http.ResponseWriter, r *http.Request) {
	balances, err := h.ledger.Balances(r.Context())
	if errors.Is(err, ledger.ErrEmptyRoommateList) {
		balances, err = []ledger.Balance{}, nil
	}
	if err != nil {
		writeLedgerError(w, err)
		return
	}

	roommates := make([]RoommateResponse, 0, len(balances))
	for _, b := range balances {
		roommates = append(roommates, RoommateResponse{Balance: b, Name: h.names.Name(b.ID)})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"roommates": roommates})
}

// AddRoommate handles POST /api/v1/roommates.
func (h *Handler) AddRoommate(w http.ResponseWriter, r *http.Request) {
	var req AddRoommateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Failed to parse request body")
		return
	}
	if req.ID == nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_parameter", "Missing id")
		return
	}

	record, err := h.ledger.AddRoommate(r.Context(), *req.ID)
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"roommate": record})
}

// GetContribution handles GET /api/v1/roommates/{id}/contribution.
func (h *Handler) GetContribution(w http.ResponseWriter, r *http.Request) {
	id, ok := roommateID(w, r)
	if !ok {
		return
	}

	amount, err := h.ledger.GetContribution(r.Context(), id)
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"id": id, "contribution": amount})
}

// GetDebt handles GET /api/v1/roommates/{id}/debt.
func (h *Handler) GetDebt(w http.ResponseWriter, r *http.Request) {
	id, ok := roommateID(w, r)
	if !ok {
		return
	}

	debt, err := h.ledger.GetDebt(r.Context(), id)
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"id": id, "debt": debt})
}

// Stats handles GET /api/v1/stats. The average is omitted when there are no roommates.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	total, err := h.ledger.GetTotalContributions(r.Context())
	if err != nil {
		writeLedgerError(w, err)
		return
	}

	response := map[string]interface{}{"total": total}
	avg, err := h.ledger.GetAvgContribution(r.Context())
	switch {
	case err == nil:
		response["average"] = avg
	case errors.Is(err, ledger.ErrEmptyRoommateList):
	default:
		writeLedgerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, response)
}

// GetLog handles GET /api/v1/log.
func (h *Handler) GetLog(w http.ResponseWriter, r *http.Request) {
	entries, err := h.ledger.GetLog(r.Context())
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"log": entries})
}

// AddPayment handles POST /api/v1/payments.
func (h *Handler) AddPayment(w http.ResponseWriter, r *http.Request) {
	var req PaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Failed to parse request body")
		return
	}

	// Validate required fields.
	if req.Giver == nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_parameter", "Missing giver")
		return
	}
	if req.Recipient == nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_parameter", "Missing recipient")
		return
	}
	if req.Amount == nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_parameter", "Missing amount")
		return
	}

	entry, err := h.ledger.AddPayment(r.Context(), req.Text, *req.Giver, *req.Recipient, *req.Amount)
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"entry": entry})
}

// Settlements handles GET /api/v1/settlements.
func (h *Handler) Settlements(w http.ResponseWriter, r *http.Request) {
	transfers, err := h.ledger.Settlements(r.Context())
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"settlements": transfers})
}

func roommateID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_parameter", "Invalid roommate ID")
		return 0, false
	}
	return id, true
}

// writeLedgerError maps ledger error kinds to HTTP statuses.
func writeLedgerError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ledger.ErrNotFound), errors.Is(err, ledger.ErrUnknownRoommate):
		writeJSONError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, ledger.ErrInvalidAmount), errors.Is(err, ledger.ErrInvalidRoommateID):
		writeJSONError(w, http.StatusBadRequest, "invalid_parameter", err.Error())
	case errors.Is(err, ledger.ErrDuplicateRoommate):
		writeJSONError(w, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, ledger.ErrEmptyRoommateList):
		writeJSONError(w, http.StatusConflict, "empty_roommate_list", err.Error())
	default:
		slog.Error("Ledger operation failed", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "server_error", err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeJSONError(w http.ResponseWriter, status int, code, description string) {
	writeJSON(w, status, ErrorResponse{
		Error:            code,
		ErrorDescription: description,
	})
}
