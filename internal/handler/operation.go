package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"bank-risk-service/internal/models"
)

type recordOperationRequest struct {
	CardID   int64                `json:"card_id"`
	Amount   decimal.Decimal      `json:"amount"`
	Type     models.OperationType `json:"type"`
	Location string               `json:"location"`
	Date     *time.Time           `json:"date,omitempty"`
}

// RecordOperation admits and records a card operation
func (h *Handler) RecordOperation(w http.ResponseWriter, r *http.Request) {
	var req recordOperationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	var (
		op  *models.Operation
		err error
	)
	if req.Date != nil {
		op, err = h.operations.RecordOperationAt(r.Context(), req.CardID, req.Amount, req.Type, req.Location, *req.Date)
	} else {
		op, err = h.operations.RecordOperation(r.Context(), req.CardID, req.Amount, req.Type, req.Location)
	}
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, op)
}

// GetOperation retrieves one operation
func (h *Handler) GetOperation(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "Invalid operation id", http.StatusBadRequest)
		return
	}

	op, err := h.operations.GetOperation(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, op)
}

// ListOperations lists operations, optionally filtered by type or period
func (h *Handler) ListOperations(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	if opType := q.Get("type"); opType != "" {
		ops, err := h.operations.GetOperationsByType(r.Context(), models.OperationType(opType))
		if err != nil {
			h.respondError(w, err)
			return
		}
		h.respondJSON(w, http.StatusOK, ops)
		return
	}

	if from, to := q.Get("from"), q.Get("to"); from != "" && to != "" {
		start, err := time.Parse(time.RFC3339, from)
		if err != nil {
			http.Error(w, "Invalid from timestamp", http.StatusBadRequest)
			return
		}
		end, err := time.Parse(time.RFC3339, to)
		if err != nil {
			http.Error(w, "Invalid to timestamp", http.StatusBadRequest)
			return
		}
		ops, err := h.operations.GetOperationsByPeriod(r.Context(), start, end)
		if err != nil {
			h.respondError(w, err)
			return
		}
		h.respondJSON(w, http.StatusOK, ops)
		return
	}

	ops, err := h.operations.GetAllOperations(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, ops)
}

// ListCardOperations lists a card's operations, newest first
func (h *Handler) ListCardOperations(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "Invalid card id", http.StatusBadRequest)
		return
	}

	ops, err := h.operations.GetCardOperations(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, ops)
}

// DeleteOperation removes an operation
func (h *Handler) DeleteOperation(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "Invalid operation id", http.StatusBadRequest)
		return
	}

	if _, err := h.operations.DeleteOperation(r.Context(), id); err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
