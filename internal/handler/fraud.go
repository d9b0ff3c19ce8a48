package handler

import (
	"encoding/json"
	"net/http"

	"bank-risk-service/internal/models"
)

// AnalyzeCard runs the fraud scans over one card's history
func (h *Handler) AnalyzeCard(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "Invalid card id", http.StatusBadRequest)
		return
	}

	if err := h.fraud.Analyze(r.Context(), id); err != nil {
		h.respondError(w, err)
		return
	}

	alerts, err := h.fraud.GetCardAlerts(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, alerts)
}

// ListCardAlerts lists a card's alerts
func (h *Handler) ListCardAlerts(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "Invalid card id", http.StatusBadRequest)
		return
	}

	alerts, err := h.fraud.GetCardAlerts(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, alerts)
}

// ListAlerts lists alerts, optionally filtered by level
func (h *Handler) ListAlerts(w http.ResponseWriter, r *http.Request) {
	if level := r.URL.Query().Get("level"); level != "" {
		alerts, err := h.fraud.GetAlertsByLevel(r.Context(), models.AlertLevel(level))
		if err != nil {
			h.respondError(w, err)
			return
		}
		h.respondJSON(w, http.StatusOK, alerts)
		return
	}

	alerts, err := h.fraud.GetAllAlerts(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, alerts)
}

// ListCriticalAlerts lists critical alerts
func (h *Handler) ListCriticalAlerts(w http.ResponseWriter, r *http.Request) {
	alerts, err := h.fraud.GetCriticalAlerts(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, alerts)
}

type createAlertRequest struct {
	CardID      int64             `json:"card_id"`
	Description string            `json:"description"`
	Level       models.AlertLevel `json:"level"`
}

// CreateAlert registers a manually raised operator alert
func (h *Handler) CreateAlert(w http.ResponseWriter, r *http.Request) {
	var req createAlertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	alert, err := h.fraud.CreateAlert(r.Context(), req.CardID, req.Description, req.Level)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, alert)
}

// DeleteAlert removes an alert
func (h *Handler) DeleteAlert(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "Invalid alert id", http.StatusBadRequest)
		return
	}

	if _, err := h.fraud.DeleteAlert(r.Context(), id); err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
