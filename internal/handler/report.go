package handler

import (
	"net/http"
	"strconv"
	"time"

	"bank-risk-service/internal/models"
)

// TopCards reports the most used cards
func (h *Handler) TopCards(w http.ResponseWriter, r *http.Request) {
	limit := 5
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			http.Error(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	usage, err := h.reports.TopUsedCards(r.Context(), limit)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, usage)
}

// MonthlyReport reports totals and counts per operation type for one month
func (h *Handler) MonthlyReport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	year, err := strconv.Atoi(q.Get("year"))
	if err != nil {
		http.Error(w, "Invalid year", http.StatusBadRequest)
		return
	}
	monthNum, err := strconv.Atoi(q.Get("month"))
	if err != nil || monthNum < 1 || monthNum > 12 {
		http.Error(w, "Invalid month", http.StatusBadRequest)
		return
	}
	month := time.Month(monthNum)

	totals, err := h.reports.MonthlyTotals(r.Context(), year, month)
	if err != nil {
		h.respondError(w, err)
		return
	}
	counts, err := h.reports.MonthlyCounts(r.Context(), year, month)
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]any{
		"totals": totals,
		"counts": counts,
	})
}

// StatusCards lists cards by status; without a status filter it lists the
// cards the fraud engine escalated
func (h *Handler) StatusCards(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	if status == "" {
		cards, err := h.reports.SuspiciousCards(r.Context())
		if err != nil {
			h.respondError(w, err)
			return
		}
		h.respondJSON(w, http.StatusOK, cards)
		return
	}

	cards, err := h.reports.CardsByStatus(r.Context(), models.CardStatus(status))
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, cards)
}

// PeriodTotal reports the total operation amount within a period
func (h *Handler) PeriodTotal(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	start, err := time.Parse(time.RFC3339, q.Get("from"))
	if err != nil {
		http.Error(w, "Invalid from timestamp", http.StatusBadRequest)
		return
	}
	end, err := time.Parse(time.RFC3339, q.Get("to"))
	if err != nil {
		http.Error(w, "Invalid to timestamp", http.StatusBadRequest)
		return
	}

	total, err := h.reports.TotalAmountForPeriod(r.Context(), start, end)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]any{"total": total})
}

// AverageAmount reports the mean operation amount across all operations
func (h *Handler) AverageAmount(w http.ResponseWriter, r *http.Request) {
	average, err := h.reports.AverageOperationAmount(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]any{"average": average})
}
