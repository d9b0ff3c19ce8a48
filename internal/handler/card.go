package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/shopspring/decimal"

	"bank-risk-service/internal/models"
)

type createCardRequest struct {
	ClientID     int64            `json:"client_id"`
	Type         models.CardType  `json:"type"`
	DailyLimit   *decimal.Decimal `json:"daily_limit,omitempty"`
	MonthlyLimit *decimal.Decimal `json:"monthly_limit,omitempty"`
	InterestRate *decimal.Decimal `json:"interest_rate,omitempty"`
	Balance      *decimal.Decimal `json:"balance,omitempty"`
}

// CreateCard handles card issuance for all three variants
func (h *Handler) CreateCard(w http.ResponseWriter, r *http.Request) {
	var req createCardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	var (
		card *models.Card
		err  error
	)
	switch req.Type {
	case models.CardTypeDebit:
		if req.DailyLimit == nil {
			http.Error(w, "daily_limit is required for debit cards", http.StatusBadRequest)
			return
		}
		card, err = h.cards.CreateDebitCard(r.Context(), req.ClientID, *req.DailyLimit)
	case models.CardTypeCredit:
		if req.MonthlyLimit == nil {
			http.Error(w, "monthly_limit is required for credit cards", http.StatusBadRequest)
			return
		}
		card, err = h.cards.CreateCreditCard(r.Context(), req.ClientID, *req.MonthlyLimit, req.InterestRate)
	case models.CardTypePrepaid:
		if req.Balance == nil {
			http.Error(w, "balance is required for prepaid cards", http.StatusBadRequest)
			return
		}
		card, err = h.cards.CreatePrepaidCard(r.Context(), req.ClientID, *req.Balance)
	default:
		http.Error(w, "Unknown card type", http.StatusBadRequest)
		return
	}
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, card)
}

// GetCard retrieves one card
func (h *Handler) GetCard(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "Invalid card id", http.StatusBadRequest)
		return
	}

	card, err := h.cards.GetCard(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, card)
}

// ListCards lists every card
func (h *Handler) ListCards(w http.ResponseWriter, r *http.Request) {
	cards, err := h.cards.GetAllCards(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, cards)
}

// DeleteCard removes a card
func (h *Handler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "Invalid card id", http.StatusBadRequest)
		return
	}

	if _, err := h.cards.DeleteCard(r.Context(), id); err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ActivateCard handles the explicit activation command
func (h *Handler) ActivateCard(w http.ResponseWriter, r *http.Request) {
	h.changeStatus(w, r, h.cards.Activate)
}

// SuspendCard handles the explicit suspension command
func (h *Handler) SuspendCard(w http.ResponseWriter, r *http.Request) {
	h.changeStatus(w, r, h.cards.Suspend)
}

// BlockCard handles the explicit block command
func (h *Handler) BlockCard(w http.ResponseWriter, r *http.Request) {
	h.changeStatus(w, r, h.cards.Block)
}

func (h *Handler) changeStatus(w http.ResponseWriter, r *http.Request, transition func(context.Context, int64) (bool, error)) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "Invalid card id", http.StatusBadRequest)
		return
	}

	updated, err := transition(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]bool{"updated": updated})
}

type verifyLimitRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// VerifyLimit runs the admission check without recording anything
func (h *Handler) VerifyLimit(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "Invalid card id", http.StatusBadRequest)
		return
	}

	var req verifyLimitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	allowed, err := h.cards.VerifyLimit(r.Context(), id, req.Amount)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]bool{"allowed": allowed})
}
