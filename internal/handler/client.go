package handler

import (
	"encoding/json"
	"net/http"

	"bank-risk-service/internal/models"
)

type createClientRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// CreateClient handles client registration
func (h *Handler) CreateClient(w http.ResponseWriter, r *http.Request) {
	var req createClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	client, err := h.clients.CreateClient(r.Context(), req.Name, req.Email, req.Phone)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, client)
}

// ListClients lists clients, optionally filtered by email or phone
func (h *Handler) ListClients(w http.ResponseWriter, r *http.Request) {
	if email := r.URL.Query().Get("email"); email != "" {
		client, err := h.clients.SearchByEmail(r.Context(), email)
		if err != nil {
			h.respondError(w, err)
			return
		}
		h.respondJSON(w, http.StatusOK, []models.Client{*client})
		return
	}
	if phone := r.URL.Query().Get("phone"); phone != "" {
		client, err := h.clients.SearchByPhone(r.Context(), phone)
		if err != nil {
			h.respondError(w, err)
			return
		}
		h.respondJSON(w, http.StatusOK, []models.Client{*client})
		return
	}

	clients, err := h.clients.GetAllClients(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, clients)
}

// GetClient retrieves one client
func (h *Handler) GetClient(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "Invalid client id", http.StatusBadRequest)
		return
	}

	client, err := h.clients.GetClient(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, client)
}

// UpdateClient updates a client's contact details
func (h *Handler) UpdateClient(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "Invalid client id", http.StatusBadRequest)
		return
	}

	var req createClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	client := &models.Client{ID: id, Name: req.Name, Email: req.Email, Phone: req.Phone}
	if _, err := h.clients.UpdateClient(r.Context(), client); err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, client)
}

// DeleteClient removes a client
func (h *Handler) DeleteClient(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "Invalid client id", http.StatusBadRequest)
		return
	}

	if _, err := h.clients.DeleteClient(r.Context(), id); err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListClientCards lists the cards owned by a client
func (h *Handler) ListClientCards(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "Invalid client id", http.StatusBadRequest)
		return
	}

	cards, err := h.cards.GetClientCards(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, cards)
}
