package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"bank-risk-service/internal/models"
	"bank-risk-service/internal/service"
)

// Handler exposes the back-office services over HTTP
type Handler struct {
	clients    *service.ClientService
	cards      *service.CardService
	operations *service.OperationService
	fraud      *service.FraudService
	reports    *service.ReportService
	auth       *service.AuthService
	log        *logrus.Logger
}

// NewHandler initializes a new handler
func NewHandler(
	clients *service.ClientService,
	cards *service.CardService,
	operations *service.OperationService,
	fraud *service.FraudService,
	reports *service.ReportService,
	auth *service.AuthService,
	log *logrus.Logger,
) *Handler {
	return &Handler{
		clients:    clients,
		cards:      cards,
		operations: operations,
		fraud:      fraud,
		reports:    reports,
		auth:       auth,
		log:        log,
	}
}

// Health reports service liveness
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.log.Errorf("Failed to encode response: %v", err)
	}
}

// respondError maps service errors onto HTTP status codes
func (h *Handler) respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, models.ErrClientNotFound),
		errors.Is(err, models.ErrCardNotFound),
		errors.Is(err, models.ErrOperationNotFound),
		errors.Is(err, models.ErrAlertNotFound):
		status = http.StatusNotFound
	case errors.Is(err, models.ErrCardAlreadyActive),
		errors.Is(err, models.ErrEmailAlreadyExists):
		status = http.StatusConflict
	case errors.Is(err, models.ErrLimitExceeded):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, models.ErrInvalidAmount),
		errors.Is(err, models.ErrInvalidOperation),
		errors.Is(err, models.ErrInvalidAlertLevel),
		errors.Is(err, models.ErrEmptyDescription):
		status = http.StatusBadRequest
	case errors.Is(err, models.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	}

	if status == http.StatusInternalServerError {
		h.log.Errorf("Request failed: %v", err)
	}
	h.respondJSON(w, status, map[string]string{"error": err.Error()})
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
}
