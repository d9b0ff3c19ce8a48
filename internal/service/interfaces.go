package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"bank-risk-service/internal/models"
)

// Store contracts consumed by the services. *repository.Repository satisfies
// all of them; tests substitute in-memory fakes.

type clientStore interface {
	CreateClient(ctx context.Context, client *models.Client) error
	FindClientByID(ctx context.Context, id int64) (*models.Client, error)
	FindClientByEmail(ctx context.Context, email string) (*models.Client, error)
	FindClientByPhone(ctx context.Context, phone string) (*models.Client, error)
	FindAllClients(ctx context.Context) ([]models.Client, error)
	UpdateClient(ctx context.Context, client *models.Client) (bool, error)
	DeleteClient(ctx context.Context, id int64) (bool, error)
}

type cardStore interface {
	CreateCard(ctx context.Context, card *models.Card) error
	FindCardByID(ctx context.Context, id int64) (*models.Card, error)
	FindCardsByClient(ctx context.Context, clientID int64) ([]models.Card, error)
	FindAllCards(ctx context.Context) ([]models.Card, error)
	UpdateCard(ctx context.Context, card *models.Card) (bool, error)
	DeleteCard(ctx context.Context, id int64) (bool, error)
}

type operationStore interface {
	CreateOperation(ctx context.Context, op *models.Operation) error
	FindOperationByID(ctx context.Context, id int64) (*models.Operation, error)
	// FindOperationsByCard returns operations ordered by timestamp descending
	// (newest first); the fraud scans' window semantics depend on that order.
	FindOperationsByCard(ctx context.Context, cardID int64) ([]models.Operation, error)
	FindOperationsByType(ctx context.Context, opType models.OperationType) ([]models.Operation, error)
	FindOperationsByDateRange(ctx context.Context, start, end time.Time) ([]models.Operation, error)
	FindOperationsByCardAndDateRange(ctx context.Context, cardID int64, start, end time.Time) ([]models.Operation, error)
	FindAllOperations(ctx context.Context) ([]models.Operation, error)
	DeleteOperation(ctx context.Context, id int64) (bool, error)
}

type alertStore interface {
	CreateAlert(ctx context.Context, alert *models.Alert) error
	FindAlertsByCard(ctx context.Context, cardID int64) ([]models.Alert, error)
	FindAlertsByLevel(ctx context.Context, level models.AlertLevel) ([]models.Alert, error)
	FindAllAlerts(ctx context.Context) ([]models.Alert, error)
	DeleteAlert(ctx context.Context, id int64) (bool, error)
}

type userStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// cardEscalator is the slice of CardService the fraud engine uses to force
// status transitions.
type cardEscalator interface {
	Suspend(ctx context.Context, cardID int64) (bool, error)
	Block(ctx context.Context, cardID int64) (bool, error)
}

// limitVerifier is the slice of CardService the admission path uses.
type limitVerifier interface {
	VerifyLimit(ctx context.Context, cardID int64, amount decimal.Decimal) (bool, error)
}

// keyRateProvider supplies the base rate for credit card interest.
type keyRateProvider interface {
	GetKeyRate(ctx context.Context) (float64, error)
}

// fraudMailer delivers escalation notices to clients. Delivery is
// best-effort; failures are logged, never propagated.
type fraudMailer interface {
	SendFraudAlert(to, clientName string, cardID int64, level, description string) error
}
