package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"bank-risk-service/internal/metrics"
	"bank-risk-service/internal/models"
)

// OperationService records card operations. Every write goes through the
// limit check first; rejected operations are never persisted.
type OperationService struct {
	operations operationStore
	limits     limitVerifier
	metrics    *metrics.Collector
	log        *logrus.Logger
}

// NewOperationService initializes a new operation service
func NewOperationService(operations operationStore, limits limitVerifier, m *metrics.Collector, log *logrus.Logger) *OperationService {
	return &OperationService{operations: operations, limits: limits, metrics: m, log: log}
}

// RecordOperation admits and records an operation stamped with the current
// time.
func (s *OperationService) RecordOperation(ctx context.Context, cardID int64, amount decimal.Decimal, opType models.OperationType, location string) (*models.Operation, error) {
	return s.RecordOperationAt(ctx, cardID, amount, opType, location, time.Now())
}

// RecordOperationAt admits and records an operation with an explicit
// timestamp.
func (s *OperationService) RecordOperationAt(ctx context.Context, cardID int64, amount decimal.Decimal, opType models.OperationType, location string, date time.Time) (*models.Operation, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("record operation: %w", models.ErrInvalidAmount)
	}
	if !opType.Valid() {
		return nil, fmt.Errorf("record operation: %w", models.ErrInvalidOperation)
	}

	allowed, err := s.limits.VerifyLimit(ctx, cardID, amount)
	if err != nil {
		return nil, err
	}
	if !allowed {
		s.metrics.OperationRejected()
		return nil, fmt.Errorf("record operation on card %d: %w", cardID, models.ErrLimitExceeded)
	}

	op := &models.Operation{
		Date:     date,
		Amount:   amount,
		Type:     opType,
		Location: location,
		CardID:   cardID,
	}
	if err := s.operations.CreateOperation(ctx, op); err != nil {
		return nil, err
	}

	s.metrics.OperationRecorded()
	s.log.Infof("Operation %d recorded on card %d: %s %s at %s", op.ID, cardID, opType, amount, location)
	return op, nil
}

// GetOperation retrieves an operation by identifier
func (s *OperationService) GetOperation(ctx context.Context, id int64) (*models.Operation, error) {
	return s.operations.FindOperationByID(ctx, id)
}

// GetCardOperations lists a card's operations, newest first
func (s *OperationService) GetCardOperations(ctx context.Context, cardID int64) ([]models.Operation, error) {
	return s.operations.FindOperationsByCard(ctx, cardID)
}

// GetOperationsByType lists operations of one type
func (s *OperationService) GetOperationsByType(ctx context.Context, opType models.OperationType) ([]models.Operation, error) {
	if !opType.Valid() {
		return nil, fmt.Errorf("list operations: %w", models.ErrInvalidOperation)
	}
	return s.operations.FindOperationsByType(ctx, opType)
}

// GetOperationsByPeriod lists operations within [start, end]
func (s *OperationService) GetOperationsByPeriod(ctx context.Context, start, end time.Time) ([]models.Operation, error) {
	return s.operations.FindOperationsByDateRange(ctx, start, end)
}

// GetCardOperationsByPeriod lists a card's operations within [start, end]
func (s *OperationService) GetCardOperationsByPeriod(ctx context.Context, cardID int64, start, end time.Time) ([]models.Operation, error) {
	return s.operations.FindOperationsByCardAndDateRange(ctx, cardID, start, end)
}

// GetAllOperations lists every operation
func (s *OperationService) GetAllOperations(ctx context.Context) ([]models.Operation, error) {
	return s.operations.FindAllOperations(ctx)
}

// DeleteOperation removes an operation
func (s *OperationService) DeleteOperation(ctx context.Context, id int64) (bool, error) {
	deleted, err := s.operations.DeleteOperation(ctx, id)
	if err != nil {
		return false, err
	}
	if !deleted {
		return false, models.ErrOperationNotFound
	}
	return true, nil
}
