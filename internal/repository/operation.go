package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"bank-risk-service/internal/models"
)

const operationColumns = `id, op_date, amount, op_type, location, card_id`

// CreateOperation creates a new operation in the database and assigns its
// identifier
func (r *Repository) CreateOperation(ctx context.Context, op *models.Operation) error {
	query := `
		INSERT INTO bank.operations (op_date, amount, op_type, location, card_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`
	err := r.db.QueryRowContext(ctx, query,
		op.Date, op.Amount, op.Type, op.Location, op.CardID,
	).Scan(&op.ID)
	if err != nil {
		return fmt.Errorf("failed to create operation: %w", err)
	}
	return nil
}

// FindOperationByID retrieves an operation by identifier
func (r *Repository) FindOperationByID(ctx context.Context, id int64) (*models.Operation, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+operationColumns+` FROM bank.operations WHERE id = $1`, id)
	op, err := scanOperation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrOperationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find operation: %w", err)
	}
	return op, nil
}

// FindOperationsByCard lists a card's operations ordered by timestamp
// descending (newest first). The fraud scans depend on this exact order.
func (r *Repository) FindOperationsByCard(ctx context.Context, cardID int64) ([]models.Operation, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+operationColumns+` FROM bank.operations WHERE card_id = $1 ORDER BY op_date DESC`,
		cardID)
	if err != nil {
		return nil, fmt.Errorf("failed to list card operations: %w", err)
	}
	defer rows.Close()
	return collectOperations(rows)
}

// FindOperationsByType lists operations of one type
func (r *Repository) FindOperationsByType(ctx context.Context, opType models.OperationType) ([]models.Operation, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+operationColumns+` FROM bank.operations WHERE op_type = $1 ORDER BY op_date DESC`,
		opType)
	if err != nil {
		return nil, fmt.Errorf("failed to list operations by type: %w", err)
	}
	defer rows.Close()
	return collectOperations(rows)
}

// FindOperationsByDateRange lists operations within [start, end]
func (r *Repository) FindOperationsByDateRange(ctx context.Context, start, end time.Time) ([]models.Operation, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+operationColumns+` FROM bank.operations WHERE op_date BETWEEN $1 AND $2 ORDER BY op_date DESC`,
		start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list operations by period: %w", err)
	}
	defer rows.Close()
	return collectOperations(rows)
}

// FindOperationsByCardAndDateRange lists a card's operations within [start, end]
func (r *Repository) FindOperationsByCardAndDateRange(ctx context.Context, cardID int64, start, end time.Time) ([]models.Operation, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+operationColumns+` FROM bank.operations WHERE card_id = $1 AND op_date BETWEEN $2 AND $3 ORDER BY op_date DESC`,
		cardID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list card operations by period: %w", err)
	}
	defer rows.Close()
	return collectOperations(rows)
}

// FindAllOperations lists every operation
func (r *Repository) FindAllOperations(ctx context.Context) ([]models.Operation, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+operationColumns+` FROM bank.operations`)
	if err != nil {
		return nil, fmt.Errorf("failed to list operations: %w", err)
	}
	defer rows.Close()
	return collectOperations(rows)
}

// DeleteOperation removes an operation by identifier
func (r *Repository) DeleteOperation(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM bank.operations WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete operation: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to delete operation: %w", err)
	}
	return affected > 0, nil
}

func scanOperation(s scanner) (*models.Operation, error) {
	var op models.Operation
	err := s.Scan(&op.ID, &op.Date, &op.Amount, &op.Type, &op.Location, &op.CardID)
	if err != nil {
		return nil, err
	}
	return &op, nil
}

func collectOperations(rows *sql.Rows) ([]models.Operation, error) {
	var ops []models.Operation
	for rows.Next() {
		op, err := scanOperation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan operation: %w", err)
		}
		ops = append(ops, *op)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read operations: %w", err)
	}
	return ops, nil
}
