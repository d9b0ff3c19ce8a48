package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"bank-risk-service/internal/models"
)

const alertColumns = `id, description, level, card_id, created_at`

// CreateAlert creates a new fraud alert in the database and assigns its
// identifier
func (r *Repository) CreateAlert(ctx context.Context, alert *models.Alert) error {
	query := `
		INSERT INTO bank.alerts (description, level, card_id, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id`
	err := r.db.QueryRowContext(ctx, query,
		alert.Description, alert.Level, alert.CardID, alert.CreatedAt,
	).Scan(&alert.ID)
	if err != nil {
		return fmt.Errorf("failed to create alert: %w", err)
	}
	return nil
}

// FindAlertByID retrieves an alert by identifier
func (r *Repository) FindAlertByID(ctx context.Context, id int64) (*models.Alert, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+alertColumns+` FROM bank.alerts WHERE id = $1`, id)
	alert, err := scanAlert(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrAlertNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find alert: %w", err)
	}
	return alert, nil
}

// FindAlertsByCard lists a card's alerts, newest first
func (r *Repository) FindAlertsByCard(ctx context.Context, cardID int64) ([]models.Alert, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+alertColumns+` FROM bank.alerts WHERE card_id = $1 ORDER BY created_at DESC`,
		cardID)
	if err != nil {
		return nil, fmt.Errorf("failed to list card alerts: %w", err)
	}
	defer rows.Close()
	return collectAlerts(rows)
}

// FindAlertsByLevel lists alerts of one severity level, newest first
func (r *Repository) FindAlertsByLevel(ctx context.Context, level models.AlertLevel) ([]models.Alert, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+alertColumns+` FROM bank.alerts WHERE level = $1 ORDER BY created_at DESC`,
		level)
	if err != nil {
		return nil, fmt.Errorf("failed to list alerts by level: %w", err)
	}
	defer rows.Close()
	return collectAlerts(rows)
}

// FindAllAlerts lists every alert, newest first
func (r *Repository) FindAllAlerts(ctx context.Context) ([]models.Alert, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+alertColumns+` FROM bank.alerts ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list alerts: %w", err)
	}
	defer rows.Close()
	return collectAlerts(rows)
}

// DeleteAlert removes an alert by identifier
func (r *Repository) DeleteAlert(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM bank.alerts WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete alert: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to delete alert: %w", err)
	}
	return affected > 0, nil
}

func scanAlert(s scanner) (*models.Alert, error) {
	var alert models.Alert
	err := s.Scan(&alert.ID, &alert.Description, &alert.Level, &alert.CardID, &alert.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &alert, nil
}

func collectAlerts(rows *sql.Rows) ([]models.Alert, error) {
	var alerts []models.Alert
	for rows.Next() {
		alert, err := scanAlert(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan alert: %w", err)
		}
		alerts = append(alerts, *alert)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read alerts: %w", err)
	}
	return alerts, nil
}
