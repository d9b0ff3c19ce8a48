package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"bank-risk-service/internal/models"
)

// CreateClient creates a new client in the database
func (r *Repository) CreateClient(ctx context.Context, client *models.Client) error {
	query := `
		INSERT INTO bank.clients (name, email, phone)
		VALUES ($1, $2, $3)
		RETURNING id`
	err := r.db.QueryRowContext(ctx, query, client.Name, client.Email, client.Phone).
		Scan(&client.ID)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	return nil
}

// FindClientByID retrieves a client by identifier
func (r *Repository) FindClientByID(ctx context.Context, id int64) (*models.Client, error) {
	client := &models.Client{}
	query := `SELECT id, name, email, phone FROM bank.clients WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&client.ID, &client.Name, &client.Email, &client.Phone)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrClientNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find client: %w", err)
	}
	return client, nil
}

// FindClientByEmail retrieves a client by email
func (r *Repository) FindClientByEmail(ctx context.Context, email string) (*models.Client, error) {
	client := &models.Client{}
	query := `SELECT id, name, email, phone FROM bank.clients WHERE email = $1`
	err := r.db.QueryRowContext(ctx, query, email).
		Scan(&client.ID, &client.Name, &client.Email, &client.Phone)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrClientNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find client by email: %w", err)
	}
	return client, nil
}

// FindClientByPhone retrieves a client by phone number
func (r *Repository) FindClientByPhone(ctx context.Context, phone string) (*models.Client, error) {
	client := &models.Client{}
	query := `SELECT id, name, email, phone FROM bank.clients WHERE phone = $1`
	err := r.db.QueryRowContext(ctx, query, phone).
		Scan(&client.ID, &client.Name, &client.Email, &client.Phone)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrClientNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find client by phone: %w", err)
	}
	return client, nil
}

// FindAllClients lists every client
func (r *Repository) FindAllClients(ctx context.Context) ([]models.Client, error) {
	query := `SELECT id, name, email, phone FROM bank.clients ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	defer rows.Close()

	var clients []models.Client
	for rows.Next() {
		var c models.Client
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Phone); err != nil {
			return nil, fmt.Errorf("failed to scan client: %w", err)
		}
		clients = append(clients, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	return clients, nil
}

// UpdateClient updates a client's contact details
func (r *Repository) UpdateClient(ctx context.Context, client *models.Client) (bool, error) {
	query := `UPDATE bank.clients SET name = $1, email = $2, phone = $3 WHERE id = $4`
	res, err := r.db.ExecContext(ctx, query, client.Name, client.Email, client.Phone, client.ID)
	if err != nil {
		return false, fmt.Errorf("failed to update client: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to update client: %w", err)
	}
	return affected > 0, nil
}

// DeleteClient removes a client by identifier
func (r *Repository) DeleteClient(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM bank.clients WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete client: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to delete client: %w", err)
	}
	return affected > 0, nil
}
