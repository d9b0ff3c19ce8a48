package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"bank-risk-service/internal/models"
)

const cardColumns = `id, number, expiration_date, status, card_type, client_id,
	daily_limit, monthly_limit, interest_rate, available_balance`

// CreateCard creates a new card in the database and assigns its identifier
func (r *Repository) CreateCard(ctx context.Context, card *models.Card) error {
	query := `
		INSERT INTO bank.cards (number, expiration_date, status, card_type, client_id,
			daily_limit, monthly_limit, interest_rate, available_balance)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`
	err := r.db.QueryRowContext(ctx, query,
		card.Number, card.ExpirationDate, card.Status, card.Type, card.ClientID,
		nullDecimal(card.DailyLimit), nullDecimal(card.MonthlyLimit),
		nullDecimal(card.InterestRate), nullDecimal(card.AvailableBalance),
	).Scan(&card.ID)
	if err != nil {
		return fmt.Errorf("failed to create card: %w", err)
	}
	return nil
}

// FindCardByID retrieves a card by identifier
func (r *Repository) FindCardByID(ctx context.Context, id int64) (*models.Card, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+cardColumns+` FROM bank.cards WHERE id = $1`, id)
	card, err := scanCard(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrCardNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find card: %w", err)
	}
	return card, nil
}

// FindCardsByClient lists the cards owned by a client
func (r *Repository) FindCardsByClient(ctx context.Context, clientID int64) ([]models.Card, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+cardColumns+` FROM bank.cards WHERE client_id = $1 ORDER BY id`, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list client cards: %w", err)
	}
	defer rows.Close()
	return collectCards(rows)
}

// FindAllCards lists every card
func (r *Repository) FindAllCards(ctx context.Context) ([]models.Card, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+cardColumns+` FROM bank.cards ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list cards: %w", err)
	}
	defer rows.Close()
	return collectCards(rows)
}

// UpdateCard persists a card's mutable fields and reports whether a row was
// actually affected
func (r *Repository) UpdateCard(ctx context.Context, card *models.Card) (bool, error) {
	query := `
		UPDATE bank.cards
		SET number = $1, expiration_date = $2, status = $3,
			daily_limit = $4, monthly_limit = $5, interest_rate = $6, available_balance = $7
		WHERE id = $8`
	res, err := r.db.ExecContext(ctx, query,
		card.Number, card.ExpirationDate, card.Status,
		nullDecimal(card.DailyLimit), nullDecimal(card.MonthlyLimit),
		nullDecimal(card.InterestRate), nullDecimal(card.AvailableBalance),
		card.ID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to update card: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to update card: %w", err)
	}
	return affected > 0, nil
}

// DeleteCard removes a card by identifier
func (r *Repository) DeleteCard(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM bank.cards WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete card: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to delete card: %w", err)
	}
	return affected > 0, nil
}

func scanCard(s scanner) (*models.Card, error) {
	var (
		card    models.Card
		daily   decimal.NullDecimal
		monthly decimal.NullDecimal
		rate    decimal.NullDecimal
		balance decimal.NullDecimal
	)
	err := s.Scan(
		&card.ID, &card.Number, &card.ExpirationDate, &card.Status, &card.Type,
		&card.ClientID, &daily, &monthly, &rate, &balance,
	)
	if err != nil {
		return nil, err
	}
	if daily.Valid {
		card.DailyLimit = &daily.Decimal
	}
	if monthly.Valid {
		card.MonthlyLimit = &monthly.Decimal
	}
	if rate.Valid {
		card.InterestRate = &rate.Decimal
	}
	if balance.Valid {
		card.AvailableBalance = &balance.Decimal
	}
	return &card, nil
}

func collectCards(rows *sql.Rows) ([]models.Card, error) {
	var cards []models.Card
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan card: %w", err)
		}
		cards = append(cards, *card)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read cards: %w", err)
	}
	return cards, nil
}

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}
