package service

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bank-risk-service/internal/models"
	"bank-risk-service/internal/utils"
)

type stubKeyRate struct {
	rate float64
	err  error
}

func (s stubKeyRate) GetKeyRate(context.Context) (float64, error) {
	return s.rate, s.err
}

func newTestCardService(store *memStore, rates keyRateProvider) *CardService {
	return NewCardService(store, utils.NewCardNumberGenerator(nil), rates, nil, testLogger())
}

func decimalPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func putCard(t *testing.T, store *memStore, card models.Card) int64 {
	t.Helper()
	require.NoError(t, store.CreateCard(context.Background(), &card))
	return card.ID
}

func TestVerifyLimit(t *testing.T) {
	tests := []struct {
		name    string
		card    models.Card
		amount  string
		allowed bool
	}{
		{
			name:    "debit below limit",
			card:    models.Card{Status: models.CardStatusActive, Type: models.CardTypeDebit, DailyLimit: decimalPtr("1000")},
			amount:  "999.99",
			allowed: true,
		},
		{
			name:    "debit at limit",
			card:    models.Card{Status: models.CardStatusActive, Type: models.CardTypeDebit, DailyLimit: decimalPtr("1000")},
			amount:  "1000",
			allowed: true,
		},
		{
			name:    "debit above limit",
			card:    models.Card{Status: models.CardStatusActive, Type: models.CardTypeDebit, DailyLimit: decimalPtr("1000")},
			amount:  "1000.01",
			allowed: false,
		},
		{
			name:    "credit at limit",
			card:    models.Card{Status: models.CardStatusActive, Type: models.CardTypeCredit, MonthlyLimit: decimalPtr("2500"), InterestRate: decimalPtr("19.9")},
			amount:  "2500",
			allowed: true,
		},
		{
			name:    "credit above limit",
			card:    models.Card{Status: models.CardStatusActive, Type: models.CardTypeCredit, MonthlyLimit: decimalPtr("2500"), InterestRate: decimalPtr("19.9")},
			amount:  "2500.01",
			allowed: false,
		},
		{
			name:    "prepaid within balance",
			card:    models.Card{Status: models.CardStatusActive, Type: models.CardTypePrepaid, AvailableBalance: decimalPtr("120.50")},
			amount:  "120.50",
			allowed: true,
		},
		{
			name:    "prepaid above balance",
			card:    models.Card{Status: models.CardStatusActive, Type: models.CardTypePrepaid, AvailableBalance: decimalPtr("120.50")},
			amount:  "120.51",
			allowed: false,
		},
		{
			name:    "suspended card refuses any amount",
			card:    models.Card{Status: models.CardStatusSuspended, Type: models.CardTypeDebit, DailyLimit: decimalPtr("1000")},
			amount:  "0.01",
			allowed: false,
		},
		{
			name:    "blocked card refuses any amount",
			card:    models.Card{Status: models.CardStatusBlocked, Type: models.CardTypePrepaid, AvailableBalance: decimalPtr("1000")},
			amount:  "0.01",
			allowed: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemStore()
			svc := newTestCardService(store, nil)
			cardID := putCard(t, store, tt.card)

			allowed, err := svc.VerifyLimit(context.Background(), cardID, decimal.RequireFromString(tt.amount))
			require.NoError(t, err)
			assert.Equal(t, tt.allowed, allowed)
		})
	}
}

func TestVerifyLimitUnknownCard(t *testing.T) {
	svc := newTestCardService(newMemStore(), nil)

	_, err := svc.VerifyLimit(context.Background(), 42, decimal.NewFromInt(1))
	assert.ErrorIs(t, err, models.ErrCardNotFound)
}

func TestActivateAlreadyActive(t *testing.T) {
	store := newMemStore()
	svc := newTestCardService(store, nil)
	cardID := putCard(t, store, models.Card{Status: models.CardStatusActive, Type: models.CardTypeDebit, DailyLimit: decimalPtr("1000")})

	_, err := svc.Activate(context.Background(), cardID)
	assert.ErrorIs(t, err, models.ErrCardAlreadyActive)
}

func TestActivateSuspendedCard(t *testing.T) {
	store := newMemStore()
	svc := newTestCardService(store, nil)
	cardID := putCard(t, store, models.Card{Status: models.CardStatusSuspended, Type: models.CardTypeDebit, DailyLimit: decimalPtr("1000")})

	updated, err := svc.Activate(context.Background(), cardID)
	require.NoError(t, err)
	assert.True(t, updated)
	assert.Equal(t, models.CardStatusActive, cardStatus(t, store, cardID))
}

func TestSuspendOverwritesBlocked(t *testing.T) {
	store := newMemStore()
	svc := newTestCardService(store, nil)
	cardID := putCard(t, store, models.Card{Status: models.CardStatusBlocked, Type: models.CardTypeDebit, DailyLimit: decimalPtr("1000")})

	updated, err := svc.Suspend(context.Background(), cardID)
	require.NoError(t, err)
	assert.True(t, updated)
	assert.Equal(t, models.CardStatusSuspended, cardStatus(t, store, cardID))
}

func TestBlockSuspendedCard(t *testing.T) {
	store := newMemStore()
	svc := newTestCardService(store, nil)
	cardID := putCard(t, store, models.Card{Status: models.CardStatusSuspended, Type: models.CardTypeDebit, DailyLimit: decimalPtr("1000")})

	updated, err := svc.Block(context.Background(), cardID)
	require.NoError(t, err)
	assert.True(t, updated)
	assert.Equal(t, models.CardStatusBlocked, cardStatus(t, store, cardID))
}

func TestCreateDebitCard(t *testing.T) {
	store := newMemStore()
	// Deterministic digit source
	src := bytes.NewReader([]byte{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15})
	svc := NewCardService(store, utils.NewCardNumberGenerator(src), nil, nil, testLogger())

	card, err := svc.CreateDebitCard(context.Background(), 7, decimal.NewFromInt(500))
	require.NoError(t, err)

	assert.NotZero(t, card.ID)
	assert.Equal(t, "0123456789012345", card.Number)
	assert.Equal(t, models.CardTypeDebit, card.Type)
	assert.Equal(t, models.CardStatusActive, card.Status)
	assert.Equal(t, int64(7), card.ClientID)
	require.NotNil(t, card.DailyLimit)
	assert.True(t, card.DailyLimit.Equal(decimal.NewFromInt(500)))
	assert.Nil(t, card.MonthlyLimit)
	assert.Nil(t, card.AvailableBalance)
	assert.WithinDuration(t, time.Now().AddDate(3, 0, 0), card.ExpirationDate, time.Minute)
}

func TestCreateCreditCardWithExplicitRate(t *testing.T) {
	store := newMemStore()
	svc := newTestCardService(store, nil)

	card, err := svc.CreateCreditCard(context.Background(), 7, decimal.NewFromInt(3000), decimalPtr("17.5"))
	require.NoError(t, err)

	assert.Equal(t, models.CardTypeCredit, card.Type)
	require.NotNil(t, card.InterestRate)
	assert.True(t, card.InterestRate.Equal(decimal.RequireFromString("17.5")))
}

func TestCreateCreditCardDerivesRateFromKeyRate(t *testing.T) {
	store := newMemStore()
	svc := newTestCardService(store, stubKeyRate{rate: 21})

	card, err := svc.CreateCreditCard(context.Background(), 7, decimal.NewFromInt(3000), nil)
	require.NoError(t, err)

	require.NotNil(t, card.InterestRate)
	assert.True(t, card.InterestRate.Equal(decimal.NewFromInt(21)))
}

func TestCreateCreditCardKeyRateFailure(t *testing.T) {
	store := newMemStore()
	svc := newTestCardService(store, stubKeyRate{err: errors.New("gateway timeout")})

	_, err := svc.CreateCreditCard(context.Background(), 7, decimal.NewFromInt(3000), nil)
	require.Error(t, err)
	assert.Empty(t, store.cards)
}

func TestCreatePrepaidCard(t *testing.T) {
	store := newMemStore()
	svc := newTestCardService(store, nil)

	card, err := svc.CreatePrepaidCard(context.Background(), 9, decimal.RequireFromString("75.25"))
	require.NoError(t, err)

	assert.Equal(t, models.CardTypePrepaid, card.Type)
	require.NotNil(t, card.AvailableBalance)
	assert.True(t, card.AvailableBalance.Equal(decimal.RequireFromString("75.25")))
	assert.Nil(t, card.DailyLimit)
}

func TestDeleteCardNotFound(t *testing.T) {
	svc := newTestCardService(newMemStore(), nil)

	_, err := svc.DeleteCard(context.Background(), 42)
	assert.ErrorIs(t, err, models.ErrCardNotFound)
}
