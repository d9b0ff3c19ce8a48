package service

import (
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

var analysisBase = time.Date(2026, 5, 12, 10, 0, 0, 0, time.UTC)

func newTestFraudService(store *memStore) *FraudService {
	cards := NewCardService(store, utils.NewCardNumberGenerator(nil), nil, nil, testLogger())
	return NewFraudService(store, store, cards, store, store, nil, nil, testLogger())
}

func seedCard(t *testing.T, store *memStore, status models.CardStatus) int64 {
	t.Helper()
	limit := decimal.NewFromInt(100000)
	card := &models.Card{
		Number:         "4000123412341234",
		ExpirationDate: analysisBase.AddDate(3, 0, 0),
		Status:         status,
		ClientID:       1,
		Type:           models.CardTypeDebit,
		DailyLimit:     &limit,
	}
	require.NoError(t, store.CreateCard(context.Background(), card))
	return card.ID
}

func seedOperation(t *testing.T, store *memStore, cardID int64, at time.Time, amount, location string) {
	t.Helper()
	op := &models.Operation{
		Date:     at,
		Amount:   decimal.RequireFromString(amount),
		Type:     models.OperationTypePurchase,
		Location: location,
		CardID:   cardID,
	}
	require.NoError(t, store.CreateOperation(context.Background(), op))
}

func cardStatus(t *testing.T, store *memStore, cardID int64) models.CardStatus {
	t.Helper()
	card, err := store.FindCardByID(context.Background(), cardID)
	require.NoError(t, err)
	return card.Status
}

func TestAnalyzeHighAmountThresholdIsExclusive(t *testing.T) {
	store := newMemStore()
	svc := newTestFraudService(store)
	cardID := seedCard(t, store, models.CardStatusActive)

	seedOperation(t, store, cardID, analysisBase, "5000.00", "Paris")
	require.NoError(t, svc.Analyze(context.Background(), cardID))
	assert.Empty(t, store.alerts, "amount equal to the threshold must not be flagged")

	seedOperation(t, store, cardID, analysisBase.Add(2*time.Hour), "5000.01", "Paris")
	require.NoError(t, svc.Analyze(context.Background(), cardID))

	require.Len(t, store.alerts, 1)
	alert := store.alerts[0]
	assert.Equal(t, models.AlertLevelWarning, alert.Level)
	assert.Equal(t, cardID, alert.CardID)
	assert.Equal(t, "High amount detected: 5000.01 EUR at Paris on 2026-05-12 12:00:00", alert.Description)
	assert.Equal(t, models.CardStatusActive, cardStatus(t, store, cardID), "high amounts alone never change the status")
}

func TestAnalyzeRapidOperationsBlocksCard(t *testing.T) {
	store := newMemStore()
	svc := newTestFraudService(store)
	cardID := seedCard(t, store, models.CardStatusActive)

	seedOperation(t, store, cardID, analysisBase, "50.00", "Paris")
	seedOperation(t, store, cardID, analysisBase.Add(29*time.Minute), "30.00", "Lyon")

	require.NoError(t, svc.Analyze(context.Background(), cardID))

	require.Len(t, store.alerts, 1)
	alert := store.alerts[0]
	assert.Equal(t, models.AlertLevelCritical, alert.Level)
	assert.Equal(t,
		"Suspicious operations: Lyon at 2026-05-12 10:29:00 and Paris at 2026-05-12 10:00:00 in 29 minutes",
		alert.Description,
	)
	assert.Equal(t, models.CardStatusBlocked, cardStatus(t, store, cardID))
}

func TestAnalyzeRapidOperationsSameLocationIgnored(t *testing.T) {
	store := newMemStore()
	svc := newTestFraudService(store)
	cardID := seedCard(t, store, models.CardStatusActive)

	seedOperation(t, store, cardID, analysisBase, "50.00", "Paris")
	seedOperation(t, store, cardID, analysisBase.Add(10*time.Minute), "30.00", "Paris")

	require.NoError(t, svc.Analyze(context.Background(), cardID))

	assert.Empty(t, store.alerts)
	assert.Equal(t, models.CardStatusActive, cardStatus(t, store, cardID))
}

func TestAnalyzeBurstSuspendsCard(t *testing.T) {
	store := newMemStore()
	svc := newTestFraudService(store)
	cardID := seedCard(t, store, models.CardStatusActive)

	// Five operations spanning exactly the window, all at one location so
	// only the burst scan fires.
	for i := 0; i < 5; i++ {
		seedOperation(t, store, cardID, analysisBase.Add(time.Duration(i)*15*time.Minute), "10.00", "Paris")
	}

	require.NoError(t, svc.Analyze(context.Background(), cardID))

	require.Len(t, store.alerts, 1)
	alert := store.alerts[0]
	assert.Equal(t, models.AlertLevelCritical, alert.Level)
	assert.Equal(t, "Multiple attempts detected: 5+ operations in 60 minutes", alert.Description)
	assert.Equal(t, models.CardStatusSuspended, cardStatus(t, store, cardID))
}

func TestAnalyzeFourOperationsNeverBurst(t *testing.T) {
	store := newMemStore()
	svc := newTestFraudService(store)
	cardID := seedCard(t, store, models.CardStatusActive)

	for i := 0; i < 4; i++ {
		seedOperation(t, store, cardID, analysisBase.Add(time.Duration(i)*time.Minute), "10.00", "Paris")
	}

	require.NoError(t, svc.Analyze(context.Background(), cardID))

	assert.Empty(t, store.alerts)
	assert.Equal(t, models.CardStatusActive, cardStatus(t, store, cardID))
}

func TestAnalyzeCombinedScans(t *testing.T) {
	store := newMemStore()
	svc := newTestFraudService(store)
	cardID := seedCard(t, store, models.CardStatusActive)

	seedOperation(t, store, cardID, analysisBase, "50.00", "Paris")
	seedOperation(t, store, cardID, analysisBase.Add(20*time.Minute), "30.00", "Lyon")
	seedOperation(t, store, cardID, analysisBase.Add(25*time.Minute), "6000.00", "Paris")

	require.NoError(t, svc.Analyze(context.Background(), cardID))

	var warnings, criticals []string
	for _, alert := range store.alerts {
		switch alert.Level {
		case models.AlertLevelWarning:
			warnings = append(warnings, alert.Description)
		case models.AlertLevelCritical:
			criticals = append(criticals, alert.Description)
		}
	}

	assert.Equal(t, []string{"High amount detected: 6000.00 EUR at Paris on 2026-05-12 10:25:00"}, warnings)
	// Both adjacent pairs switch location within the gap, so each raises
	// its own alert.
	assert.ElementsMatch(t, []string{
		"Suspicious operations: Paris at 2026-05-12 10:25:00 and Lyon at 2026-05-12 10:20:00 in 5 minutes",
		"Suspicious operations: Lyon at 2026-05-12 10:20:00 and Paris at 2026-05-12 10:00:00 in 20 minutes",
	}, criticals)
	assert.Equal(t, models.CardStatusBlocked, cardStatus(t, store, cardID))
}

func TestAnalyzeRerunRepeatsFindings(t *testing.T) {
	store := newMemStore()
	svc := newTestFraudService(store)
	cardID := seedCard(t, store, models.CardStatusActive)

	seedOperation(t, store, cardID, analysisBase, "50.00", "Paris")
	seedOperation(t, store, cardID, analysisBase.Add(5*time.Minute), "30.00", "Lyon")

	require.NoError(t, svc.Analyze(context.Background(), cardID))
	require.Len(t, store.alerts, 1)
	first := store.alerts[0].Description

	require.NoError(t, svc.Analyze(context.Background(), cardID))
	require.Len(t, store.alerts, 2)
	assert.Equal(t, first, store.alerts[1].Description)
	assert.Equal(t, models.CardStatusBlocked, cardStatus(t, store, cardID))
}

func TestAnalyzeEmptyHistoryIsNoop(t *testing.T) {
	store := newMemStore()
	svc := newTestFraudService(store)
	cardID := seedCard(t, store, models.CardStatusActive)

	require.NoError(t, svc.Analyze(context.Background(), cardID))

	assert.Empty(t, store.alerts)
	assert.Equal(t, models.CardStatusActive, cardStatus(t, store, cardID))
}

func TestAnalyzeKeepsAlertWhenStatusWriteFails(t *testing.T) {
	store := newMemStore()
	svc := newTestFraudService(store)
	cardID := seedCard(t, store, models.CardStatusActive)

	seedOperation(t, store, cardID, analysisBase, "50.00", "Paris")
	seedOperation(t, store, cardID, analysisBase.Add(5*time.Minute), "30.00", "Lyon")

	store.updateCardErr = errors.New("connection reset")
	err := svc.Analyze(context.Background(), cardID)
	require.Error(t, err)

	require.Len(t, store.alerts, 1, "the alert is persisted before the escalation")
	assert.Equal(t, models.CardStatusActive, cardStatus(t, store, cardID))
}

func TestCreateAlertValidation(t *testing.T) {
	store := newMemStore()
	svc := newTestFraudService(store)

	_, err := svc.CreateAlert(context.Background(), 1, "", models.AlertLevelInfo)
	assert.ErrorIs(t, err, models.ErrEmptyDescription)

	_, err = svc.CreateAlert(context.Background(), 1, "manual check", "SEVERE")
	assert.ErrorIs(t, err, models.ErrInvalidAlertLevel)

	assert.Empty(t, store.alerts)
}

func TestCreateAlertStampsCreationTime(t *testing.T) {
	store := newMemStore()
	svc := newTestFraudService(store)

	before := time.Now()
	alert, err := svc.CreateAlert(context.Background(), 7, "manual check", models.AlertLevelInfo)
	require.NoError(t, err)

	assert.NotZero(t, alert.ID)
	assert.False(t, alert.CreatedAt.Before(before))
	assert.False(t, alert.CreatedAt.After(time.Now()))
}

func TestGetAlertsByLevelRejectsUnknownLevel(t *testing.T) {
	svc := newTestFraudService(newMemStore())

	_, err := svc.GetAlertsByLevel(context.Background(), "SEVERE")
	assert.ErrorIs(t, err, models.ErrInvalidAlertLevel)
}

func TestDeleteAlertNotFound(t *testing.T) {
	svc := newTestFraudService(newMemStore())

	_, err := svc.DeleteAlert(context.Background(), 42)
	assert.ErrorIs(t, err, models.ErrAlertNotFound)
}

func TestSweepCoversEveryCard(t *testing.T) {
	store := newMemStore()
	svc := newTestFraudService(store)

	first := seedCard(t, store, models.CardStatusActive)
	second := seedCard(t, store, models.CardStatusActive)
	seedOperation(t, store, first, analysisBase, "9000.00", "Paris")
	seedOperation(t, store, second, analysisBase, "40.00", "Nice")
	seedOperation(t, store, second, analysisBase.Add(3*time.Minute), "40.00", "Marseille")

	svc.Sweep(context.Background())

	require.Len(t, store.alerts, 2)
	assert.Equal(t, models.CardStatusActive, cardStatus(t, store, first))
	assert.Equal(t, models.CardStatusBlocked, cardStatus(t, store, second))
}
