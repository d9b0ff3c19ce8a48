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

const (
	// suspiciousMinutesBetweenOperations is the max gap between two
	// operations at different locations before the pair is flagged.
	suspiciousMinutesBetweenOperations = 30 * time.Minute

	// burstWindow is the max span of burstSize consecutive operations
	// before the window is flagged.
	burstWindow = 60 * time.Minute
	burstSize   = 5

	alertTimeLayout = "2006-01-02 15:04:05"
)

// suspiciousAmount is the exclusive threshold of the high-amount scan:
// only amounts strictly greater trigger an alert.
var suspiciousAmount = decimal.NewFromInt(5000)

// FraudService scans a card's recorded history for suspicious patterns and
// escalates the card's status through the card service. The scans are pure
// functions of the fetched history: rerunning Analyze on an unchanged
// history re-derives the same alerts and the same final status.
type FraudService struct {
	operations operationStore
	alerts     alertStore
	escalator  cardEscalator
	cards      cardStore
	clients    clientStore
	mailer     fraudMailer
	metrics    *metrics.Collector
	log        *logrus.Logger
}

// NewFraudService initializes a new fraud service. mailer may be nil to
// disable escalation emails.
func NewFraudService(
	operations operationStore,
	alerts alertStore,
	escalator cardEscalator,
	cards cardStore,
	clients clientStore,
	mailer fraudMailer,
	m *metrics.Collector,
	log *logrus.Logger,
) *FraudService {
	return &FraudService{
		operations: operations,
		alerts:     alerts,
		escalator:  escalator,
		cards:      cards,
		clients:    clients,
		mailer:     mailer,
		metrics:    m,
		log:        log,
	}
}

// Analyze fetches the card's operation history (newest first) and runs the
// three pattern scans in a fixed order. All three scans run even when an
// earlier one already changed the card's status. Storage failures abort the
// analysis and propagate; alerts already persisted stay persisted.
func (s *FraudService) Analyze(ctx context.Context, cardID int64) error {
	operations, err := s.operations.FindOperationsByCard(ctx, cardID)
	if err != nil {
		return fmt.Errorf("analyze card %d: %w", cardID, err)
	}
	if len(operations) == 0 {
		return nil
	}

	if err := s.detectHighAmounts(ctx, operations); err != nil {
		return err
	}
	if err := s.detectRapidOperations(ctx, operations); err != nil {
		return err
	}
	if err := s.detectBursts(ctx, operations); err != nil {
		return err
	}

	s.metrics.ScanRun()
	return nil
}

// detectHighAmounts flags every operation strictly above the threshold.
// No status change.
func (s *FraudService) detectHighAmounts(ctx context.Context, operations []models.Operation) error {
	for _, op := range operations {
		if op.Amount.GreaterThan(suspiciousAmount) {
			description := fmt.Sprintf(
				"High amount detected: %s EUR at %s on %s",
				op.Amount.StringFixed(2),
				op.Location,
				op.Date.Format(alertTimeLayout),
			)
			if _, err := s.CreateAlert(ctx, op.CardID, description, models.AlertLevelWarning); err != nil {
				return err
			}
		}
	}
	return nil
}

// detectRapidOperations flags every adjacent pair of operations at different
// locations within the suspicious gap, and blocks the card for each match.
func (s *FraudService) detectRapidOperations(ctx context.Context, operations []models.Operation) error {
	for i := 0; i+1 < len(operations); i++ {
		first := operations[i]
		second := operations[i+1]

		gap := absDuration(first.Date.Sub(second.Date))
		if gap <= suspiciousMinutesBetweenOperations && first.Location != second.Location {
			description := fmt.Sprintf(
				"Suspicious operations: %s at %s and %s at %s in %d minutes",
				first.Location,
				first.Date.Format(alertTimeLayout),
				second.Location,
				second.Date.Format(alertTimeLayout),
				int64(gap/time.Minute),
			)
			alert, err := s.CreateAlert(ctx, first.CardID, description, models.AlertLevelCritical)
			if err != nil {
				return err
			}

			if _, err := s.escalator.Block(ctx, first.CardID); err != nil {
				return fmt.Errorf("block card %d: %w", first.CardID, err)
			}
			s.notifyEscalation(ctx, alert)
		}
	}
	return nil
}

// detectBursts flags every window of burstSize consecutive operations whose
// endpoints lie within burstWindow, and suspends the card for each match.
func (s *FraudService) detectBursts(ctx context.Context, operations []models.Operation) error {
	if len(operations) < burstSize {
		return nil
	}

	for i := 0; i+burstSize <= len(operations); i++ {
		first := operations[i]
		last := operations[i+burstSize-1]

		gap := absDuration(first.Date.Sub(last.Date))
		if gap <= burstWindow {
			description := fmt.Sprintf(
				"Multiple attempts detected: 5+ operations in %d minutes",
				int64(gap/time.Minute),
			)
			alert, err := s.CreateAlert(ctx, first.CardID, description, models.AlertLevelCritical)
			if err != nil {
				return err
			}

			if _, err := s.escalator.Suspend(ctx, first.CardID); err != nil {
				return fmt.Errorf("suspend card %d: %w", first.CardID, err)
			}
			s.notifyEscalation(ctx, alert)
		}
	}
	return nil
}

// CreateAlert persists a new alert stamped with the current time. It is also
// the entry point for manually raised operator alerts.
func (s *FraudService) CreateAlert(ctx context.Context, cardID int64, description string, level models.AlertLevel) (*models.Alert, error) {
	if description == "" {
		return nil, models.ErrEmptyDescription
	}
	if !level.Valid() {
		return nil, models.ErrInvalidAlertLevel
	}

	alert := &models.Alert{
		Description: description,
		Level:       level,
		CardID:      cardID,
		CreatedAt:   time.Now(),
	}
	if err := s.alerts.CreateAlert(ctx, alert); err != nil {
		return nil, fmt.Errorf("create alert for card %d: %w", cardID, err)
	}

	s.metrics.AlertEmitted(string(level))
	s.log.Infof("Alert %d (%s) created for card %d: %s", alert.ID, level, cardID, description)
	return alert, nil
}

// notifyEscalation emails the card's owner about an escalation. Delivery is
// best-effort: lookup or send failures are logged and swallowed.
func (s *FraudService) notifyEscalation(ctx context.Context, alert *models.Alert) {
	if s.mailer == nil {
		return
	}

	card, err := s.cards.FindCardByID(ctx, alert.CardID)
	if err != nil {
		s.log.Warnf("Escalation notice for card %d skipped: %v", alert.CardID, err)
		return
	}
	client, err := s.clients.FindClientByID(ctx, card.ClientID)
	if err != nil {
		s.log.Warnf("Escalation notice for card %d skipped: %v", alert.CardID, err)
		return
	}
	if err := s.mailer.SendFraudAlert(client.Email, client.Name, alert.CardID, string(alert.Level), alert.Description); err != nil {
		s.log.Warnf("Escalation notice for card %d failed: %v", alert.CardID, err)
	}
}

// Sweep runs Analyze over every card. Per-card failures are logged and do
// not stop the sweep.
func (s *FraudService) Sweep(ctx context.Context) {
	cards, err := s.cards.FindAllCards(ctx)
	if err != nil {
		s.log.Errorf("Fraud sweep aborted: %v", err)
		return
	}
	for _, card := range cards {
		if err := s.Analyze(ctx, card.ID); err != nil {
			s.log.Errorf("Fraud sweep: card %d: %v", card.ID, err)
		}
	}
	s.log.Infof("Fraud sweep completed over %d cards", len(cards))
}

// GetCardAlerts lists a card's alerts
func (s *FraudService) GetCardAlerts(ctx context.Context, cardID int64) ([]models.Alert, error) {
	return s.alerts.FindAlertsByCard(ctx, cardID)
}

// GetAlertsByLevel lists alerts of one severity level
func (s *FraudService) GetAlertsByLevel(ctx context.Context, level models.AlertLevel) ([]models.Alert, error) {
	if !level.Valid() {
		return nil, models.ErrInvalidAlertLevel
	}
	return s.alerts.FindAlertsByLevel(ctx, level)
}

// GetCriticalAlerts lists critical alerts
func (s *FraudService) GetCriticalAlerts(ctx context.Context) ([]models.Alert, error) {
	return s.alerts.FindAlertsByLevel(ctx, models.AlertLevelCritical)
}

// GetAllAlerts lists every alert
func (s *FraudService) GetAllAlerts(ctx context.Context) ([]models.Alert, error) {
	return s.alerts.FindAllAlerts(ctx)
}

// DeleteAlert removes an alert
func (s *FraudService) DeleteAlert(ctx context.Context, id int64) (bool, error) {
	deleted, err := s.alerts.DeleteAlert(ctx, id)
	if err != nil {
		return false, err
	}
	if !deleted {
		return false, models.ErrAlertNotFound
	}
	return true, nil
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
