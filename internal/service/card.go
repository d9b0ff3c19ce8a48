package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"bank-risk-service/internal/metrics"
	"bank-risk-service/internal/models"
	"bank-risk-service/internal/utils"
)

// CardService handles card issuance, the card status state machine and the
// per-operation limit check.
type CardService struct {
	cards   cardStore
	numbers *utils.CardNumberGenerator
	rates   keyRateProvider
	metrics *metrics.Collector
	log     *logrus.Logger
}

// NewCardService initializes a new card service. rates may be nil; credit
// card issuance then requires an explicit interest rate.
func NewCardService(cards cardStore, numbers *utils.CardNumberGenerator, rates keyRateProvider, m *metrics.Collector, log *logrus.Logger) *CardService {
	return &CardService{cards: cards, numbers: numbers, rates: rates, metrics: m, log: log}
}

// CreateDebitCard issues an active debit card with the given daily limit
func (s *CardService) CreateDebitCard(ctx context.Context, clientID int64, dailyLimit decimal.Decimal) (*models.Card, error) {
	card, err := s.newCard(clientID, models.CardTypeDebit)
	if err != nil {
		return nil, err
	}
	card.DailyLimit = &dailyLimit

	if err := s.cards.CreateCard(ctx, card); err != nil {
		return nil, err
	}
	s.log.Infof("Debit card %d issued for client %d", card.ID, clientID)
	return card, nil
}

// CreateCreditCard issues an active credit card. When interestRate is nil the
// rate is derived from the central bank key rate.
func (s *CardService) CreateCreditCard(ctx context.Context, clientID int64, monthlyLimit decimal.Decimal, interestRate *decimal.Decimal) (*models.Card, error) {
	card, err := s.newCard(clientID, models.CardTypeCredit)
	if err != nil {
		return nil, err
	}
	card.MonthlyLimit = &monthlyLimit

	if interestRate == nil {
		if s.rates == nil {
			return nil, fmt.Errorf("interest rate required: no key rate provider configured")
		}
		keyRate, err := s.rates.GetKeyRate(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to derive interest rate: %w", err)
		}
		rate := decimal.NewFromFloat(keyRate)
		interestRate = &rate
	}
	card.InterestRate = interestRate

	if err := s.cards.CreateCard(ctx, card); err != nil {
		return nil, err
	}
	s.log.Infof("Credit card %d issued for client %d at %s%%", card.ID, clientID, card.InterestRate)
	return card, nil
}

// CreatePrepaidCard issues an active prepaid card with the given balance
func (s *CardService) CreatePrepaidCard(ctx context.Context, clientID int64, initialBalance decimal.Decimal) (*models.Card, error) {
	card, err := s.newCard(clientID, models.CardTypePrepaid)
	if err != nil {
		return nil, err
	}
	card.AvailableBalance = &initialBalance

	if err := s.cards.CreateCard(ctx, card); err != nil {
		return nil, err
	}
	s.log.Infof("Prepaid card %d issued for client %d", card.ID, clientID)
	return card, nil
}

func (s *CardService) newCard(clientID int64, cardType models.CardType) (*models.Card, error) {
	number, err := s.numbers.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate card number: %w", err)
	}
	return &models.Card{
		Number:         number,
		ExpirationDate: utils.ExpirationDate(time.Now()),
		Status:         models.CardStatusActive,
		ClientID:       clientID,
		Type:           cardType,
	}, nil
}

// Activate sets a card back to Active. It fails with ErrCardAlreadyActive
// when the card is Active already.
func (s *CardService) Activate(ctx context.Context, cardID int64) (bool, error) {
	card, err := s.cards.FindCardByID(ctx, cardID)
	if err != nil {
		return false, err
	}
	if card.Status == models.CardStatusActive {
		return false, fmt.Errorf("activate card %d: %w", cardID, models.ErrCardAlreadyActive)
	}
	return s.writeStatus(ctx, card, models.CardStatusActive)
}

// Suspend sets a card to Suspended. The current status is overwritten
// unconditionally.
func (s *CardService) Suspend(ctx context.Context, cardID int64) (bool, error) {
	card, err := s.cards.FindCardByID(ctx, cardID)
	if err != nil {
		return false, err
	}
	return s.writeStatus(ctx, card, models.CardStatusSuspended)
}

// Block sets a card to Blocked. The current status is overwritten
// unconditionally.
func (s *CardService) Block(ctx context.Context, cardID int64) (bool, error) {
	card, err := s.cards.FindCardByID(ctx, cardID)
	if err != nil {
		return false, err
	}
	return s.writeStatus(ctx, card, models.CardStatusBlocked)
}

func (s *CardService) writeStatus(ctx context.Context, card *models.Card, status models.CardStatus) (bool, error) {
	card.Status = status
	updated, err := s.cards.UpdateCard(ctx, card)
	if err != nil {
		return false, err
	}
	if updated {
		s.metrics.StatusChanged(string(status))
		s.log.Infof("Card %d status set to %s", card.ID, status)
	}
	return updated, nil
}

// VerifyLimit is the admission check run before an operation is recorded.
// It rejects any card that is not Active and otherwise accepts amounts up to
// and including the card's static ceiling. It does not track cumulative
// spend within the ceiling's period.
func (s *CardService) VerifyLimit(ctx context.Context, cardID int64, amount decimal.Decimal) (bool, error) {
	card, err := s.cards.FindCardByID(ctx, cardID)
	if err != nil {
		return false, err
	}

	if card.Status != models.CardStatusActive {
		return false, nil
	}

	ceiling, ok := card.Ceiling()
	if !ok {
		return false, nil
	}
	return amount.LessThanOrEqual(ceiling), nil
}

// GetCard retrieves a card by identifier
func (s *CardService) GetCard(ctx context.Context, cardID int64) (*models.Card, error) {
	return s.cards.FindCardByID(ctx, cardID)
}

// GetClientCards lists the cards owned by a client
func (s *CardService) GetClientCards(ctx context.Context, clientID int64) ([]models.Card, error) {
	return s.cards.FindCardsByClient(ctx, clientID)
}

// GetAllCards lists every card
func (s *CardService) GetAllCards(ctx context.Context) ([]models.Card, error) {
	return s.cards.FindAllCards(ctx)
}

// DeleteCard removes a card
func (s *CardService) DeleteCard(ctx context.Context, cardID int64) (bool, error) {
	deleted, err := s.cards.DeleteCard(ctx, cardID)
	if err != nil {
		return false, err
	}
	if !deleted {
		return false, models.ErrCardNotFound
	}
	s.log.Infof("Card %d deleted", cardID)
	return true, nil
}
