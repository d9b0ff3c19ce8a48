package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CardType discriminates the three card variants.
type CardType string

const (
	CardTypeDebit   CardType = "DEBIT"
	CardTypeCredit  CardType = "CREDIT"
	CardTypePrepaid CardType = "PREPAID"
)

// CardStatus is the lifecycle state of a card.
type CardStatus string

const (
	CardStatusActive    CardStatus = "ACTIVE"
	CardStatusSuspended CardStatus = "SUSPENDED"
	CardStatusBlocked   CardStatus = "BLOCKED"
)

// Card represents a payment card. The variant-specific fields are pointers:
// exactly one group is set depending on Type (DailyLimit for debit,
// MonthlyLimit/InterestRate for credit, AvailableBalance for prepaid).
type Card struct {
	ID               int64            `json:"id"`
	Number           string           `json:"number"`
	ExpirationDate   time.Time        `json:"expiration_date"`
	Status           CardStatus       `json:"status"`
	ClientID         int64            `json:"client_id"`
	Type             CardType         `json:"type"`
	DailyLimit       *decimal.Decimal `json:"daily_limit,omitempty"`
	MonthlyLimit     *decimal.Decimal `json:"monthly_limit,omitempty"`
	InterestRate     *decimal.Decimal `json:"interest_rate,omitempty"`
	AvailableBalance *decimal.Decimal `json:"available_balance,omitempty"`
}

// Ceiling returns the spending ceiling relevant to the card's variant.
// The second return value is false when the variant field is missing.
func (c *Card) Ceiling() (decimal.Decimal, bool) {
	switch c.Type {
	case CardTypeDebit:
		if c.DailyLimit != nil {
			return *c.DailyLimit, true
		}
	case CardTypeCredit:
		if c.MonthlyLimit != nil {
			return *c.MonthlyLimit, true
		}
	case CardTypePrepaid:
		if c.AvailableBalance != nil {
			return *c.AvailableBalance, true
		}
	}
	return decimal.Decimal{}, false
}
