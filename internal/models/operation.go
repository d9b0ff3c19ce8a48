package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OperationType classifies a card operation.
type OperationType string

const (
	OperationTypePurchase      OperationType = "PURCHASE"
	OperationTypeWithdrawal    OperationType = "WITHDRAWAL"
	OperationTypeOnlinePayment OperationType = "ONLINE_PAYMENT"
)

// Valid reports whether the operation type is one of the accepted values.
func (t OperationType) Valid() bool {
	switch t {
	case OperationTypePurchase, OperationTypeWithdrawal, OperationTypeOnlinePayment:
		return true
	}
	return false
}

// Operation is a single recorded card operation. Operations are immutable
// once saved; they only ever enter the system through the admission path.
type Operation struct {
	ID       int64           `json:"id"`
	Date     time.Time       `json:"date"`
	Amount   decimal.Decimal `json:"amount"`
	Type     OperationType   `json:"type"`
	Location string          `json:"location"`
	CardID   int64           `json:"card_id"`
}
