package models

import "time"

// AlertLevel is the severity of a fraud alert.
type AlertLevel string

const (
	AlertLevelInfo     AlertLevel = "INFO"
	AlertLevelWarning  AlertLevel = "WARNING"
	AlertLevelCritical AlertLevel = "CRITICAL"
)

// Valid reports whether the level is one of the accepted values.
func (l AlertLevel) Valid() bool {
	switch l {
	case AlertLevelInfo, AlertLevelWarning, AlertLevelCritical:
		return true
	}
	return false
}

// Alert is an immutable fraud alert record. CreatedAt is stamped when the
// alert is created, not backdated to the triggering operation.
type Alert struct {
	ID          int64      `json:"id"`
	Description string     `json:"description"`
	Level       AlertLevel `json:"level"`
	CardID      int64      `json:"card_id"`
	CreatedAt   time.Time  `json:"created_at"`
}
