package utils

import (
	"crypto/rand"
	"fmt"
	"io"
	"strings"
	"time"
)

// cardNumberLength is the number of digits in a generated card number.
const cardNumberLength = 16

// cardValidityYears is how long a card is valid from issuance.
const cardValidityYears = 3

// CardNumberGenerator produces card numbers from an injected randomness
// source, so tests can supply deterministic sequences.
type CardNumberGenerator struct {
	src io.Reader
}

// NewCardNumberGenerator creates a generator reading from src. A nil src
// falls back to crypto/rand.
func NewCardNumberGenerator(src io.Reader) *CardNumberGenerator {
	if src == nil {
		src = rand.Reader
	}
	return &CardNumberGenerator{src: src}
}

// Generate returns a 16-digit numeric card number. Uniqueness is not
// enforced here.
func (g *CardNumberGenerator) Generate() (string, error) {
	buf := make([]byte, cardNumberLength)
	if _, err := io.ReadFull(g.src, buf); err != nil {
		return "", fmt.Errorf("failed to generate random digits: %w", err)
	}

	var builder strings.Builder
	for _, b := range buf {
		builder.WriteByte(b%10 + '0')
	}
	return builder.String(), nil
}

// ExpirationDate returns the expiration date for a card issued at the given
// time.
func ExpirationDate(issuedAt time.Time) time.Time {
	return issuedAt.AddDate(cardValidityYears, 0, 0)
}
