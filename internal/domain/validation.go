package domain

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// Validation constants
const (
	MaxAccountNameLength = 255
	MaxParticularLength  = 1024
	MaxLineAmount        = "1000000000000" // 1 trillion
	// AmountScale is the number of decimal places an amount may carry.
	// It matches journal_lines.amount NUMERIC(38, 8).
	AmountScale = 8
)

var maxLineAmount = decimal.RequireFromString(MaxLineAmount)

// ValidateAccountName validates account name.
// Names are case-sensitive and stored as given; only blank or oversized
// names are rejected.
func ValidateAccountName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidAccountName)
	}

	if utf8.RuneCountInString(name) > MaxAccountNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidAccountName, MaxAccountNameLength)
	}

	return nil
}

// ValidateAmount validates a journal line amount. Zero is allowed.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("%w: amount must not be negative", ErrMalformedEntry)
	}

	if amount.GreaterThan(maxLineAmount) {
		return fmt.Errorf("%w: maximum amount is %s", ErrMalformedEntry, MaxLineAmount)
	}

	if !amount.Equal(amount.Truncate(AmountScale)) {
		return fmt.Errorf("%w: amount has more than %d decimal places", ErrMalformedEntry, AmountScale)
	}

	return nil
}

// ValidateParticular validates the free-text memo of a line.
func ValidateParticular(p string) error {
	if utf8.RuneCountInString(p) > MaxParticularLength {
		return fmt.Errorf("%w: particular exceeds %d characters", ErrMalformedEntry, MaxParticularLength)
	}
	return nil
}
