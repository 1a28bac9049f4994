package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType is the side of a journal line.
type TransactionType string

const (
	Debit  TransactionType = "debit"
	Credit TransactionType = "credit"
)

// ParseTransactionType converts raw input into a TransactionType.
func ParseTransactionType(s string) (TransactionType, error) {
	switch t := TransactionType(s); t {
	case Debit, Credit:
		return t, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidTransactionType, s)
	}
}

// JournalLine is a single dated debit or credit against one account.
// The account is referenced by ID only and resolved when reports are built.
type JournalLine struct {
	CreatedAt  time.Time
	Date       time.Time
	ID         string
	AccountID  string
	Particular string
	Type       TransactionType
	Amount     decimal.Decimal
}

// LedgerLine is a journal line with its account resolved.
type LedgerLine struct {
	*JournalLine
	Account *Account
}

// EntryLine is one side of a journal entry as supplied by a caller.
type EntryLine struct {
	AccountID  string
	Particular string
	Amount     decimal.Decimal
}

// JournalEntry groups the debit and credit lines recorded on one date.
// It is never stored as a record of its own.
type JournalEntry struct {
	Date    time.Time
	Debits  []EntryLine
	Credits []EntryLine
}

// Totals returns the summed debit and credit amounts of the entry.
func (e *JournalEntry) Totals() (debit, credit decimal.Decimal) {
	debit, credit = decimal.Zero, decimal.Zero
	for _, l := range e.Debits {
		debit = debit.Add(l.Amount)
	}
	for _, l := range e.Credits {
		credit = credit.Add(l.Amount)
	}
	return debit, credit
}

// Validate checks the structural rules of an entry: a date, at least one
// line per side, an account on every line and no negative amounts.
// It does not check that the entry balances; see CheckBalanced.
func (e *JournalEntry) Validate() error {
	if e.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrMalformedEntry)
	}

	if len(e.Debits) == 0 {
		return fmt.Errorf("%w: at least one debit line is required", ErrMalformedEntry)
	}

	if len(e.Credits) == 0 {
		return fmt.Errorf("%w: at least one credit line is required", ErrMalformedEntry)
	}

	for i, l := range e.Debits {
		if err := l.validate(); err != nil {
			return fmt.Errorf("debit line %d: %w", i, err)
		}
	}

	for i, l := range e.Credits {
		if err := l.validate(); err != nil {
			return fmt.Errorf("credit line %d: %w", i, err)
		}
	}

	return nil
}

// CheckBalanced returns ErrUnbalancedEntry when debits and credits differ.
func (e *JournalEntry) CheckBalanced() error {
	debit, credit := e.Totals()
	if !debit.Equal(credit) {
		return fmt.Errorf("%w: debits %s, credits %s", ErrUnbalancedEntry, debit.String(), credit.String())
	}
	return nil
}

// Lines expands the entry into journal lines, debits first, each side in
// the order supplied.
func (e *JournalEntry) Lines() []*JournalLine {
	lines := make([]*JournalLine, 0, len(e.Debits)+len(e.Credits))
	for _, l := range e.Debits {
		lines = append(lines, l.toLine(e.Date, Debit))
	}
	for _, l := range e.Credits {
		lines = append(lines, l.toLine(e.Date, Credit))
	}
	return lines
}

func (l EntryLine) validate() error {
	if l.AccountID == "" {
		return fmt.Errorf("%w: account is required", ErrMalformedEntry)
	}
	if err := ValidateParticular(l.Particular); err != nil {
		return err
	}
	return ValidateAmount(l.Amount)
}

func (l EntryLine) toLine(date time.Time, t TransactionType) *JournalLine {
	return &JournalLine{
		Date:       date,
		AccountID:  l.AccountID,
		Particular: l.Particular,
		Amount:     l.Amount,
		Type:       t,
	}
}
