package domain

import (
	"errors"
	"fmt"
)

var (
	// Account errors
	ErrDuplicateAccount   = errors.New("account already exists")
	ErrInvalidCategory    = errors.New("invalid account category")
	ErrAccountNotFound    = errors.New("account not found")
	ErrInvalidAccountName = errors.New("invalid account name")

	// Journal errors
	ErrMalformedEntry         = errors.New("malformed journal entry")
	ErrUnbalancedEntry        = fmt.Errorf("%w: debits do not equal credits", ErrMalformedEntry)
	ErrInvalidTransactionType = errors.New("transaction type must be debit or credit")
)
