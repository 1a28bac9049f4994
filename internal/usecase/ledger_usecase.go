package usecase

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

var (
	// ErrInconsistentLedger is returned when the ledger is not balanced.
	ErrInconsistentLedger = errors.New("ledger is inconsistent: debits do not equal credits")
)

// LedgerUseCase handles ledger-wide operations.
type LedgerUseCase struct {
	ledgerRepo LedgerRepository
}

// NewLedgerUseCase creates a new LedgerUseCase.
func NewLedgerUseCase(ledgerRepo LedgerRepository) *LedgerUseCase {
	return &LedgerUseCase{
		ledgerRepo: ledgerRepo,
	}
}

// ConsistencyResult carries the journal-wide totals behind a consistency check.
type ConsistencyResult struct {
	TotalDebit  decimal.Decimal
	TotalCredit decimal.Decimal
	Consistent  bool
}

// CheckConsistency verifies that total debits equal total credits across
// the whole journal. Entries recorded under the warn balance policy can
// break this; ErrInconsistentLedger is returned alongside the totals.
func (uc *LedgerUseCase) CheckConsistency(ctx context.Context) (*ConsistencyResult, error) {
	totalDebit, totalCredit, err := uc.ledgerRepo.Totals(ctx)
	if err != nil {
		return nil, err
	}

	result := &ConsistencyResult{
		TotalDebit:  totalDebit,
		TotalCredit: totalCredit,
		Consistent:  totalDebit.Equal(totalCredit),
	}

	if !result.Consistent {
		return result, ErrInconsistentLedger
	}

	return result, nil
}
