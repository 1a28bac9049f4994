package usecase

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/iho/gobooks/internal/domain"
)

// BalanceCalculator derives balances from journal contents.
type BalanceCalculator struct {
	journalRepo JournalRepository
}

// NewBalanceCalculator creates a new BalanceCalculator.
func NewBalanceCalculator(journalRepo JournalRepository) *BalanceCalculator {
	return &BalanceCalculator{journalRepo: journalRepo}
}

// SideTotal sums the lines of one side of an account. Zero when there are none.
func (c *BalanceCalculator) SideTotal(ctx context.Context, accountID string, t domain.TransactionType) (decimal.Decimal, error) {
	return c.journalRepo.SumByAccountAndType(ctx, accountID, t)
}

// NetBalance nets both sides of an account.
func (c *BalanceCalculator) NetBalance(ctx context.Context, accountID string) (domain.Balance, error) {
	debit, err := c.SideTotal(ctx, accountID, domain.Debit)
	if err != nil {
		return domain.Balance{}, err
	}

	credit, err := c.SideTotal(ctx, accountID, domain.Credit)
	if err != nil {
		return domain.Balance{}, err
	}

	return domain.NewBalance(debit, credit), nil
}
