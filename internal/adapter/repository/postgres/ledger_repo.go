package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/iho/gobooks/internal/infrastructure/postgres/generated"
)

// LedgerRepository implements usecase.LedgerRepository.
type LedgerRepository struct {
	queries *generated.Queries
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(pool *pgxpool.Pool) *LedgerRepository {
	return newLedgerRepositoryWithDB(pool)
}

func newLedgerRepositoryWithDB(db generated.DBTX) *LedgerRepository {
	return &LedgerRepository{queries: generated.New(db)}
}

// Totals sums all debit and all credit lines.
func (r *LedgerRepository) Totals(ctx context.Context) (totalDebit decimal.Decimal, totalCredit decimal.Decimal, err error) {
	result, err := r.queries.JournalTotals(ctx)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	totalDebit, err = toDecimal(result.TotalDebit)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	totalCredit, err = toDecimal(result.TotalCredit)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	return totalDebit, totalCredit, nil
}
