package memory

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/iho/gobooks/internal/domain"
	"github.com/iho/gobooks/internal/usecase"
)

// JournalRepository implements usecase.JournalRepository.
type JournalRepository struct {
	db *DB
}

// NewJournalRepository creates a new JournalRepository.
func NewJournalRepository(db *DB) *JournalRepository {
	return &JournalRepository{db: db}
}

// Append stages a line in tx.
func (r *JournalRepository) Append(ctx context.Context, tx usecase.Transaction, line *domain.JournalLine) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if !r.db.accountExists(line.AccountID) {
		return domain.ErrAccountNotFound
	}

	stored := *line
	return tx.(*Tx).stage(&stored)
}

// FindByAccountAndType returns the lines of one side of an account.
func (r *JournalRepository) FindByAccountAndType(ctx context.Context, accountID string, t domain.TransactionType) ([]*domain.JournalLine, error) {
	return r.filter(ctx, func(l *domain.JournalLine) bool {
		return l.AccountID == accountID && l.Type == t
	})
}

// SumByAccountAndType totals one side of an account.
func (r *JournalRepository) SumByAccountAndType(ctx context.Context, accountID string, t domain.TransactionType) (decimal.Decimal, error) {
	lines, err := r.FindByAccountAndType(ctx, accountID, t)
	if err != nil {
		return decimal.Zero, err
	}
	return domain.SumLines(lines), nil
}

// FindAll returns every line in insertion order.
func (r *JournalRepository) FindAll(ctx context.Context) ([]*domain.JournalLine, error) {
	return r.filter(ctx, func(*domain.JournalLine) bool { return true })
}

// ClearAll removes every line.
func (r *JournalRepository) ClearAll(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	n := int64(len(r.db.lines))
	r.db.lines = nil

	return n, nil
}

func (r *JournalRepository) filter(ctx context.Context, keep func(*domain.JournalLine) bool) ([]*domain.JournalLine, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	lines := make([]*domain.JournalLine, 0)
	for _, l := range r.db.lines {
		if keep(l) {
			out := *l
			lines = append(lines, &out)
		}
	}

	return lines, nil
}

// LedgerRepository implements usecase.LedgerRepository.
type LedgerRepository struct {
	db *DB
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(db *DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

// Totals sums all debit and all credit lines.
func (r *LedgerRepository) Totals(ctx context.Context) (decimal.Decimal, decimal.Decimal, error) {
	if err := ctx.Err(); err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	debit, credit := decimal.Zero, decimal.Zero
	for _, l := range r.db.lines {
		switch l.Type {
		case domain.Debit:
			debit = debit.Add(l.Amount)
		case domain.Credit:
			credit = credit.Add(l.Amount)
		}
	}

	return debit, credit, nil
}
