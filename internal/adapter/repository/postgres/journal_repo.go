package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/iho/gobooks/internal/domain"
	"github.com/iho/gobooks/internal/infrastructure/postgres/generated"
	"github.com/iho/gobooks/internal/usecase"
)

// JournalRepository implements usecase.JournalRepository.
type JournalRepository struct {
	queries *generated.Queries
}

// NewJournalRepository creates a new JournalRepository.
func NewJournalRepository(pool *pgxpool.Pool) *JournalRepository {
	return newJournalRepositoryWithDB(pool)
}

func newJournalRepositoryWithDB(db generated.DBTX) *JournalRepository {
	return &JournalRepository{queries: generated.New(db)}
}

// Append inserts a line within tx. The foreign key on account_id reports
// unknown accounts.
func (r *JournalRepository) Append(ctx context.Context, tx usecase.Transaction, line *domain.JournalLine) error {
	ptx, err := pgxTx(tx)
	if err != nil {
		return err
	}

	err = r.queries.WithTx(ptx).CreateJournalLine(ctx, generated.CreateJournalLineParams{
		ID:              line.ID,
		AccountID:       line.AccountID,
		EntryDate:       timeToPgDate(line.Date),
		Particular:      line.Particular,
		TransactionType: string(line.Type),
		Amount:          decimalToNumeric(line.Amount),
		CreatedAt:       timeToPgTimestamptz(line.CreatedAt),
	})

	return translateError(err)
}

// FindByAccountAndType returns the lines of one side of an account.
func (r *JournalRepository) FindByAccountAndType(ctx context.Context, accountID string, t domain.TransactionType) ([]*domain.JournalLine, error) {
	rows, err := r.queries.ListJournalLinesByAccountAndType(ctx, generated.ListJournalLinesByAccountAndTypeParams{
		AccountID:       accountID,
		TransactionType: string(t),
	})
	if err != nil {
		return nil, err
	}

	return rowsToLines(rows), nil
}

// SumByAccountAndType totals one side of an account in the database.
func (r *JournalRepository) SumByAccountAndType(ctx context.Context, accountID string, t domain.TransactionType) (decimal.Decimal, error) {
	total, err := r.queries.SumJournalLinesByAccountAndType(ctx, generated.SumJournalLinesByAccountAndTypeParams{
		AccountID:       accountID,
		TransactionType: string(t),
	})
	if err != nil {
		return decimal.Zero, err
	}

	return toDecimal(total)
}

// FindAll returns every line in insertion order.
func (r *JournalRepository) FindAll(ctx context.Context) ([]*domain.JournalLine, error) {
	rows, err := r.queries.ListJournalLines(ctx)
	if err != nil {
		return nil, err
	}

	return rowsToLines(rows), nil
}

// ClearAll deletes every line.
func (r *JournalRepository) ClearAll(ctx context.Context) (int64, error) {
	return r.queries.DeleteAllJournalLines(ctx)
}

func rowsToLines(rows []generated.JournalLine) []*domain.JournalLine {
	lines := make([]*domain.JournalLine, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, &domain.JournalLine{
			ID:         row.ID,
			AccountID:  row.AccountID,
			Date:       row.EntryDate.Time,
			Particular: row.Particular,
			Type:       domain.TransactionType(row.TransactionType),
			Amount:     numericToDecimal(row.Amount),
			CreatedAt:  row.CreatedAt.Time,
		})
	}

	return lines
}
