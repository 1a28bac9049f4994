package bolt

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	bolt "go.etcd.io/bbolt"

	"github.com/iho/gobooks/internal/domain"
	"github.com/iho/gobooks/internal/usecase"
)

type lineRecord struct {
	ID         string          `json:"id"`
	AccountID  string          `json:"account_id"`
	Date       time.Time       `json:"date"`
	Particular string          `json:"particular,omitempty"`
	Type       string          `json:"transaction_type"`
	Amount     decimal.Decimal `json:"amount"`
	CreatedAt  time.Time       `json:"created_at"`
}

func (r lineRecord) toDomain() *domain.JournalLine {
	return &domain.JournalLine{
		ID:         r.ID,
		AccountID:  r.AccountID,
		Date:       r.Date,
		Particular: r.Particular,
		Type:       domain.TransactionType(r.Type),
		Amount:     r.Amount,
		CreatedAt:  r.CreatedAt,
	}
}

// JournalRepository implements usecase.JournalRepository.
type JournalRepository struct {
	store *Store
}

// NewJournalRepository creates a new JournalRepository.
func NewJournalRepository(store *Store) *JournalRepository {
	return &JournalRepository{store: store}
}

// Append writes a line inside tx after checking its account in the same
// transaction.
func (r *JournalRepository) Append(ctx context.Context, tx usecase.Transaction, line *domain.JournalLine) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	btx := tx.(*Tx).BoltTx()

	if _, err := getAccount(btx, line.AccountID); err != nil {
		return err
	}

	b, err := bucket(btx, bucketJournal)
	if err != nil {
		return err
	}

	seq, err := b.NextSequence()
	if err != nil {
		return err
	}

	data, err := json.Marshal(lineRecord{
		ID:         line.ID,
		AccountID:  line.AccountID,
		Date:       line.Date,
		Particular: line.Particular,
		Type:       string(line.Type),
		Amount:     line.Amount,
		CreatedAt:  line.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal journal line: %w", err)
	}

	return b.Put(itob(seq), data)
}

// FindByAccountAndType returns the lines of one side of an account.
func (r *JournalRepository) FindByAccountAndType(ctx context.Context, accountID string, t domain.TransactionType) ([]*domain.JournalLine, error) {
	return r.scan(ctx, func(rec *lineRecord) bool {
		return rec.AccountID == accountID && rec.Type == string(t)
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
	return r.scan(ctx, nil)
}

// ClearAll drops and recreates the journal bucket.
func (r *JournalRepository) ClearAll(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	var n int64
	err := r.store.db.Update(func(tx *bolt.Tx) error {
		b, err := bucket(tx, bucketJournal)
		if err != nil {
			return err
		}
		n = int64(b.Stats().KeyN)

		if err := tx.DeleteBucket(bucketJournal); err != nil {
			return err
		}
		_, err = tx.CreateBucket(bucketJournal)
		return err
	})
	if err != nil {
		return 0, err
	}

	return n, nil
}

func (r *JournalRepository) scan(ctx context.Context, keep func(*lineRecord) bool) ([]*domain.JournalLine, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	lines := make([]*domain.JournalLine, 0)
	err := r.store.db.View(func(tx *bolt.Tx) error {
		b, err := bucket(tx, bucketJournal)
		if err != nil {
			return err
		}

		return b.ForEach(func(_, v []byte) error {
			var rec lineRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				return fmt.Errorf("failed to unmarshal journal line: %w", err)
			}
			if keep == nil || keep(&rec) {
				lines = append(lines, rec.toDomain())
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return lines, nil
}

// LedgerRepository implements usecase.LedgerRepository.
type LedgerRepository struct {
	journal *JournalRepository
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(store *Store) *LedgerRepository {
	return &LedgerRepository{journal: NewJournalRepository(store)}
}

// Totals sums all debit and all credit lines.
func (r *LedgerRepository) Totals(ctx context.Context) (decimal.Decimal, decimal.Decimal, error) {
	lines, err := r.journal.FindAll(ctx)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	debit, credit := decimal.Zero, decimal.Zero
	for _, l := range lines {
		if l.Type == domain.Debit {
			debit = debit.Add(l.Amount)
		} else {
			credit = credit.Add(l.Amount)
		}
	}

	return debit, credit, nil
}
