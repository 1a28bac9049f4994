package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gobooks/internal/domain"
)

// AccountRepository defines data access for the account registry.
type AccountRepository interface {
	// Create stores a new account. Returns domain.ErrDuplicateAccount when
	// the name is taken.
	Create(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	// List returns accounts in registration order.
	List(ctx context.Context) ([]*domain.Account, error)
	// ListByCategory returns accounts whose category is one of categories,
	// in registration order.
	ListByCategory(ctx context.Context, categories ...domain.Category) ([]*domain.Account, error)
}

// JournalRepository defines data access for journal lines.
type JournalRepository interface {
	// Append stores a line inside tx. Returns domain.ErrAccountNotFound when
	// the line's account does not exist.
	Append(ctx context.Context, tx Transaction, line *domain.JournalLine) error
	FindByAccountAndType(ctx context.Context, accountID string, t domain.TransactionType) ([]*domain.JournalLine, error)
	SumByAccountAndType(ctx context.Context, accountID string, t domain.TransactionType) (decimal.Decimal, error)
	FindAll(ctx context.Context) ([]*domain.JournalLine, error)
	// ClearAll removes every line and returns how many were removed.
	ClearAll(ctx context.Context) (int64, error)
}

// LedgerRepository defines data access for ledger-wide operations.
type LedgerRepository interface {
	// Totals returns the sum of all debit lines and of all credit lines.
	Totals(ctx context.Context) (totalDebit, totalCredit decimal.Decimal, err error)
}

// Transaction represents a store transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Retrier re-runs an operation on transient store errors.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// ErrCacheMiss is returned by ReportCache.Get when no value is cached.
var ErrCacheMiss = errors.New("cache miss")

// ReportCache stores serialized reports until the journal or registry changes.
type ReportCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Invalidate drops every cached report.
	Invalidate(ctx context.Context) error
}

// IdempotencyPending is the value a store returns for a key whose first
// request has not completed.
const IdempotencyPending = "processing"

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Release forgets key so the request can be attempted again.
	Release(ctx context.Context, key string) error
}

// Metrics receives business events from the use cases.
type Metrics interface {
	AccountRegistered(category domain.Category)
	EntryRecorded(lines int)
	EntryRejected(reason string)
	JournalCleared(lines int64)
	ReportBuilt(report string, duration time.Duration)
}

type noopMetrics struct{}

func (noopMetrics) AccountRegistered(domain.Category) {}
func (noopMetrics) EntryRecorded(int)                 {}
func (noopMetrics) EntryRejected(string)              {}
func (noopMetrics) JournalCleared(int64)              {}
func (noopMetrics) ReportBuilt(string, time.Duration) {}
