// Package memory keeps accounts and journal lines in process memory.
// It backs the "memory" storage driver and the use case tests.
package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/iho/gobooks/internal/domain"
	"github.com/iho/gobooks/internal/usecase"
)

// ErrTxClosed is returned when a committed or rolled back transaction is reused.
var ErrTxClosed = errors.New("transaction already closed")

// DB holds the shared state behind the memory repositories.
type DB struct {
	mu       sync.RWMutex
	accounts []*domain.Account
	byID     map[string]*domain.Account
	byName   map[string]struct{}
	lines    []*domain.JournalLine
}

// NewDB creates an empty DB.
func NewDB() *DB {
	return &DB{
		byID:   make(map[string]*domain.Account),
		byName: make(map[string]struct{}),
	}
}

func (db *DB) accountExists(id string) bool {
	db.mu.RLock()
	defer db.mu.RUnlock()
	_, ok := db.byID[id]
	return ok
}

// TxManager implements usecase.TransactionManager.
type TxManager struct {
	db *DB
}

// NewTxManager creates a new TxManager.
func NewTxManager(db *DB) *TxManager {
	return &TxManager{db: db}
}

// Begin starts a new transaction. Lines appended to it become visible
// together on Commit.
func (m *TxManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &Tx{db: m.db}, nil
}

// Tx stages journal lines until commit.
type Tx struct {
	db      *DB
	mu      sync.Mutex
	pending []*domain.JournalLine
	closed  bool
}

func (t *Tx) stage(line *domain.JournalLine) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return ErrTxClosed
	}
	t.pending = append(t.pending, line)
	return nil
}

// Commit publishes the staged lines.
func (t *Tx) Commit(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return ErrTxClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	t.db.mu.Lock()
	t.db.lines = append(t.db.lines, t.pending...)
	t.db.mu.Unlock()

	t.closed = true
	t.pending = nil
	return nil
}

// Rollback discards the staged lines.
func (t *Tx) Rollback(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return ErrTxClosed
	}
	t.closed = true
	t.pending = nil
	return nil
}
