// Package bolt stores accounts and journal lines in a single bbolt file.
package bolt

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/iho/gobooks/internal/usecase"
)

// Bucket names.
var (
	bucketAccounts     = []byte("accounts")
	bucketAccountNames = []byte("account_names")
	bucketAccountKeys  = []byte("account_keys")
	bucketJournal      = []byte("journal")
)

// ErrBucketMissing is returned when the file was not initialised by Open.
var ErrBucketMissing = errors.New("bolt: bucket missing")

// Store wraps the bbolt database.
type Store struct {
	db *bolt.DB
}

// Open opens (creating if needed) the database at path and initialises
// its buckets.
func Open(path string, timeout time.Duration) (*Store, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: timeout})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{bucketAccounts, bucketAccountNames, bucketAccountKeys, bucketJournal} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping reports whether the database is still open.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.View(func(tx *bolt.Tx) error {
		if tx.Bucket(bucketJournal) == nil {
			return ErrBucketMissing
		}
		return nil
	})
}

// TxManager implements usecase.TransactionManager.
type TxManager struct {
	store *Store
}

// NewTxManager creates a new TxManager.
func NewTxManager(store *Store) *TxManager {
	return &TxManager{store: store}
}

// Begin starts a writable transaction. bbolt allows one writer at a time,
// so concurrent entries are serialised here.
func (m *TxManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tx, err := m.store.db.Begin(true)
	if err != nil {
		return nil, err
	}

	return &Tx{tx: tx}, nil
}

// Tx wraps bolt.Tx to implement usecase.Transaction.
type Tx struct {
	tx *bolt.Tx
}

// Commit commits the transaction.
func (t *Tx) Commit(ctx context.Context) error {
	return t.tx.Commit()
}

// Rollback rolls back the transaction.
func (t *Tx) Rollback(ctx context.Context) error {
	return t.tx.Rollback()
}

// BoltTx returns the underlying bolt.Tx.
func (t *Tx) BoltTx() *bolt.Tx {
	return t.tx
}

func bucket(tx *bolt.Tx, name []byte) (*bolt.Bucket, error) {
	b := tx.Bucket(name)
	if b == nil {
		return nil, fmt.Errorf("%w: %s", ErrBucketMissing, name)
	}
	return b, nil
}

// itob encodes a sequence number as a big-endian key so cursors walk in
// insertion order.
func itob(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}
