package bolt

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/iho/gobooks/internal/domain"
)

type accountRecord struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"created_at"`
}

func (r accountRecord) toDomain() *domain.Account {
	return &domain.Account{
		ID:        r.ID,
		Name:      r.Name,
		Category:  domain.Category(r.Category),
		CreatedAt: r.CreatedAt,
	}
}

// AccountRepository implements usecase.AccountRepository.
type AccountRepository struct {
	store *Store
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(store *Store) *AccountRepository {
	return &AccountRepository{store: store}
}

// Create creates a new account. Accounts are keyed by a bucket sequence so
// listing follows registration order.
func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return r.store.db.Update(func(tx *bolt.Tx) error {
		accounts, err := bucket(tx, bucketAccounts)
		if err != nil {
			return err
		}
		names, err := bucket(tx, bucketAccountNames)
		if err != nil {
			return err
		}
		keys, err := bucket(tx, bucketAccountKeys)
		if err != nil {
			return err
		}

		if names.Get([]byte(account.Name)) != nil {
			return domain.ErrDuplicateAccount
		}

		seq, err := accounts.NextSequence()
		if err != nil {
			return err
		}

		data, err := json.Marshal(accountRecord{
			ID:        account.ID,
			Name:      account.Name,
			Category:  string(account.Category),
			CreatedAt: account.CreatedAt,
		})
		if err != nil {
			return fmt.Errorf("failed to marshal account: %w", err)
		}

		key := itob(seq)
		if err := accounts.Put(key, data); err != nil {
			return err
		}
		if err := names.Put([]byte(account.Name), []byte(account.ID)); err != nil {
			return err
		}
		return keys.Put([]byte(account.ID), key)
	})
}

// GetByID retrieves an account by ID.
func (r *AccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var account *domain.Account
	err := r.store.db.View(func(tx *bolt.Tx) error {
		var err error
		account, err = getAccount(tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	return account, nil
}

// List lists accounts in registration order.
func (r *AccountRepository) List(ctx context.Context) ([]*domain.Account, error) {
	return r.scan(ctx, nil)
}

// ListByCategory lists accounts of the given categories in registration order.
func (r *AccountRepository) ListByCategory(ctx context.Context, categories ...domain.Category) ([]*domain.Account, error) {
	return r.scan(ctx, categories)
}

func (r *AccountRepository) scan(ctx context.Context, categories []domain.Category) ([]*domain.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	accounts := make([]*domain.Account, 0)
	err := r.store.db.View(func(tx *bolt.Tx) error {
		b, err := bucket(tx, bucketAccounts)
		if err != nil {
			return err
		}

		return b.ForEach(func(_, v []byte) error {
			var rec accountRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				return fmt.Errorf("failed to unmarshal account: %w", err)
			}
			if categories != nil && !slices.Contains(categories, domain.Category(rec.Category)) {
				return nil
			}
			accounts = append(accounts, rec.toDomain())
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return accounts, nil
}

func getAccount(tx *bolt.Tx, id string) (*domain.Account, error) {
	keys, err := bucket(tx, bucketAccountKeys)
	if err != nil {
		return nil, err
	}
	key := keys.Get([]byte(id))
	if key == nil {
		return nil, domain.ErrAccountNotFound
	}

	accounts, err := bucket(tx, bucketAccounts)
	if err != nil {
		return nil, err
	}
	data := accounts.Get(key)
	if data == nil {
		return nil, domain.ErrAccountNotFound
	}

	var rec accountRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal account: %w", err)
	}

	return rec.toDomain(), nil
}
