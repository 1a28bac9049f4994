package memory

import (
	"context"
	"slices"

	"github.com/iho/gobooks/internal/domain"
)

// AccountRepository implements usecase.AccountRepository.
type AccountRepository struct {
	db *DB
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(db *DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// Create creates a new account.
func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, taken := r.db.byName[account.Name]; taken {
		return domain.ErrDuplicateAccount
	}

	stored := *account
	r.db.accounts = append(r.db.accounts, &stored)
	r.db.byID[stored.ID] = &stored
	r.db.byName[stored.Name] = struct{}{}

	return nil
}

// GetByID retrieves an account by ID.
func (r *AccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	acc, ok := r.db.byID[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}

	out := *acc
	return &out, nil
}

// List lists accounts in registration order.
func (r *AccountRepository) List(ctx context.Context) ([]*domain.Account, error) {
	return r.filter(ctx, func(*domain.Account) bool { return true })
}

// ListByCategory lists accounts of the given categories in registration order.
func (r *AccountRepository) ListByCategory(ctx context.Context, categories ...domain.Category) ([]*domain.Account, error) {
	return r.filter(ctx, func(a *domain.Account) bool {
		return slices.Contains(categories, a.Category)
	})
}

func (r *AccountRepository) filter(ctx context.Context, keep func(*domain.Account) bool) ([]*domain.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	accounts := make([]*domain.Account, 0, len(r.db.accounts))
	for _, a := range r.db.accounts {
		if keep(a) {
			out := *a
			accounts = append(accounts, &out)
		}
	}

	return accounts, nil
}
