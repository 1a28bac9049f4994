package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/gobooks/internal/domain"
)

// AccountUseCase handles the account registry.
type AccountUseCase struct {
	accountRepo AccountRepository
	idGen       IDGenerator
	cache       ReportCache
	metrics     Metrics
	logger      zerolog.Logger
}

// NewAccountUseCase creates a new AccountUseCase.
func NewAccountUseCase(accountRepo AccountRepository, idGen IDGenerator, opts ...Option) *AccountUseCase {
	o := newOptions(opts)
	return &AccountUseCase{
		accountRepo: accountRepo,
		idGen:       idGen,
		cache:       o.cache,
		metrics:     o.metrics,
		logger:      o.logger,
	}
}

// RegisterAccountInput represents input for registering an account.
type RegisterAccountInput struct {
	Name     string
	Category string
}

// RegisterAccount adds a new account to the registry.
func (uc *AccountUseCase) RegisterAccount(ctx context.Context, input RegisterAccountInput) (*domain.Account, error) {
	if err := domain.ValidateAccountName(input.Name); err != nil {
		return nil, err
	}

	category, err := domain.ParseCategory(input.Category)
	if err != nil {
		return nil, err
	}

	account := &domain.Account{
		ID:        uc.idGen.Generate(),
		Name:      input.Name,
		Category:  category,
		CreatedAt: time.Now().UTC(),
	}

	if err := uc.accountRepo.Create(ctx, account); err != nil {
		return nil, err
	}

	uc.metrics.AccountRegistered(category)
	uc.logger.Info().
		Str("account_id", account.ID).
		Str("category", string(category)).
		Msg("account registered")

	// The trial balance lists every account, so a new one stales it.
	invalidateReports(ctx, uc.cache, uc.logger)

	return account, nil
}

// GetAccount retrieves an account by ID.
func (uc *AccountUseCase) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	return uc.accountRepo.GetByID(ctx, id)
}

// ListAccounts lists all accounts in registration order.
func (uc *AccountUseCase) ListAccounts(ctx context.Context) ([]*domain.Account, error) {
	return uc.accountRepo.List(ctx)
}

// ListAccountsByCategory lists accounts of the given categories in
// registration order.
func (uc *AccountUseCase) ListAccountsByCategory(ctx context.Context, categories ...domain.Category) ([]*domain.Account, error) {
	for _, c := range categories {
		if !c.Valid() {
			return nil, domain.ErrInvalidCategory
		}
	}
	return uc.accountRepo.ListByCategory(ctx, categories...)
}

func invalidateReports(ctx context.Context, cache ReportCache, logger zerolog.Logger) {
	if cache == nil {
		return
	}
	if err := cache.Invalidate(ctx); err != nil {
		logger.Warn().Err(err).Msg("failed to invalidate report cache")
	}
}
