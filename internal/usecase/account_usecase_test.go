package usecase_test

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/mock/gomock"

	"github.com/iho/gobooks/internal/adapter/repository/memory"
	"github.com/iho/gobooks/internal/domain"
	"github.com/iho/gobooks/internal/usecase"
	"github.com/iho/gobooks/internal/usecase/mocks"
)

func TestAccountUseCase_RegisterAccount(t *testing.T) {
	tests := []struct {
		name         string
		input        usecase.RegisterAccountInput
		wantCategory domain.Category
		wantErr      error
	}{
		{
			name:         "explicit category",
			input:        usecase.RegisterAccountInput{Name: "Sales", Category: "revenue"},
			wantCategory: domain.CategoryRevenue,
		},
		{
			name:         "blank category defaults to asset",
			input:        usecase.RegisterAccountInput{Name: "Cash"},
			wantCategory: domain.CategoryAsset,
		},
		{
			name:    "unknown category",
			input:   usecase.RegisterAccountInput{Name: "Misc", Category: "equity"},
			wantErr: domain.ErrInvalidCategory,
		},
		{
			name:    "blank name",
			input:   usecase.RegisterAccountInput{Name: "  ", Category: "asset"},
			wantErr: domain.ErrInvalidAccountName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := mocks.NewMockAccountRepository(ctrl)
			idGen := mocks.NewMockIDGenerator(ctrl)

			if tt.wantErr == nil {
				idGen.EXPECT().Generate().Return("acc-1")
				repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
			}

			uc := usecase.NewAccountUseCase(repo, idGen)
			acc, err := uc.RegisterAccount(context.Background(), tt.input)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if acc.ID != "acc-1" {
				t.Errorf("expected ID acc-1, got %s", acc.ID)
			}
			if acc.Category != tt.wantCategory {
				t.Errorf("expected category %s, got %s", tt.wantCategory, acc.Category)
			}
		})
	}
}

func TestAccountUseCase_DuplicateLeavesRegistryUnchanged(t *testing.T) {
	db := memory.NewDB()
	uc := usecase.NewAccountUseCase(memory.NewAccountRepository(db), &seqIDGen{})
	ctx := context.Background()

	if _, err := uc.RegisterAccount(ctx, usecase.RegisterAccountInput{Name: "Cash", Category: "asset"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := uc.RegisterAccount(ctx, usecase.RegisterAccountInput{Name: "Cash", Category: "expense"})
	if !errors.Is(err, domain.ErrDuplicateAccount) {
		t.Fatalf("expected ErrDuplicateAccount, got %v", err)
	}

	accounts, err := uc.ListAccounts(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(accounts) != 1 || accounts[0].Category != domain.CategoryAsset {
		t.Fatalf("expected the original account only, got %+v", accounts)
	}
}

func TestAccountUseCase_RegisterRecordsMetricsAndInvalidatesCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockAccountRepository(ctrl)
	idGen := mocks.NewMockIDGenerator(ctrl)
	cache := mocks.NewMockReportCache(ctrl)
	metrics := mocks.NewMockMetrics(ctrl)

	idGen.EXPECT().Generate().Return("acc-1")
	repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
	metrics.EXPECT().AccountRegistered(domain.CategoryExpense)
	cache.EXPECT().Invalidate(gomock.Any()).Return(errors.New("redis down"))

	uc := usecase.NewAccountUseCase(repo, idGen,
		usecase.WithMetrics(metrics),
		usecase.WithReportCache(cache, 0),
	)

	// A failed invalidation is logged, not returned.
	if _, err := uc.RegisterAccount(context.Background(), usecase.RegisterAccountInput{Name: "Rent", Category: "expense"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAccountUseCase_ListAccountsByCategory(t *testing.T) {
	db := memory.NewDB()
	uc := usecase.NewAccountUseCase(memory.NewAccountRepository(db), &seqIDGen{})
	ctx := context.Background()

	for _, in := range []usecase.RegisterAccountInput{
		{Name: "Cash", Category: "asset"},
		{Name: "Loan", Category: "liability"},
		{Name: "Owner", Category: "capital"},
		{Name: "Bank", Category: "asset"},
	} {
		if _, err := uc.RegisterAccount(ctx, in); err != nil {
			t.Fatalf("register %s: %v", in.Name, err)
		}
	}

	got, err := uc.ListAccountsByCategory(ctx, domain.CategoryLiability, domain.CategoryCapital)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0].Name != "Loan" || got[1].Name != "Owner" {
		t.Fatalf("unexpected accounts: %+v", got)
	}

	if _, err := uc.ListAccountsByCategory(ctx, domain.Category("bogus")); !errors.Is(err, domain.ErrInvalidCategory) {
		t.Fatalf("expected ErrInvalidCategory, got %v", err)
	}
}
