package usecase_test

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gobooks/internal/adapter/repository/memory"
	"github.com/iho/gobooks/internal/domain"
	"github.com/iho/gobooks/internal/usecase"
)

type seqIDGen struct {
	n atomic.Int64
}

func (g *seqIDGen) Generate() string {
	return fmt.Sprintf("id-%04d", g.n.Add(1))
}

// book wires every use case onto one in-memory store.
type book struct {
	accounts *usecase.AccountUseCase
	journal  *usecase.JournalUseCase
	reports  *usecase.ReportUseCase
	ledger   *usecase.LedgerUseCase

	accountRepo *memory.AccountRepository
	journalRepo *memory.JournalRepository
}

func newBook(opts ...usecase.Option) *book {
	db := memory.NewDB()
	idGen := &seqIDGen{}
	accountRepo := memory.NewAccountRepository(db)
	journalRepo := memory.NewJournalRepository(db)

	return &book{
		accounts: usecase.NewAccountUseCase(accountRepo, idGen, opts...),
		journal:  usecase.NewJournalUseCase(memory.NewTxManager(db), journalRepo, idGen, opts...),
		reports:  usecase.NewReportUseCase(accountRepo, journalRepo, opts...),
		ledger:   usecase.NewLedgerUseCase(memory.NewLedgerRepository(db)),

		accountRepo: accountRepo,
		journalRepo: journalRepo,
	}
}

func (b *book) open(t *testing.T, name string, category domain.Category) *domain.Account {
	t.Helper()
	acc, err := b.accounts.RegisterAccount(context.Background(), usecase.RegisterAccountInput{
		Name:     name,
		Category: string(category),
	})
	if err != nil {
		t.Fatalf("register %s: %v", name, err)
	}
	return acc
}

func (b *book) post(t *testing.T, debit, credit []domain.EntryLine) {
	t.Helper()
	err := b.journal.RecordEntry(context.Background(), usecase.RecordEntryInput{
		Date:   day(),
		Debit:  debit,
		Credit: credit,
	})
	if err != nil {
		t.Fatalf("record entry: %v", err)
	}
}

func line(acc *domain.Account, amount int64) domain.EntryLine {
	return domain.EntryLine{AccountID: acc.ID, Amount: decimal.NewFromInt(amount)}
}

func day() time.Time {
	return time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)
}

func dec(n int64) decimal.Decimal {
	return decimal.NewFromInt(n)
}
