package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/gobooks/internal/domain"
)

// JournalUseCase records journal entries and manages the journal.
type JournalUseCase struct {
	txManager     TransactionManager
	journalRepo   JournalRepository
	idGen         IDGenerator
	retrier       Retrier
	cache         ReportCache
	metrics       Metrics
	logger        zerolog.Logger
	balancePolicy BalancePolicy
}

// NewJournalUseCase creates a new JournalUseCase.
func NewJournalUseCase(
	txManager TransactionManager,
	journalRepo JournalRepository,
	idGen IDGenerator,
	opts ...Option,
) *JournalUseCase {
	o := newOptions(opts)
	return &JournalUseCase{
		txManager:     txManager,
		journalRepo:   journalRepo,
		idGen:         idGen,
		retrier:       o.retrier,
		cache:         o.cache,
		metrics:       o.metrics,
		logger:        o.logger,
		balancePolicy: o.balancePolicy,
	}
}

// RecordEntryInput represents one journal entry to record.
type RecordEntryInput struct {
	Date   time.Time
	Debit  []domain.EntryLine
	Credit []domain.EntryLine
}

// RecordEntry validates an entry and stores all of its lines in a single
// transaction: debits first, then credits, each in the order given. Either
// every line is stored or none is.
func (uc *JournalUseCase) RecordEntry(ctx context.Context, input RecordEntryInput) error {
	entry := &domain.JournalEntry{
		Date:    calendarDate(input.Date),
		Debits:  input.Debit,
		Credits: input.Credit,
	}

	if err := entry.Validate(); err != nil {
		uc.metrics.EntryRejected("malformed")
		return err
	}

	if err := entry.CheckBalanced(); err != nil {
		if uc.balancePolicy != BalancePolicyWarn {
			uc.metrics.EntryRejected("unbalanced")
			return err
		}

		debit, credit := entry.Totals()
		uc.logger.Warn().
			Str("debit_total", debit.String()).
			Str("credit_total", credit.String()).
			Msg("recording unbalanced journal entry")
	}

	now := time.Now().UTC()
	lines := entry.Lines()
	for _, l := range lines {
		l.ID = uc.idGen.Generate()
		l.CreatedAt = now
	}

	write := func() error {
		return uc.appendLines(ctx, lines)
	}

	var err error
	if uc.retrier != nil {
		err = uc.retrier.Retry(ctx, write)
	} else {
		err = write()
	}

	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			uc.metrics.EntryRejected("unknown_account")
		} else {
			uc.metrics.EntryRejected("store")
		}
		return err
	}

	uc.metrics.EntryRecorded(len(lines))
	uc.logger.Info().
		Time("date", entry.Date).
		Int("lines", len(lines)).
		Msg("journal entry recorded")

	invalidateReports(ctx, uc.cache, uc.logger)

	return nil
}

func (uc *JournalUseCase) appendLines(ctx context.Context, lines []*domain.JournalLine) error {
	ctx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, l := range lines {
		if err := uc.journalRepo.Append(ctx, tx, l); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// ListJournal returns every journal line in insertion order.
func (uc *JournalUseCase) ListJournal(ctx context.Context) ([]*domain.JournalLine, error) {
	return uc.journalRepo.FindAll(ctx)
}

// ClearJournal removes every journal line and returns how many were removed.
// Accounts are kept.
func (uc *JournalUseCase) ClearJournal(ctx context.Context) (int64, error) {
	n, err := uc.journalRepo.ClearAll(ctx)
	if err != nil {
		return 0, err
	}

	uc.metrics.JournalCleared(n)
	uc.logger.Warn().Int64("lines", n).Msg("journal cleared")

	invalidateReports(ctx, uc.cache, uc.logger)

	return n, nil
}

// calendarDate drops the time of day, keeping the date as written in t's
// own location.
func calendarDate(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
