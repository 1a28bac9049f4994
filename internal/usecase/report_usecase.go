package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/iho/gobooks/internal/domain"
)

// section identifies one list within the income statement or balance sheet.
type section string

const (
	sectionRevenue     section = "revenue"
	sectionExpense     section = "expense"
	sectionAssets      section = "assets"
	sectionLiabilities section = "liabilities"
)

// sectionRule says which accounts feed a section and which single side of
// their journal is totalled. Sections never net the opposite side.
type sectionRule struct {
	categories []domain.Category
	side       domain.TransactionType
}

var sectionRules = map[section]sectionRule{
	sectionRevenue:     {categories: []domain.Category{domain.CategoryRevenue}, side: domain.Credit},
	sectionExpense:     {categories: []domain.Category{domain.CategoryExpense}, side: domain.Debit},
	sectionAssets:      {categories: []domain.Category{domain.CategoryAsset}, side: domain.Credit},
	sectionLiabilities: {categories: []domain.Category{domain.CategoryLiability, domain.CategoryCapital}, side: domain.Debit},
}

// ReportUseCase composes the ledger, trial balance, income statement and
// balance sheet.
type ReportUseCase struct {
	accountRepo AccountRepository
	journalRepo JournalRepository
	calc        *BalanceCalculator
	cache       ReportCache
	cacheTTL    time.Duration
	metrics     Metrics
	logger      zerolog.Logger
	concurrency int
}

// NewReportUseCase creates a new ReportUseCase.
func NewReportUseCase(accountRepo AccountRepository, journalRepo JournalRepository, opts ...Option) *ReportUseCase {
	o := newOptions(opts)
	return &ReportUseCase{
		accountRepo: accountRepo,
		journalRepo: journalRepo,
		calc:        NewBalanceCalculator(journalRepo),
		cache:       o.cache,
		cacheTTL:    o.cacheTTL,
		metrics:     o.metrics,
		logger:      o.logger,
		concurrency: o.reportConcurrency,
	}
}

// Ledger returns the debit and credit lines of one account, with the
// account resolved on every line, and its net balance.
func (uc *ReportUseCase) Ledger(ctx context.Context, accountID string) (*domain.LedgerReport, error) {
	start := time.Now()
	defer func() { uc.metrics.ReportBuilt(ReportLedger, time.Since(start)) }()

	account, err := uc.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	var debits, credits []*domain.JournalLine

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		lines, err := uc.journalRepo.FindByAccountAndType(gctx, accountID, domain.Debit)
		debits = lines
		return err
	})
	g.Go(func() error {
		lines, err := uc.journalRepo.FindByAccountAndType(gctx, accountID, domain.Credit)
		credits = lines
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &domain.LedgerReport{
		Account: account,
		Debit:   resolveLines(debits, account),
		Credit:  resolveLines(credits, account),
		Balance: domain.NewBalance(domain.SumLines(debits), domain.SumLines(credits)),
	}, nil
}

// TrialBalance returns the net balance of every account in registration
// order, including accounts without activity.
func (uc *ReportUseCase) TrialBalance(ctx context.Context) ([]domain.TrialBalanceRow, error) {
	return cachedReport(ctx, uc, ReportTrialBalance, uc.buildTrialBalance)
}

// IncomeStatement totals revenue credits and expense debits.
func (uc *ReportUseCase) IncomeStatement(ctx context.Context) (*domain.IncomeStatement, error) {
	return cachedReport(ctx, uc, ReportIncomeStatement, uc.buildIncomeStatement)
}

// BalanceSheet totals asset credits and liability and capital debits.
func (uc *ReportUseCase) BalanceSheet(ctx context.Context) (*domain.BalanceSheet, error) {
	return cachedReport(ctx, uc, ReportBalanceSheet, uc.buildBalanceSheet)
}

func (uc *ReportUseCase) buildTrialBalance(ctx context.Context) ([]domain.TrialBalanceRow, error) {
	accounts, err := uc.accountRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]domain.TrialBalanceRow, len(accounts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uc.concurrency)
	for i, acc := range accounts {
		g.Go(func() error {
			b, err := uc.calc.NetBalance(gctx, acc.ID)
			if err != nil {
				return err
			}
			rows[i] = domain.TrialBalanceRow{
				Account: acc.Name,
				Balance: b.Amount,
				Type:    b.Type,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return rows, nil
}

func (uc *ReportUseCase) buildIncomeStatement(ctx context.Context) (*domain.IncomeStatement, error) {
	revenue, totalRevenue, err := uc.composeSection(ctx, sectionRevenue)
	if err != nil {
		return nil, err
	}

	expense, totalExpense, err := uc.composeSection(ctx, sectionExpense)
	if err != nil {
		return nil, err
	}

	return &domain.IncomeStatement{
		Revenue:      revenue,
		Expense:      expense,
		TotalRevenue: totalRevenue,
		TotalExpense: totalExpense,
	}, nil
}

func (uc *ReportUseCase) buildBalanceSheet(ctx context.Context) (*domain.BalanceSheet, error) {
	assets, totalAsset, err := uc.composeSection(ctx, sectionAssets)
	if err != nil {
		return nil, err
	}

	liabilities, totalLiability, err := uc.composeSection(ctx, sectionLiabilities)
	if err != nil {
		return nil, err
	}

	return &domain.BalanceSheet{
		Assets:         assets,
		Liabilities:    liabilities,
		TotalAsset:     totalAsset,
		TotalLiability: totalLiability,
	}, nil
}

// composeSection totals the configured side of every account feeding s.
func (uc *ReportUseCase) composeSection(ctx context.Context, s section) ([]domain.ReportLine, decimal.Decimal, error) {
	rule := sectionRules[s]

	accounts, err := uc.accountRepo.ListByCategory(ctx, rule.categories...)
	if err != nil {
		return nil, decimal.Zero, err
	}

	lines := make([]domain.ReportLine, len(accounts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uc.concurrency)
	for i, acc := range accounts {
		g.Go(func() error {
			amount, err := uc.calc.SideTotal(gctx, acc.ID, rule.side)
			if err != nil {
				return err
			}
			lines[i] = domain.ReportLine{Account: acc.Name, Amount: amount}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, decimal.Zero, err
	}

	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Amount)
	}

	return lines, total, nil
}

func resolveLines(lines []*domain.JournalLine, account *domain.Account) []domain.LedgerLine {
	resolved := make([]domain.LedgerLine, len(lines))
	for i, l := range lines {
		resolved[i] = domain.LedgerLine{JournalLine: l, Account: account}
	}
	return resolved
}

// cachedReport serves key from the report cache when possible and stores
// freshly built reports. Cache failures are logged and otherwise ignored.
// Only builds are timed; cache hits are not observed.
func cachedReport[T any](ctx context.Context, uc *ReportUseCase, key string, build func(context.Context) (T, error)) (T, error) {
	if uc.cache != nil {
		data, err := uc.cache.Get(ctx, key)
		switch {
		case err == nil:
			var v T
			if err := json.Unmarshal(data, &v); err == nil {
				return v, nil
			}
			uc.logger.Warn().Str("report", key).Msg("discarding undecodable cached report")
		case !errors.Is(err, ErrCacheMiss):
			uc.logger.Warn().Err(err).Str("report", key).Msg("report cache read failed")
		}
	}

	start := time.Now()
	v, err := build(ctx)
	if err != nil {
		return v, err
	}
	uc.metrics.ReportBuilt(key, time.Since(start))

	if uc.cache != nil {
		data, err := json.Marshal(v)
		if err == nil {
			err = uc.cache.Set(ctx, key, data, uc.cacheTTL)
		}
		if err != nil {
			uc.logger.Warn().Err(err).Str("report", key).Msg("report cache write failed")
		}
	}

	return v, nil
}
