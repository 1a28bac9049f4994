package usecase

import "time"

const (
	// DefaultTransactionTimeout bounds the store transaction of one entry.
	DefaultTransactionTimeout = 10 * time.Second

	// IdempotencyKeyTTL is how long idempotent responses are kept by default.
	IdempotencyKeyTTL = 24 * time.Hour
)

// Report names, used as cache keys and metric labels.
const (
	ReportLedger          = "ledger"
	ReportTrialBalance    = "trial_balance"
	ReportIncomeStatement = "income_statement"
	ReportBalanceSheet    = "balance_sheet"
)
