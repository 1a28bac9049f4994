package domain

import "github.com/shopspring/decimal"

// LedgerReport lists one account's lines by side together with its balance.
type LedgerReport struct {
	Account *Account
	Debit   []LedgerLine
	Credit  []LedgerLine
	Balance Balance
}

// TrialBalanceRow is one account's line in the trial balance.
type TrialBalanceRow struct {
	Account string
	Balance decimal.Decimal
	Type    TransactionType
}

// ReportLine is one account's amount within a report section.
type ReportLine struct {
	Account string
	Amount  decimal.Decimal
}

// IncomeStatement reports revenue credit totals and expense debit totals.
// Opposite-side activity is not netted.
type IncomeStatement struct {
	Revenue      []ReportLine
	Expense      []ReportLine
	TotalRevenue decimal.Decimal
	TotalExpense decimal.Decimal
}

// BalanceSheet reports asset credit totals and liability/capital debit
// totals. Opposite-side activity is not netted.
type BalanceSheet struct {
	Assets         []ReportLine
	Liabilities    []ReportLine
	TotalAsset     decimal.Decimal
	TotalLiability decimal.Decimal
}
