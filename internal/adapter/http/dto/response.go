package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gobooks/internal/domain"
	"github.com/iho/gobooks/internal/usecase"
)

// AccountResponse represents an account in API responses.
type AccountResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"created_at"`
}

// AccountFromDomain converts domain account to response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	return &AccountResponse{
		ID:        a.ID,
		Name:      a.Name,
		Category:  string(a.Category),
		CreatedAt: a.CreatedAt,
	}
}

// AccountsFromDomain converts domain accounts to responses.
func AccountsFromDomain(accounts []*domain.Account) []*AccountResponse {
	result := make([]*AccountResponse, len(accounts))
	for i, a := range accounts {
		result[i] = AccountFromDomain(a)
	}
	return result
}

// ListAccountsResponse represents a list of accounts.
type ListAccountsResponse struct {
	Accounts []*AccountResponse `json:"accounts"`
	Total    int64              `json:"total"`
}

// JournalLineResponse represents a stored journal line.
// Account holds the resolved account when one is available.
type JournalLineResponse struct {
	ID              string           `json:"id"`
	Date            string           `json:"date"`
	AccountID       string           `json:"account_id"`
	Account         *AccountResponse `json:"account,omitempty"`
	Particular      string           `json:"particular"`
	Amount          decimal.Decimal  `json:"amount"`
	TransactionType string           `json:"transaction_type"`
	CreatedAt       time.Time        `json:"created_at"`
}

// JournalLineFromDomain converts a journal line to response.
func JournalLineFromDomain(l *domain.JournalLine) *JournalLineResponse {
	return &JournalLineResponse{
		ID:              l.ID,
		Date:            l.Date.Format(dateLayout),
		AccountID:       l.AccountID,
		Particular:      l.Particular,
		Amount:          l.Amount,
		TransactionType: string(l.Type),
		CreatedAt:       l.CreatedAt,
	}
}

// JournalLinesFromDomain converts journal lines to responses.
func JournalLinesFromDomain(lines []*domain.JournalLine) []*JournalLineResponse {
	result := make([]*JournalLineResponse, len(lines))
	for i, l := range lines {
		result[i] = JournalLineFromDomain(l)
	}
	return result
}

// ListJournalResponse represents the whole journal.
type ListJournalResponse struct {
	Lines []*JournalLineResponse `json:"lines"`
	Total int64                  `json:"total"`
}

// MessageResponse carries a plain acknowledgement.
type MessageResponse struct {
	Message string `json:"message"`
}

// ClearJournalResponse reports how many lines were removed.
type ClearJournalResponse struct {
	DeletedCount int64 `json:"deleted_count"`
}

// BalanceResponse is an account's net position.
type BalanceResponse struct {
	Type   string          `json:"type"`
	Amount decimal.Decimal `json:"amount"`
}

// LedgerResponse lists one account's lines by side with its balance.
type LedgerResponse struct {
	Account *AccountResponse       `json:"account"`
	Debit   []*JournalLineResponse `json:"debit"`
	Credit  []*JournalLineResponse `json:"credit"`
	Balance BalanceResponse        `json:"balance"`
}

// LedgerFromDomain converts a ledger report to response.
func LedgerFromDomain(r *domain.LedgerReport) *LedgerResponse {
	account := AccountFromDomain(r.Account)
	return &LedgerResponse{
		Account: account,
		Debit:   ledgerLines(r.Debit),
		Credit:  ledgerLines(r.Credit),
		Balance: BalanceResponse{
			Type:   string(r.Balance.Type),
			Amount: r.Balance.Amount,
		},
	}
}

func ledgerLines(lines []domain.LedgerLine) []*JournalLineResponse {
	result := make([]*JournalLineResponse, len(lines))
	for i, l := range lines {
		resp := JournalLineFromDomain(l.JournalLine)
		if l.Account != nil {
			resp.Account = AccountFromDomain(l.Account)
		}
		result[i] = resp
	}
	return result
}

// TrialBalanceRowResponse is one row of the trial balance.
type TrialBalanceRowResponse struct {
	Account string          `json:"account"`
	Balance decimal.Decimal `json:"balance"`
	Type    string          `json:"type"`
}

// TrialBalanceFromDomain converts trial balance rows to responses.
func TrialBalanceFromDomain(rows []domain.TrialBalanceRow) []TrialBalanceRowResponse {
	result := make([]TrialBalanceRowResponse, len(rows))
	for i, r := range rows {
		result[i] = TrialBalanceRowResponse{
			Account: r.Account,
			Balance: r.Balance,
			Type:    string(r.Type),
		}
	}
	return result
}

// ReportLineResponse is one account's amount within a report section.
type ReportLineResponse struct {
	Account string          `json:"account"`
	Amount  decimal.Decimal `json:"amount"`
}

func reportLines(lines []domain.ReportLine) []ReportLineResponse {
	result := make([]ReportLineResponse, len(lines))
	for i, l := range lines {
		result[i] = ReportLineResponse{Account: l.Account, Amount: l.Amount}
	}
	return result
}

// IncomeStatementResponse represents the income statement.
type IncomeStatementResponse struct {
	Revenue      []ReportLineResponse `json:"revenue"`
	Expense      []ReportLineResponse `json:"expense"`
	TotalRevenue decimal.Decimal      `json:"total_revenue"`
	TotalExpense decimal.Decimal      `json:"total_expense"`
}

// IncomeStatementFromDomain converts an income statement to response.
func IncomeStatementFromDomain(s *domain.IncomeStatement) *IncomeStatementResponse {
	return &IncomeStatementResponse{
		Revenue:      reportLines(s.Revenue),
		Expense:      reportLines(s.Expense),
		TotalRevenue: s.TotalRevenue,
		TotalExpense: s.TotalExpense,
	}
}

// BalanceSheetResponse represents the balance sheet.
type BalanceSheetResponse struct {
	Assets         []ReportLineResponse `json:"assets"`
	Liabilities    []ReportLineResponse `json:"liabilities"`
	TotalAsset     decimal.Decimal      `json:"total_asset"`
	TotalLiability decimal.Decimal      `json:"total_liability"`
}

// BalanceSheetFromDomain converts a balance sheet to response.
func BalanceSheetFromDomain(s *domain.BalanceSheet) *BalanceSheetResponse {
	return &BalanceSheetResponse{
		Assets:         reportLines(s.Assets),
		Liabilities:    reportLines(s.Liabilities),
		TotalAsset:     s.TotalAsset,
		TotalLiability: s.TotalLiability,
	}
}

// ConsistencyResponse reports journal-wide totals.
type ConsistencyResponse struct {
	TotalDebit  decimal.Decimal `json:"total_debit"`
	TotalCredit decimal.Decimal `json:"total_credit"`
	Consistent  bool            `json:"consistent"`
}

// ConsistencyFromResult converts a consistency check to response.
func ConsistencyFromResult(r *usecase.ConsistencyResult) *ConsistencyResponse {
	return &ConsistencyResponse{
		TotalDebit:  r.TotalDebit,
		TotalCredit: r.TotalCredit,
		Consistent:  r.Consistent,
	}
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
