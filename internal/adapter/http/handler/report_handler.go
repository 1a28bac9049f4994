package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/gobooks/internal/adapter/http/dto"
	"github.com/iho/gobooks/internal/domain"
)

// ReportService defines the behavior needed by ReportHandler.
type ReportService interface {
	Ledger(ctx context.Context, accountID string) (*domain.LedgerReport, error)
	TrialBalance(ctx context.Context) ([]domain.TrialBalanceRow, error)
	IncomeStatement(ctx context.Context) (*domain.IncomeStatement, error)
	BalanceSheet(ctx context.Context) (*domain.BalanceSheet, error)
}

// ReportHandler serves the derived reports.
type ReportHandler struct {
	reportUC ReportService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportUC ReportService) *ReportHandler {
	return &ReportHandler{reportUC: reportUC}
}

// Ledger returns one account's ledger.
func (h *ReportHandler) Ledger(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing account ID", "")
		return
	}

	report, err := h.reportUC.Ledger(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, "failed to build ledger", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.LedgerFromDomain(report))
}

// TrialBalance returns one row per registered account.
func (h *ReportHandler) TrialBalance(w http.ResponseWriter, r *http.Request) {
	rows, err := h.reportUC.TrialBalance(r.Context())
	if err != nil {
		writeDomainError(w, r, "failed to build trial balance", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TrialBalanceFromDomain(rows))
}

// IncomeStatement returns revenue and expense totals.
func (h *ReportHandler) IncomeStatement(w http.ResponseWriter, r *http.Request) {
	stmt, err := h.reportUC.IncomeStatement(r.Context())
	if err != nil {
		writeDomainError(w, r, "failed to build income statement", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.IncomeStatementFromDomain(stmt))
}

// BalanceSheet returns asset and liability totals.
func (h *ReportHandler) BalanceSheet(w http.ResponseWriter, r *http.Request) {
	sheet, err := h.reportUC.BalanceSheet(r.Context())
	if err != nil {
		writeDomainError(w, r, "failed to build balance sheet", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.BalanceSheetFromDomain(sheet))
}
