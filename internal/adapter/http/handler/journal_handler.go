package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/iho/gobooks/internal/adapter/http/dto"
	"github.com/iho/gobooks/internal/domain"
	"github.com/iho/gobooks/internal/usecase"
)

// JournalService defines the behavior needed by JournalHandler.
type JournalService interface {
	RecordEntry(ctx context.Context, input usecase.RecordEntryInput) error
	ListJournal(ctx context.Context) ([]*domain.JournalLine, error)
	ClearJournal(ctx context.Context) (int64, error)
}

// JournalHandler handles journal HTTP requests.
type JournalHandler struct {
	journalUC JournalService
}

// NewJournalHandler creates a new JournalHandler.
func NewJournalHandler(journalUC JournalService) *JournalHandler {
	return &JournalHandler{journalUC: journalUC}
}

// Record records a journal entry.
func (h *JournalHandler) Record(w http.ResponseWriter, r *http.Request) {
	var req dto.RecordEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if errors.Is(err, domain.ErrMalformedEntry) {
			writeDomainError(w, r, "invalid journal entry", err)
			return
		}
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput()
	if err != nil {
		writeDomainError(w, r, "invalid journal entry", err)
		return
	}

	if err := h.journalUC.RecordEntry(r.Context(), input); err != nil {
		writeDomainError(w, r, "failed to record journal entry", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.MessageResponse{Message: "Journal entry added successfully"})
}

// List returns every journal line in insertion order.
func (h *JournalHandler) List(w http.ResponseWriter, r *http.Request) {
	lines, err := h.journalUC.ListJournal(r.Context())
	if err != nil {
		writeDomainError(w, r, "failed to list journal", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListJournalResponse{
		Lines: dto.JournalLinesFromDomain(lines),
		Total: int64(len(lines)),
	})
}

// Clear removes every journal line.
func (h *JournalHandler) Clear(w http.ResponseWriter, r *http.Request) {
	n, err := h.journalUC.ClearJournal(r.Context())
	if err != nil {
		writeDomainError(w, r, "failed to clear journal", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ClearJournalResponse{DeletedCount: n})
}
