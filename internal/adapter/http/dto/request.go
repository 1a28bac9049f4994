package dto

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gobooks/internal/domain"
	"github.com/iho/gobooks/internal/usecase"
)

// dateLayout is the short form accepted for entry dates.
const dateLayout = "2006-01-02"

// CreateAccountRequest represents a request to register an account.
type CreateAccountRequest struct {
	Name     string `json:"name"`
	Category string `json:"category"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateAccountRequest) ToUseCaseInput() usecase.RegisterAccountInput {
	return usecase.RegisterAccountInput{
		Name:     r.Name,
		Category: r.Category,
	}
}

// EntryLineRequest is one debit or credit line of an entry. Amount may be
// sent as a JSON number or a string.
type EntryLineRequest struct {
	Account    string          `json:"account"`
	Amount     decimal.Decimal `json:"amount"`
	Particular string          `json:"particular,omitempty"`
}

// UnmarshalJSON decodes a line. A missing or unparsable amount wraps
// domain.ErrMalformedEntry.
func (l *EntryLineRequest) UnmarshalJSON(data []byte) error {
	type line EntryLineRequest
	var raw struct {
		line
		Amount json.RawMessage `json:"amount"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	if len(raw.Amount) == 0 || string(raw.Amount) == "null" {
		return fmt.Errorf("%w: amount is required", domain.ErrMalformedEntry)
	}

	var amount decimal.Decimal
	if err := amount.UnmarshalJSON(raw.Amount); err != nil {
		return fmt.Errorf("%w: invalid amount %s", domain.ErrMalformedEntry, raw.Amount)
	}

	*l = EntryLineRequest(raw.line)
	l.Amount = amount
	return nil
}

// RecordEntryRequest represents a request to record a journal entry.
type RecordEntryRequest struct {
	Date   string             `json:"date"`
	Debit  []EntryLineRequest `json:"debit"`
	Credit []EntryLineRequest `json:"credit"`
}

// ToUseCaseInput converts to use case input.
// Date parse failures wrap domain.ErrMalformedEntry.
func (r *RecordEntryRequest) ToUseCaseInput() (usecase.RecordEntryInput, error) {
	date, err := ParseDate(r.Date)
	if err != nil {
		return usecase.RecordEntryInput{}, err
	}

	return usecase.RecordEntryInput{
		Date:   date,
		Debit:  toEntryLines(r.Debit),
		Credit: toEntryLines(r.Credit),
	}, nil
}

// ParseDate accepts YYYY-MM-DD or RFC 3339. An empty string yields the
// zero time, which the recorder rejects.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}

	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, nil
	}

	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid date %q", domain.ErrMalformedEntry, s)
	}

	return t, nil
}

func toEntryLines(in []EntryLineRequest) []domain.EntryLine {
	out := make([]domain.EntryLine, len(in))
	for i, l := range in {
		out[i] = domain.EntryLine{
			AccountID:  l.Account,
			Amount:     l.Amount,
			Particular: l.Particular,
		}
	}
	return out
}
