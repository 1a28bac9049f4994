package domain

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func validEntry() *JournalEntry {
	return &JournalEntry{
		Date: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		Debits: []EntryLine{
			{AccountID: "cash", Amount: decimal.NewFromInt(300)},
			{AccountID: "bank", Amount: decimal.NewFromInt(200)},
		},
		Credits: []EntryLine{
			{AccountID: "sales", Amount: decimal.NewFromInt(500), Particular: "invoice 42"},
		},
	}
}

func TestJournalEntry_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(e *JournalEntry)
		expectError bool
	}{
		{name: "valid entry", mutate: func(e *JournalEntry) {}},
		{
			name:        "missing date",
			mutate:      func(e *JournalEntry) { e.Date = time.Time{} },
			expectError: true,
		},
		{
			name:        "no debit lines",
			mutate:      func(e *JournalEntry) { e.Debits = nil },
			expectError: true,
		},
		{
			name: "amounts finer than the stored scale",
			mutate: func(e *JournalEntry) {
				e.Debits = []EntryLine{
					{AccountID: "cash", Amount: decimal.RequireFromString("0.123456785")},
					{AccountID: "cash", Amount: decimal.RequireFromString("0.123456785")},
				}
				e.Credits = []EntryLine{{AccountID: "sales", Amount: decimal.RequireFromString("0.24691357")}}
			},
			expectError: true,
		},
		{
			name:        "no credit lines",
			mutate:      func(e *JournalEntry) { e.Credits = []EntryLine{} },
			expectError: true,
		},
		{
			name:        "negative amount",
			mutate:      func(e *JournalEntry) { e.Credits[0].Amount = decimal.NewFromInt(-1) },
			expectError: true,
		},
		{
			name:        "missing account",
			mutate:      func(e *JournalEntry) { e.Debits[1].AccountID = "" },
			expectError: true,
		},
		{
			name:        "particular too long",
			mutate:      func(e *JournalEntry) { e.Debits[0].Particular = strings.Repeat("x", MaxParticularLength+1) },
			expectError: true,
		},
		{
			name:   "zero amount allowed",
			mutate: func(e *JournalEntry) { e.Debits[0].Amount = decimal.Zero },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := validEntry()
			tt.mutate(e)

			err := e.Validate()

			if tt.expectError && !errors.Is(err, ErrMalformedEntry) {
				t.Fatalf("expected ErrMalformedEntry, got %v", err)
			}

			if !tt.expectError && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestJournalEntry_CheckBalanced(t *testing.T) {
	e := validEntry()
	if err := e.CheckBalanced(); err != nil {
		t.Fatalf("expected balanced entry, got %v", err)
	}

	e.Credits[0].Amount = decimal.NewFromInt(499)
	err := e.CheckBalanced()
	if !errors.Is(err, ErrUnbalancedEntry) {
		t.Fatalf("expected ErrUnbalancedEntry, got %v", err)
	}
	if !errors.Is(err, ErrMalformedEntry) {
		t.Fatalf("expected unbalanced entry to also be malformed, got %v", err)
	}
}

func TestJournalEntry_Lines(t *testing.T) {
	e := validEntry()
	lines := e.Lines()

	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}

	wantAccounts := []string{"cash", "bank", "sales"}
	wantTypes := []TransactionType{Debit, Debit, Credit}
	for i, l := range lines {
		if l.AccountID != wantAccounts[i] || l.Type != wantTypes[i] {
			t.Errorf("line %d: expected %s/%s, got %s/%s", i, wantAccounts[i], wantTypes[i], l.AccountID, l.Type)
		}
		if !l.Date.Equal(e.Date) {
			t.Errorf("line %d: expected entry date, got %s", i, l.Date)
		}
	}

	if lines[2].Particular != "invoice 42" {
		t.Errorf("expected particular to be carried, got %q", lines[2].Particular)
	}
}

func TestParseTransactionType(t *testing.T) {
	if got, err := ParseTransactionType("credit"); err != nil || got != Credit {
		t.Fatalf("expected credit, got %s err=%v", got, err)
	}

	if _, err := ParseTransactionType("DEBIT"); !errors.Is(err, ErrInvalidTransactionType) {
		t.Fatalf("expected ErrInvalidTransactionType, got %v", err)
	}
}
