package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestNewBalance(t *testing.T) {
	tests := []struct {
		name       string
		debit      decimal.Decimal
		credit     decimal.Decimal
		wantType   TransactionType
		wantAmount decimal.Decimal
	}{
		{
			name:       "no activity is a zero debit balance",
			debit:      decimal.Zero,
			credit:     decimal.Zero,
			wantType:   Debit,
			wantAmount: decimal.Zero,
		},
		{
			name:       "debit heavy reports credit side",
			debit:      decimal.NewFromInt(500),
			credit:     decimal.Zero,
			wantType:   Credit,
			wantAmount: decimal.NewFromInt(500),
		},
		{
			name:       "credit heavy reports debit side",
			debit:      decimal.NewFromInt(100),
			credit:     decimal.NewFromInt(350),
			wantType:   Debit,
			wantAmount: decimal.NewFromInt(250),
		},
		{
			name:       "equal sides tie to debit",
			debit:      decimal.NewFromInt(75),
			credit:     decimal.NewFromInt(75),
			wantType:   Debit,
			wantAmount: decimal.Zero,
		},
		{
			name:       "fractional amounts",
			debit:      decimal.RequireFromString("10.25"),
			credit:     decimal.RequireFromString("0.75"),
			wantType:   Credit,
			wantAmount: decimal.RequireFromString("9.5"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBalance(tt.debit, tt.credit)

			if b.Type != tt.wantType {
				t.Errorf("expected type %s, got %s", tt.wantType, b.Type)
			}

			if !b.Amount.Equal(tt.wantAmount) {
				t.Errorf("expected amount %s, got %s", tt.wantAmount, b.Amount)
			}
		})
	}
}

func TestSumLines(t *testing.T) {
	lines := []*JournalLine{
		{Amount: decimal.NewFromInt(10)},
		{Amount: decimal.RequireFromString("2.5")},
	}

	if got := SumLines(lines); !got.Equal(decimal.RequireFromString("12.5")) {
		t.Fatalf("expected 12.5, got %s", got)
	}

	if got := SumLines(nil); !got.IsZero() {
		t.Fatalf("expected zero for no lines, got %s", got)
	}
}
