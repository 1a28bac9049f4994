package domain

import "github.com/shopspring/decimal"

// Balance is the net position of an account.
type Balance struct {
	Type   TransactionType
	Amount decimal.Decimal
}

// NewBalance nets the two side totals of an account.
//
// Amount is |credit - debit|. Type is Credit when debit exceeds credit and
// Debit otherwise, so an account with no activity (or equal sides) reports
// a zero debit balance. Report output depends on this exact rule.
func NewBalance(debitTotal, creditTotal decimal.Decimal) Balance {
	b := Balance{
		Type:   Debit,
		Amount: creditTotal.Sub(debitTotal).Abs(),
	}

	if debitTotal.GreaterThan(creditTotal) {
		b.Type = Credit
	}

	return b
}

// SumLines totals the amounts of lines.
func SumLines(lines []*JournalLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Amount)
	}
	return total
}
