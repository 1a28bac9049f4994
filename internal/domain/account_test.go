package domain

import (
	"errors"
	"testing"
)

func TestParseCategory(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		want        Category
		expectError bool
	}{
		{name: "empty defaults to asset", input: "", want: CategoryAsset},
		{name: "blank defaults to asset", input: "  ", want: CategoryAsset},
		{name: "asset", input: "asset", want: CategoryAsset},
		{name: "liability", input: "liability", want: CategoryLiability},
		{name: "capital", input: "capital", want: CategoryCapital},
		{name: "revenue", input: "revenue", want: CategoryRevenue},
		{name: "expense", input: "expense", want: CategoryExpense},
		{name: "drawing", input: "drawing", want: CategoryDrawing},
		{name: "unknown category", input: "equity", expectError: true},
		{name: "case sensitive", input: "Asset", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCategory(tt.input)

			if tt.expectError {
				if !errors.Is(err, ErrInvalidCategory) {
					t.Fatalf("expected ErrInvalidCategory, got %v", err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestCategory_Valid(t *testing.T) {
	if Category("").Valid() {
		t.Error("empty category should not be valid")
	}

	if !CategoryDrawing.Valid() {
		t.Error("drawing should be valid")
	}
}
