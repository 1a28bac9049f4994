package domain

import (
	"fmt"
	"strings"
	"time"
)

// Category classifies an account in the chart of accounts.
type Category string

const (
	CategoryAsset     Category = "asset"
	CategoryLiability Category = "liability"
	CategoryCapital   Category = "capital"
	CategoryRevenue   Category = "revenue"
	CategoryExpense   Category = "expense"
	CategoryDrawing   Category = "drawing"
)

// DefaultCategory is assigned when registration does not name a category.
const DefaultCategory = CategoryAsset

var categories = map[Category]bool{
	CategoryAsset:     true,
	CategoryLiability: true,
	CategoryCapital:   true,
	CategoryRevenue:   true,
	CategoryExpense:   true,
	CategoryDrawing:   true,
}

// ParseCategory converts raw input into a Category.
// Empty input yields DefaultCategory.
func ParseCategory(s string) (Category, error) {
	if strings.TrimSpace(s) == "" {
		return DefaultCategory, nil
	}

	c := Category(s)
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidCategory, s)
	}

	return c, nil
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	return categories[c]
}

// Account is a named bucket in the chart of accounts.
type Account struct {
	ID        string
	Name      string
	Category  Category
	CreatedAt time.Time
}
