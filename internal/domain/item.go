package domain

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
)

// NormalizeKey turns an operator-entered item name into the catalog key.
// Surrounding whitespace is dropped, inner runs collapse to one space and
// the result is Unicode case-folded, so "Red  Guppy" and "red guppy" match.
func NormalizeKey(name string) string {
	return cases.Fold().String(CleanName(name))
}

// CleanName trims name and collapses inner whitespace, keeping its case.
func CleanName(name string) string {
	return strings.Join(strings.Fields(name), " ")
}

// Item is one sellable catalog entry. Name keeps the spelling used when the
// item was first added; Key is the normalized identity.
type Item struct {
	Key   string          `json:"key"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Stock int             `json:"stock"`
}

// InStock reports whether at least one unit can be sold.
func (i Item) InStock() bool {
	return i.Stock > 0
}
