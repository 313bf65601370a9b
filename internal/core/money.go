// Package core holds the ledger's domain types: transactions, budget
// entries, financial goals, the closed category sets, and the derived
// figure computations over them.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount parses a monetary amount from user input. It accepts both
// dot (12.34) and comma (12,34) decimal separators. The sign is kept as
// given.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	// A single comma with no dot is a decimal separator. Any other use
	// of commas (thousands grouping, repeated commas) is rejected
	// rather than guessed at.
	if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}
