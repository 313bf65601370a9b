package core

import "fmt"

// ExpenseCategories is the closed set of expense category labels.
var ExpenseCategories = []string{
	"Bond/Rent",
	"Rates & taxes",
	"Household",
	"Vehicle/Transport",
	"Children",
	"Insurance",
	"Investments/savings",
	"Retail accounts",
	"Loans",
	"Clothing",
	"Entertainment",
	"Eating out",
	"Other",
}

// IncomeCategories is the closed set of income category labels.
// Disjoint from ExpenseCategories.
var IncomeCategories = []string{
	"Salary",
	"Investments",
	"Profit",
	"Interest",
	"Rental income",
	"Other income",
}

// Categories returns the category set for a transaction kind.
func Categories(kind Kind) []string {
	if kind == Income {
		return IncomeCategories
	}
	return ExpenseCategories
}

// ValidateCategory checks that category belongs to the fixed set for
// the given transaction kind.
func ValidateCategory(kind Kind, category string) error {
	for _, c := range Categories(kind) {
		if c == category {
			return nil
		}
	}
	return fmt.Errorf("%w: %q is not a known %s category", ErrInvalidCategory, category, kind)
}
