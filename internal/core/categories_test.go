package core

import (
	"errors"
	"testing"
)

func TestValidateCategory(t *testing.T) {
	tests := []struct {
		name     string
		kind     Kind
		category string
		wantErr  bool
	}{
		{"known expense category", Expense, "Household", false},
		{"known income category", Income, "Salary", false},
		{"income label on expense kind", Expense, "Salary", true},
		{"expense label on income kind", Income, "Household", true},
		{"unknown label", Expense, "Gambling", true},
		{"empty label", Income, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCategory(tt.kind, tt.category)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateCategory(%s, %q) error = %v, wantErr %v", tt.kind, tt.category, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidCategory) {
				t.Errorf("error %v should wrap ErrInvalidCategory", err)
			}
		})
	}
}

func TestCategorySetsAreDisjoint(t *testing.T) {
	seen := make(map[string]bool, len(ExpenseCategories))
	for _, c := range ExpenseCategories {
		seen[c] = true
	}
	for _, c := range IncomeCategories {
		if seen[c] {
			t.Errorf("category %q appears in both sets", c)
		}
	}
}
