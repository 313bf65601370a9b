package core

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

const (
	Expense Kind = "expense"
	Income  Kind = "income"
)

// DescriptionLimit is the maximum stored description length.
const DescriptionLimit = 24

// DefaultDescription is stored when the caller provides none.
const DefaultDescription = "Not specified"

type (
	// Kind distinguishes the two transaction collections.
	Kind string

	Date struct {
		time.Time
	}

	// Transaction is an expense or income row. Amount carries no sign
	// constraint; it is stored as given.
	Transaction struct {
		ID          int64
		Date        Date
		Description string
		Category    string
		Amount      decimal.Decimal
	}

	// BudgetEntry is a single budget allocation for a category. The
	// effective budget of a category is the sum of all its entries,
	// not the latest one.
	BudgetEntry struct {
		ID       int64
		Date     Date
		Category string
		Amount   decimal.Decimal
	}

	// Goal is a financial goal. RequiredAmount and ProgressPercent are
	// stored, not computed on read, and must be recomputed whenever
	// GoalAmount or AllottedAmount changes.
	Goal struct {
		ID              int64
		Date            Date
		Description     string
		GoalAmount      decimal.Decimal
		AllottedAmount  decimal.Decimal
		RequiredAmount  decimal.Decimal
		ProgressPercent decimal.Decimal
	}
)

func (k Kind) Validate() error {
	switch k {
	case Expense, Income:
		return nil
	}
	return errors.New("invalid transaction kind")
}

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

func (d Date) Validate() error {
	if d.IsZero() {
		return errors.New("date cannot be zero")
	}
	return nil
}

// NormalizeDescription applies the boundary rules for free-text
// descriptions: empty input falls back to DefaultDescription, longer
// input is truncated to DescriptionLimit characters.
func NormalizeDescription(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultDescription
	}
	// Limit counts characters, not bytes: truncating mid-rune would
	// store invalid UTF-8.
	if utf8.RuneCountInString(s) > DescriptionLimit {
		return string([]rune(s)[:DescriptionLimit])
	}
	return s
}

func (t Transaction) Validate() error {
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(t.Description) == "" {
		return ErrEmptyDescription
	}
	if utf8.RuneCountInString(t.Description) > DescriptionLimit {
		return errors.New("description too long")
	}
	return nil
}

func (b BudgetEntry) Validate() error {
	if err := b.Date.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(b.Category) == "" {
		return ErrEmptyCategory
	}
	return nil
}

func (g Goal) Validate() error {
	if err := g.Date.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(g.Description) == "" {
		return ErrEmptyDescription
	}
	if utf8.RuneCountInString(g.Description) > DescriptionLimit {
		return errors.New("description too long")
	}
	return nil
}

var oneHundred = decimal.NewFromInt(100)

// Recompute refreshes the stored derived fields from the current
// GoalAmount and AllottedAmount. RequiredAmount stays exact;
// ProgressPercent is rounded to 2 decimal places. A zero GoalAmount
// makes the percentage undefined and leaves the goal unchanged.
func (g *Goal) Recompute() error {
	if g.GoalAmount.IsZero() {
		return ErrArithmeticUndefined
	}
	g.RequiredAmount = g.GoalAmount.Sub(g.AllottedAmount)
	g.ProgressPercent = g.AllottedAmount.Div(g.GoalAmount).Mul(oneHundred).Round(2)
	return nil
}

// Percentage computes part/whole*100 rounded to 2 decimal places.
// A zero whole is reported as undefined, never as zero or infinity.
func Percentage(part, whole decimal.Decimal) (decimal.Decimal, error) {
	if whole.IsZero() {
		return decimal.Zero, ErrArithmeticUndefined
	}
	return part.Div(whole).Mul(oneHundred).Round(2), nil
}
