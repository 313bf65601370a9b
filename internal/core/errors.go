package core

import "errors"

// Error taxonomy. All of these are recovered at the boundary of the
// operation that caused them and surfaced to the user; none terminate
// the process.
var (
	// ErrNotFound is returned by id-based lookups on records that do
	// not exist. The operation is aborted with no partial mutation.
	ErrNotFound = errors.New("record not found")

	// ErrInvalidCategory marks a category label outside the fixed set
	// for its transaction kind.
	ErrInvalidCategory = errors.New("invalid category")

	// ErrConstraintViolation marks a malformed insert. The insert is
	// rejected in full; no partial row is written.
	ErrConstraintViolation = errors.New("constraint violation")

	// ErrArithmeticUndefined marks a division by a zero denominator in
	// a percentage computation.
	ErrArithmeticUndefined = errors.New("arithmetic undefined")

	// ErrInsufficientFunds refuses goal creation when available funds
	// are not positive.
	ErrInsufficientFunds = errors.New("insufficient funds")

	ErrEmptyDescription = errors.New("empty description")
	ErrEmptyCategory    = errors.New("empty category")
	ErrInvalidAmount    = errors.New("invalid amount")
)
