// Package export defines the outbound port for mirroring ledger rows
// to an external spreadsheet.
package export

import (
	"context"

	"budgetbook/internal/core"
)

// LedgerWriter appends one ledger transaction to the export target and
// returns an opaque row reference.
type LedgerWriter interface {
	Append(ctx context.Context, kind core.Kind, id int64, t core.Transaction) (rowRef string, err error)
}
