package ledger

import (
	"context"

	"dropbox-comments/core/reconcile"
)

// Cell is a single value written into a data row.
type Cell struct {
	// Column is the 0-based column index.
	Column int
	// Value is written verbatim.
	Value string
}

// RowStore is the remote ledger the orchestrator reconciles comments into.
// Every transport failure is wrapped with reconcile.ErrStoreUnavailable.
type RowStore interface {
	// ReadRows returns the header row and the data rows of rng.
	ReadRows(ctx context.Context, rng string) (header []string, rows [][]string, err error)
	// WriteCells writes the given cells of one data row in a single request.
	WriteCells(ctx context.Context, row int, cells []Cell) error
	// AppendRows appends rows after the last filled row of sheet.
	AppendRows(ctx context.Context, sheet string, rows [][]string) error
	// EnsureSheet creates sheet with the header row if it does not exist.
	EnsureSheet(ctx context.Context, name string, header []string) error
	// SetHeaderCell writes value into row 1 at column.
	SetHeaderCell(ctx context.Context, column int, value string) error
}

// Snapshot turns raw rows into ledger rows numbered from 2.
// Each row is padded to width; the title is read from titleColumn.
func Snapshot(rows [][]string, titleColumn, width int) []reconcile.LedgerRow {
	out := make([]reconcile.LedgerRow, 0, len(rows))
	for i, raw := range rows {
		values := Pad(raw, width)
		title := ""
		if titleColumn >= 0 && titleColumn < len(values) {
			title = values[titleColumn]
		}
		out = append(out, reconcile.LedgerRow{
			RowNumber: i + 2,
			Title:     title,
			Values:    values,
		})
	}
	return out
}

// Pad returns a copy of row extended with empty strings up to width.
func Pad(row []string, width int) []string {
	n := len(row)
	if width > n {
		n = width
	}
	padded := make([]string, n)
	copy(padded, row)
	return padded
}
