// Package ledger reads and writes the spreadsheet that tracks songs.
//
// The RowStore interface is what the orchestrator talks to. SheetsStore is the
// Google Sheets implementation; mocks.RowStore backs the unit tests.
//
// # Row numbering
//
// Row 1 holds the header. Snapshot numbers data rows from 2 and pads each one
// to the width of the configured range, so a short row never hides a column.
//
// # Columns
//
// Columns are addressed by 0-based index in configuration and converted to A1
// letters with ColumnLetter. RangeWidth and SheetName split an A1 range such
// as "Sheet1!A:H" into the pieces the store needs.
package ledger
