package reconcile

// RowIndex holds the two lookups built from one ledger snapshot.
// It is rebuilt every cycle and never updated in place, since the ledger can
// be edited between cycles.
type RowIndex struct {
	// ByNumber maps a row number to its row.
	ByNumber map[int]LedgerRow

	// ByTitle maps a normalized title to every row carrying it, in snapshot order.
	ByTitle map[string][]LedgerRow
}

// BuildIndex indexes rows by number and by normalized title.
// Rows whose titles normalize to an empty key are reachable by number only.
func BuildIndex(rows []LedgerRow) *RowIndex {
	idx := &RowIndex{
		ByNumber: make(map[int]LedgerRow, len(rows)),
		ByTitle:  make(map[string][]LedgerRow, len(rows)),
	}
	for _, row := range rows {
		idx.ByNumber[row.RowNumber] = row
		if row.Title == "" {
			continue
		}
		if key := Normalize(row.Title); key != "" {
			idx.ByTitle[key] = append(idx.ByTitle[key], row)
		}
	}
	return idx
}

// FirstByTitle returns the first row whose normalized title equals key.
func (idx *RowIndex) FirstByTitle(key string) (LedgerRow, bool) {
	rows := idx.ByTitle[key]
	if len(rows) == 0 {
		return LedgerRow{}, false
	}
	return rows[0], true
}
