package reconcile

// FindRow resolves the ledger row for an event.
//
// A cached binding whose row still carries the recorded title is trusted as
// is. A stale binding is re-pointed at the first row sharing the recorded
// normalized title. Only when neither works is the fuzzy matcher consulted,
// and a successful fuzzy match records a new binding. Cache hits score 1.0,
// no match scores 0.
//
// bindings is keyed by file name and is updated in place.
func FindRow(event CommentEvent, bindings map[string]FileRowBinding, idx *RowIndex, matcher TitleMatcher) (*LedgerRow, float64) {
	if binding, ok := bindings[event.FileName]; ok {
		if key := Normalize(binding.Title); key != "" {
			if row, ok := idx.ByNumber[binding.RowNumber]; ok && Normalize(row.Title) == key {
				return &row, 1.0
			}
			if row, ok := idx.FirstByTitle(key); ok {
				bindings[event.FileName] = FileRowBinding{RowNumber: row.RowNumber, Title: row.Title}
				return &row, 1.0
			}
		}
	}

	if match, ok := matcher.Match(event.FileName); ok {
		if row, ok := idx.ByNumber[match.RowNumber]; ok {
			bindings[event.FileName] = FileRowBinding{RowNumber: row.RowNumber, Title: row.Title}
			return &row, match.Score
		}
	}

	return nil, 0
}
