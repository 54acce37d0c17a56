// Package reconcile resolves comment events to ledger rows.
//
// A file name is resolved in three steps:
//
//  1. A cached FileRowBinding whose row still carries the recorded title.
//  2. The first row whose normalized title equals the binding's title, when
//     rows have moved since the binding was recorded.
//  3. Token-sort fuzzy matching over all normalized titles, accepted at or
//     above the configured threshold.
//
// Steps 1 and 2 are O(1) through RowIndex. Matcher and RowIndex are built per
// ledger snapshot and never outlive it; bindings persist across runs in the
// processed state.
//
// # Usage Example
//
//	rows := ledger.Snapshot(raw, cfg.TitleColumn, width)
//	idx := reconcile.BuildIndex(rows)
//	m := reconcile.NewMatcher(rows, reconcile.DefaultThreshold)
//	row, score := reconcile.FindRow(event, st.FileRowCache, idx, m)
package reconcile
