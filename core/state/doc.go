// Package state persists what the sync engine has already done.
//
// The ProcessedState records every comment event id that was handled, the
// file-name to row bindings learned from matching, and the time of the last
// poll. It is the unit of idempotency: an event id present in the state is
// never processed again, so the set only grows for the lifetime of a file.
//
// # File format
//
// The state is a JSON object with keys processed_comment_ids (sorted array),
// file_row_cache (file name -> {row_number, title}) and last_polled (RFC 3339
// string or null). Unknown keys are ignored on load and missing keys default
// to empty values.
//
// # Durability
//
// Save writes to a temporary file in the same directory and renames it over
// the target, so a concurrent reader never observes a partial write. An
// optional Mirror receives a copy of every saved snapshot (for example an S3
// bucket, see MinioMirror) and is used to restore the file when it is missing
// locally.
//
// # Usage
//
//	store := state.NewStore("data/processed_state.json", state.WithLogger(log))
//	st, err := store.Load(ctx)
//	st.MarkProcessed("msg-1")
//	err = store.Save(ctx, st)
package state
