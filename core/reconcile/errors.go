package reconcile

import "errors"

var (
	// ErrSourceUnavailable wraps transport or auth failures of the comment source.
	ErrSourceUnavailable = errors.New("comment source unavailable")

	// ErrStoreUnavailable wraps transport or auth failures of the row store.
	ErrStoreUnavailable = errors.New("row store unavailable")
)
