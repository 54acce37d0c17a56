package comments

import (
	"context"

	"dropbox-comments/core/reconcile"
)

// Source yields comment events that have not been acknowledged yet.
//
// Fetching has no side effects: an event keeps being returned until Ack is
// called with its id, so a cycle that fails before committing sees it again.
type Source interface {
	FetchPendingEvents(ctx context.Context) ([]reconcile.CommentEvent, error)
	Ack(ctx context.Context, ids []string) error
}
