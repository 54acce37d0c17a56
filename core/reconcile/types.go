package reconcile

import "time"

// CommentEvent is one notification that someone commented on a remote file.
// Events are immutable once fetched.
type CommentEvent struct {
	// EventID is the stable, unique identifier assigned by the comment source.
	EventID string `json:"event_id"`

	// FileName is the name of the file the comment was left on.
	FileName string `json:"file_name"`

	// CommentText is the body of the comment.
	CommentText string `json:"comment_text"`

	// Commenter is the display name of the author.
	Commenter string `json:"commenter"`

	// OccurredAt is when the comment was made. Sources that cannot determine
	// a zone report UTC.
	OccurredAt time.Time `json:"occurred_at"`
}

// LedgerRow is one row of a ledger snapshot.
// RowNumber is 1-based and only meaningful within the snapshot that produced it.
type LedgerRow struct {
	RowNumber int
	Title     string
	Values    []string
}

// FileRowBinding remembers which row a file name was last matched to.
type FileRowBinding struct {
	RowNumber int    `json:"row_number"`
	Title     string `json:"title"`
}

// MatchResult is the outcome of a successful fuzzy match.
type MatchResult struct {
	RowNumber int
	RowTitle  string

	// Score is the similarity in [0,1].
	Score float64
}
