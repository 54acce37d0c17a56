package audit

import (
	"time"

	"dropbox-comments/core/reconcile"
)

// Entry is one processed comment notification.
type Entry struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	CycleID      string    `gorm:"size:36;index" json:"cycle_id"`
	LoggedAt     time.Time `json:"logged_at"`
	EventID      string    `gorm:"size:255;index" json:"event_id"`
	FileName     string    `gorm:"size:512" json:"file_name"`
	Commenter    string    `gorm:"size:255" json:"commenter"`
	CommentedAt  time.Time `json:"commented_at"`
	MatchedTitle string    `gorm:"size:512" json:"matched_title"`
	MatchedRow   int       `json:"matched_row"`
	Score        float64   `json:"score"`
	CommentText  string    `gorm:"type:text" json:"comment_text"`
}

// TableName overrides the table name used by Entry.
func (Entry) TableName() string {
	return "audit_entries"
}

// Matched reports whether the comment was written to a ledger row.
func (e Entry) Matched() bool {
	return e.MatchedRow > 0
}

// NewEntry builds the entry for one event. row is nil for unmatched events.
func NewEntry(cycleID string, loggedAt time.Time, ev reconcile.CommentEvent, row *reconcile.LedgerRow, score float64) Entry {
	e := Entry{
		CycleID:     cycleID,
		LoggedAt:    loggedAt,
		EventID:     ev.EventID,
		FileName:    ev.FileName,
		Commenter:   ev.Commenter,
		CommentedAt: ev.OccurredAt,
		Score:       score,
		CommentText: ev.CommentText,
	}
	if row != nil {
		e.MatchedTitle = row.Title
		e.MatchedRow = row.RowNumber
	}
	return e
}
