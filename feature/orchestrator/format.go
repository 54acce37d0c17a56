package orchestrator

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"dropbox-comments/core/reconcile"
	"dropbox-comments/feature/comments"
)

// LastUpdateHeader is the header required above the last-update column.
const LastUpdateHeader = "Last Update"

const (
	commentStampLayout = "2006-01-02 15:04"
	isoSecondsLayout   = "2006-01-02T15:04:05-07:00"
)

// AuditHeader is the header row of the audit sheet.
var AuditHeader = []string{
	"Logged At",
	"Dropbox File Name",
	"Dropbox File Path",
	"Dropbox File ID",
	"Email Message ID",
	"Commenter",
	"Comment Created",
	"Matched Song Title",
	"Matched Sheet Row",
	"Match Score",
	"Comment Text",
}

// FormatComment renders the comment cell: a local timestamp and the
// commenter on the first line, the comment text below.
func FormatComment(ev reconcile.CommentEvent, loc *time.Location) string {
	commenter := ev.Commenter
	if commenter == "" {
		commenter = comments.UnknownCommenter
	}
	head := ev.OccurredAt.In(loc).Format(commentStampLayout) + " • " + commenter
	if text := strings.TrimSpace(ev.CommentText); text != "" {
		return head + "\n" + text
	}
	return head
}

// FormatTimestamp renders t in loc with seconds precision and a numeric offset.
func FormatTimestamp(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(isoSecondsLayout)
}

// AuditRow builds the audit sheet row for one event. row is nil when the event
// did not match.
func AuditRow(loggedAt time.Time, loc *time.Location, ev reconcile.CommentEvent, row *reconcile.LedgerRow, score float64) []string {
	title, number := "", ""
	if row != nil {
		title = row.Title
		number = strconv.Itoa(row.RowNumber)
	}
	scoreText := ""
	if score != 0 {
		scoreText = fmt.Sprintf("%.2f", score)
	}

	return []string{
		FormatTimestamp(loggedAt, loc),
		ev.FileName,
		"", // file path is not part of the notification
		"", // file id is not part of the notification
		ev.EventID,
		ev.Commenter,
		ev.OccurredAt.Format(isoSecondsLayout),
		title,
		number,
		scoreText,
		ev.CommentText,
	}
}
