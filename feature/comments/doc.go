// Package comments turns Dropbox comment notifications into comment events.
//
// Dropbox mails a notification for every comment on a shared file; the
// producer forwards them into a Gmail mailbox. GmailSource lists the pending
// messages, keeps those whose subject mentions a comment, and parses each one
// into a reconcile.CommentEvent. A message is marked read only after it parsed.
//
// # Parsing
//
// The subject carries the commenter and the file name:
//
//	Fwd: Charlie Cavenius commented on "Vera Sol_Inner Bloom.wav"
//
// The body carries the comment. ExtractCommentText skips forwarding headers,
// starts after the "Month Day" line Dropbox prints above the comment and stops
// at the reply link. Bodies that do not follow that layout fall back to the
// whole text with links removed.
//
// # Failures
//
// Listing failures and OAuth problems are wrapped with
// reconcile.ErrSourceUnavailable and abort the poll. A single message that
// cannot be fetched or parsed is logged and skipped.
package comments
