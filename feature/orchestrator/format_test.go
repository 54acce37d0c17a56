package orchestrator

import (
	"testing"
	"time"

	"dropbox-comments/core/reconcile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatComment(t *testing.T) {
	at := time.Date(2025, 3, 1, 12, 30, 45, 0, time.UTC)
	plus2 := time.FixedZone("plus2", 2*60*60)

	tests := []struct {
		name string
		ev   reconcile.CommentEvent
		loc  *time.Location
		want string
	}{
		{"WithText", reconcile.CommentEvent{Commenter: "Ana", CommentText: "  Love it \n", OccurredAt: at}, time.UTC, "2025-03-01 12:30 • Ana\nLove it"},
		{"NoCommenter", reconcile.CommentEvent{CommentText: "Hi", OccurredAt: at}, time.UTC, "2025-03-01 12:30 • Unknown\nHi"},
		{"NoText", reconcile.CommentEvent{Commenter: "Ana", CommentText: "   ", OccurredAt: at}, time.UTC, "2025-03-01 12:30 • Ana"},
		{"LocalZone", reconcile.CommentEvent{Commenter: "Ana", OccurredAt: at}, plus2, "2025-03-01 14:30 • Ana"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatComment(tt.ev, tt.loc))
		})
	}
}

func TestFormatTimestamp(t *testing.T) {
	at := time.Date(2025, 3, 1, 12, 30, 45, 999, time.UTC)
	assert.Equal(t, "2025-03-01T12:30:45+00:00", FormatTimestamp(at, time.UTC))
	assert.Equal(t, "2025-03-01T07:30:45-05:00", FormatTimestamp(at, time.FixedZone("minus5", -5*60*60)))
}

func TestAuditRow(t *testing.T) {
	logged := time.Date(2025, 3, 1, 13, 0, 0, 0, time.UTC)
	ev := reconcile.CommentEvent{
		EventID:     "18f1a",
		FileName:    "Vera Sol_Inner Bloom.wav",
		CommentText: "Love it",
		Commenter:   "Charlie",
		OccurredAt:  time.Date(2025, 3, 1, 12, 30, 0, 0, time.FixedZone("minus5", -5*60*60)),
	}

	t.Run("Matched", func(t *testing.T) {
		row := AuditRow(logged, time.UTC, ev, &reconcile.LedgerRow{RowNumber: 9, Title: "Inner Bloom"}, 0.9231)
		require.Len(t, row, len(AuditHeader))
		assert.Equal(t, []string{
			"2025-03-01T13:00:00+00:00",
			"Vera Sol_Inner Bloom.wav",
			"",
			"",
			"18f1a",
			"Charlie",
			"2025-03-01T12:30:00-05:00",
			"Inner Bloom",
			"9",
			"0.92",
			"Love it",
		}, row)
	})

	t.Run("Unmatched", func(t *testing.T) {
		row := AuditRow(logged, time.UTC, ev, nil, 0)
		assert.Equal(t, "", row[7])
		assert.Equal(t, "", row[8])
		assert.Equal(t, "", row[9])
	})
}
