package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// spyMatcher records how often fuzzy matching was attempted.
type spyMatcher struct {
	inner TitleMatcher
	calls int
}

func (s *spyMatcher) Match(candidate string) (MatchResult, bool) {
	s.calls++
	return s.inner.Match(candidate)
}

func setupFind(ledger []LedgerRow) (*RowIndex, *spyMatcher) {
	return BuildIndex(ledger), &spyMatcher{inner: NewMatcher(ledger, DefaultThreshold)}
}

func TestFindRow_TrustedBinding(t *testing.T) {
	ledger := []LedgerRow{
		{RowNumber: 2, Title: "Night Shift"},
		{RowNumber: 5, Title: "Inner Bloom"},
	}
	idx, spy := setupFind(ledger)
	bindings := map[string]FileRowBinding{
		"Vera_Something Else.wav": {RowNumber: 5, Title: "Inner Bloom"},
	}

	row, score := FindRow(CommentEvent{FileName: "Vera_Something Else.wav"}, bindings, idx, spy)

	require.NotNil(t, row)
	assert.Equal(t, 5, row.RowNumber)
	assert.Equal(t, 1.0, score)
	assert.Equal(t, 0, spy.calls, "a trusted binding must not fall back to fuzzy matching")
}

func TestFindRow_StaleBindingRebinds(t *testing.T) {
	ledger := []LedgerRow{
		{RowNumber: 5, Title: "Renamed Track"},
		{RowNumber: 9, Title: "inner bloom"},
		{RowNumber: 12, Title: "Inner Bloom"},
	}
	idx, spy := setupFind(ledger)
	bindings := map[string]FileRowBinding{
		"Vera_Inner Bloom.wav": {RowNumber: 5, Title: "Inner Bloom"},
	}

	row, score := FindRow(CommentEvent{FileName: "Vera_Inner Bloom.wav"}, bindings, idx, spy)

	require.NotNil(t, row)
	assert.Equal(t, 9, row.RowNumber)
	assert.Equal(t, 1.0, score)
	assert.Equal(t, 0, spy.calls)
	assert.Equal(t, FileRowBinding{RowNumber: 9, Title: "inner bloom"}, bindings["Vera_Inner Bloom.wav"])
}

func TestFindRow_StaleBindingFallsBackToFuzzy(t *testing.T) {
	ledger := []LedgerRow{
		{RowNumber: 2, Title: "Golden Hours"},
	}
	idx, spy := setupFind(ledger)
	bindings := map[string]FileRowBinding{
		"Artist_Golden Hour.wav": {RowNumber: 7, Title: "Deleted Song"},
	}

	row, score := FindRow(CommentEvent{FileName: "Artist_Golden Hour.wav"}, bindings, idx, spy)

	require.NotNil(t, row)
	assert.Equal(t, 2, row.RowNumber)
	assert.Less(t, score, 1.0)
	assert.Equal(t, 1, spy.calls)
	assert.Equal(t, FileRowBinding{RowNumber: 2, Title: "Golden Hours"}, bindings["Artist_Golden Hour.wav"])
}

func TestFindRow_CacheMissRecordsBinding(t *testing.T) {
	idx, spy := setupFind([]LedgerRow{{RowNumber: 3, Title: "Inner Bloom"}})
	bindings := map[string]FileRowBinding{}

	row, score := FindRow(CommentEvent{FileName: "Vera_Inner Bloom.wav"}, bindings, idx, spy)

	require.NotNil(t, row)
	assert.Equal(t, 3, row.RowNumber)
	assert.Equal(t, 1.0, score)
	assert.Equal(t, FileRowBinding{RowNumber: 3, Title: "Inner Bloom"}, bindings["Vera_Inner Bloom.wav"])

	// Second lookup is served by the binding.
	row, _ = FindRow(CommentEvent{FileName: "Vera_Inner Bloom.wav"}, bindings, idx, spy)
	require.NotNil(t, row)
	assert.Equal(t, 1, spy.calls)
}

func TestFindRow_NoMatch(t *testing.T) {
	idx, spy := setupFind([]LedgerRow{{RowNumber: 2, Title: "Midnight Drive"}})
	bindings := map[string]FileRowBinding{}

	row, score := FindRow(CommentEvent{FileName: "midnight_drive_master.wav"}, bindings, idx, spy)

	assert.Nil(t, row)
	assert.Equal(t, 0.0, score)
	assert.Empty(t, bindings, "bindings are never created speculatively")
}

func TestFindRow_EmptyBindingTitleIgnored(t *testing.T) {
	ledger := []LedgerRow{
		{RowNumber: 2, Title: ""},
		{RowNumber: 3, Title: "Inner Bloom"},
	}
	idx, spy := setupFind(ledger)
	bindings := map[string]FileRowBinding{
		"Vera_Inner Bloom.wav": {RowNumber: 2, Title: "!!"},
	}

	row, _ := FindRow(CommentEvent{FileName: "Vera_Inner Bloom.wav"}, bindings, idx, spy)

	require.NotNil(t, row)
	assert.Equal(t, 3, row.RowNumber)
	assert.Equal(t, 1, spy.calls)
}
