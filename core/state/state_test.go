package state

import (
	"testing"
	"time"

	"dropbox-comments/core/reconcile"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleState() *ProcessedState {
	st := New()
	st.MarkProcessed("18f3c")
	st.MarkProcessed("18f1a")
	st.MarkProcessed("18f2b")
	st.FileRowCache["Vera Sol_Night Shift_v2.wav"] = reconcile.FileRowBinding{RowNumber: 4, Title: "Night Shift"}
	st.FileRowCache["Vera Sol_Inner Bloom.wav"] = reconcile.FileRowBinding{RowNumber: 9, Title: "Inner Bloom"}
	st.Touch(time.Date(2025, 3, 1, 12, 30, 45, 999, time.UTC))
	return st
}

func TestMarshal_Golden(t *testing.T) {
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)

	t.Run("state_file", func(t *testing.T) {
		data, err := sampleState().Marshal()
		require.NoError(t, err)
		g.Assert(t, "state_file", data)
	})

	t.Run("empty_state", func(t *testing.T) {
		data, err := New().Marshal()
		require.NoError(t, err)
		g.Assert(t, "empty_state", data)
	})
}

func TestUnmarshal_RoundTrip(t *testing.T) {
	data, err := sampleState().Marshal()
	require.NoError(t, err)

	st, err := Unmarshal(data)
	require.NoError(t, err)

	assert.Equal(t, []string{"18f1a", "18f2b", "18f3c"}, st.SortedIDs())
	assert.Equal(t, reconcile.FileRowBinding{RowNumber: 9, Title: "Inner Bloom"}, st.FileRowCache["Vera Sol_Inner Bloom.wav"])
	require.NotNil(t, st.LastPolled)
	assert.True(t, st.LastPolled.Equal(time.Date(2025, 3, 1, 12, 30, 45, 0, time.UTC)))
}

func TestUnmarshal_Tolerant(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		ids      []string
		bindings int
		polled   bool
	}{
		{
			name:  "EmptyObject",
			input: `{}`,
			ids:   []string{},
		},
		{
			name:     "UnknownKeysIgnored",
			input:    `{"processed_comment_ids": ["a"], "schema": 3, "extra": {"x": 1}}`,
			ids:      []string{"a"},
			bindings: 0,
		},
		{
			name:     "MalformedCacheEntrySkipped",
			input:    `{"file_row_cache": {"good.wav": {"row_number": 2, "title": "Good"}, "bad.wav": "nope"}}`,
			ids:      []string{},
			bindings: 1,
		},
		{
			name:     "StringRowNumberAccepted",
			input:    `{"file_row_cache": {"a.wav": {"row_number": "7", "title": "A"}, "b.wav": {"row_number": 0, "title": "B"}}}`,
			ids:      []string{},
			bindings: 1,
		},
		{
			name:  "CacheNotAnObject",
			input: `{"file_row_cache": [1, 2]}`,
			ids:   []string{},
		},
		{
			name:  "NonStringIDsSkipped",
			input: `{"processed_comment_ids": ["a", 7, null, "b"]}`,
			ids:   []string{"a", "b"},
		},
		{
			name:  "NullLastPolled",
			input: `{"last_polled": null}`,
			ids:   []string{},
		},
		{
			name:   "NumericOffsetLastPolled",
			input:  `{"last_polled": "2025-01-05T08:00:00+00:00"}`,
			ids:    []string{},
			polled: true,
		},
		{
			name:  "GarbageLastPolled",
			input: `{"last_polled": "yesterday"}`,
			ids:   []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, err := Unmarshal([]byte(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.ids, st.SortedIDs())
			assert.Len(t, st.FileRowCache, tt.bindings)
			assert.Equal(t, tt.polled, st.LastPolled != nil)
		})
	}
}

func TestUnmarshal_InvalidJSON(t *testing.T) {
	_, err := Unmarshal([]byte(`{"processed_comment_ids": [`))
	assert.Error(t, err)
}

func TestClone(t *testing.T) {
	orig := sampleState()
	clone := orig.Clone()

	clone.MarkProcessed("new")
	clone.FileRowCache["x.wav"] = reconcile.FileRowBinding{RowNumber: 1, Title: "X"}
	clone.Touch(time.Now())

	assert.False(t, orig.Has("new"))
	assert.NotContains(t, orig.FileRowCache, "x.wav")
	assert.Equal(t, "2025-03-01T12:30:45Z", orig.LastPolled.Format(time.RFC3339))
}
