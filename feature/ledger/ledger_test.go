package ledger_test

import (
	"testing"

	"dropbox-comments/feature/ledger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshot(t *testing.T) {
	raw := [][]string{
		{"Vera Sol", "2025", "Demo", "Inner Bloom"},
		{"Vera Sol"},
		{"A", "B", "C", "Night Shift", "E", "F", "G", "H", "extra"},
	}

	rows := ledger.Snapshot(raw, 3, 8)
	require.Len(t, rows, 3)

	assert.Equal(t, 2, rows[0].RowNumber)
	assert.Equal(t, "Inner Bloom", rows[0].Title)
	assert.Len(t, rows[0].Values, 8)

	assert.Equal(t, 3, rows[1].RowNumber)
	assert.Equal(t, "", rows[1].Title)
	assert.Len(t, rows[1].Values, 8)

	assert.Equal(t, 4, rows[2].RowNumber)
	assert.Equal(t, "Night Shift", rows[2].Title)
	assert.Len(t, rows[2].Values, 9)
}

func TestSnapshot_Empty(t *testing.T) {
	assert.Empty(t, ledger.Snapshot(nil, 3, 8))
}

func TestPad_DoesNotAlias(t *testing.T) {
	row := []string{"a"}
	padded := ledger.Pad(row, 3)
	padded[0] = "changed"
	assert.Equal(t, "a", row[0])
	assert.Equal(t, []string{"changed", "", ""}, padded)
}
