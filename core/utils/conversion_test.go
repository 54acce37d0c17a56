package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToString(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"Inner Bloom", "Inner Bloom"},
		{[]byte("x"), "x"},
		{float64(2025), "2025"},
		{1.5, "1.5"},
		{true, "true"},
		{42, "42"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ToString(tt.in), "%#v", tt.in)
	}
}

func TestToInt(t *testing.T) {
	tests := []struct {
		in   any
		want int
	}{
		{7, 7},
		{int64(8), 8},
		{float64(9), 9},
		{"10", 10},
		{[]byte("11"), 11},
		{"x", 0},
		{nil, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ToInt(tt.in), "%#v", tt.in)
	}
}
