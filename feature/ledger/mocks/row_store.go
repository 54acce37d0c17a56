package mocks

import (
	"context"

	"dropbox-comments/feature/ledger"

	"github.com/stretchr/testify/mock"
)

// RowStore is a mock implementation of ledger.RowStore
type RowStore struct {
	mock.Mock
}

func (m *RowStore) ReadRows(ctx context.Context, rng string) ([]string, [][]string, error) {
	args := m.Called(ctx, rng)
	var header []string
	if h, ok := args.Get(0).([]string); ok {
		header = h
	}
	var rows [][]string
	if r, ok := args.Get(1).([][]string); ok {
		rows = r
	}
	return header, rows, args.Error(2)
}

func (m *RowStore) WriteCells(ctx context.Context, row int, cells []ledger.Cell) error {
	args := m.Called(ctx, row, cells)
	return args.Error(0)
}

func (m *RowStore) AppendRows(ctx context.Context, sheet string, rows [][]string) error {
	args := m.Called(ctx, sheet, rows)
	return args.Error(0)
}

func (m *RowStore) EnsureSheet(ctx context.Context, name string, header []string) error {
	args := m.Called(ctx, name, header)
	return args.Error(0)
}

func (m *RowStore) SetHeaderCell(ctx context.Context, column int, value string) error {
	args := m.Called(ctx, column, value)
	return args.Error(0)
}
