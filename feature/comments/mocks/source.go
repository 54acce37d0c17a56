package mocks

import (
	"context"

	"dropbox-comments/core/reconcile"

	"github.com/stretchr/testify/mock"
)

// Source is a mock implementation of comments.Source
type Source struct {
	mock.Mock
}

func (m *Source) FetchPendingEvents(ctx context.Context) ([]reconcile.CommentEvent, error) {
	args := m.Called(ctx)
	if events, ok := args.Get(0).([]reconcile.CommentEvent); ok {
		return events, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Source) Ack(ctx context.Context, ids []string) error {
	args := m.Called(ctx, ids)
	return args.Error(0)
}
