package archive

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockClient mocks the archive Client interface
type MockClient struct {
	mock.Mock
}

func (m *MockClient) ListItems(ctx context.Context) ([]Item, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Item), args.Error(1)
}

func (m *MockClient) StoreItem(ctx context.Context, agentID, dataType, content string, metadata map[string]any) (string, error) {
	args := m.Called(ctx, agentID, dataType, content, metadata)
	return args.String(0), args.Error(1)
}

func (m *MockClient) StoreSharedItem(ctx context.Context, dataType, content string, metadata map[string]any) (string, error) {
	args := m.Called(ctx, dataType, content, metadata)
	return args.String(0), args.Error(1)
}

func (m *MockClient) RequestApproval(ctx context.Context, subject string) error {
	args := m.Called(ctx, subject)
	return args.Error(0)
}
