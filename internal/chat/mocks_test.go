package chat

import (
	"context"

	"github.com/Shubham-Rasal/anp-chat/internal/taskrouter"
	"github.com/stretchr/testify/mock"
)

// MockRouter mocks the taskrouter.Router interface
type MockRouter struct {
	mock.Mock
}

func (m *MockRouter) Route(ctx context.Context, query, authToken string) (*taskrouter.Decision, error) {
	args := m.Called(ctx, query, authToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*taskrouter.Decision), args.Error(1)
}
