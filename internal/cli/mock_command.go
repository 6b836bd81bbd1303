package cli

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockCommand is a mock implementation of Command
type MockCommand struct {
	mock.Mock
}

func (m *MockCommand) Name() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockCommand) Description() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockCommand) Run(ctx context.Context, cmdArgs []string) error {
	args := m.Called(ctx, cmdArgs)
	return args.Error(0)
}
