package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockCompiler struct {
	mock.Mock
}

func (m *MockCompiler) Compile(ctx context.Context, source string) ([]byte, error) {
	args := m.Called(ctx, source)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockCompiler) Available() error {
	args := m.Called()
	return args.Error(0)
}
