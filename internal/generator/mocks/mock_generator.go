package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"quizgen/internal/model"
)

type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) Generate(ctx context.Context, text string, opts model.GenerationOptions) (string, error) {
	args := m.Called(ctx, text, opts)
	return args.String(0), args.Error(1)
}
