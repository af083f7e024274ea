package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"quizgen/internal/model"
)

type MockQuestionService struct {
	mock.Mock
}

func (m *MockQuestionService) ValidateFilename(filename string) error {
	args := m.Called(filename)
	return args.Error(0)
}

func (m *MockQuestionService) Generate(ctx context.Context, file model.UploadedFile, opts model.GenerationOptions) (*model.GenerationResult, error) {
	args := m.Called(ctx, file, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.GenerationResult), args.Error(1)
}

func (m *MockQuestionService) Source(ctx context.Context, req model.DownloadRequest) (*model.Artifact, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Artifact), args.Error(1)
}

func (m *MockQuestionService) Render(ctx context.Context, req model.DownloadRequest) (*model.Artifact, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Artifact), args.Error(1)
}
