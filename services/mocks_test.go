package services

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/techagentng/civilink/models"
)

// MockMediaService is a mock implementation of the MediaService interface
type MockMediaService struct {
	mock.Mock
}

func (m *MockMediaService) StoreImage(ctx context.Context, upload *models.Upload) (*StoredImage, error) {
	args := m.Called(ctx, upload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*StoredImage), args.Error(1)
}

// MockMailer is a mock implementation of the Mailer interface
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) SendWelcome(ctx context.Context, to, name string) error {
	args := m.Called(ctx, to, name)
	return args.Error(0)
}
