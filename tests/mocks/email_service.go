package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type EmailService struct {
	mock.Mock
}

func (m *EmailService) SendNotificationEmail(ctx context.Context, toEmail, subject, message string) error {
	args := m.Called(ctx, toEmail, subject, message)
	return args.Error(0)
}
