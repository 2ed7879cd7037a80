package mock

import (
	"context"

	"github.com/stretchr/testify/mock"
	"gitlab.com/peopleclay/api/push-activity-service/internal/crm"
)

// PublisherMock mocks the crm.Publisher interface
type PublisherMock struct {
	mock.Mock
}

// PublishPushedCompanies mocks the PublishPushedCompanies method
func (m *PublisherMock) PublishPushedCompanies(ctx context.Context, event crm.PushEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// Close mocks the Close method
func (m *PublisherMock) Close(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
