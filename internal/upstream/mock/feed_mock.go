package mock

import (
	"context"

	"github.com/stretchr/testify/mock"
	"gitlab.com/peopleclay/api/push-activity-service/internal/model"
)

// FeedMock mocks the upstream.Feed interface
type FeedMock struct {
	mock.Mock
}

// FetchRunningCampaigns mocks the FetchRunningCampaigns method
func (m *FeedMock) FetchRunningCampaigns(ctx context.Context) ([]model.CampaignPayload, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.CampaignPayload), args.Error(1)
}

// FetchCampaignLeads mocks the FetchCampaignLeads method
func (m *FeedMock) FetchCampaignLeads(ctx context.Context, campaignID string) ([]model.LeadPayload, error) {
	args := m.Called(ctx, campaignID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.LeadPayload), args.Error(1)
}
