package upstream

import (
	"context"

	"gitlab.com/peopleclay/api/push-activity-service/internal/model"
)

// Feed abstracts the outreach-campaign source system. It delivers the raw
// (campaign, lead) tuples a reconciliation cycle works from; the core never
// talks to the vendor API directly.
type Feed interface {
	// FetchRunningCampaigns returns every campaign the feed currently
	// reports as running.
	FetchRunningCampaigns(ctx context.Context) ([]model.CampaignPayload, error)

	// FetchCampaignLeads returns all leads of a campaign, in every state.
	FetchCampaignLeads(ctx context.Context, campaignID string) ([]model.LeadPayload, error)
}
