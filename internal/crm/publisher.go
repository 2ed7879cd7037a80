package crm

import (
	"context"
	"fmt"

	"gitlab.com/peopleclay/api/push-activity-service/internal/config"
)

// PushEvent is the activity record published to the downstream CRM when a
// batch of companies is pushed for a campaign.
type PushEvent struct {
	CampaignID string   `json:"campaign_id"`
	Companies  []string `json:"companies"`
	Timestamp  string   `json:"timestamp"`
	Count      int      `json:"count"`
}

// Publisher delivers push events to the CRM activity log. Publishing happens
// BEFORE companies are marked as pushed, so a failed publish leaves no
// push-state behind.
type Publisher interface {
	PublishPushedCompanies(ctx context.Context, event PushEvent) error
	Close(ctx context.Context) error
}

// NewPublisher builds the configured Publisher transport.
func NewPublisher(cfg config.CRMConfig) (Publisher, error) {
	switch cfg.Transport {
	case "webhook":
		return NewWebhookPublisher(cfg), nil
	case "jetstream":
		return NewJetStreamPublisher(cfg)
	default:
		return nil, fmt.Errorf("unknown crm transport %q", cfg.Transport)
	}
}
