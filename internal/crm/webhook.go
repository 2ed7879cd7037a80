package crm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"gitlab.com/peopleclay/api/push-activity-service/internal/apperrors"
	"gitlab.com/peopleclay/api/push-activity-service/internal/config"
	"gitlab.com/peopleclay/api/push-activity-service/pkg/logger"
)

// WebhookPublisher posts push events to an automation webhook as JSON.
type WebhookPublisher struct {
	url        string
	httpClient *http.Client
}

// NewWebhookPublisher creates a webhook-backed Publisher.
func NewWebhookPublisher(cfg config.CRMConfig) *WebhookPublisher {
	return &WebhookPublisher{
		url:        cfg.WebhookURL,
		httpClient: &http.Client{Timeout: cfg.HTTPTimeout},
	}
}

// PublishPushedCompanies posts the event. Any non-2xx answer counts as a
// failed publish; the caller must not mark companies pushed in that case.
func (p *WebhookPublisher) PublishPushedCompanies(ctx context.Context, event PushEvent) error {
	loggerCtx := logger.FromContext(ctx)

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%w: encoding push event: %w", apperrors.ErrPublish, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%w: building request: %w", apperrors.ErrPublish, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		loggerCtx.Error("Webhook publish failed",
			zap.String("campaign_id", event.CampaignID),
			zap.Error(err))
		return fmt.Errorf("%w: %w", apperrors.ErrPublish, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		loggerCtx.Error("Webhook publish rejected",
			zap.String("campaign_id", event.CampaignID),
			zap.Int("status", resp.StatusCode))
		return fmt.Errorf("%w: webhook returned %d", apperrors.ErrPublish, resp.StatusCode)
	}

	loggerCtx.Info("Push event published to webhook",
		zap.String("campaign_id", event.CampaignID),
		zap.Int("companies", event.Count))
	return nil
}

// Close is a no-op for the webhook transport.
func (p *WebhookPublisher) Close(ctx context.Context) error {
	return nil
}

var _ Publisher = (*WebhookPublisher)(nil)
