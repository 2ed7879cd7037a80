package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"gitlab.com/peopleclay/api/push-activity-service/internal/apperrors"
	"gitlab.com/peopleclay/api/push-activity-service/internal/config"
	"gitlab.com/peopleclay/api/push-activity-service/internal/model"
	"gitlab.com/peopleclay/api/push-activity-service/internal/observer"
	"gitlab.com/peopleclay/api/push-activity-service/internal/validator"
	"gitlab.com/peopleclay/api/push-activity-service/pkg/logger"
	"gitlab.com/peopleclay/api/push-activity-service/pkg/utils"
)

const userAgent = "push-activity-service/1.0"

// LemlistClient implements Feed against the Lemlist REST API. Authentication
// is HTTP basic with an empty username and the API key as password.
type LemlistClient struct {
	baseURL    string
	apiKey     string
	pageSize   int
	maxElapsed time.Duration
	httpClient *http.Client
}

// NewLemlistClient creates a Feed backed by the Lemlist API.
func NewLemlistClient(cfg config.UpstreamConfig) (*LemlistClient, error) {
	if err := validator.ValidateVar(cfg.BaseURL, "required,url"); err != nil {
		return nil, fmt.Errorf("%w: upstream base URL %q: %w", apperrors.ErrValidation, cfg.BaseURL, err)
	}

	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = 100
	}
	return &LemlistClient{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		pageSize:   pageSize,
		maxElapsed: cfg.MaxElapsed,
		httpClient: &http.Client{Timeout: cfg.HTTPTimeout},
	}, nil
}

// campaignListResponse is the envelope of the campaign listing endpoint.
type campaignListResponse struct {
	Campaigns []model.CampaignPayload `json:"campaigns"`
}

// FetchRunningCampaigns pages through the campaign listing until a page
// returns fewer rows than requested. Any page error aborts the whole fetch.
func (c *LemlistClient) FetchRunningCampaigns(ctx context.Context) ([]model.CampaignPayload, error) {
	loggerCtx := logger.FromContext(ctx)

	var all []model.CampaignPayload
	page := 1
	for {
		params := url.Values{}
		params.Set("version", "v2")
		params.Set("limit", strconv.Itoa(c.pageSize))
		params.Set("page", strconv.Itoa(page))
		params.Set("status", "running")
		params.Set("sortBy", "createdAt")
		params.Set("sortOrder", "desc")

		body, err := c.doGet(ctx, "list_campaigns", c.baseURL+"/campaigns?"+params.Encode())
		if err != nil {
			return nil, err // Already wrapped
		}

		var resp campaignListResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, fmt.Errorf("%w: decoding campaign list: %w", apperrors.ErrUpstreamFeed, err)
		}

		for _, campaign := range resp.Campaigns {
			if err := validator.Validate(campaign); err != nil {
				return nil, fmt.Errorf("%w: invalid campaign payload: %w", apperrors.ErrUpstreamFeed, err)
			}
		}

		all = append(all, resp.Campaigns...)
		if len(resp.Campaigns) < c.pageSize {
			break
		}
		page++
	}

	loggerCtx.Info("Fetched running campaigns from upstream", zap.Int("count", len(all)))
	return all, nil
}

// FetchCampaignLeads exports all leads of a campaign regardless of state.
// The endpoint answers either with a bare array or a {"leads": [...]}
// envelope depending on export format.
func (c *LemlistClient) FetchCampaignLeads(ctx context.Context, campaignID string) ([]model.LeadPayload, error) {
	loggerCtx := logger.FromContext(ctx)

	params := url.Values{}
	params.Set("state", "all")
	params.Set("format", "json")

	endpoint := fmt.Sprintf("%s/campaigns/%s/export/leads?%s", c.baseURL, url.PathEscape(campaignID), params.Encode())
	body, err := c.doGet(ctx, "export_leads", endpoint)
	if err != nil {
		return nil, err // Already wrapped
	}

	leads, err := decodeLeadExport(body)
	if err != nil {
		return nil, fmt.Errorf("%w: decoding lead export for campaign %s: %w", apperrors.ErrUpstreamFeed, campaignID, err)
	}

	loggerCtx.Debug("Fetched campaign leads from upstream",
		zap.String("campaign_id", campaignID),
		zap.Int("count", len(leads)))
	return leads, nil
}

// decodeLeadExport accepts the two body shapes the export endpoint produces.
func decodeLeadExport(body []byte) ([]model.LeadPayload, error) {
	var leads []model.LeadPayload
	if err := utils.UnmarshalJSON(body, &leads); err == nil {
		return leads, nil
	}

	var envelope struct {
		Leads []model.LeadPayload `json:"leads"`
	}
	if err := utils.UnmarshalJSON(body, &envelope); err != nil {
		return nil, err
	}
	return envelope.Leads, nil
}

// doGet performs an authenticated GET with retry on transient failures.
// Non-2xx responses below 500 are permanent; 5xx and transport errors retry
// until the elapsed budget runs out.
func (c *LemlistClient) doGet(ctx context.Context, operation, endpoint string) ([]byte, error) {
	loggerCtx := logger.FromContext(ctx)

	request := func() ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, backoff.Permanent(fmt.Errorf("%w: building request: %w", apperrors.ErrUpstreamFeed, err))
		}
		req.SetBasicAuth("", c.apiKey)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("User-Agent", userAgent)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", apperrors.ErrUpstreamFeed, err) // Transport errors retry
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("%w: reading response body: %w", apperrors.ErrUpstreamFeed, err)
		}

		if resp.StatusCode >= http.StatusInternalServerError {
			return nil, fmt.Errorf("%w: upstream returned %d", apperrors.ErrUpstreamFeed, resp.StatusCode)
		}
		if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
			return nil, backoff.Permanent(fmt.Errorf("%w: upstream returned %d", apperrors.ErrUpstreamFeed, resp.StatusCode))
		}
		return body, nil
	}

	notify := func(err error, d time.Duration) {
		loggerCtx.Warn("Retrying upstream request",
			zap.String("operation", operation),
			zap.Error(err),
			zap.Duration("after", d),
		)
	}

	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = c.maxElapsed

	startTime := utils.Now()
	body, err := backoff.RetryNotifyWithData(request, backoff.WithContext(b, ctx), notify)
	observer.ObserveUpstreamRequestDuration(operation, time.Since(startTime), err)
	if err != nil {
		loggerCtx.Error("Upstream request failed after retries",
			zap.String("operation", operation),
			zap.Error(err))
		return nil, err
	}
	return body, nil
}

var _ Feed = (*LemlistClient)(nil)
