package usecase

import (
	"context"
	"fmt"

	"gitlab.com/peopleclay/api/push-activity-service/internal/apperrors"
	"gitlab.com/peopleclay/api/push-activity-service/internal/crm"
	"gitlab.com/peopleclay/api/push-activity-service/internal/model"
	"gitlab.com/peopleclay/api/push-activity-service/internal/observer"
	"gitlab.com/peopleclay/api/push-activity-service/pkg/logger"
	"gitlab.com/peopleclay/api/push-activity-service/pkg/utils"

	"go.uber.org/zap"
)

// GetPushStatus computes where a campaign stands relative to its push
// history. NewCompanies counts current eligible companies never marked as
// pushed; the "push new" action is only offered once a first full push
// happened and something new has since appeared.
func (s *PushActivityService) GetPushStatus(ctx context.Context, campaignID string) (*model.PushStatus, error) {
	if _, err := s.campaignRepo.FindByID(ctx, campaignID); err != nil {
		return nil, err
	}

	leads, err := s.leadRepo.FindActiveByCampaignID(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	current := UniqueEligibleCompanies(leads)

	everPushed, err := s.pushRecordRepo.HasAnyForCampaign(ctx, campaignID)
	if err != nil {
		return nil, err
	}

	status := &model.PushStatus{
		HasEverBeenPushed: everPushed,
		TotalCompanies:    len(current),
		NewCompanies:      len(current),
	}
	if everPushed {
		pushed, err := s.pushRecordRepo.FindCompaniesByCampaignID(ctx, campaignID)
		if err != nil {
			return nil, err
		}
		status.NewCompanies = len(subtractCompanies(current, pushed))
	}
	status.ShowPushNew = status.HasEverBeenPushed && status.NewCompanies > 0
	return status, nil
}

// PushAll publishes every current eligible company of the campaign to the
// CRM and marks them as pushed. Companies already marked stay marked; the
// republish is intentional.
func (s *PushActivityService) PushAll(ctx context.Context, campaignID string) (*model.PushResult, error) {
	return s.push(ctx, campaignID, model.ChangePushAll)
}

// PushNew publishes only the companies that appeared since the last push.
func (s *PushActivityService) PushNew(ctx context.Context, campaignID string) (*model.PushResult, error) {
	return s.push(ctx, campaignID, model.ChangePushNew)
}

func (s *PushActivityService) push(ctx context.Context, campaignID string, action model.ChangeType) (*model.PushResult, error) {
	log := logger.FromContext(ctx)

	campaign, err := s.campaignRepo.FindByID(ctx, campaignID)
	if err != nil {
		return nil, err
	}

	leads, err := s.leadRepo.FindActiveByCampaignID(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	companies := UniqueEligibleCompanies(leads)

	if action == model.ChangePushNew {
		pushed, err := s.pushRecordRepo.FindCompaniesByCampaignID(ctx, campaignID)
		if err != nil {
			return nil, err
		}
		companies = subtractCompanies(companies, pushed)
	}

	observer.IncPushRequest(string(action))
	if len(companies) == 0 {
		return nil, fmt.Errorf("%w: no companies to push for campaign %s", apperrors.ErrBadRequest, campaignID)
	}

	// Publish first. If the CRM never hears about the companies they must
	// not be marked, or they would silently fall out of every future push.
	event := crm.PushEvent{
		CampaignID: campaignID,
		Companies:  companies,
		Timestamp:  utils.FormatISO8601(utils.Now()),
		Count:      len(companies),
	}
	if err := s.publisher.PublishPushedCompanies(ctx, event); err != nil {
		observer.IncPushPublishError(string(action), err)
		return nil, fmt.Errorf("publishing push event: %w", err)
	}

	result := &model.PushResult{
		Action:    action,
		Companies: companies,
	}

	inserted, err := s.pushRecordRepo.MarkPushed(ctx, campaignID, companies)
	if err != nil {
		// The publish went out; retry company by company so one bad row
		// does not lose the whole batch's push state.
		log.Warn("Batch push-state write failed, retrying per company",
			zap.String("campaign_id", campaignID), zap.Error(err))
		inserted = 0
		for _, company := range companies {
			n, markErr := s.pushRecordRepo.MarkPushed(ctx, campaignID, []string{company})
			if markErr != nil {
				result.Failed = append(result.Failed, company)
				continue
			}
			inserted += n
		}
	}
	result.PushedCompanyCount = len(companies) - len(result.Failed)
	observer.AddPushedCompanies(string(action), result.PushedCompanyCount)

	entry := model.ChangeLogEntry{
		ChangeType:   action,
		CampaignID:   campaignID,
		CampaignName: campaign.Name,
		Details: fmt.Sprintf("Pushed %d companies to CRM (%d newly marked)",
			result.PushedCompanyCount, inserted),
	}
	if err := s.changeLogRepo.Append(ctx, entry); err != nil {
		// The push itself succeeded; the missing ledger row is reported on
		// the result, never as a push failure.
		log.Error("Failed to append push change log entry",
			zap.String("campaign_id", campaignID), zap.Error(err))
		result.Errors = append(result.Errors, fmt.Sprintf("change log append: %v", err))
	}

	log.Info("Push completed",
		zap.String("campaign_id", campaignID),
		zap.String("action", string(action)),
		zap.Int("companies", result.PushedCompanyCount),
		zap.Int("failed", len(result.Failed)))
	return result, nil
}

// subtractCompanies returns the members of current not present in pushed,
// preserving order.
func subtractCompanies(current, pushed []string) []string {
	marked := make(map[string]struct{}, len(pushed))
	for _, company := range pushed {
		marked[company] = struct{}{}
	}
	remaining := make([]string, 0, len(current))
	for _, company := range current {
		if _, ok := marked[company]; !ok {
			remaining = append(remaining, company)
		}
	}
	return remaining
}
