package usecase

import (
	"context"

	"gitlab.com/peopleclay/api/push-activity-service/internal/model"
	"gitlab.com/peopleclay/api/push-activity-service/pkg/logger"

	"go.uber.org/zap"
)

// ListCampaignViews assembles the dashboard listing. Campaigns whose eligible
// leads resolve to one company or fewer are filtered out: a single-company
// campaign has nothing worth pushing as activity.
func (s *PushActivityService) ListCampaignViews(ctx context.Context) ([]model.CampaignView, error) {
	log := logger.FromContext(ctx)

	campaigns, err := s.campaignRepo.FindActive(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]model.CampaignView, 0, len(campaigns))
	for _, campaign := range campaigns {
		leads, err := s.leadRepo.FindActiveByCampaignID(ctx, campaign.ID)
		if err != nil {
			return nil, err
		}

		companies := UniqueEligibleCompanies(leads)
		if len(companies) <= 1 {
			continue
		}

		views = append(views, model.CampaignView{
			ID:                 campaign.ID,
			Name:               campaign.Name,
			Status:             campaign.Status,
			UniqueCompanyCount: len(companies),
		})
	}

	log.Debug("Assembled campaign views",
		zap.Int("active_campaigns", len(campaigns)),
		zap.Int("displayed", len(views)))
	return views, nil
}

// GetCampaignStats returns the eligible-lead aggregates for one campaign.
func (s *PushActivityService) GetCampaignStats(ctx context.Context, campaignID string) (*model.CampaignStats, error) {
	if _, err := s.campaignRepo.FindByID(ctx, campaignID); err != nil {
		return nil, err
	}

	leads, err := s.leadRepo.FindActiveByCampaignID(ctx, campaignID)
	if err != nil {
		return nil, err
	}

	stats := ComputeCampaignStats(leads)
	return &stats, nil
}
