package storage

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm/clause"

	"gitlab.com/peopleclay/api/push-activity-service/internal/apperrors"
	"gitlab.com/peopleclay/api/push-activity-service/internal/model"
	"gitlab.com/peopleclay/api/push-activity-service/internal/observer"
	"gitlab.com/peopleclay/api/push-activity-service/pkg/logger"
	"gitlab.com/peopleclay/api/push-activity-service/pkg/utils"
)

// BulkUpsertCampaigns inserts campaigns, updating the mutable columns of
// rows whose upstream ID already exists.
func (r *PostgresRepo) BulkUpsertCampaigns(ctx context.Context, campaigns []model.Campaign) error {
	if len(campaigns) == 0 {
		return nil
	}
	loggerCtx := logger.FromContext(ctx)

	for i := range campaigns {
		campaigns[i].LastUpdated = utils.Now() // Ensure LastUpdated is set
	}

	operation := func() error {
		result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns(model.CampaignUpdateColumns()),
		}).Create(&campaigns)

		if result.Error != nil {
			return checkConstraintViolation(result.Error)
		}
		return nil
	}

	commitPolicy := newRetryPolicy(ctx, commitRetryMaxElapsedTime)
	startTime := utils.Now()
	commitErr := retryableOperation(ctx, commitPolicy, "BulkUpsertCampaigns Commit", operation)
	observer.ObserveDbOperationDuration("bulk_upsert", "campaign", time.Since(startTime), commitErr)

	if commitErr != nil {
		loggerCtx.Error("Failed to bulk upsert campaigns after retries", zap.Int("count", len(campaigns)), zap.Error(commitErr))
		return commitErr // Already wrapped
	}

	return nil
}

// FindActiveCampaigns returns stored campaigns still reported by upstream.
func (r *PostgresRepo) FindActiveCampaigns(ctx context.Context) ([]model.Campaign, error) {
	loggerCtx := logger.FromContext(ctx)

	var campaigns []model.Campaign
	operation := func() error {
		result := r.db.WithContext(ctx).Where("is_active = ?", true).Order("name ASC").Find(&campaigns)
		if result.Error != nil {
			// Find multiple doesn't return ErrRecordNotFound
			return checkConstraintViolation(result.Error)
		}
		return nil // Success, even if no records found
	}

	readPolicy := newRetryPolicy(ctx, readRetryMaxElapsedTime)
	startTime := utils.Now()
	findErr := retryableOperation(ctx, readPolicy, "FindActiveCampaigns", operation)
	observer.ObserveDbOperationDuration("find_active", "campaign", time.Since(startTime), findErr)

	if findErr != nil {
		loggerCtx.Error("Failed to find active campaigns after retries", zap.Error(findErr))
		return nil, findErr
	}

	return campaigns, nil
}

// FindCampaignByID finds a campaign by its upstream ID.
func (r *PostgresRepo) FindCampaignByID(ctx context.Context, id string) (*model.Campaign, error) {
	loggerCtx := logger.FromContext(ctx)

	var campaign model.Campaign
	operation := func() error {
		result := r.db.WithContext(ctx).Where("id = ?", id).First(&campaign)
		if result.Error != nil {
			return checkConstraintViolation(result.Error)
		}
		return nil
	}

	readPolicy := newRetryPolicy(ctx, readRetryMaxElapsedTime)
	startTime := utils.Now()
	findErr := retryableOperation(ctx, readPolicy, "FindCampaignByID", operation)
	observer.ObserveDbOperationDuration("find", "campaign", time.Since(startTime), findErr)

	if findErr != nil {
		if errors.Is(findErr, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		loggerCtx.Error("Failed to find campaign by id after retries",
			zap.String("campaign_id", id),
			zap.Error(findErr))
		return nil, findErr // Already wrapped
	}

	return &campaign, nil
}

// DeactivateCampaignsByIDs flags campaigns no longer reported by upstream.
// Rows are kept so the change log and push history keep their referents.
func (r *PostgresRepo) DeactivateCampaignsByIDs(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	loggerCtx := logger.FromContext(ctx)

	operation := func() error {
		result := r.db.WithContext(ctx).Model(&model.Campaign{}).
			Where("id IN ?", ids).
			Updates(map[string]interface{}{
				"is_active":    false,
				"last_updated": utils.Now(),
			})
		if result.Error != nil {
			return checkConstraintViolation(result.Error)
		}
		return nil
	}

	commitPolicy := newRetryPolicy(ctx, commitRetryMaxElapsedTime)
	startTime := utils.Now()
	commitErr := retryableOperation(ctx, commitPolicy, "DeactivateCampaignsByIDs Commit", operation)
	observer.ObserveDbOperationDuration("deactivate", "campaign", time.Since(startTime), commitErr)

	if commitErr != nil {
		loggerCtx.Error("Failed to deactivate campaigns after retries", zap.Strings("campaign_ids", ids), zap.Error(commitErr))
		return commitErr // Already wrapped
	}

	return nil
}
