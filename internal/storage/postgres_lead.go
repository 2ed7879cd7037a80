package storage

import (
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm/clause"

	"gitlab.com/peopleclay/api/push-activity-service/internal/model"
	"gitlab.com/peopleclay/api/push-activity-service/internal/observer"
	"gitlab.com/peopleclay/api/push-activity-service/pkg/logger"
	"gitlab.com/peopleclay/api/push-activity-service/pkg/utils"
)

// BulkUpsertLeads inserts leads, updating the mutable columns of rows whose
// upstream ID already exists.
func (r *PostgresRepo) BulkUpsertLeads(ctx context.Context, leads []model.Lead) error {
	if len(leads) == 0 {
		return nil
	}
	loggerCtx := logger.FromContext(ctx)

	for i := range leads {
		leads[i].LastUpdated = utils.Now() // Ensure LastUpdated is set
	}

	operation := func() error {
		result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns(model.LeadUpdateColumns()),
		}).Create(&leads)

		if result.Error != nil {
			return checkConstraintViolation(result.Error)
		}
		return nil
	}

	commitPolicy := newRetryPolicy(ctx, commitRetryMaxElapsedTime)
	startTime := utils.Now()
	commitErr := retryableOperation(ctx, commitPolicy, "BulkUpsertLeads Commit", operation)
	observer.ObserveDbOperationDuration("bulk_upsert", "lead", time.Since(startTime), commitErr)

	if commitErr != nil {
		loggerCtx.Error("Failed to bulk upsert leads after retries", zap.Int("count", len(leads)), zap.Error(commitErr))
		return commitErr // Already wrapped
	}

	return nil
}

// FindActiveLeadsByCampaignID reads all active leads of a campaign in fixed
// size pages. A page shorter than the page size ends the scan; any page
// error aborts the whole read.
func (r *PostgresRepo) FindActiveLeadsByCampaignID(ctx context.Context, campaignID string) ([]model.Lead, error) {
	loggerCtx := logger.FromContext(ctx)

	var all []model.Lead
	startTime := utils.Now()
	offset := 0
	for {
		var page []model.Lead
		operation := func() error {
			page = page[:0]
			result := r.db.WithContext(ctx).
				Where("campaign_id = ? AND is_active = ?", campaignID, true).
				Order("id ASC").
				Limit(r.leadPageSize).
				Offset(offset).
				Find(&page)
			if result.Error != nil {
				return checkConstraintViolation(result.Error)
			}
			return nil
		}

		readPolicy := newRetryPolicy(ctx, readRetryMaxElapsedTime)
		findErr := retryableOperation(ctx, readPolicy, "FindActiveLeadsByCampaignID", operation)
		if findErr != nil {
			observer.ObserveDbOperationDuration("find_by_campaign", "lead", time.Since(startTime), findErr)
			loggerCtx.Error("Failed to read lead page after retries",
				zap.String("campaign_id", campaignID),
				zap.Int("offset", offset),
				zap.Error(findErr))
			return nil, findErr // Already wrapped
		}

		all = append(all, page...)
		if len(page) < r.leadPageSize {
			break
		}
		offset += r.leadPageSize
	}

	observer.ObserveDbOperationDuration("find_by_campaign", "lead", time.Since(startTime), nil)
	return all, nil
}

// CountActiveLeads returns the number of active leads across all campaigns.
func (r *PostgresRepo) CountActiveLeads(ctx context.Context) (int64, error) {
	loggerCtx := logger.FromContext(ctx)

	var count int64
	operation := func() error {
		result := r.db.WithContext(ctx).Model(&model.Lead{}).
			Where("is_active = ?", true).
			Count(&count)
		if result.Error != nil {
			return checkConstraintViolation(result.Error)
		}
		return nil
	}

	readPolicy := newRetryPolicy(ctx, readRetryMaxElapsedTime)
	startTime := utils.Now()
	findErr := retryableOperation(ctx, readPolicy, "CountActiveLeads", operation)
	observer.ObserveDbOperationDuration("count", "lead", time.Since(startTime), findErr)

	if findErr != nil {
		loggerCtx.Error("Failed to count active leads after retries", zap.Error(findErr))
		return 0, findErr // Already wrapped
	}

	return count, nil
}

// DeactivateLeadsByIDs flags leads no longer reported by upstream.
func (r *PostgresRepo) DeactivateLeadsByIDs(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	loggerCtx := logger.FromContext(ctx)

	operation := func() error {
		result := r.db.WithContext(ctx).Model(&model.Lead{}).
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
	commitErr := retryableOperation(ctx, commitPolicy, "DeactivateLeadsByIDs Commit", operation)
	observer.ObserveDbOperationDuration("deactivate", "lead", time.Since(startTime), commitErr)

	if commitErr != nil {
		loggerCtx.Error("Failed to deactivate leads after retries", zap.Int("count", len(ids)), zap.Error(commitErr))
		return commitErr // Already wrapped
	}

	return nil
}

// DeactivateLeadsByCampaignIDs flags every lead of the given campaigns.
// Used when a whole campaign drops out of the upstream feed.
func (r *PostgresRepo) DeactivateLeadsByCampaignIDs(ctx context.Context, campaignIDs []string) error {
	if len(campaignIDs) == 0 {
		return nil
	}
	loggerCtx := logger.FromContext(ctx)

	operation := func() error {
		result := r.db.WithContext(ctx).Model(&model.Lead{}).
			Where("campaign_id IN ?", campaignIDs).
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
	commitErr := retryableOperation(ctx, commitPolicy, "DeactivateLeadsByCampaignIDs Commit", operation)
	observer.ObserveDbOperationDuration("deactivate_by_campaign", "lead", time.Since(startTime), commitErr)

	if commitErr != nil {
		loggerCtx.Error("Failed to deactivate leads by campaign after retries", zap.Strings("campaign_ids", campaignIDs), zap.Error(commitErr))
		return commitErr // Already wrapped
	}

	return nil
}
