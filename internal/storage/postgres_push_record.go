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

// MarkPushed records the given companies as pushed for a campaign. Pairs
// already recorded are silently skipped via ON CONFLICT DO NOTHING on the
// (campaign_id, company_name) unique index, which makes repeat pushes
// idempotent. Returns the number of rows actually inserted.
func (r *PostgresRepo) MarkPushed(ctx context.Context, campaignID string, companies []string) (int64, error) {
	if len(companies) == 0 {
		return 0, nil
	}
	loggerCtx := logger.FromContext(ctx)

	records := make([]model.PushRecord, 0, len(companies))
	now := utils.Now()
	for _, company := range companies {
		records = append(records, model.PushRecord{
			CampaignID:  campaignID,
			CompanyName: company,
			PushedAt:    now,
		})
	}

	var inserted int64
	operation := func() error {
		result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "campaign_id"}, {Name: "company_name"}},
			DoNothing: true,
		}).Create(&records)

		if result.Error != nil {
			return checkConstraintViolation(result.Error)
		}
		inserted = result.RowsAffected
		return nil
	}

	commitPolicy := newRetryPolicy(ctx, commitRetryMaxElapsedTime)
	startTime := utils.Now()
	commitErr := retryableOperation(ctx, commitPolicy, "MarkPushed Commit", operation)
	observer.ObserveDbOperationDuration("insert_ignore", "push_record", time.Since(startTime), commitErr)

	if commitErr != nil {
		loggerCtx.Error("Failed to mark companies as pushed after retries",
			zap.String("campaign_id", campaignID),
			zap.Int("companies", len(companies)),
			zap.Error(commitErr))
		return 0, commitErr // Already wrapped
	}

	return inserted, nil
}

// FindPushedCompaniesByCampaignID returns every company ever pushed for a
// campaign, in insertion order.
func (r *PostgresRepo) FindPushedCompaniesByCampaignID(ctx context.Context, campaignID string) ([]string, error) {
	loggerCtx := logger.FromContext(ctx)

	var companies []string
	operation := func() error {
		result := r.db.WithContext(ctx).Model(&model.PushRecord{}).
			Where("campaign_id = ?", campaignID).
			Order("id ASC").
			Pluck("company_name", &companies)
		if result.Error != nil {
			return checkConstraintViolation(result.Error)
		}
		return nil
	}

	readPolicy := newRetryPolicy(ctx, readRetryMaxElapsedTime)
	startTime := utils.Now()
	findErr := retryableOperation(ctx, readPolicy, "FindPushedCompaniesByCampaignID", operation)
	observer.ObserveDbOperationDuration("find_by_campaign", "push_record", time.Since(startTime), findErr)

	if findErr != nil {
		loggerCtx.Error("Failed to find pushed companies after retries",
			zap.String("campaign_id", campaignID),
			zap.Error(findErr))
		return nil, findErr // Already wrapped
	}

	return companies, nil
}

// HasAnyPushRecordForCampaign reports whether a campaign has ever been pushed.
func (r *PostgresRepo) HasAnyPushRecordForCampaign(ctx context.Context, campaignID string) (bool, error) {
	loggerCtx := logger.FromContext(ctx)

	var count int64
	operation := func() error {
		result := r.db.WithContext(ctx).Model(&model.PushRecord{}).
			Where("campaign_id = ?", campaignID).
			Count(&count)
		if result.Error != nil {
			return checkConstraintViolation(result.Error)
		}
		return nil
	}

	readPolicy := newRetryPolicy(ctx, readRetryMaxElapsedTime)
	startTime := utils.Now()
	findErr := retryableOperation(ctx, readPolicy, "HasAnyPushRecordForCampaign", operation)
	observer.ObserveDbOperationDuration("count", "push_record", time.Since(startTime), findErr)

	if findErr != nil {
		loggerCtx.Error("Failed to count push records after retries",
			zap.String("campaign_id", campaignID),
			zap.Error(findErr))
		return false, findErr // Already wrapped
	}

	return count > 0, nil
}
