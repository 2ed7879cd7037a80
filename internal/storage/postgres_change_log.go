package storage

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"gitlab.com/peopleclay/api/push-activity-service/internal/apperrors"
	"gitlab.com/peopleclay/api/push-activity-service/internal/model"
	"gitlab.com/peopleclay/api/push-activity-service/internal/observer"
	"gitlab.com/peopleclay/api/push-activity-service/pkg/logger"
	"gitlab.com/peopleclay/api/push-activity-service/pkg/utils"
)

// AppendChangeLog appends a single entry to the change ledger.
func (r *PostgresRepo) AppendChangeLog(ctx context.Context, entry model.ChangeLogEntry) error {
	loggerCtx := logger.FromContext(ctx)

	if !entry.ChangeType.Valid() {
		return fmt.Errorf("%w: unknown change type %q", apperrors.ErrValidation, entry.ChangeType)
	}
	if entry.ChangeTimestamp.IsZero() {
		entry.ChangeTimestamp = utils.Now()
	}

	operation := func() error {
		result := r.db.WithContext(ctx).Create(&entry)
		if result.Error != nil {
			return checkConstraintViolation(result.Error)
		}
		return nil
	}

	commitPolicy := newRetryPolicy(ctx, commitRetryMaxElapsedTime)
	startTime := utils.Now()
	commitErr := retryableOperation(ctx, commitPolicy, "AppendChangeLog Commit", operation)
	observer.ObserveDbOperationDuration("insert", "change_log", time.Since(startTime), commitErr)

	if commitErr != nil {
		loggerCtx.Error("Failed to append change log entry after retries",
			zap.String("change_type", string(entry.ChangeType)),
			zap.String("campaign_id", entry.CampaignID),
			zap.Error(commitErr))
		return commitErr // Already wrapped
	}

	return nil
}

// AppendChangeLogBatch appends all diff-derived entries of a sync cycle in a
// single insert.
func (r *PostgresRepo) AppendChangeLogBatch(ctx context.Context, entries []model.ChangeLogEntry) error {
	if len(entries) == 0 {
		return nil
	}
	loggerCtx := logger.FromContext(ctx)

	now := utils.Now()
	for i := range entries {
		if !entries[i].ChangeType.Valid() {
			return fmt.Errorf("%w: unknown change type %q", apperrors.ErrValidation, entries[i].ChangeType)
		}
		if entries[i].ChangeTimestamp.IsZero() {
			entries[i].ChangeTimestamp = now
		}
	}

	operation := func() error {
		result := r.db.WithContext(ctx).Create(&entries)
		if result.Error != nil {
			return checkConstraintViolation(result.Error)
		}
		return nil
	}

	commitPolicy := newRetryPolicy(ctx, commitRetryMaxElapsedTime)
	startTime := utils.Now()
	commitErr := retryableOperation(ctx, commitPolicy, "AppendChangeLogBatch Commit", operation)
	observer.ObserveDbOperationDuration("bulk_insert", "change_log", time.Since(startTime), commitErr)

	if commitErr != nil {
		loggerCtx.Error("Failed to append change log batch after retries",
			zap.Int("entries", len(entries)),
			zap.Error(commitErr))
		return commitErr // Already wrapped
	}

	loggerCtx.Info("Change log batch appended", zap.Int("entries", len(entries)))
	return nil
}

// FindRecentChangeLogs returns the newest entries first. Entries sharing a
// timestamp are ordered by descending id, so the later insert wins the tie.
func (r *PostgresRepo) FindRecentChangeLogs(ctx context.Context, limit int) ([]model.ChangeLogEntry, error) {
	loggerCtx := logger.FromContext(ctx)

	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive, got %d", apperrors.ErrValidation, limit)
	}

	var entries []model.ChangeLogEntry
	operation := func() error {
		result := r.db.WithContext(ctx).
			Order("change_timestamp DESC, id DESC").
			Limit(limit).
			Find(&entries)
		if result.Error != nil {
			return checkConstraintViolation(result.Error)
		}
		return nil
	}

	readPolicy := newRetryPolicy(ctx, readRetryMaxElapsedTime)
	startTime := utils.Now()
	findErr := retryableOperation(ctx, readPolicy, "FindRecentChangeLogs", operation)
	observer.ObserveDbOperationDuration("find_recent", "change_log", time.Since(startTime), findErr)

	if findErr != nil {
		loggerCtx.Error("Failed to find recent change log entries after retries",
			zap.Int("limit", limit),
			zap.Error(findErr))
		return nil, findErr // Already wrapped
	}

	return entries, nil
}
