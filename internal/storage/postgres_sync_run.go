package storage

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"gitlab.com/peopleclay/api/push-activity-service/internal/apperrors"
	"gitlab.com/peopleclay/api/push-activity-service/internal/model"
	"gitlab.com/peopleclay/api/push-activity-service/internal/observer"
	"gitlab.com/peopleclay/api/push-activity-service/pkg/logger"
	"gitlab.com/peopleclay/api/push-activity-service/pkg/utils"
)

// SaveSyncRun records a completed reconciliation cycle in sync_history.
func (r *PostgresRepo) SaveSyncRun(ctx context.Context, run model.SyncRun) error {
	loggerCtx := logger.FromContext(ctx)

	operation := func() error {
		result := r.db.WithContext(ctx).Create(&run)
		if result.Error != nil {
			return checkConstraintViolation(result.Error)
		}
		return nil
	}

	commitPolicy := newRetryPolicy(ctx, commitRetryMaxElapsedTime)
	startTime := utils.Now()
	commitErr := retryableOperation(ctx, commitPolicy, "SaveSyncRun Commit", operation)
	observer.ObserveDbOperationDuration("insert", "sync_run", time.Since(startTime), commitErr)

	if commitErr != nil {
		loggerCtx.Error("Failed to save sync run after retries",
			zap.String("run_id", run.RunID),
			zap.Error(commitErr))
		return commitErr // Already wrapped
	}

	return nil
}

// FindLatestSyncRun returns the most recently started sync run.
func (r *PostgresRepo) FindLatestSyncRun(ctx context.Context) (*model.SyncRun, error) {
	loggerCtx := logger.FromContext(ctx)

	var run model.SyncRun
	operation := func() error {
		result := r.db.WithContext(ctx).Order("started_at DESC, id DESC").Take(&run)
		if result.Error != nil {
			return checkConstraintViolation(result.Error)
		}
		return nil
	}

	readPolicy := newRetryPolicy(ctx, readRetryMaxElapsedTime)
	startTime := utils.Now()
	findErr := retryableOperation(ctx, readPolicy, "FindLatestSyncRun", operation)
	observer.ObserveDbOperationDuration("find_latest", "sync_run", time.Since(startTime), findErr)

	if findErr != nil {
		if errors.Is(findErr, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		loggerCtx.Error("Failed to find latest sync run after retries", zap.Error(findErr))
		return nil, findErr // Already wrapped
	}

	return &run, nil
}

// CountSyncRuns returns the total number of recorded sync cycles.
func (r *PostgresRepo) CountSyncRuns(ctx context.Context) (int64, error) {
	loggerCtx := logger.FromContext(ctx)

	var count int64
	operation := func() error {
		result := r.db.WithContext(ctx).Model(&model.SyncRun{}).Count(&count)
		if result.Error != nil {
			return checkConstraintViolation(result.Error)
		}
		return nil
	}

	readPolicy := newRetryPolicy(ctx, readRetryMaxElapsedTime)
	startTime := utils.Now()
	findErr := retryableOperation(ctx, readPolicy, "CountSyncRuns", operation)
	observer.ObserveDbOperationDuration("count", "sync_run", time.Since(startTime), findErr)

	if findErr != nil {
		loggerCtx.Error("Failed to count sync runs after retries", zap.Error(findErr))
		return 0, findErr // Already wrapped
	}

	return count, nil
}
