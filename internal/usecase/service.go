package usecase

import (
	"context"
	"errors"
	"sync"

	"gitlab.com/peopleclay/api/push-activity-service/internal/apperrors"
	"gitlab.com/peopleclay/api/push-activity-service/internal/config"
	"gitlab.com/peopleclay/api/push-activity-service/internal/crm"
	"gitlab.com/peopleclay/api/push-activity-service/internal/model"
	"gitlab.com/peopleclay/api/push-activity-service/internal/storage"
	"gitlab.com/peopleclay/api/push-activity-service/internal/upstream"
)

// PushActivityService implements the dashboard core: campaign views, push
// state and the reconciliation cycle against the upstream feed.
type PushActivityService struct {
	campaignRepo   storage.CampaignRepo
	leadRepo       storage.LeadRepo
	pushRecordRepo storage.PushRecordRepo
	changeLogRepo  storage.ChangeLogRepo
	syncRunRepo    storage.SyncRunRepo
	feed           upstream.Feed
	publisher      crm.Publisher
	syncCfg        config.SyncConfig

	// syncMu serializes reconciliation cycles: a second trigger while one
	// is running is rejected, never queued.
	syncMu sync.Mutex
}

// NewPushActivityService creates a new push activity service
func NewPushActivityService(
	campaignRepo storage.CampaignRepo,
	leadRepo storage.LeadRepo,
	pushRecordRepo storage.PushRecordRepo,
	changeLogRepo storage.ChangeLogRepo,
	syncRunRepo storage.SyncRunRepo,
	feed upstream.Feed,
	publisher crm.Publisher,
	syncCfg config.SyncConfig,
) *PushActivityService {
	return &PushActivityService{
		campaignRepo:   campaignRepo,
		leadRepo:       leadRepo,
		pushRecordRepo: pushRecordRepo,
		changeLogRepo:  changeLogRepo,
		syncRunRepo:    syncRunRepo,
		feed:           feed,
		publisher:      publisher,
		syncCfg:        syncCfg,
	}
}

// GetChangeLog returns the newest change log entries, later inserts first.
func (s *PushActivityService) GetChangeLog(ctx context.Context, limit int) ([]model.ChangeLogEntry, error) {
	return s.changeLogRepo.FindRecent(ctx, limit)
}

// GetSyncStats reports current store totals plus the latest recorded run.
func (s *PushActivityService) GetSyncStats(ctx context.Context) (*model.SyncStats, error) {
	campaigns, err := s.campaignRepo.FindActive(ctx)
	if err != nil {
		return nil, err
	}

	leadCount, err := s.leadRepo.CountActive(ctx)
	if err != nil {
		return nil, err
	}

	runCount, err := s.syncRunRepo.CountRuns(ctx)
	if err != nil {
		return nil, err
	}

	latest, err := s.syncRunRepo.FindLatest(ctx)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	return &model.SyncStats{
		TotalCampaigns: len(campaigns),
		TotalLeads:     int(leadCount),
		TotalSyncRuns:  int(runCount),
		LatestRun:      latest,
	}, nil
}
