package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/peopleclay/api/push-activity-service/internal/apperrors"
	"gitlab.com/peopleclay/api/push-activity-service/internal/model"
)

func TestGetChangeLog(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()

	expected := []model.ChangeLogEntry{
		*model.NewChangeLogEntry(&model.ChangeLogEntry{ChangeType: model.ChangeLeadAdded}),
		*model.NewChangeLogEntry(&model.ChangeLogEntry{ChangeType: model.ChangeCampaignAdded}),
	}
	f.changeLogRepo.On("FindRecent", ctx, 50).Return(expected, nil)

	entries, err := f.service.GetChangeLog(ctx, 50)

	require.NoError(t, err)
	assert.Equal(t, expected, entries)
}

func TestGetSyncStats(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()

	latest := &model.SyncRun{RunID: "run-1", CampaignsProcessed: 3}
	f.campaignRepo.On("FindActive", ctx).Return([]model.Campaign{*model.NewCampaign(), *model.NewCampaign()}, nil)
	f.leadRepo.On("CountActive", ctx).Return(int64(42), nil)
	f.syncRunRepo.On("CountRuns", ctx).Return(int64(7), nil)
	f.syncRunRepo.On("FindLatest", ctx).Return(latest, nil)

	stats, err := f.service.GetSyncStats(ctx)

	require.NoError(t, err)
	assert.Equal(t, &model.SyncStats{TotalCampaigns: 2, TotalLeads: 42, TotalSyncRuns: 7, LatestRun: latest}, stats)
}

func TestGetSyncStats_NoRunsYet(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()

	f.campaignRepo.On("FindActive", ctx).Return([]model.Campaign{}, nil)
	f.leadRepo.On("CountActive", ctx).Return(int64(0), nil)
	f.syncRunRepo.On("CountRuns", ctx).Return(int64(0), nil)
	f.syncRunRepo.On("FindLatest", ctx).Return(nil, apperrors.ErrNotFound)

	stats, err := f.service.GetSyncStats(ctx)

	require.NoError(t, err)
	assert.Nil(t, stats.LatestRun)
	assert.Zero(t, stats.TotalCampaigns)
}
