package storage

import (
	"context"

	"gitlab.com/peopleclay/api/push-activity-service/internal/model"
)

// CampaignRepo defines campaign storage operations
type CampaignRepo interface {
	BulkUpsert(ctx context.Context, campaigns []model.Campaign) error
	FindActive(ctx context.Context) ([]model.Campaign, error)
	FindByID(ctx context.Context, id string) (*model.Campaign, error)
	DeactivateByIDs(ctx context.Context, ids []string) error
	Close(ctx context.Context) error
}

// LeadRepo defines lead storage operations
type LeadRepo interface {
	BulkUpsert(ctx context.Context, leads []model.Lead) error
	FindActiveByCampaignID(ctx context.Context, campaignID string) ([]model.Lead, error)
	CountActive(ctx context.Context) (int64, error)
	DeactivateByIDs(ctx context.Context, ids []string) error
	DeactivateByCampaignIDs(ctx context.Context, campaignIDs []string) error
	Close(ctx context.Context) error
}

// PushRecordRepo defines push record storage operations
type PushRecordRepo interface {
	// MarkPushed inserts one record per company, skipping pairs that were
	// already recorded. It returns the number of rows actually inserted.
	MarkPushed(ctx context.Context, campaignID string, companies []string) (int64, error)
	FindCompaniesByCampaignID(ctx context.Context, campaignID string) ([]string, error)
	HasAnyForCampaign(ctx context.Context, campaignID string) (bool, error)
	Close(ctx context.Context) error
}

// ChangeLogRepo defines change log storage operations
type ChangeLogRepo interface {
	Append(ctx context.Context, entry model.ChangeLogEntry) error
	AppendBatch(ctx context.Context, entries []model.ChangeLogEntry) error
	FindRecent(ctx context.Context, limit int) ([]model.ChangeLogEntry, error)
	Close(ctx context.Context) error
}

// SyncRunRepo defines sync history storage operations
type SyncRunRepo interface {
	Save(ctx context.Context, run model.SyncRun) error
	FindLatest(ctx context.Context) (*model.SyncRun, error)
	CountRuns(ctx context.Context) (int64, error)
	Close(ctx context.Context) error
}
