package storage

import (
	"context"

	"gitlab.com/peopleclay/api/push-activity-service/internal/model"
)

// CampaignRepoAdapter adapts the PostgresRepo to the CampaignRepo interface
type CampaignRepoAdapter struct {
	postgres *PostgresRepo
}

// NewCampaignRepoAdapter creates a new campaign repository adapter
func NewCampaignRepoAdapter(postgres *PostgresRepo) CampaignRepo {
	return &CampaignRepoAdapter{postgres: postgres}
}

// BulkUpsert performs a bulk upsert of campaigns
func (a *CampaignRepoAdapter) BulkUpsert(ctx context.Context, campaigns []model.Campaign) error {
	return a.postgres.BulkUpsertCampaigns(ctx, campaigns)
}

// FindActive returns the currently active campaigns
func (a *CampaignRepoAdapter) FindActive(ctx context.Context) ([]model.Campaign, error) {
	return a.postgres.FindActiveCampaigns(ctx)
}

// FindByID finds a campaign by its upstream ID
func (a *CampaignRepoAdapter) FindByID(ctx context.Context, id string) (*model.Campaign, error) {
	return a.postgres.FindCampaignByID(ctx, id)
}

// DeactivateByIDs flags campaigns as inactive
func (a *CampaignRepoAdapter) DeactivateByIDs(ctx context.Context, ids []string) error {
	return a.postgres.DeactivateCampaignsByIDs(ctx, ids)
}

func (a *CampaignRepoAdapter) Close(ctx context.Context) error {
	return a.postgres.Close(ctx)
}

// LeadRepoAdapter adapts the PostgresRepo to the LeadRepo interface
type LeadRepoAdapter struct {
	postgres *PostgresRepo
}

// NewLeadRepoAdapter creates a new lead repository adapter
func NewLeadRepoAdapter(postgres *PostgresRepo) LeadRepo {
	return &LeadRepoAdapter{postgres: postgres}
}

// BulkUpsert performs a bulk upsert of leads
func (a *LeadRepoAdapter) BulkUpsert(ctx context.Context, leads []model.Lead) error {
	return a.postgres.BulkUpsertLeads(ctx, leads)
}

// FindActiveByCampaignID returns the active leads of a campaign
func (a *LeadRepoAdapter) FindActiveByCampaignID(ctx context.Context, campaignID string) ([]model.Lead, error) {
	return a.postgres.FindActiveLeadsByCampaignID(ctx, campaignID)
}

// CountActive returns the number of active leads across all campaigns
func (a *LeadRepoAdapter) CountActive(ctx context.Context) (int64, error) {
	return a.postgres.CountActiveLeads(ctx)
}

// DeactivateByIDs flags leads as inactive
func (a *LeadRepoAdapter) DeactivateByIDs(ctx context.Context, ids []string) error {
	return a.postgres.DeactivateLeadsByIDs(ctx, ids)
}

// DeactivateByCampaignIDs flags every lead of the given campaigns as inactive
func (a *LeadRepoAdapter) DeactivateByCampaignIDs(ctx context.Context, campaignIDs []string) error {
	return a.postgres.DeactivateLeadsByCampaignIDs(ctx, campaignIDs)
}

func (a *LeadRepoAdapter) Close(ctx context.Context) error {
	return a.postgres.Close(ctx)
}

// PushRecordRepoAdapter adapts the PostgresRepo to the PushRecordRepo interface
type PushRecordRepoAdapter struct {
	postgres *PostgresRepo
}

// NewPushRecordRepoAdapter creates a new push record repository adapter
func NewPushRecordRepoAdapter(postgres *PostgresRepo) PushRecordRepo {
	return &PushRecordRepoAdapter{postgres: postgres}
}

// MarkPushed records companies as pushed for a campaign
func (a *PushRecordRepoAdapter) MarkPushed(ctx context.Context, campaignID string, companies []string) (int64, error) {
	return a.postgres.MarkPushed(ctx, campaignID, companies)
}

// FindCompaniesByCampaignID returns every company ever pushed for a campaign
func (a *PushRecordRepoAdapter) FindCompaniesByCampaignID(ctx context.Context, campaignID string) ([]string, error) {
	return a.postgres.FindPushedCompaniesByCampaignID(ctx, campaignID)
}

// HasAnyForCampaign reports whether a campaign has ever been pushed
func (a *PushRecordRepoAdapter) HasAnyForCampaign(ctx context.Context, campaignID string) (bool, error) {
	return a.postgres.HasAnyPushRecordForCampaign(ctx, campaignID)
}

func (a *PushRecordRepoAdapter) Close(ctx context.Context) error {
	return a.postgres.Close(ctx)
}

// ChangeLogRepoAdapter adapts the PostgresRepo to the ChangeLogRepo interface
type ChangeLogRepoAdapter struct {
	postgres *PostgresRepo
}

// NewChangeLogRepoAdapter creates a new change log repository adapter
func NewChangeLogRepoAdapter(postgres *PostgresRepo) ChangeLogRepo {
	return &ChangeLogRepoAdapter{postgres: postgres}
}

// Append appends a single change log entry
func (a *ChangeLogRepoAdapter) Append(ctx context.Context, entry model.ChangeLogEntry) error {
	return a.postgres.AppendChangeLog(ctx, entry)
}

// AppendBatch appends a batch of change log entries
func (a *ChangeLogRepoAdapter) AppendBatch(ctx context.Context, entries []model.ChangeLogEntry) error {
	return a.postgres.AppendChangeLogBatch(ctx, entries)
}

// FindRecent returns the newest change log entries
func (a *ChangeLogRepoAdapter) FindRecent(ctx context.Context, limit int) ([]model.ChangeLogEntry, error) {
	return a.postgres.FindRecentChangeLogs(ctx, limit)
}

func (a *ChangeLogRepoAdapter) Close(ctx context.Context) error {
	return a.postgres.Close(ctx)
}

// SyncRunRepoAdapter adapts the PostgresRepo to the SyncRunRepo interface
type SyncRunRepoAdapter struct {
	postgres *PostgresRepo
}

// NewSyncRunRepoAdapter creates a new sync history repository adapter
func NewSyncRunRepoAdapter(postgres *PostgresRepo) SyncRunRepo {
	return &SyncRunRepoAdapter{postgres: postgres}
}

// Save records a completed sync run
func (a *SyncRunRepoAdapter) Save(ctx context.Context, run model.SyncRun) error {
	return a.postgres.SaveSyncRun(ctx, run)
}

// FindLatest returns the most recently started sync run
func (a *SyncRunRepoAdapter) FindLatest(ctx context.Context) (*model.SyncRun, error) {
	return a.postgres.FindLatestSyncRun(ctx)
}

// CountRuns returns the total number of recorded sync cycles
func (a *SyncRunRepoAdapter) CountRuns(ctx context.Context) (int64, error) {
	return a.postgres.CountSyncRuns(ctx)
}

func (a *SyncRunRepoAdapter) Close(ctx context.Context) error {
	return a.postgres.Close(ctx)
}

// Ensure adapters implement the interfaces
var _ CampaignRepo = (*CampaignRepoAdapter)(nil)
var _ LeadRepo = (*LeadRepoAdapter)(nil)
var _ PushRecordRepo = (*PushRecordRepoAdapter)(nil)
var _ ChangeLogRepo = (*ChangeLogRepoAdapter)(nil)
var _ SyncRunRepo = (*SyncRunRepoAdapter)(nil)
