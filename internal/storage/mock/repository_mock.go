package mock

import (
	"context"

	"github.com/stretchr/testify/mock"
	"gitlab.com/peopleclay/api/push-activity-service/internal/model"
)

// --- CampaignRepo Mock ---

// CampaignRepoMock mocks the CampaignRepo interface
type CampaignRepoMock struct {
	mock.Mock
}

// BulkUpsert mocks the BulkUpsert method
func (m *CampaignRepoMock) BulkUpsert(ctx context.Context, campaigns []model.Campaign) error {
	args := m.Called(ctx, campaigns)
	return args.Error(0)
}

// FindActive mocks the FindActive method
func (m *CampaignRepoMock) FindActive(ctx context.Context) ([]model.Campaign, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Campaign), args.Error(1)
}

// FindByID mocks the FindByID method
func (m *CampaignRepoMock) FindByID(ctx context.Context, id string) (*model.Campaign, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Campaign), args.Error(1)
}

// DeactivateByIDs mocks the DeactivateByIDs method
func (m *CampaignRepoMock) DeactivateByIDs(ctx context.Context, ids []string) error {
	args := m.Called(ctx, ids)
	return args.Error(0)
}

func (m *CampaignRepoMock) Close(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// --- LeadRepo Mock ---

// LeadRepoMock mocks the LeadRepo interface
type LeadRepoMock struct {
	mock.Mock
}

// BulkUpsert mocks the BulkUpsert method
func (m *LeadRepoMock) BulkUpsert(ctx context.Context, leads []model.Lead) error {
	args := m.Called(ctx, leads)
	return args.Error(0)
}

// FindActiveByCampaignID mocks the FindActiveByCampaignID method
func (m *LeadRepoMock) FindActiveByCampaignID(ctx context.Context, campaignID string) ([]model.Lead, error) {
	args := m.Called(ctx, campaignID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Lead), args.Error(1)
}

// CountActive mocks the CountActive method
func (m *LeadRepoMock) CountActive(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// DeactivateByIDs mocks the DeactivateByIDs method
func (m *LeadRepoMock) DeactivateByIDs(ctx context.Context, ids []string) error {
	args := m.Called(ctx, ids)
	return args.Error(0)
}

// DeactivateByCampaignIDs mocks the DeactivateByCampaignIDs method
func (m *LeadRepoMock) DeactivateByCampaignIDs(ctx context.Context, campaignIDs []string) error {
	args := m.Called(ctx, campaignIDs)
	return args.Error(0)
}

func (m *LeadRepoMock) Close(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// --- PushRecordRepo Mock ---

// PushRecordRepoMock mocks the PushRecordRepo interface
type PushRecordRepoMock struct {
	mock.Mock
}

// MarkPushed mocks the MarkPushed method
func (m *PushRecordRepoMock) MarkPushed(ctx context.Context, campaignID string, companies []string) (int64, error) {
	args := m.Called(ctx, campaignID, companies)
	return args.Get(0).(int64), args.Error(1)
}

// FindCompaniesByCampaignID mocks the FindCompaniesByCampaignID method
func (m *PushRecordRepoMock) FindCompaniesByCampaignID(ctx context.Context, campaignID string) ([]string, error) {
	args := m.Called(ctx, campaignID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// HasAnyForCampaign mocks the HasAnyForCampaign method
func (m *PushRecordRepoMock) HasAnyForCampaign(ctx context.Context, campaignID string) (bool, error) {
	args := m.Called(ctx, campaignID)
	return args.Bool(0), args.Error(1)
}

func (m *PushRecordRepoMock) Close(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// --- ChangeLogRepo Mock ---

// ChangeLogRepoMock mocks the ChangeLogRepo interface
type ChangeLogRepoMock struct {
	mock.Mock
}

// Append mocks the Append method
func (m *ChangeLogRepoMock) Append(ctx context.Context, entry model.ChangeLogEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

// AppendBatch mocks the AppendBatch method
func (m *ChangeLogRepoMock) AppendBatch(ctx context.Context, entries []model.ChangeLogEntry) error {
	args := m.Called(ctx, entries)
	return args.Error(0)
}

// FindRecent mocks the FindRecent method
func (m *ChangeLogRepoMock) FindRecent(ctx context.Context, limit int) ([]model.ChangeLogEntry, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ChangeLogEntry), args.Error(1)
}

func (m *ChangeLogRepoMock) Close(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// --- SyncRunRepo Mock ---

// SyncRunRepoMock mocks the SyncRunRepo interface
type SyncRunRepoMock struct {
	mock.Mock
}

// Save mocks the Save method
func (m *SyncRunRepoMock) Save(ctx context.Context, run model.SyncRun) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

// FindLatest mocks the FindLatest method
func (m *SyncRunRepoMock) FindLatest(ctx context.Context) (*model.SyncRun, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SyncRun), args.Error(1)
}

// CountRuns mocks the CountRuns method
func (m *SyncRunRepoMock) CountRuns(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *SyncRunRepoMock) Close(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
